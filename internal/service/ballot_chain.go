package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
)

// GenesisHash is the `previous_hash` of the first ballot of every election.
var GenesisHash = strings.Repeat("0", 64)

// ComputeBallotHash 计算一张加密选票的内容哈希。
//
// 参数：
//
//	选举 ID
//	投票时间（按毫秒计入哈希）
//	密文
//	前一张选票的哈希
//
// 返回：
//
//	十六进制 SHA-256 哈希
func ComputeBallotHash(electionID uint64, castAt time.Time, ciphertext []byte, previousHash string) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatUint(electionID, 10)))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.FormatInt(castAt.UnixMilli(), 10)))
	h.Write([]byte("|"))
	h.Write([]byte(base64.StdEncoding.EncodeToString(ciphertext)))
	h.Write([]byte("|"))
	h.Write([]byte(previousHash))

	return hex.EncodeToString(h.Sum(nil))
}

// VerifyBallotChain checks that `ballots` (in insertion order) form an unbroken chain from the genesis hash
// and that every stored hash matches the row contents.
// It returns the ID of the first offending ballot when the chain is broken.
func VerifyBallotChain(ballots []sqlmodel.EncryptedBallot) (valid bool, brokenAt *uint64) {
	expectedPrevious := GenesisHash
	for i := range ballots {
		b := &ballots[i]
		if b.PreviousHash != expectedPrevious || ComputeBallotHash(b.ElectionID, b.CastAt, b.Ciphertext, b.PreviousHash) != b.BallotHash {
			id := b.ID
			return false, &id
		}

		expectedPrevious = b.BallotHash
	}

	return true, nil
}
