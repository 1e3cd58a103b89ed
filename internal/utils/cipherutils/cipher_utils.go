// This package contains the symmetric encryption helpers used for ballots.
// Ballot keys are derived from the per-election secret with HKDF-SHA256 and ballots are sealed with AES-256-GCM.
package cipherutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// BallotKeySize is the size in bytes of a derived ballot key (AES-256).
const BallotKeySize = 32

// BallotPlaintextSize is the size of an encoded ballot choice. Every choice encodes to the same length.
const BallotPlaintextSize = 8

const ballotKeyInfo = "evote ballot encryption v1"

// DeriveBallotKey 从选举密钥材料中导出用于加密选票的 AES-256 密钥。选举 ID 作为 salt，使不同选举的密钥互不相同。
func DeriveBallotKey(secret []byte, electionID uint64) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("选举密钥材料为空")
	}

	salt := []byte(strconv.FormatUint(electionID, 10))
	reader := hkdf.New(sha256.New, secret, salt, []byte(ballotKeyInfo))

	key := make([]byte, BallotKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errors.Wrap(err, "无法导出选票密钥")
	}

	return key, nil
}

// EncodeBallotChoice encodes an option ID into the fixed-size plaintext of a ballot.
func EncodeBallotChoice(optionID uint64) []byte {
	b := make([]byte, BallotPlaintextSize)
	binary.BigEndian.PutUint64(b, optionID)
	return b
}

// DecodeBallotChoice is the inverse of `EncodeBallotChoice`.
func DecodeBallotChoice(b []byte) (uint64, error) {
	if len(b) != BallotPlaintextSize {
		return 0, fmt.Errorf("选票明文长度不正确，应为 %v 字节，得到 %v 字节", BallotPlaintextSize, len(b))
	}

	return binary.BigEndian.Uint64(b), nil
}

// ElectionAdditionalData returns the additional authenticated data that binds a ballot ciphertext to its election.
func ElectionAdditionalData(electionID uint64) []byte {
	return []byte("election:" + strconv.FormatUint(electionID, 10))
}

// EncryptBytesUsingAESKey 使用 AES 对称密钥加密数据。`additionalData` 不会被加密，但解密时必须提供相同的值。
func EncryptBytesUsingAESKey(b []byte, key []byte, additionalData []byte) (encryptedBytes []byte, err error) {
	cipherBlock, err := aes.NewCipher(key)
	if err != nil {
		return
	}

	aesGCM, err := cipher.NewGCM(cipherBlock)
	if err != nil {
		return
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return
	}

	encryptedBytes = aesGCM.Seal(nonce, nonce, b, additionalData)
	return
}

// DecryptBytesUsingAESKey 使用 AES 对称密钥解密数据
func DecryptBytesUsingAESKey(b []byte, key []byte, additionalData []byte) (decryptedBytes []byte, err error) {
	cipherBlock, err := aes.NewCipher(key)
	if err != nil {
		return
	}

	aesGCM, err := cipher.NewGCM(cipherBlock)
	if err != nil {
		return
	}

	nonceSize := aesGCM.NonceSize()
	if len(b) < nonceSize {
		err = fmt.Errorf("密文长度太短")
		return
	}

	nonce, b := b[:nonceSize], b[nonceSize:]
	decryptedBytes, err = aesGCM.Open(nil, nonce, b, additionalData)
	if err != nil {
		return
	}

	return
}

// EncryptBallotChoice seals an option ID for the given election with a key derived from `secret`.
func EncryptBallotChoice(secret []byte, electionID, optionID uint64) ([]byte, error) {
	key, err := DeriveBallotKey(secret, electionID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := EncryptBytesUsingAESKey(EncodeBallotChoice(optionID), key, ElectionAdditionalData(electionID))
	if err != nil {
		return nil, errors.Wrap(err, "无法加密选票")
	}

	return ciphertext, nil
}

// DecryptBallotChoice opens a ciphertext produced by `EncryptBallotChoice`.
func DecryptBallotChoice(secret []byte, electionID uint64, ciphertext []byte) (uint64, error) {
	key, err := DeriveBallotKey(secret, electionID)
	if err != nil {
		return 0, err
	}

	plaintext, err := DecryptBytesUsingAESKey(ciphertext, key, ElectionAdditionalData(electionID))
	if err != nil {
		return 0, errors.Wrap(err, "无法解密选票")
	}

	return DecodeBallotChoice(plaintext)
}
