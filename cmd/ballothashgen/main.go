package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/service"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Recomputes the hash of a ballot from the fields published in the audit trail, so that anyone can check a chain entry offline.
func main() {
	if len(os.Args) != 5 {
		fmt.Println("Usage: go run main.go <election_id> <cast_at_rfc3339> <ciphertext_base64> <previous_hash>")
		return
	}

	hash, err := calculateBallotHash(os.Args[1], os.Args[2], os.Args[3], os.Args[4])
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println(hash)
}

func calculateBallotHash(electionIDStr, castAtStr, ciphertextBase64, previousHash string) (string, error) {
	electionID, err := strconv.ParseUint(electionIDStr, 10, 64)
	if err != nil {
		return "", errors.Wrap(err, "选举 ID 不合法")
	}

	castAt, err := time.Parse(time.RFC3339Nano, castAtStr)
	if err != nil {
		return "", errors.Wrap(err, "投票时间不合法")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextBase64)
	if err != nil {
		return "", errors.Wrap(err, "密文不是合法的 Base64 字符串")
	}

	if len(previousHash) != len(service.GenesisHash) {
		return "", fmt.Errorf("前一张选票的哈希长度应为 %v", len(service.GenesisHash))
	}

	return service.ComputeBallotHash(electionID, castAt, ciphertext, previousHash), nil
}
