package idutils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// MinTokenBytes is the least amount of entropy accepted for a bearer token.
const MinTokenBytes = 16

// DefaultTokenBytes is the entropy of credentials and receipts unless configured otherwise.
const DefaultTokenBytes = 32

// TokenGenerator produces unguessable URL-safe bearer values.
type TokenGenerator interface {
	NewToken() (string, error)
}

// SecureTokenGenerator draws tokens from the operating system CSPRNG.
type SecureTokenGenerator struct {
	numBytes int
}

// NewSecureTokenGenerator 创建一个令牌生成器。`numBytes` 为随机字节数，不得少于 `MinTokenBytes`。
func NewSecureTokenGenerator(numBytes int) (*SecureTokenGenerator, error) {
	if numBytes < MinTokenBytes {
		return nil, fmt.Errorf("令牌随机字节数至少为 %v，得到 %v", MinTokenBytes, numBytes)
	}

	return &SecureTokenGenerator{numBytes: numBytes}, nil
}

// NewToken returns a base64url (unpadded) encoding of fresh random bytes.
func (g *SecureTokenGenerator) NewToken() (string, error) {
	b := make([]byte, g.numBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", errors.Wrap(err, "无法生成随机令牌")
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IDGenerator produces ordered unique IDs for log-like records.
type IDGenerator interface {
	NextID() int64
}

// SnowflakeGenerator wraps a snowflake node. Create it once per process.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator creates the generator for the given node number (0-1023).
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	sfNode, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "无法创建 ID 生成器")
	}

	return &SnowflakeGenerator{node: sfNode}, nil
}

// NextID returns the next snowflake ID of the node.
func (g *SnowflakeGenerator) NextID() int64 {
	return g.node.Generate().Int64()
}
