package sqlmodel

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Election statuses as written by the election administration.
const (
	ElectionStatusDraft  = "draft"
	ElectionStatusOpen   = "open"
	ElectionStatusClosed = "closed"
)

// Election 定义了数据库表 elections。本模块只读取该表，写入由选举管理端负责。
type Election struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Title         string `gorm:"type:VARCHAR(255) NOT NULL"`
	Description   string `gorm:"type:TEXT"`
	Status        string `gorm:"type:VARCHAR(16) NOT NULL;default:draft;index"`
	EncryptionKey []byte // The per-election secret. Never logged.
	CreatedAt     time.Time
	OpenedAt      sql.NullTime
	ClosedAt      sql.NullTime
}

// ElectionOption 定义了数据库表 election_options。
type ElectionOption struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	ElectionID   uint64 `gorm:"not null;index"`
	OptionText   string `gorm:"type:VARCHAR(255) NOT NULL"`
	DisplayOrder int    `gorm:"not null;default:0"`
}

// Voter 定义了数据库表 voters，即选民身份记录。
type Voter struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	ElectionID  uint64 `gorm:"not null;uniqueIndex:idx_voter_election_email"`
	Email       string `gorm:"type:VARCHAR(255) NOT NULL;uniqueIndex:idx_voter_election_email"`
	DateOfBirth string `gorm:"type:CHAR(10) NOT NULL"` // YYYY-MM-DD
	HasVoted    bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// VotingToken 定义了数据库表 voting_tokens。令牌与选民身份关联，且只能使用一次。
type VotingToken struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Token      string    `gorm:"type:VARCHAR(128) NOT NULL;uniqueIndex"`
	VoterID    uint64    `gorm:"not null;index"`
	ElectionID uint64    `gorm:"not null;index"`
	ExpiresAt  time.Time `gorm:"not null"`
	IsUsed     bool      `gorm:"not null;default:false"`
	UsedAt     sql.NullTime
	CreatedAt  time.Time
}

// IdentityVerification 定义了数据库表 identity_verifications。存在记录即表示持有 `Token` 的用户已通过身份验证。
type IdentityVerification struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Token      string    `gorm:"type:VARCHAR(128) NOT NULL;uniqueIndex"`
	VerifiedAt time.Time `gorm:"not null"`
}

// BlindBallotCredential 定义了数据库表 blind_ballot_credentials。
//
// The credential value is the primary key. The table must never gain a voter reference
// or any column that orders rows by issuance.
type BlindBallotCredential struct {
	BallotToken string `gorm:"type:VARCHAR(128);primaryKey"`
	ElectionID  uint64 `gorm:"not null;index"`
	IsUsed      bool   `gorm:"not null;default:false"`
	UsedAt      sql.NullTime
}

// EncryptedBallot 定义了数据库表 encrypted_ballots，即每个选举的哈希链。只允许追加。
type EncryptedBallot struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"` // Insertion sequence
	ElectionID   uint64    `gorm:"not null;index"`
	Ciphertext   []byte    `gorm:"not null"`
	PreviousHash string    `gorm:"type:CHAR(64) NOT NULL"`
	BallotHash   string    `gorm:"type:CHAR(64) NOT NULL;uniqueIndex"`
	CastAt       time.Time `gorm:"not null"`
}

// VoteReceipt 定义了数据库表 vote_receipts。只允许追加。
type VoteReceipt struct {
	ReceiptToken string    `gorm:"type:VARCHAR(128);primaryKey"`
	ElectionID   uint64    `gorm:"not null;index"`
	BallotHash   string    `gorm:"type:CHAR(64) NOT NULL"`
	CastAt       time.Time `gorm:"not null"`
}

// AuditRecord 定义了数据库表 audit_records。该表同时作为审计转发的发件箱。
type AuditRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"` // Snowflake ID
	EventType   string `gorm:"type:VARCHAR(64) NOT NULL;index"`
	ElectionID  uint64 `gorm:"not null;index"`
	ActorType   string `gorm:"type:VARCHAR(32) NOT NULL"`
	Detail      string `gorm:"type:TEXT"`
	CreatedAt   time.Time
	PublishedAt sql.NullTime `gorm:"index"`
}

// BeforeUpdate rejects updates issued through gorm. The storage triggers guard the raw SQL paths.
func (*EncryptedBallot) BeforeUpdate(*gorm.DB) error {
	return ErrLedgerImmutable
}

// BeforeDelete rejects deletes issued through gorm.
func (*EncryptedBallot) BeforeDelete(*gorm.DB) error {
	return ErrLedgerImmutable
}

// BeforeUpdate rejects updates issued through gorm.
func (*VoteReceipt) BeforeUpdate(*gorm.DB) error {
	return ErrLedgerImmutable
}

// BeforeDelete rejects deletes issued through gorm.
func (*VoteReceipt) BeforeDelete(*gorm.DB) error {
	return ErrLedgerImmutable
}

// AllModels lists every table of the credential store in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Election{},
		&ElectionOption{},
		&Voter{},
		&VotingToken{},
		&IdentityVerification{},
		&BlindBallotCredential{},
		&EncryptedBallot{},
		&VoteReceipt{},
		&AuditRecord{},
	}
}
