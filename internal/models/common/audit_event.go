package common

// Audit event types written to the audit log.
const (
	AuditEventBallotCredentialIssued = "ballot_credential_issued"
	AuditEventBallotCast             = "ballot_cast"
)

// Audit actor types.
const (
	AuditActorAnonymous = "anonymous"
)

// CredentialIssuedDetail is the audit detail of a credential issuance. It carries nothing about the voter.
type CredentialIssuedDetail struct {
	ElectionID uint64 `mapstructure:"electionId"`
}

// BallotCastDetail is the audit detail of a cast ballot.
type BallotCastDetail struct {
	ElectionID   uint64 `mapstructure:"electionId"`
	ReceiptToken string `mapstructure:"receiptToken"`
}

// AuditMessage 表示发布到消息队列的审计事件
type AuditMessage struct {
	ID         string                 `json:"id"` // Snowflake ID
	EventType  string                 `json:"eventType"`
	ElectionID uint64                 `json:"electionId"`
	ActorType  string                 `json:"actorType"`
	Detail     map[string]interface{} `json:"detail"`
	CreatedAt  string                 `json:"createdAt"`
}
