package common

import "time"

// TokenValidation 表示投票令牌的校验结果
type TokenValidation struct {
	Valid      bool   `json:"valid"`      // 令牌是否有效
	VoterID    uint64 `json:"voterId"`    // 令牌所属选民 ID
	ElectionID uint64 `json:"electionId"` // 令牌所属选举 ID
}

// IdentityVerificationResult 表示身份验证结果
type IdentityVerificationResult struct {
	Verified bool `json:"verified"`
}

// TokenState 表示投票令牌在生命周期中所处的状态
type TokenState string

const (
	// TokenStateIssued 表示令牌已签发，尚未完成身份验证
	TokenStateIssued TokenState = "Issued"
	// TokenStateIdentityVerified 表示令牌持有人已完成身份验证
	TokenStateIdentityVerified TokenState = "IdentityVerified"
	// TokenStateCredentialIssued 表示令牌已兑换为匿名选票凭证
	TokenStateCredentialIssued TokenState = "CredentialIssued"
	// TokenStateVoted 表示选民已通过其他令牌完成投票
	TokenStateVoted TokenState = "Voted"
	// TokenStateExpired 表示令牌已过期
	TokenStateExpired TokenState = "Expired"
)

// TokenStateInfo wraps a token state for the API.
type TokenStateInfo struct {
	State TokenState `json:"state"`
}

// BallotCredential 表示兑换得到的匿名选票凭证
type BallotCredential struct {
	BallotCredential string `json:"ballotCredential"` // 凭证值，只会返回一次
	ElectionID       uint64 `json:"electionId"`       // 选举 ID
}

// BallotOption 表示选票上的一个选项
type BallotOption struct {
	ID           uint64 `json:"id"`
	Text         string `json:"text"`
	DisplayOrder int    `json:"displayOrder"`
}

// Ballot 表示一个选举的选票
type Ballot struct {
	ElectionID  uint64         `json:"electionId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Options     []BallotOption `json:"options"` // 按显示顺序排列
}

// CastVoteResult 表示投票成功后返回给投票人的信息
type CastVoteResult struct {
	ReceiptToken string `json:"receiptToken"`
	BallotHash   string `json:"ballotHash"`
}

// AuditEntry 表示哈希链中的一条记录
type AuditEntry struct {
	ID           uint64    `json:"id"`
	Ciphertext   string    `json:"ciphertext"` // Base64
	BallotHash   string    `json:"ballotHash"`
	PreviousHash string    `json:"previousHash"`
	CastAt       time.Time `json:"castAt"`
}

// AuditTrail 表示一个已关闭选举的审计结果
type AuditTrail struct {
	ElectionID   uint64       `json:"electionId"`
	TotalBallots int          `json:"totalBallots"`
	ChainValid   bool         `json:"chainValid"`
	BrokenAt     *uint64      `json:"brokenAt,omitempty"` // 第一条校验失败的记录 ID
	Entries      []AuditEntry `json:"entries"`
}

// ReceiptVerification 表示投票回执的核验结果
type ReceiptVerification struct {
	Verified      bool      `json:"verified"`
	BallotHash    string    `json:"ballotHash"`
	ElectionID    uint64    `json:"electionId"`
	ElectionTitle string    `json:"electionTitle"`
	CastAt        time.Time `json:"castAt"`
}

// OptionTally 表示单个选项的计票结果
type OptionTally struct {
	OptionID     uint64  `json:"optionId"`
	Text         string  `json:"text"`
	DisplayOrder int     `json:"displayOrder"`
	Votes        int     `json:"votes"`
	Percentage   float64 `json:"percentage"`
}

// ElectionResults 表示一个已关闭选举的计票结果
type ElectionResults struct {
	ElectionID   uint64        `json:"electionId"`
	Title        string        `json:"title"`
	TotalBallots int           `json:"totalBallots"`
	TotalVoters  int           `json:"totalVoters"`
	Turnout      float64       `json:"turnout"` // 百分比
	Options      []OptionTally `json:"options"`
}

// ElectionSummary 表示选举的基本信息与时间节点
type ElectionSummary struct {
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	OpenedAt  *time.Time `json:"openedAt"` // 尚未开放时为 null
	ClosedAt  *time.Time `json:"closedAt"` // 尚未关闭时为 null
}

// ElectionCounters 表示选举的参与情况计数
type ElectionCounters struct {
	TotalVoters int64   `json:"totalVoters"`
	TotalTokens int64   `json:"totalTokens"`
	UsedTokens  int64   `json:"usedTokens"`
	TotalVotes  int64   `json:"totalVotes"`
	Turnout     float64 `json:"turnout"` // 百分比
}

// HourlyVoteCount 表示某一小时（UTC）内的投票数
type HourlyVoteCount struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// ElectionStatistics 表示选举的统计信息。投票时间分布只在选举关闭后提供。
type ElectionStatistics struct {
	ElectionID   uint64            `json:"electionId"`
	Election     ElectionSummary   `json:"election"`
	Statistics   ElectionCounters  `json:"statistics"`
	VoteTimeline []HourlyVoteCount `json:"voteTimeline"`
}
