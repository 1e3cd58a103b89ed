package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// LedgerServiceInterface 定义了用于读取选票与写入加密选票哈希链的服务的接口。
type LedgerServiceInterface interface {
	// 获取选举的选票，选项按显示顺序排列。
	//
	// 参数：
	//   选举 ID
	//
	// 返回：
	//   选票
	GetBallot(electionID uint64) (*common.Ballot, error)

	// 使用匿名选票凭证投票。
	//
	// 参数：
	//   匿名选票凭证
	//   选项 ID
	//   选举 ID
	//
	// 返回：
	//   回执令牌与选票哈希
	CastVote(ballotCredential string, optionID uint64, electionID uint64) (*common.CastVoteResult, error)
}
