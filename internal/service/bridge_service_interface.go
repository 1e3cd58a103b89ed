package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// BridgeServiceInterface 定义了将身份关联的投票令牌兑换为匿名选票凭证的服务的接口。
type BridgeServiceInterface interface {
	// 兑换匿名选票凭证。令牌、选民状态与凭证在同一事务中更新。
	//
	// 参数：
	//   令牌值
	//
	// 返回：
	//   匿名选票凭证（只返回这一次）
	IssueBallotCredential(token string) (*common.BallotCredential, error)
}
