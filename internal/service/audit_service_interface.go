package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// AuditServiceInterface 定义了用于校验已关闭选举的哈希链的服务的接口。
type AuditServiceInterface interface {
	// 获取并校验选举的哈希链。只读，只报告结果。
	//
	// 参数：
	//   选举 ID
	//
	// 返回：
	//   审计结果
	AuditTrail(electionID uint64) (*common.AuditTrail, error)
}
