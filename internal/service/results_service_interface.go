package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// ResultsServiceInterface 定义了用于统计已关闭选举结果的服务的接口。
type ResultsServiceInterface interface {
	// 统计选举结果。
	//
	// 参数：
	//   选举 ID
	//
	// 返回：
	//   计票结果
	Tally(electionID uint64) (*common.ElectionResults, error)

	// 获取选举的统计信息。可用于任意状态的选举，但投票时间分布只在选举关闭后提供。
	//
	// 参数：
	//   选举 ID
	//
	// 返回：
	//   统计信息
	Statistics(electionID uint64) (*common.ElectionStatistics, error)
}
