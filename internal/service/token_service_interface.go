package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// TokenServiceInterface 定义了用于管理投票令牌生命周期的服务的接口。
type TokenServiceInterface interface {
	// 校验投票令牌。只读。
	//
	// 参数：
	//   令牌值
	//
	// 返回：
	//   校验结果（含选民 ID 与选举 ID）
	ValidateToken(token string) (*common.TokenValidation, error)

	// 验证令牌持有人的身份。重复验证不会产生新的记录。
	//
	// 参数：
	//   令牌值
	//   出生日期（YYYY-MM-DD）
	//
	// 返回：
	//   验证结果
	VerifyIdentity(token string, dateOfBirth string) (*common.IdentityVerificationResult, error)

	// 查询令牌是否已通过身份验证。
	//
	// 参数：
	//   令牌值
	//
	// 返回：
	//   验证结果
	MFAStatus(token string) (*common.IdentityVerificationResult, error)

	// 查询令牌在生命周期中所处的状态。
	//
	// 参数：
	//   令牌值
	//
	// 返回：
	//   令牌状态
	TokenState(token string) (common.TokenState, error)
}
