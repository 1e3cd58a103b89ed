package service

import "gitee.com/czyczk/evote-ballot-engine/internal/models/common"

// ReceiptServiceInterface 定义了供投票人核验回执的服务的接口。
type ReceiptServiceInterface interface {
	// 核验投票回执。公开接口，只读。
	//
	// 参数：
	//   回执令牌
	//
	// 返回：
	//   核验结果
	VerifyReceipt(receiptToken string) (*common.ReceiptVerification, error)
}
