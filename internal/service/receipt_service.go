package service

import (
	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
)

// ReceiptService 用于核验投票回执。
type ReceiptService struct {
	ServiceInfo *Info
}

// VerifyReceipt 核验投票回执，并确认回执所指的选票仍在哈希链上。
func (s *ReceiptService) VerifyReceipt(receiptToken string) (*common.ReceiptVerification, error) {
	receipt, err := db.GetVoteReceipt(receiptToken, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	election, err := db.GetElection(receipt.ElectionID, false, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	onChain, err := db.HasBallotHash(receipt.ElectionID, receipt.BallotHash, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return &common.ReceiptVerification{
		Verified:      onChain,
		BallotHash:    receipt.BallotHash,
		ElectionID:    receipt.ElectionID,
		ElectionTitle: election.Title,
		CastAt:        receipt.CastAt,
	}, nil
}
