package service

import (
	"encoding/base64"

	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/timingutils"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

// AuditService 用于审计选举的哈希链。
type AuditService struct {
	ServiceInfo *Info
}

// AuditTrail 校验已关闭选举的哈希链。选举未关闭时返回 `errorcode.ErrorAuditNotAvailable`。
func (s *AuditService) AuditTrail(electionID uint64) (*common.AuditTrail, error) {
	election, err := db.GetElection(electionID, false, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	if election.Status != sqlmodel.ElectionStatusClosed {
		return nil, errorcode.ErrorAuditNotAvailable
	}

	ballots, err := db.ListEncryptedBallots(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	stopTimer := timingutils.GetDeferrableTimingLogger("哈希链校验耗时")
	valid, brokenAt := VerifyBallotChain(ballots)
	stopTimer()

	entries := make([]common.AuditEntry, 0, len(ballots))
	for _, b := range ballots {
		entries = append(entries, common.AuditEntry{
			ID:           b.ID,
			Ciphertext:   base64.StdEncoding.EncodeToString(b.Ciphertext),
			BallotHash:   b.BallotHash,
			PreviousHash: b.PreviousHash,
			CastAt:       b.CastAt,
		})
	}

	if !valid {
		log.WithFields(log.Fields{
			"electionId": electionID,
			"brokenAt":   *brokenAt,
		}).Warnln("选举哈希链校验失败")
	}

	return &common.AuditTrail{
		ElectionID:   electionID,
		TotalBallots: len(ballots),
		ChainValid:   valid,
		BrokenAt:     brokenAt,
		Entries:      entries,
	}, nil
}
