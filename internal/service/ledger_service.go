package service

import (
	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/cipherutils"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/timingutils"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerService 用于记录加密选票。
type LedgerService struct {
	ServiceInfo *Info
}

// GetBallot 获取选举的选票。
func (s *LedgerService) GetBallot(electionID uint64) (*common.Ballot, error) {
	election, err := db.GetElection(electionID, false, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	optionsDB, err := db.ListElectionOptions(electionID, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	options := make([]common.BallotOption, 0, len(optionsDB))
	for _, o := range optionsDB {
		options = append(options, common.BallotOption{
			ID:           o.ID,
			Text:         o.OptionText,
			DisplayOrder: o.DisplayOrder,
		})
	}

	return &common.Ballot{
		ElectionID:  election.ID,
		Title:       election.Title,
		Description: election.Description,
		Status:      election.Status,
		Options:     options,
	}, nil
}

// CastVote 使用匿名选票凭证投票，将加密后的选票追加到选举的哈希链末端。
func (s *LedgerService) CastVote(ballotCredential string, optionID uint64, electionID uint64) (*common.CastVoteResult, error) {
	var ret *common.CastVoteResult

	err := s.ServiceInfo.DB.Transaction(func(tx *gorm.DB) error {
		// Lock order: credential row, then the election row. The election lock serializes appends to the chain.
		credential, err := db.LockBlindBallotCredential(ballotCredential, electionID, tx)
		if err != nil {
			return err
		}
		if credential.IsUsed {
			return errorcode.ErrorAlreadyUsed
		}

		election, err := db.GetElection(electionID, true, tx)
		if err != nil {
			return err
		}
		if election.Status != sqlmodel.ElectionStatusOpen {
			return errorcode.ErrorElectionNotOpen
		}

		// Taken under the append lock so that cast times never decrease along the chain.
		castAt := timingutils.TruncateToStorage(s.ServiceInfo.now())

		isOption, err := db.IsElectionOption(electionID, optionID, tx)
		if err != nil {
			return err
		}
		if !isOption {
			return errorcode.ErrorInvalidOption
		}

		if len(election.EncryptionKey) == 0 {
			log.WithField("electionId", electionID).Errorln("选举未配置加密密钥，无法接受投票")
			return errorcode.ErrorEncryptionNotConfigured
		}

		previousHash, ok, err := db.GetChainTip(electionID, tx)
		if err != nil {
			return err
		}
		if !ok {
			previousHash = GenesisHash
		}

		ciphertext, err := s.encryptChoice(election.EncryptionKey, electionID, optionID)
		if err != nil {
			return err
		}

		ballot := &sqlmodel.EncryptedBallot{
			ElectionID:   electionID,
			Ciphertext:   ciphertext,
			PreviousHash: previousHash,
			BallotHash:   ComputeBallotHash(electionID, castAt, ciphertext, previousHash),
			CastAt:       castAt,
		}
		if err = db.AppendEncryptedBallot(ballot, tx); err != nil {
			return err
		}

		receiptToken, err := s.ServiceInfo.TokenGen.NewToken()
		if err != nil {
			return err
		}

		receipt := &sqlmodel.VoteReceipt{
			ReceiptToken: receiptToken,
			ElectionID:   electionID,
			BallotHash:   ballot.BallotHash,
			CastAt:       castAt,
		}
		if err = db.SaveVoteReceipt(receipt, tx); err != nil {
			return err
		}

		if err = db.MarkBlindBallotCredentialUsed(ballotCredential, castAt, tx); err != nil {
			return err
		}

		detail := common.BallotCastDetail{ElectionID: electionID, ReceiptToken: receiptToken}
		_, err = db.SaveAuditRecord(s.ServiceInfo.IDGen, common.AuditEventBallotCast, electionID, common.AuditActorAnonymous, detail, castAt, tx)
		if err != nil {
			return err
		}

		ret = &common.CastVoteResult{
			ReceiptToken: receiptToken,
			BallotHash:   ballot.BallotHash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("electionId", electionID).Infoln("已记录一张加密选票")
	return ret, nil
}

func (s *LedgerService) encryptChoice(secret []byte, electionID, optionID uint64) ([]byte, error) {
	defer timingutils.GetDeferrableTimingLogger("选票加密耗时")()
	return cipherutils.EncryptBallotChoice(secret, electionID, optionID)
}
