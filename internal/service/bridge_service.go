package service

import (
	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BridgeService 是身份侧与匿名侧之间唯一的连接点。
//
// The credential it mints is stored with its election only. Nothing written here lets the credential be traced back to the token or the voter.
type BridgeService struct {
	ServiceInfo *Info
}

// IssueBallotCredential 消耗投票令牌并签发一张匿名选票凭证。
func (s *BridgeService) IssueBallotCredential(token string) (*common.BallotCredential, error) {
	now := s.ServiceInfo.now()
	var ret *common.BallotCredential

	err := s.ServiceInfo.DB.Transaction(func(tx *gorm.DB) error {
		// Lock order: token row, then voter row.
		votingToken, err := loadUsableVotingToken(token, true, now, tx)
		if err != nil {
			return err
		}

		verified, err := db.HasIdentityVerification(token, tx)
		if err != nil {
			return err
		}
		if !verified {
			return errorcode.ErrorIdentityVerificationRequired
		}

		voter, err := db.GetVoter(votingToken.VoterID, true, tx)
		if err != nil {
			return err
		}
		if voter.HasVoted {
			return errorcode.ErrorAlreadyVoted
		}

		if err = db.MarkVoterVoted(voter.ID, tx); err != nil {
			return err
		}

		if err = db.MarkVotingTokenUsed(votingToken.ID, now, tx); err != nil {
			return err
		}

		credential, err := s.ServiceInfo.TokenGen.NewToken()
		if err != nil {
			return err
		}

		if err = db.SaveBlindBallotCredential(credential, votingToken.ElectionID, tx); err != nil {
			return err
		}

		detail := common.CredentialIssuedDetail{ElectionID: votingToken.ElectionID}
		_, err = db.SaveAuditRecord(s.ServiceInfo.IDGen, common.AuditEventBallotCredentialIssued, votingToken.ElectionID, common.AuditActorAnonymous, detail, now, tx)
		if err != nil {
			return err
		}

		ret = &common.BallotCredential{
			BallotCredential: credential,
			ElectionID:       votingToken.ElectionID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("electionId", ret.ElectionID).Infoln("已签发匿名选票凭证")
	return ret, nil
}
