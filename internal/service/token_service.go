package service

import (
	"strings"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/db"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/common"
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DateOfBirthLayout is the only accepted date of birth format.
const DateOfBirthLayout = "2006-01-02"

// TokenService 用于校验投票令牌与验证选民身份。
type TokenService struct {
	ServiceInfo *Info
}

// ValidateToken 校验投票令牌。
func (s *TokenService) ValidateToken(token string) (*common.TokenValidation, error) {
	votingToken, err := loadUsableVotingToken(token, false, s.ServiceInfo.now(), s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return &common.TokenValidation{
		Valid:      true,
		VoterID:    votingToken.VoterID,
		ElectionID: votingToken.ElectionID,
	}, nil
}

// VerifyIdentity 验证令牌持有人的出生日期。任一字段不匹配时只返回 `errorcode.ErrorIdentityMismatch`。
func (s *TokenService) VerifyIdentity(token string, dateOfBirth string) (*common.IdentityVerificationResult, error) {
	now := s.ServiceInfo.now()

	err := s.ServiceInfo.DB.Transaction(func(tx *gorm.DB) error {
		votingToken, err := loadUsableVotingToken(token, false, now, tx)
		if err != nil {
			return err
		}

		voter, err := db.GetVoter(votingToken.VoterID, false, tx)
		if err != nil {
			return err
		}

		if voter.HasVoted {
			return errorcode.ErrorAlreadyVoted
		}

		if !dateOfBirthMatches(voter.DateOfBirth, dateOfBirth) {
			return errorcode.ErrorIdentityMismatch
		}

		return db.SaveIdentityVerification(token, now, tx)
	})
	if err != nil {
		return nil, err
	}

	return &common.IdentityVerificationResult{Verified: true}, nil
}

// MFAStatus 查询令牌是否已有身份验证记录。
func (s *TokenService) MFAStatus(token string) (*common.IdentityVerificationResult, error) {
	verified, err := db.HasIdentityVerification(token, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return &common.IdentityVerificationResult{Verified: verified}, nil
}

// TokenState 根据数据库中的记录推导令牌状态。
func (s *TokenService) TokenState(token string) (common.TokenState, error) {
	votingToken, err := db.GetVotingToken(token, false, s.ServiceInfo.DB)
	if err != nil {
		return "", err
	}

	if votingToken.IsUsed {
		return common.TokenStateCredentialIssued, nil
	}

	voter, err := db.GetVoter(votingToken.VoterID, false, s.ServiceInfo.DB)
	if err != nil {
		return "", err
	}

	if voter.HasVoted {
		return common.TokenStateVoted, nil
	}

	if isExpired(votingToken, s.ServiceInfo.now()) {
		return common.TokenStateExpired, nil
	}

	verified, err := db.HasIdentityVerification(token, s.ServiceInfo.DB)
	if err != nil {
		return "", err
	}

	if verified {
		return common.TokenStateIdentityVerified, nil
	}

	return common.TokenStateIssued, nil
}

// loadUsableVotingToken reads the token and checks, in order, that it exists, is unused, is not expired and belongs to an open election.
func loadUsableVotingToken(token string, lock bool, now time.Time, tx *gorm.DB) (*sqlmodel.VotingToken, error) {
	votingToken, err := db.GetVotingToken(token, lock, tx)
	if err != nil {
		return nil, err
	}

	if votingToken.IsUsed {
		return nil, errorcode.ErrorAlreadyUsed
	}

	if isExpired(votingToken, now) {
		return nil, errorcode.ErrorExpired
	}

	election, err := db.GetElection(votingToken.ElectionID, false, tx)
	if err != nil {
		return nil, err
	}

	if election.Status != sqlmodel.ElectionStatusOpen {
		log.WithField("electionId", election.ID).Debugln("令牌所属选举未开放")
		return nil, errorcode.ErrorElectionNotOpen
	}

	return votingToken, nil
}

func isExpired(votingToken *sqlmodel.VotingToken, now time.Time) bool {
	return now.After(votingToken.ExpiresAt)
}

func normalizeDateOfBirth(s string) (string, bool) {
	t, err := time.Parse(DateOfBirthLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}

	return t.Format(DateOfBirthLayout), true
}

func dateOfBirthMatches(stored, submitted string) bool {
	storedNorm, ok := normalizeDateOfBirth(stored)
	if !ok {
		return false
	}

	submittedNorm, ok := normalizeDateOfBirth(submitted)
	if !ok {
		return false
	}

	return storedNorm == submittedNorm
}
