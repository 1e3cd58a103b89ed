package db

import (
	"database/sql"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetVotingToken 从数据库中读取指定值的投票令牌。`lock` 为 true 时对该行加写锁，须在事务中调用。
func GetVotingToken(token string, lock bool, db *gorm.DB) (*sqlmodel.VotingToken, error) {
	var votingTokenDB sqlmodel.VotingToken
	dbResult := lockIf(db, lock).Where("token = ?", token).Take(&votingTokenDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取投票令牌")
		}
	}

	return &votingTokenDB, nil
}

// MarkVotingTokenUsed 将投票令牌标记为已使用。令牌已被使用时返回 `errorcode.ErrorAlreadyUsed`。
func MarkVotingTokenUsed(id uint64, usedAt time.Time, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.VotingToken{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": sql.NullTime{Time: usedAt, Valid: true},
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新投票令牌状态")
	}
	if dbResult.RowsAffected != 1 {
		return errorcode.ErrorAlreadyUsed
	}

	return nil
}

// GetVoter 从数据库中读取指定 ID 的选民。`lock` 为 true 时对该行加写锁。
func GetVoter(id uint64, lock bool, db *gorm.DB) (*sqlmodel.Voter, error) {
	var voterDB sqlmodel.Voter
	dbResult := lockIf(db, lock).Where("id = ?", id).Take(&voterDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取选民信息")
		}
	}

	return &voterDB, nil
}

// MarkVoterVoted 将选民标记为已投票。该字段只会从 false 变为 true。
func MarkVoterVoted(id uint64, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.Voter{}).
		Where("id = ? AND has_voted = ?", id, false).
		Update("has_voted", true)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新选民投票状态")
	}
	if dbResult.RowsAffected != 1 {
		return errorcode.ErrorAlreadyVoted
	}

	return nil
}

// CountVoters 统计选举的选民人数。
func CountVoters(electionID uint64, db *gorm.DB) (int64, error) {
	var count int64
	dbResult := db.Model(&sqlmodel.Voter{}).Where("election_id = ?", electionID).Count(&count)
	if dbResult.Error != nil {
		return 0, errors.Wrap(dbResult.Error, "无法统计选民人数")
	}

	return count, nil
}

// CountVotingTokens 统计选举已发放的投票令牌数及其中已使用的数量。
func CountVotingTokens(electionID uint64, db *gorm.DB) (total int64, used int64, err error) {
	dbResult := db.Model(&sqlmodel.VotingToken{}).Where("election_id = ?", electionID).Count(&total)
	if dbResult.Error != nil {
		err = errors.Wrap(dbResult.Error, "无法统计投票令牌数")
		return
	}

	dbResult = db.Model(&sqlmodel.VotingToken{}).Where("election_id = ? AND is_used = ?", electionID, true).Count(&used)
	if dbResult.Error != nil {
		err = errors.Wrap(dbResult.Error, "无法统计已使用的投票令牌数")
		return
	}

	return
}

// HasIdentityVerification 检查令牌是否已有身份验证记录。
func HasIdentityVerification(token string, db *gorm.DB) (bool, error) {
	var count int64
	dbResult := db.Model(&sqlmodel.IdentityVerification{}).Where("token = ?", token).Count(&count)
	if dbResult.Error != nil {
		return false, errors.Wrap(dbResult.Error, "无法查询身份验证记录")
	}

	return count > 0, nil
}

// SaveIdentityVerification 写入身份验证记录。记录已存在时不做任何修改。
func SaveIdentityVerification(token string, verifiedAt time.Time, db *gorm.DB) error {
	record := &sqlmodel.IdentityVerification{
		Token:      token,
		VerifiedAt: verifiedAt,
	}

	dbResult := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoNothing: true,
	}).Create(record)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法写入身份验证记录")
	}

	return nil
}
