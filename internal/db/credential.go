package db

import (
	"database/sql"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SaveBlindBallotCredential 写入一张新的匿名选票凭证。凭证只记录所属选举。
func SaveBlindBallotCredential(value string, electionID uint64, db *gorm.DB) error {
	credentialDB := &sqlmodel.BlindBallotCredential{
		BallotToken: value,
		ElectionID:  electionID,
	}

	dbResult := db.Create(credentialDB)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法写入匿名选票凭证")
	}

	return nil
}

// LockBlindBallotCredential 按凭证值和选举读取并锁定凭证行。不存在时返回 `errorcode.ErrorInvalidCredential`。
func LockBlindBallotCredential(value string, electionID uint64, db *gorm.DB) (*sqlmodel.BlindBallotCredential, error) {
	var credentialDB sqlmodel.BlindBallotCredential
	dbResult := forUpdate(db).Where("ballot_token = ? AND election_id = ?", value, electionID).Take(&credentialDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorInvalidCredential
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取匿名选票凭证")
		}
	}

	return &credentialDB, nil
}

// MarkBlindBallotCredentialUsed 将凭证标记为已使用。凭证已被使用时返回 `errorcode.ErrorAlreadyUsed`。
func MarkBlindBallotCredentialUsed(value string, usedAt time.Time, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.BlindBallotCredential{}).
		Where("ballot_token = ? AND is_used = ?", value, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": sql.NullTime{Time: usedAt, Valid: true},
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新匿名选票凭证状态")
	}
	if dbResult.RowsAffected != 1 {
		return errorcode.ErrorAlreadyUsed
	}

	return nil
}
