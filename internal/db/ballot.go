package db

import (
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetChainTip 返回选举哈希链最后一条记录的哈希。链为空时返回 `ok == false`。
// 调用方须已持有选举行锁。
func GetChainTip(electionID uint64, db *gorm.DB) (hash string, ok bool, err error) {
	var ballotDB sqlmodel.EncryptedBallot
	dbResult := db.Where("election_id = ?", electionID).Order("id DESC").Limit(1).Find(&ballotDB)
	if dbResult.Error != nil {
		err = errors.Wrap(dbResult.Error, "无法读取哈希链末端")
		return
	}
	if dbResult.RowsAffected == 0 {
		return
	}

	return ballotDB.BallotHash, true, nil
}

// AppendEncryptedBallot 向哈希链追加一张加密选票。
func AppendEncryptedBallot(ballot *sqlmodel.EncryptedBallot, db *gorm.DB) error {
	dbResult := db.Create(ballot)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法写入加密选票")
	}

	return nil
}

// ListEncryptedBallots 按写入顺序列出选举的全部加密选票。
func ListEncryptedBallots(electionID uint64, db *gorm.DB) ([]sqlmodel.EncryptedBallot, error) {
	var ballotsDB []sqlmodel.EncryptedBallot
	dbResult := db.Where("election_id = ?", electionID).Order("id ASC").Find(&ballotsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取加密选票")
	}

	return ballotsDB, nil
}

// CountEncryptedBallots 统计选举哈希链上的选票数。
func CountEncryptedBallots(electionID uint64, db *gorm.DB) (int64, error) {
	var count int64
	dbResult := db.Model(&sqlmodel.EncryptedBallot{}).Where("election_id = ?", electionID).Count(&count)
	if dbResult.Error != nil {
		return 0, errors.Wrap(dbResult.Error, "无法统计加密选票数")
	}

	return count, nil
}

// ListBallotCastTimes 按写入顺序列出选举全部选票的投票时间。
func ListBallotCastTimes(electionID uint64, db *gorm.DB) ([]time.Time, error) {
	var castTimes []time.Time
	dbResult := db.Model(&sqlmodel.EncryptedBallot{}).Where("election_id = ?", electionID).Order("id ASC").Pluck("cast_at", &castTimes)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取投票时间")
	}

	return castTimes, nil
}

// SaveVoteReceipt 写入投票回执。
func SaveVoteReceipt(receipt *sqlmodel.VoteReceipt, db *gorm.DB) error {
	dbResult := db.Create(receipt)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法写入投票回执")
	}

	return nil
}

// GetVoteReceipt 从数据库中读取指定回执。
func GetVoteReceipt(receiptToken string, db *gorm.DB) (*sqlmodel.VoteReceipt, error) {
	var receiptDB sqlmodel.VoteReceipt
	dbResult := db.Where("receipt_token = ?", receiptToken).Take(&receiptDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取投票回执")
		}
	}

	return &receiptDB, nil
}

// HasBallotHash 检查选举的哈希链中是否存在指定哈希的选票。
func HasBallotHash(electionID uint64, ballotHash string, db *gorm.DB) (bool, error) {
	var count int64
	dbResult := db.Model(&sqlmodel.EncryptedBallot{}).Where("election_id = ? AND ballot_hash = ?", electionID, ballotHash).Count(&count)
	if dbResult.Error != nil {
		return false, errors.Wrap(dbResult.Error, "无法查询加密选票")
	}

	return count > 0, nil
}
