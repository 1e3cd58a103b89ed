package db

import (
	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetElection 从数据库中读取指定 ID 的选举。
//
// `lock` 为 true 时对该行加写锁。投票写入哈希链前必须持有该锁，以保证同一选举的追加操作串行执行。
func GetElection(id uint64, lock bool, db *gorm.DB) (*sqlmodel.Election, error) {
	var electionDB sqlmodel.Election
	dbResult := lockIf(db, lock).Where("id = ?", id).Take(&electionDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取选举")
		}
	}

	return &electionDB, nil
}

// ListElectionOptions 按显示顺序列出选举的全部选项。
func ListElectionOptions(electionID uint64, db *gorm.DB) ([]sqlmodel.ElectionOption, error) {
	var optionsDB []sqlmodel.ElectionOption
	dbResult := db.Where("election_id = ?", electionID).Order("display_order ASC").Order("id ASC").Find(&optionsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取选举选项")
	}

	return optionsDB, nil
}

// IsElectionOption 检查选项是否属于指定选举。
func IsElectionOption(electionID, optionID uint64, db *gorm.DB) (bool, error) {
	var count int64
	dbResult := db.Model(&sqlmodel.ElectionOption{}).Where("id = ? AND election_id = ?", optionID, electionID).Count(&count)
	if dbResult.Error != nil {
		return false, errors.Wrap(dbResult.Error, "无法查询选举选项")
	}

	return count > 0, nil
}
