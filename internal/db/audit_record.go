package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SaveAuditRecord 写入一条审计记录。`detail` 为带 mapstructure 标签的结构体，会被展开后以 JSON 形式保存。
func SaveAuditRecord(idGen idutils.IDGenerator, eventType string, electionID uint64, actorType string, detail interface{}, createdAt time.Time, db *gorm.DB) (*sqlmodel.AuditRecord, error) {
	detailMap := make(map[string]interface{})
	if detail != nil {
		if err := mapstructure.Decode(detail, &detailMap); err != nil {
			return nil, errors.Wrap(err, "无法展开审计详情")
		}
	}

	detailBytes, err := json.Marshal(detailMap)
	if err != nil {
		return nil, errors.Wrap(err, "无法序列化审计详情")
	}

	record := &sqlmodel.AuditRecord{
		ID:         idGen.NextID(),
		EventType:  eventType,
		ElectionID: electionID,
		ActorType:  actorType,
		Detail:     string(detailBytes),
		CreatedAt:  createdAt,
	}

	dbResult := db.Create(record)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法写入审计记录")
	}

	return record, nil
}

// ListUnpublishedAuditRecords 按 ID 顺序列出尚未发布的审计记录，最多 `limit` 条。
func ListUnpublishedAuditRecords(limit int, db *gorm.DB) ([]sqlmodel.AuditRecord, error) {
	var recordsDB []sqlmodel.AuditRecord
	dbResult := db.Where("published_at IS NULL").Order("id ASC").Limit(limit).Find(&recordsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取待发布的审计记录")
	}

	return recordsDB, nil
}

// MarkAuditRecordPublished 标记审计记录已发布。
func MarkAuditRecordPublished(id int64, publishedAt time.Time, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.AuditRecord{}).
		Where("id = ?", id).
		Update("published_at", sql.NullTime{Time: publishedAt, Valid: true})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新审计记录的发布状态")
	}

	return nil
}

// ListAuditRecords 按 ID 顺序列出选举的审计记录。
func ListAuditRecords(electionID uint64, db *gorm.DB) ([]sqlmodel.AuditRecord, error) {
	var recordsDB []sqlmodel.AuditRecord
	dbResult := db.Where("election_id = ?", electionID).Order("id ASC").Find(&recordsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取审计记录")
	}

	return recordsDB, nil
}
