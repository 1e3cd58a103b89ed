package service

import (
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/utils/idutils"
	"gorm.io/gorm"
)

// Info holds the dependencies shared by every service.
type Info struct {
	DB       *gorm.DB
	TokenGen idutils.TokenGenerator // Source of ballot credentials and receipt tokens
	IDGen    idutils.IDGenerator    // Source of audit record IDs
	Now      func() time.Time       // Defaults to `time.Now` if nil
}

func (info *Info) now() time.Time {
	if info.Now == nil {
		return time.Now()
	}

	return info.Now()
}
