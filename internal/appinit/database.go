package appinit

import (
	"fmt"

	errors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase opens the credential store with the dialector named by `info.Driver`.
//
// The gorm SQL logger is silenced: statements carry token values as parameters.
func OpenDatabase(info DatabaseInfo) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch info.Driver {
	case "mysql":
		dialector = mysql.Open(info.DSN)
	case "postgres":
		dialector = postgres.Open(info.DSN)
	case "sqlite":
		dialector = sqlite.Open(info.DSN)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动 %v", info.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "无法连接数据库")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "无法获取数据库连接池")
	}

	if info.Driver == "sqlite" {
		// Row locks are not available, so transactions are serialized on a single connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if info.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(info.MaxOpenConns)
		}
		if info.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(info.MaxIdleConns)
		}
	}

	return db, nil
}

// CloseDatabase closes the underlying connection pool.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "无法获取数据库连接池")
	}

	return sqlDB.Close()
}
