package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds `SELECT ... FOR UPDATE` to the statement.
// SQLite has no row locks; its connection pool is limited to one connection so transactions already run one at a time.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lockIf(tx *gorm.DB, lock bool) *gorm.DB {
	if lock {
		return forUpdate(tx)
	}

	return tx
}
