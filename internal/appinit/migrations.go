package appinit

import (
	"fmt"

	"gitee.com/czyczk/evote-ballot-engine/internal/models/sqlmodel"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppendOnlyTables are the ledger tables whose rows can never be changed or removed.
var AppendOnlyTables = []string{"encrypted_ballots", "vote_receipts"}

// LedgerTriggerName returns the name of the trigger that rejects `op` ("update" or "delete") on `table`.
func LedgerTriggerName(table, op string) string {
	return fmt.Sprintf("%v_no_%v", table, op)
}

// MigrateDatabase creates or updates every table and installs the append-only triggers of the ledger tables.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(sqlmodel.AllModels()...); err != nil {
		return errors.Wrap(err, "无法迁移数据库表结构")
	}

	for _, table := range AppendOnlyTables {
		for _, stmt := range ledgerTriggerStatements(db.Dialector.Name(), table) {
			if err := db.Exec(stmt).Error; err != nil {
				return errors.Wrapf(err, "无法为表 %v 创建触发器", table)
			}
		}
	}

	log.WithField("driver", db.Dialector.Name()).Debugln("数据库迁移完成")
	return nil
}

func ledgerTriggerStatements(dialect, table string) []string {
	noUpdate := LedgerTriggerName(table, "update")
	noDelete := LedgerTriggerName(table, "delete")
	message := fmt.Sprintf("%v is append-only", table)

	switch dialect {
	case "sqlite":
		return []string{
			fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %v BEFORE UPDATE ON %v BEGIN SELECT RAISE(ABORT, '%v'); END;", noUpdate, table, message),
			fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %v BEFORE DELETE ON %v BEGIN SELECT RAISE(ABORT, '%v'); END;", noDelete, table, message),
		}
	case "postgres":
		return []string{
			`CREATE OR REPLACE FUNCTION evote_reject_ledger_mutation() RETURNS trigger AS $$
BEGIN
	RAISE EXCEPTION '% is append-only', TG_TABLE_NAME;
END;
$$ LANGUAGE plpgsql`,
			fmt.Sprintf("DROP TRIGGER IF EXISTS %v ON %v", noUpdate, table),
			fmt.Sprintf("CREATE TRIGGER %v BEFORE UPDATE ON %v FOR EACH ROW EXECUTE PROCEDURE evote_reject_ledger_mutation()", noUpdate, table),
			fmt.Sprintf("DROP TRIGGER IF EXISTS %v ON %v", noDelete, table),
			fmt.Sprintf("CREATE TRIGGER %v BEFORE DELETE ON %v FOR EACH ROW EXECUTE PROCEDURE evote_reject_ledger_mutation()", noDelete, table),
		}
	case "mysql":
		return []string{
			fmt.Sprintf("DROP TRIGGER IF EXISTS %v", noUpdate),
			fmt.Sprintf("CREATE TRIGGER %v BEFORE UPDATE ON %v FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = '%v'", noUpdate, table, message),
			fmt.Sprintf("DROP TRIGGER IF EXISTS %v", noDelete),
			fmt.Sprintf("CREATE TRIGGER %v BEFORE DELETE ON %v FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = '%v'", noDelete, table, message),
		}
	default:
		return nil
	}
}
