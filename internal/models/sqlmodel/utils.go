package sqlmodel

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ErrLedgerImmutable is returned when something tries to change a ledger row.
var ErrLedgerImmutable = errors.New("ledger rows are append-only")

// FormatAuditRecordID renders an audit record ID the way it is exposed outside the database.
func FormatAuditRecordID(i int64) string {
	return snowflake.ParseInt64(i).String()
}
