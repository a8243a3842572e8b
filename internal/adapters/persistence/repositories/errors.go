package repositories

import (
	"errors"
	"strings"

	"courrier-registry/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// uniqueColumn maps a unique column to the field name reported to clients
type uniqueColumn struct {
	table  string
	column string
	field  string
}

// matches reports whether a lower-cased driver message names this column or its index
func (c uniqueColumn) matches(msg string) bool {
	return strings.Contains(msg, "idx_"+c.table+"_"+c.column) ||
		strings.Contains(msg, c.table+"."+c.column)
}

// isDuplicate reports whether err is a unique-constraint violation on any driver
func isDuplicate(db *gorm.DB, err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}

	if t, ok := db.Dialector.(gorm.ErrorTranslator); ok {
		if errors.Is(t.Translate(err), gorm.ErrDuplicatedKey) {
			return true
		}
	}
	return false
}

// translateWriteError turns a failed insert/update into a domain error. Unique
// violations become Conflict on the column named by the driver message; the
// value is taken from values (keyed by field).
func translateWriteError(db *gorm.DB, err error, entity string, columns []uniqueColumn, values map[string]string) error {
	if err == nil {
		return nil
	}
	if !isDuplicate(db, err) {
		return domain.StorageFault("write "+entity, err)
	}

	// MySQL: "Duplicate entry 'x' for key 'users.idx_users_email'"
	// Postgres: `duplicate key value violates unique constraint "idx_users_email"`
	// SQLite: "UNIQUE constraint failed: users.email"
	msg := strings.ToLower(err.Error())
	for _, c := range columns {
		if c.matches(msg) {
			return domain.Conflict(entity, c.field, values[c.field])
		}
	}
	if len(columns) == 1 {
		return domain.Conflict(entity, columns[0].field, values[columns[0].field])
	}
	return domain.Conflict(entity, "unique key", "")
}
