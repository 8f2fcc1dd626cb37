package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDriver is go-sqlite3 with a Unicode aware lower-casing function.
// SQLite's built-in LOWER only folds ASCII.
const SQLiteDriver = "sqlite3_unicode"

// UnicodeLowerFunc is the SQL name of strings.ToLower on SQLiteDriver connections
const UnicodeLowerFunc = "unicode_lower"

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(UnicodeLowerFunc, strings.ToLower, true)
		},
	})
}

// OpenSQLite returns a dialector for dsn on SQLiteDriver
func OpenSQLite(dsn string) gorm.Dialector {
	return &sqlite.Dialector{DriverName: SQLiteDriver, DSN: dsn}
}

// GormConfig is the gorm configuration shared by the server and tests.
// Timestamps are stamped in UTC so text comparisons on sqlite line up with UTC query bounds.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// LowerExpr wraps a column or placeholder in the case folding function the connection supports
func LowerExpr(tx *gorm.DB, expr string) string {
	if d, ok := tx.Dialector.(*sqlite.Dialector); ok && d.DriverName == SQLiteDriver {
		return UnicodeLowerFunc + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}
