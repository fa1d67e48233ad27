package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"portal/internal/logger"
)

// DB wraps a gorm handle over Postgres (pgx), MySQL or SQLite.
type DB struct {
	Client *gorm.DB
	Driver string
}

// NewDB opens the database named by driver and dsn with sane pool defaults.
// For sqlite the dsn is a file path or a "file:" URI.
func NewDB(driver, dsn string, log zerolog.Logger) (*DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger.Printf{L: log, Level: zerolog.WarnLevel}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		var sqlDB *sql.DB
		sqlDB, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		gdb, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	case "mysql":
		gdb, err = gorm.Open(mysql.Open(dsn), cfg)
	case "sqlite":
		if dir := sqliteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		gdb, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time; concurrent requests queue on the pool
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{Client: gdb, Driver: driver}
	return db, sqlDB.PingContext(context.Background())
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	sqlDB, err := d.Client.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	sqlDB, err := d.Client.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var sqlitePragmas = [][2]string{
	{"_journal_mode", "WAL"},
	{"_busy_timeout", "5000"},
	{"_foreign_keys", "on"},
}

// sqliteDSN appends the pragmas the store relies on, keeping any the caller
// already set.
func sqliteDSN(dsn string) string {
	base, query, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}
	var extra []string
	for _, p := range sqlitePragmas {
		if !params.Has(p[0]) {
			extra = append(extra, p[0]+"="+p[1])
		}
	}
	if len(extra) == 0 {
		return dsn
	}
	if query == "" {
		return base + "?" + strings.Join(extra, "&")
	}
	return dsn + "&" + strings.Join(extra, "&")
}

// sqliteDir is the directory that must exist for dsn, or "" when none does.
func sqliteDir(dsn string) string {
	file, _, _ := strings.Cut(dsn, "?")
	file = strings.TrimPrefix(file, "file:")
	if file == "" || file == ":memory:" {
		return ""
	}
	if dir := filepath.Dir(file); dir != "." {
		return dir
	}
	return ""
}
