// Package mysql adaptadores del kardex sobre MySQL/MariaDB (motor del sistema heredado),
// con database/sql y go-sql-driver/mysql. Mismas consultas que el adaptador PostgreSQL
// con placeholders '?'.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/jhoicas/kardex-api/pkg/config"
)

// DBTX lo implementan *sql.DB y *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open abre el pool y verifica la conexión. Fuerza parseTime para escanear DATE en time.Time.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	dsnCfg, err := driver.ParseDSN(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	dsnCfg.ParseTime = true
	if dsnCfg.Loc == nil {
		dsnCfg.Loc = time.UTC
	}

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return db, nil
}

// isDuplicateEntry verifica si el error es ER_DUP_ENTRY (1062).
func isDuplicateEntry(err error) bool {
	var myErr *driver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func ptrFromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
