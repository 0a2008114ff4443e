package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite audit store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite audit configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/audit.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite with WAL mode enabled.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (and if necessary creates) the audit database.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", config.Path, err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "audit.sqlite"),
	}

	if err := s.initialize(config); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("audit store initialized", "path", config.Path)
	return s, nil
}

func (s *SQLiteStore) initialize(config *SQLiteConfig) error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d;", config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS audit_records (
		id                  TEXT PRIMARY KEY,
		kind                TEXT NOT NULL,
		actor               TEXT NOT NULL,
		authorized          INTEGER NOT NULL,
		prior_daily_spend   TEXT NOT NULL,
		prior_monthly_spend TEXT NOT NULL,
		old_daily_limit     TEXT NOT NULL,
		new_daily_limit     TEXT NOT NULL,
		reason              TEXT,
		created_at          TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_records(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create audit schema: %w", err)
	}

	return nil
}

// Append writes a record.
func (s *SQLiteStore) Append(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records (
			id, kind, actor, authorized,
			prior_daily_spend, prior_monthly_spend,
			old_daily_limit, new_daily_limit,
			reason, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		string(record.Kind),
		record.Actor,
		boolToInt(record.Authorized),
		record.PriorDailySpend.String(),
		record.PriorMonthlySpend.String(),
		record.OldDailyLimit.String(),
		record.NewDailyLimit.String(),
		record.Reason,
		record.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, actor, authorized,
		       prior_daily_spend, prior_monthly_spend,
		       old_daily_limit, new_daily_limit,
		       reason, created_at
		FROM audit_records
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var authorized int
		var priorDaily, priorMonthly, oldLimit, newLimit string
		if err := rows.Scan(
			&r.ID, (*string)(&r.Kind), &r.Actor, &authorized,
			&priorDaily, &priorMonthly, &oldLimit, &newLimit,
			&r.Reason, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		r.Authorized = authorized != 0
		if r.PriorDailySpend, err = parseAmount(priorDaily); err != nil {
			return nil, err
		}
		if r.PriorMonthlySpend, err = parseAmount(priorMonthly); err != nil {
			return nil, err
		}
		if r.OldDailyLimit, err = parseAmount(oldLimit); err != nil {
			return nil, err
		}
		if r.NewDailyLimit, err = parseAmount(newLimit); err != nil {
			return nil, err
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q in audit record: %w", s, err)
	}
	return d, nil
}
