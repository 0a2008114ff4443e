package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"wcag-ai/spendguard/pkg/notify"
)

// JournalConfig contains charge journal settings.
type JournalConfig struct {
	// Path is the database file path.
	Path string

	// Buffer is the size of the async write channel.
	// Default: 1000
	Buffer int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultJournalConfig returns the default journal configuration.
func DefaultJournalConfig() *JournalConfig {
	return &JournalConfig{
		Path:        "data/charges.db",
		Buffer:      1000,
		BusyTimeout: 5 * time.Second,
	}
}

// Journal is a notify.Subscriber that writes every accepted charge to
// SQLite from a background worker.
type Journal struct {
	db      *sql.DB
	events  chan notify.CostTracked
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64
	logger  *slog.Logger
}

// NewJournal opens (and if necessary creates) the journal database and
// starts the background writer.
func NewJournal(config *JournalConfig) (*Journal, error) {
	if config == nil {
		config = DefaultJournalConfig()
	}
	if config.Buffer <= 0 {
		config.Buffer = 1000
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open charge journal %q: %w", config.Path, err)
	}

	j := &Journal{
		db:     db,
		events: make(chan notify.CostTracked, config.Buffer),
		done:   make(chan struct{}),
		logger: slog.Default().With("component", "store.journal"),
	}

	if err := j.initialize(config); err != nil {
		db.Close()
		return nil, err
	}

	j.wg.Add(1)
	go j.worker()

	j.logger.Info("charge journal initialized",
		"path", config.Path,
		"buffer", config.Buffer,
	)
	return j, nil
}

func (j *Journal) initialize(config *JournalConfig) error {
	if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d;", config.BusyTimeout.Milliseconds())
		if _, err := j.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS charges (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		actor_id      TEXT NOT NULL,
		class         TEXT NOT NULL,
		cost          TEXT NOT NULL,
		daily_total   TEXT NOT NULL,
		monthly_total TEXT NOT NULL,
		occurred_at   TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_charges_occurred_at ON charges(occurred_at);
	CREATE INDEX IF NOT EXISTS idx_charges_actor ON charges(actor_id);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

// OnCostTracked implements notify.Subscriber. Non-blocking: if the
// buffer is full the event is dropped and counted.
func (j *Journal) OnCostTracked(e notify.CostTracked) {
	select {
	case j.events <- e:
	default:
		if j.dropped.Add(1)%100 == 1 {
			j.logger.Warn("charge journal buffer full, dropping events",
				"dropped_total", j.dropped.Load(),
			)
		}
	}
}

// OnBudgetAlert implements notify.Subscriber. Alerts are not journaled.
func (j *Journal) OnBudgetAlert(e notify.BudgetAlert) {}

// OnKillSwitch implements notify.Subscriber.
func (j *Journal) OnKillSwitch(e notify.KillSwitch) {}

// OnGateReopened implements notify.Subscriber.
func (j *Journal) OnGateReopened(e notify.GateReopened) {}

// Dropped returns the number of events lost to a full buffer.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

func (j *Journal) worker() {
	defer j.wg.Done()

	for {
		select {
		case e := <-j.events:
			j.write(e)
		case <-j.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case e := <-j.events:
					j.write(e)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(e notify.CostTracked) {
	_, err := j.db.Exec(`
		INSERT INTO charges (actor_id, class, cost, daily_total, monthly_total, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ActorID,
		e.OperationClass,
		e.Cost.String(),
		e.DailyTotal.String(),
		e.MonthlyTotal.String(),
		e.Timestamp.UTC(),
	)
	if err != nil {
		j.logger.Error("failed to journal charge",
			"actor", e.ActorID,
			"error", err,
		)
	}
}

// Count returns the number of journaled charges.
func (j *Journal) Count() (int64, error) {
	var n int64
	if err := j.db.QueryRow("SELECT COUNT(*) FROM charges").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journaled charges: %w", err)
	}
	return n, nil
}

// Close stops the writer, drains the buffer, and closes the database.
func (j *Journal) Close() error {
	close(j.done)
	j.wg.Wait()
	return j.db.Close()
}
