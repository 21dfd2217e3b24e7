package notify

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// Ledger remembers successful deliveries.
type Ledger interface {
	// Delivered reports whether fingerprint was already sent to email.
	Delivered(ctx context.Context, fingerprint, email string) (bool, error)
	// Record stores a successful delivery.
	Record(ctx context.Context, fingerprint, email string) error
	Close() error
}

// NoopLedger never remembers anything, so every recipient is mailed.
type NoopLedger struct{}

func (NoopLedger) Delivered(context.Context, string, string) (bool, error) { return false, nil }
func (NoopLedger) Record(context.Context, string, string) error           { return nil }
func (NoopLedger) Close() error                                            { return nil }

// SQLiteLedger implements Ledger using SQLite.
type SQLiteLedger struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteLedger opens or creates the ledger at dbPath.
// Use ":memory:" for an in-memory ledger.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "could not open delivery ledger").
			Fatal().
			WithContext("path", dbPath).
			Build()
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	l := &SQLiteLedger{db: db, now: time.Now}
	if err := l.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to initialize delivery ledger").
			Fatal().
			WithContext("path", dbPath).
			Build()
	}
	return l, nil
}

func (l *SQLiteLedger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deliveries (
		fingerprint TEXT NOT NULL,
		email TEXT NOT NULL,
		sent_at INTEGER NOT NULL,
		PRIMARY KEY (fingerprint, email)
	);
	CREATE INDEX IF NOT EXISTS idx_sent_at ON deliveries(sent_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Delivered implements Ledger.
func (l *SQLiteLedger) Delivered(ctx context.Context, fingerprint, email string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var n int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM deliveries WHERE fingerprint = ? AND email = ?",
		fingerprint, email,
	).Scan(&n)
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryInternal, "failed to query delivery ledger").
			Fatal().
			Build()
	}
	return n > 0, nil
}

// Record implements Ledger.
func (l *SQLiteLedger) Record(ctx context.Context, fingerprint, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO deliveries (fingerprint, email, sent_at) VALUES (?, ?, ?)",
		fingerprint, email, l.now().Unix(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to record delivery").
			Fatal().
			Build()
	}
	return nil
}

// Count returns the number of deliveries recorded for fingerprint.
func (l *SQLiteLedger) Count(ctx context.Context, fingerprint string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var n int
	err := l.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM deliveries WHERE fingerprint = ?", fingerprint,
	).Scan(&n)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryInternal, "failed to query delivery ledger").
			Fatal().
			Build()
	}
	return n, nil
}

// Close closes the database connection.
func (l *SQLiteLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}
