// Package sqlite is the embedded quote store. All communities share one table
// partitioned by a community column.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jsamuelsen/quotebook/internal/domain"
)

// BackendName identifies this store in errors, logs and metrics.
const BackendName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	community  TEXT    NOT NULL,
	name       TEXT    NOT NULL,
	name_fold  TEXT    NOT NULL,
	quote      TEXT    NOT NULL,
	created_at INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (community, name)
);
CREATE INDEX IF NOT EXISTS quotes_name_fold ON quotes (community, name_fold);
`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Config configures the embedded store.
type Config struct {
	// Path is the database file, or MemoryPath.
	Path string
}

// Store is a SQLite-backed quote store.
//
// The pool is limited to one connection, so every statement and transaction is
// serialized. Create relies on this: its existence check and insert run in one
// transaction, which keeps names unique under either case policy without a
// policy-specific index.
type Store struct {
	db    *sql.DB
	ready atomic.Bool
	now   func() time.Time
}

// Open opens or creates the database at cfg.Path and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	s.ready.Store(true)

	return s, nil
}

// Close marks the store not ready and closes the database.
func (s *Store) Close() error {
	s.ready.Store(false)
	return s.db.Close()
}

// Name implements store.Backend.
func (s *Store) Name() string {
	return BackendName
}

// Ready implements store.Backend.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// Ping implements store.Backend.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return mapError("ping", err)
	}

	return nil
}

// Get implements ports.QuoteStore.
func (s *Store) Get(ctx context.Context, community, name string, caseSensitive bool) (*domain.Quote, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	return getQuote(ctx, s.db, community, name, caseSensitive)
}

// Create implements ports.QuoteStore.
func (s *Store) Create(ctx context.Context, community string, q domain.Quote, caseSensitive bool) (*domain.Quote, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError("create", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = getQuote(ctx, tx, community, q.Name, caseSensitive)
	switch {
	case err == nil:
		return nil, domain.NewAlreadyExistsError(domain.EntityQuote, q.Name)
	case !domain.IsNotFound(err):
		return nil, err
	}

	created := domain.Quote{
		Community: community,
		Name:      q.Name,
		Text:      q.Text,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quotes (community, name, name_fold, quote, created_at) VALUES (?, ?, ?, ?, ?)`,
		community, created.Name, fold(created.Name), created.Text, created.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewAlreadyExistsError(domain.EntityQuote, q.Name)
		}

		return nil, mapError("create", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError("create", err)
	}

	return &created, nil
}

// Delete implements ports.QuoteStore. Under the case-insensitive policy the
// first match in name order is removed.
func (s *Store) Delete(ctx context.Context, community, name string, caseSensitive bool) (bool, error) {
	if err := s.checkReady(); err != nil {
		return false, err
	}

	query := `DELETE FROM quotes WHERE community = ? AND name = ?`
	args := []any{community, name}

	if !caseSensitive {
		query = `DELETE FROM quotes WHERE rowid = (
			SELECT rowid FROM quotes WHERE community = ? AND name_fold = ? ORDER BY name LIMIT 1)`
		args = []any{community, fold(name)}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, mapError("delete", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError("delete", err)
	}

	return n > 0, nil
}

// Count implements ports.QuoteStore.
func (s *Store) Count(ctx context.Context, community string) (int, error) {
	if err := s.checkReady(); err != nil {
		return 0, err
	}

	var n int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes WHERE community = ?`, community).Scan(&n)
	if err != nil {
		return 0, mapError("count", err)
	}

	return n, nil
}

// ListPage implements ports.QuoteStore. Names sort by their UTF-8 bytes, which
// is code point order.
func (s *Store) ListPage(ctx context.Context, community string, page, perPage int) (*domain.QuotePage, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	if page < 0 || perPage <= 0 {
		return &domain.QuotePage{Names: []string{}}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM quotes WHERE community = ? ORDER BY name LIMIT ? OFFSET ?`,
		community, perPage, page*perPage,
	)
	if err != nil {
		return nil, mapError("list_page", err)
	}
	defer rows.Close()

	names := make([]string, 0, perPage)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError("list_page", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("list_page", err)
	}

	return &domain.QuotePage{Names: names}, nil
}

// MaxPages implements ports.QuoteStore.
func (s *Store) MaxPages(ctx context.Context, community string, perPage int) (int, error) {
	n, err := s.Count(ctx, community)
	if err != nil {
		return 0, err
	}

	return domain.MaxPages(n, perPage), nil
}

func (s *Store) checkReady() error {
	if !s.ready.Load() {
		return domain.NewUnavailableError(BackendName, "not ready")
	}

	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getQuote(ctx context.Context, q queryer, community, name string, caseSensitive bool) (*domain.Quote, error) {
	query := `SELECT name, quote, created_at FROM quotes WHERE community = ? AND name = ?`
	key := name

	if !caseSensitive {
		query = `SELECT name, quote, created_at FROM quotes WHERE community = ? AND name_fold = ? ORDER BY name LIMIT 1`
		key = fold(name)
	}

	var (
		quote     domain.Quote
		createdAt int64
	)

	err := q.QueryRowContext(ctx, query, community, key).Scan(&quote.Name, &quote.Text, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(domain.EntityQuote, name)
	}

	if err != nil {
		return nil, mapError("get", err)
	}

	quote.Community = community
	if createdAt > 0 {
		quote.CreatedAt = time.UnixMilli(createdAt).UTC()
	}

	return &quote, nil
}

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// fold returns the Unicode case-folded form used for case-insensitive matching.
func fold(name string) string {
	return folder.String(name)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}

	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// mapError converts driver errors into domain errors. Lock contention and
// cancelled contexts are transient; everything else is a fault.
func mapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.NewUnavailableError(BackendName, err.Error())
	}

	if errors.Is(err, sql.ErrConnDone) {
		return domain.NewUnavailableError(BackendName, err.Error())
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return domain.NewUnavailableError(BackendName, se.Error())
		}
	}

	return domain.NewFaultError("sqlite "+op, err)
}
