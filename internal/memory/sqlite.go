package memory

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/averyli/tutorchat/internal/model"
)

// timeLayout is a fixed-width UTC timestamp. Unlike RFC3339Nano it never
// trims fractional zeros, so lexicographic order on the stored strings
// matches time order; the ORDER BY and cutoff comparisons depend on that.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite. It also holds the append-only
// conversation ledger.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id         TEXT PRIMARY KEY,
		user       TEXT NOT NULL,
		category   TEXT NOT NULL,
		type       TEXT,
		prompt     TEXT,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_user_cat ON records(user, category, created_at DESC);

	CREATE TABLE IF NOT EXISTS exchanges (
		id            TEXT PRIMARY KEY,
		user          TEXT NOT NULL,
		mode          TEXT NOT NULL,
		prompt        TEXT NOT NULL,
		reply         TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		total_tokens  INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_user ON exchanges(user, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Record(ctx context.Context, rec model.Record) error {
	capacity, window := policyFor(rec.Category)
	now := time.Now().UTC()
	created := rec.CreatedAt.UTC()
	if created.IsZero() || created.After(now) {
		created = now
	}
	id := rec.ID
	if id == "" {
		id = s.newID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, user, category, type, prompt, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.User, rec.Category, rec.Type, rec.Prompt, rec.Content,
		created.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	// Truncate to capacity, newest kept
	_, err = tx.ExecContext(ctx,
		`DELETE FROM records WHERE user = ? AND category = ? AND id NOT IN (
			SELECT id FROM records WHERE user = ? AND category = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		)`,
		rec.User, rec.Category, rec.User, rec.Category, capacity)
	if err != nil {
		return fmt.Errorf("truncate records: %w", err)
	}

	// Drop entries past the age window
	cutoff := now.Add(-window).Format(timeLayout)
	_, err = tx.ExecContext(ctx,
		`DELETE FROM records WHERE user = ? AND category = ? AND created_at < ?`,
		rec.User, rec.Category, cutoff)
	if err != nil {
		return fmt.Errorf("expire records: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) Query(ctx context.Context, user, category string) ([]model.Record, error) {
	capacity, window := policyFor(category)
	cutoff := time.Now().UTC().Add(-window).Format(timeLayout)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, category, type, prompt, content, created_at
		 FROM records WHERE user = ? AND category = ? AND created_at >= ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		user, category, cutoff, capacity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		var typ, prompt sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.User, &r.Category, &typ, &prompt, &r.Content, &createdAt); err != nil {
			return nil, err
		}
		r.Type = typ.String
		r.Prompt = prompt.String
		r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context, user, category string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE user = ? AND category = ?`, user, category)
	return err
}

// SaveExchange appends one prompt/reply pair to the conversation ledger.
func (s *SQLiteStore) SaveExchange(ctx context.Context, ex model.Exchange) error {
	if ex.ID == "" {
		ex.ID = s.newID()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (id, user, mode, prompt, reply, input_tokens, output_tokens, total_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.User, ex.Mode, ex.Prompt, ex.Reply,
		ex.InputTokens, ex.OutputTokens, ex.TotalTokens,
		ex.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

// Exchanges returns a user's conversation history, oldest first.
func (s *SQLiteStore) Exchanges(ctx context.Context, user string) ([]model.Exchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, mode, prompt, reply, input_tokens, output_tokens, total_tokens, created_at
		 FROM exchanges WHERE user = ? ORDER BY created_at, id`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExchanges(rows)
}

// RecentExchanges returns a user's last n exchanges in the given mode,
// oldest first.
func (s *SQLiteStore) RecentExchanges(ctx context.Context, user, mode string, n int) ([]model.Exchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, mode, prompt, reply, input_tokens, output_tokens, total_tokens, created_at
		 FROM exchanges WHERE user = ? AND mode = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, user, mode, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchanges, err := scanExchanges(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
	return exchanges, nil
}

func scanExchanges(rows *sql.Rows) ([]model.Exchange, error) {
	var exchanges []model.Exchange
	for rows.Next() {
		var ex model.Exchange
		var createdAt string
		if err := rows.Scan(&ex.ID, &ex.User, &ex.Mode, &ex.Prompt, &ex.Reply,
			&ex.InputTokens, &ex.OutputTokens, &ex.TotalTokens, &createdAt); err != nil {
			return nil, err
		}
		ex.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
