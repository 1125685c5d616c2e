// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package patterns

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/contact-engine/pkg/types"
)

// SQLiteStore persists patterns in a SQLite database. All mutations go
// through a single-writer lock; reads run concurrently against WAL
// snapshots.
type SQLiteStore struct {
	db *sql.DB

	// writeMu serializes all mutations.
	writeMu sync.Mutex
}

// NewSQLiteStore opens or creates the pattern database at path, creating
// parent directories and the schema as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating pattern store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening pattern database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS patterns (
		pattern TEXT PRIMARY KEY,
		decision TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(signature string) (types.UserDecision, bool, error) {
	var decision string
	err := s.db.QueryRow(
		`SELECT decision FROM patterns WHERE pattern = ?`, signature,
	).Scan(&decision)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading pattern %q: %w", signature, err)
	}
	return types.UserDecision(decision), true, nil
}

func (s *SQLiteStore) Put(signature string, decision types.UserDecision) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.Exec(
		`INSERT INTO patterns (pattern, decision, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(pattern) DO UPDATE SET decision=excluded.decision, created_at=excluded.created_at`,
		signature, string(decision), createdAt,
	)
	if err != nil {
		return fmt.Errorf("storing pattern %q: %w", signature, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(signature string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM patterns WHERE pattern = ?`, signature); err != nil {
		return fmt.Errorf("deleting pattern %q: %w", signature, err)
	}
	return nil
}

func (s *SQLiteStore) List() ([]types.DuplicatePattern, error) {
	rows, err := s.db.Query(`SELECT pattern, decision, created_at FROM patterns ORDER BY pattern`)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	defer rows.Close()

	var out []types.DuplicatePattern
	for rows.Next() {
		var p types.DuplicatePattern
		var decision, createdAt string
		if err := rows.Scan(&p.Pattern, &decision, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning pattern row: %w", err)
		}
		p.Decision = types.UserDecision(decision)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			p.CreatedAt = t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pattern rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM patterns`); err != nil {
		return fmt.Errorf("clearing patterns: %w", err)
	}
	return nil
}
