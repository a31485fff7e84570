// Package sqlite provides a SQLite-backed implementation of the
// storage.Persister interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is the backend to pick when the roster should be queryable
// with ordinary SQL tooling instead of a text editor.
//
// The backend still honours the snapshot contract: Save replaces the
// whole table inside one transaction, so the stored roster always
// corresponds to exactly one committed mutation.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mustafa-murtaza/studentms/internal/config"
	"github.com/mustafa-murtaza/studentms/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite implementation of storage.Persister.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type Store struct {
	db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath and creates the
// students table if it does not already exist.
//
// The pos column records insertion order — the roster's display order
// is part of its state, and primary keys can be renamed, so ordering by
// id would be wrong.
func New(cfg *config.Config) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			pos   INTEGER PRIMARY KEY,
			id    INTEGER NOT NULL UNIQUE,
			name  TEXT    NOT NULL,
			age   INTEGER NOT NULL,
			grade TEXT    NOT NULL,
			marks INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the full roster in insertion order.
func (s *Store) Load() ([]types.Student, error) {
	rows, err := s.db.Query(
		"SELECT id, name, age, grade, marks FROM students ORDER BY pos",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var st types.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Age, &st.Grade, &st.Marks); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: rows iteration: %w", err)
	}

	return students, nil
}

// Save replaces the stored roster with the given collection inside a
// single transaction — the SQL equivalent of write-full-then-swap.
func (s *Store) Save(students []types.Student) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin tx: %w", err)
	}
	// Rollback is a no-op after a successful Commit, so deferring it
	// covers every early-return path below.
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM students"); err != nil {
		return fmt.Errorf("sqlite.Save: clear table: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO students (pos, id, name, age, grade, marks) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, st := range students {
		if _, err := stmt.Exec(pos, st.ID, st.Name, st.Age, st.Grade, st.Marks); err != nil {
			return fmt.Errorf("sqlite.Save: insert id %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
