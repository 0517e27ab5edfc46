package task

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ternarybob/task/internal/fileutil"
)

// SQLiteFile is the database holding a task's steps for the sqlite backend.
const SQLiteFile = "steps.sqlite"

const stepsSchema = `
	CREATE TABLE IF NOT EXISTS steps (
		label       TEXT PRIMARY KEY,
		description TEXT NOT NULL
	);`

// SQLiteBackend keeps a task's steps in a SQLite table.
type SQLiteBackend struct{}

// Name returns "sqlite".
func (SQLiteBackend) Name() string { return "sqlite" }

// Detect reports whether steps.sqlite exists.
func (SQLiteBackend) Detect(taskDir string) bool {
	return fileutil.IsFile(filepath.Join(taskDir, SQLiteFile))
}

// Open opens (creating if needed) taskDir/steps.sqlite and applies the schema.
func (SQLiteBackend) Open(taskDir string) (StepStore, error) {
	path := filepath.Join(taskDir, SQLiteFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ioErr("open steps database", path, err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = FULL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, ioErr(fmt.Sprintf("pragma %q", p), path, err)
		}
	}

	if _, err := db.Exec(stepsSchema); err != nil {
		db.Close()
		return nil, ioErr("migrate steps database", path, err)
	}

	return &sqliteStore{db: db, path: path}, nil
}

type sqliteStore struct {
	db   *sql.DB
	path string
}

func (s *sqliteStore) Labels() ([]Label, error) {
	rows, err := s.db.Query(`SELECT label FROM steps`)
	if err != nil {
		return nil, ioErr("list steps", s.path, err)
	}
	defer rows.Close()

	var labels []Label
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, ioErr("scan step label", s.path, err)
		}
		if l, ok := ParseLabel(raw); ok {
			labels = append(labels, l)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("list steps", s.path, err)
	}
	return labels, nil
}

func (s *sqliteStore) Read(label Label) (string, error) {
	var desc string
	err := s.db.QueryRow(`SELECT description FROM steps WHERE label = ?`, string(label)).Scan(&desc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("step %s: %w", label, ErrNotFound)
	}
	if err != nil {
		return "", ioErr("read step", s.path, err)
	}
	return desc, nil
}

func (s *sqliteStore) Write(label Label, description string) error {
	_, err := s.db.Exec(
		`INSERT INTO steps (label, description) VALUES (?, ?)
		 ON CONFLICT(label) DO UPDATE SET description = excluded.description`,
		string(label), description,
	)
	if err != nil {
		return ioErr("write step", s.path, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
