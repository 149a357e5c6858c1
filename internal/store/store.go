package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Hosted Postgres driver.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store holds the database handle and provides access to repositories.
// Statements are built with ent's dialect-aware builder so the same
// repository code runs against SQLite and Postgres.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database, applies SQLite pragmas when relevant and
// creates missing tables.
func Open(driver, dsn string) (*Store, error) {
	var d string
	switch driver {
	case DriverSQLite, "":
		driver, d = DriverSQLite, dialect.SQLite
	case DriverPostgres:
		d = dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if d == dialect.SQLite {
		// One writer; also keeps a shared in-memory database alive.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{db: db, dialect: d}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name ("sqlite3" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lessons returns a LessonRepo backed by this store.
func (s *Store) Lessons() LessonRepo {
	return &lessonRepo{s: s}
}

// Categories returns a CategoryRepo backed by this store.
func (s *Store) Categories() CategoryRepo {
	return &categoryRepo{s: s}
}

// Assignments returns an AssignmentRepo backed by this store.
func (s *Store) Assignments() AssignmentRepo {
	return &assignmentRepo{s: s}
}

// Submissions returns a SubmissionRepo backed by this store.
func (s *Store) Submissions() SubmissionRepo {
	return &submissionRepo{s: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// applyPragmas configures SQLite for a single-process service.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the SQLite file path in priority order:
// 1. TINYSTEPS_DB environment variable
// 2. $XDG_DATA_HOME/tinysteps/tinysteps.db
// 3. ~/.local/share/tinysteps/tinysteps.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("TINYSTEPS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dataDir, "tinysteps.db")
	return p, EnsureDir(p)
}

// DataDir returns the tinysteps data directory under XDG_DATA_HOME.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tinysteps"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
