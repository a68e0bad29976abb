package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gsog/shoplist/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.JournalStore = (*Store)(nil)

// DBFile is the journal database file name.
const DBFile = "journal.db"

// DefaultMaxRecords bounds the journal size.
const DefaultMaxRecords = 1000

// defaultRecentLimit is used when Recent is called with a non-positive limit.
const defaultRecentLimit = 20

// Store is the SQLite-backed sync journal.
type Store struct {
	db         *sql.DB
	path       string
	maxRecords int
	now        func() time.Time
}

// NewStore opens or creates the journal in dataDir.
// If dataDir is empty, defaults to ~/.shoplist/files/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".shoplist", "files")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		maxRecords: DefaultMaxRecords,
		now:        time.Now,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SetMaxRecords changes how many records are kept. Zero disables pruning.
func (s *Store) SetMaxRecords(n int) {
	s.maxRecords = n
}

// Append inserts record and prunes the oldest rows beyond the limit.
// ID and At are assigned here.
func (s *Store) Append(ctx context.Context, record domain.JournalRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_journal (origin, entry_count, published, error, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.Origin.String(), record.EntryCount, boolToInt(record.Published), record.Error, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("inserting journal record: %w", err)
	}

	if s.maxRecords > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM sync_journal
			WHERE id NOT IN (SELECT id FROM sync_journal ORDER BY id DESC LIMIT ?)
		`, s.maxRecords)
		if err != nil {
			return fmt.Errorf("pruning journal: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.JournalRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, origin, entry_count, published, error, created_at
		FROM sync_journal
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var records []domain.JournalRecord
	for rows.Next() {
		var (
			rec       domain.JournalRecord
			origin    string
			published int
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &origin, &rec.EntryCount, &published, &rec.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal record: %w", err)
		}
		rec.Origin = domain.Origin(origin)
		rec.Published = published != 0
		rec.At = time.Unix(0, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sync_journal").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting journal: %w", err)
	}
	return n, nil
}

// migrate runs all pending up migrations from fsys.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_journal.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
