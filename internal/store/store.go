package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Fresh database (nothing created yet)
// 1 - queue table with value index
const currentSchemaVersion = 1

// DefaultTable is the table used when no WithTable option is given.
const DefaultTable = "queue"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store provides durable storage for queue records.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db    *sql.DB
	table string
	log   *slog.Logger
}

type options struct {
	table       string
	busyTimeout time.Duration
	synchronous string
	logger      *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithTable stores records in the named table instead of DefaultTable.
// The name must be a plain SQL identifier.
func WithTable(name string) Option {
	return func(o *options) { o.table = name }
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithSynchronous sets PRAGMA synchronous (OFF, NORMAL, FULL or EXTRA).
func WithSynchronous(mode string) Option {
	return func(o *options) { o.synchronous = mode }
}

// WithLogger sets the logger used for migration messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

var synchronousModes = map[string]bool{"OFF": true, "NORMAL": true, "FULL": true, "EXTRA": true}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode unless overridden
//   - 5-second busy timeout unless overridden
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		table:       DefaultTable,
		busyTimeout: 5 * time.Second,
		synchronous: "NORMAL",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !identifierPattern.MatchString(o.table) {
		return nil, fmt.Errorf("invalid table name %q", o.table)
	}
	if !synchronousModes[o.synchronous] {
		return nil, fmt.Errorf("invalid synchronous mode %q", o.synchronous)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, o); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{db: db, table: o.table, log: o.logger}
	if err := s.applySchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Table returns the name of the table holding the records.
func (s *Store) Table() string {
	return s.table
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, o options) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA synchronous = %s", o.synchronous),
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table if it doesn't exist. A version mismatch
// drops the table first.
func (s *Store) applySchema() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version != 0 && version != currentSchemaVersion {
		s.log.Warn("schema version mismatch, recreating table",
			"table", s.table,
			"found", version,
			"want", currentSchemaVersion,
		)
		if _, err := s.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table)); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf(schemaSQL, s.table)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// Insert appends a record and returns the id SQLite allocated for it.
func (s *Store) Insert(ctx context.Context, value string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (value) VALUES (?)", s.table), value)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert: last insert id: %w", err)
	}
	return id, nil
}

// Get returns the value stored under id. The bool is false if no such record exists.
func (s *Store) Get(ctx context.Context, id int64) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE id = ?", s.table), id).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %d: %w", id, err)
	}
	return value.String, true, nil
}

// DeleteByID deletes the record with the given id and returns rows affected.
func (s *Store) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return s.exec(ctx, "delete by id",
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table), id)
}

// DeleteByValue deletes the oldest record holding value and returns rows
// affected (0 or 1).
func (s *Store) DeleteByValue(ctx context.Context, value string) (int64, error) {
	return s.exec(ctx, "delete by value", fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE id = (SELECT MIN(id) FROM %[1]s WHERE value = ?)
	`, s.table), value)
}

// DeleteAll deletes every record and returns rows affected.
// The id sequence is left untouched.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	return s.exec(ctx, "delete all", fmt.Sprintf("DELETE FROM %s", s.table))
}

// ContainsValue reports whether any record holds value.
func (s *Store) ContainsValue(ctx context.Context, value string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE value = ?)", s.table), value).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	return exists, nil
}

// Count returns the number of live records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// MinID returns the smallest live id. The bool is false if the table is empty.
func (s *Store) MinID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx, "min id", fmt.Sprintf("SELECT MIN(id) FROM %s", s.table))
}

// MaxID returns the largest live id. The bool is false if the table is empty.
func (s *Store) MaxID(ctx context.Context) (int64, bool, error) {
	return s.queryID(ctx, "max id", fmt.Sprintf("SELECT MAX(id) FROM %s", s.table))
}

// NextIDAfter returns the smallest live id greater than id.
// The bool is false if there is none.
func (s *Store) NextIDAfter(ctx context.Context, id int64) (int64, bool, error) {
	return s.queryID(ctx, "next id",
		fmt.Sprintf("SELECT MIN(id) FROM %s WHERE id > ?", s.table), id)
}

// queryID runs an aggregate that yields NULL on an empty match.
func (s *Store) queryID(ctx context.Context, op, query string, args ...any) (int64, bool, error) {
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return id.Int64, id.Valid, nil
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}
