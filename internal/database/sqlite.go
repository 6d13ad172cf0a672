package database

import (
	"database/sql"
	"fmt"

	"intake-go/internal/database/migrations"
	"intake-go/internal/intake"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements intake.Database using SQLite.
type SQLiteDatabase struct {
	db    *sql.DB
	clock intake.Clock
	path  string
}

var _ intake.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase opens the database at path (or ":memory:") and applies all
// pending migrations. A nil clock uses the real time.
func NewSQLiteDatabase(path string, clock intake.Clock) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return NewSQLiteDatabaseFromDB(db, clock, path), nil
}

// NewSQLiteDatabaseFromDB wraps an already configured and migrated connection.
func NewSQLiteDatabaseFromDB(db *sql.DB, clock intake.Clock, path string) *SQLiteDatabase {
	if clock == nil {
		clock = intake.RealClock{}
	}
	return &SQLiteDatabase{db: db, clock: clock, path: path}
}

// OpenConnection opens a SQLite connection with foreign keys enabled.
// The pool holds a single connection: every connection to ":memory:" would
// otherwise see its own empty database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(runID, operation, parameters string) (*intake.Operation, error) {
	op := &intake.Operation{
		RunID:      runID,
		Operation:  operation,
		Parameters: parameters,
		Status:     intake.StatusRunning,
		StartedAt:  s.clock.Now(),
	}
	res, err := s.db.Exec(
		`INSERT INTO operations (run_id, operation, parameters, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		op.RunID, op.Operation, op.Parameters, op.Status, op.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	if op.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return op, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	res, err := s.db.Exec(
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, s.clock.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing operation: no operation with id %d", id)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*intake.Operation, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*intake.Operation
	for rows.Next() {
		op := &intake.Operation{}
		if err := rows.Scan(&op.ID, &op.RunID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Archive history

func (s *SQLiteDatabase) CreateArchive(rec *intake.ArchiveRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clock.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO archives (name, path, file_count, total_bytes, created_at, operation_id) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Path, rec.FileCount, rec.TotalBytes, rec.CreatedAt, rec.OperationID,
	)
	if err != nil {
		return fmt.Errorf("creating archive record: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading archive id: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListArchives() ([]*intake.ArchiveRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, name, path, file_count, total_bytes, created_at, operation_id
		 FROM archives ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	defer rows.Close()

	var recs []*intake.ArchiveRecord
	for rows.Next() {
		r := &intake.ArchiveRecord{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Path, &r.FileCount, &r.TotalBytes, &r.CreatedAt, &r.OperationID); err != nil {
			return nil, fmt.Errorf("scanning archive: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	return recs, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
