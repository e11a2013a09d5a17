package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"plateflow/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing journal databases must then be deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists batch runs backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "journal.db"))
}

// OpenPath connects to an explicit database path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the journal database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// NewBatch inserts a running batch for the given sheet and returns it.
func (s *Store) NewBatch(ctx context.Context, sheetPath, colorspace, codec string) (*Batch, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batches (
            id, sheet_path, colorspace, codec, stage, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		sheetPath,
		nullableString(colorspace),
		nullableString(codec),
		StageNormalize,
		BatchRunning,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return s.GetBatch(ctx, id)
}

// SetStage records a batch's stage transition.
func (s *Store) SetStage(ctx context.Context, batchID string, stage Stage) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"UPDATE batches SET stage = ?, updated_at = ? WHERE id = ?",
		stage, timestamp, batchID)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	return requireRow(res, batchID)
}

// SetCodec records the codec label a batch ended up converting with.
func (s *Store) SetCodec(ctx context.Context, batchID, codec string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"UPDATE batches SET codec = ?, updated_at = ? WHERE id = ?",
		nullableString(codec), timestamp, batchID)
	if err != nil {
		return fmt.Errorf("update codec: %w", err)
	}
	return requireRow(res, batchID)
}

// FinishBatch marks a batch terminal. errorMessage is stored only for failed
// batches.
func (s *Store) FinishBatch(ctx context.Context, batchID string, status BatchStatus, errorMessage string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"UPDATE batches SET status = ?, error_message = ?, updated_at = ? WHERE id = ?",
		status, nullableString(errorMessage), timestamp, batchID)
	if err != nil {
		return fmt.Errorf("finish batch: %w", err)
	}
	return requireRow(res, batchID)
}

// GetBatch fetches one batch by ID.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*Batch, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+batchColumns+" FROM batches WHERE id = ?", batchID)
	batch, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s not found", batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return batch, nil
}

// RecentBatches returns up to limit batches, newest first.
func (s *Store) RecentBatches(ctx context.Context, limit int) ([]*Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+batchColumns+" FROM batches ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// RecordJob appends one shot outcome to a batch.
func (s *Store) RecordJob(ctx context.Context, entry JobEntry) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batch_jobs (
            batch_id, sequence_name, shot_name, version, script_path,
            status, exit_code, duration_ms, detail, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.BatchID,
		entry.Sequence,
		entry.Shot,
		entry.Version,
		nullableString(entry.ScriptPath),
		entry.Status,
		entry.ExitCode,
		entry.Duration.Milliseconds(),
		nullableString(entry.Detail),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// JobsForBatch returns a batch's shot outcomes in insertion order.
func (s *Store) JobsForBatch(ctx context.Context, batchID string) ([]JobEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, sequence_name, shot_name, version, script_path,
            status, exit_code, duration_ms, detail, created_at
        FROM batch_jobs WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var entries []JobEntry
	for rows.Next() {
		entry, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

const batchColumns = "id, sheet_path, colorspace, codec, stage, status, error_message, created_at, updated_at"

func scanBatch(scanner interface{ Scan(dest ...any) error }) (*Batch, error) {
	var (
		id         string
		sheetPath  string
		colorspace sql.NullString
		codec      sql.NullString
		stage      string
		status     string
		errMessage sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&id,
		&sheetPath,
		&colorspace,
		&codec,
		&stage,
		&status,
		&errMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:           id,
		SheetPath:    sheetPath,
		Colorspace:   colorspace.String,
		Codec:        codec.String,
		Stage:        Stage(stage),
		Status:       BatchStatus(status),
		ErrorMessage: errMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		batch.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		batch.UpdatedAt = updated
	}
	return batch, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (JobEntry, error) {
	var (
		entry      JobEntry
		scriptPath sql.NullString
		detail     sql.NullString
		durationMS int64
		createdRaw string
		status     string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.BatchID,
		&entry.Sequence,
		&entry.Shot,
		&entry.Version,
		&scriptPath,
		&status,
		&entry.ExitCode,
		&durationMS,
		&detail,
		&createdRaw,
	); err != nil {
		return JobEntry{}, err
	}
	entry.ScriptPath = scriptPath.String
	entry.Detail = detail.String
	entry.Status = JobStatus(status)
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func requireRow(res sql.Result, batchID string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("batch %s not found", batchID)
	}
	return nil
}
