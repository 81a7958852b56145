package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/model"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

// DB exposes the underlying handle.
func (c *CommonDB) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	return c.db.Close()
}

// EnsureSchema creates the transcripts table when it does not exist yet.
func (c *CommonDB) EnsureSchema(ctx context.Context) error {
	createdAt := "TIMESTAMP"
	if c.driverName == "postgres" {
		createdAt = "TIMESTAMPTZ"
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transcripts (
		job_id        TEXT PRIMARY KEY,
		original_name TEXT NOT NULL,
		location      TEXT NOT NULL,
		size_bytes    BIGINT NOT NULL DEFAULT 0,
		created_at    %s NOT NULL
	)`, createdAt)

	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return apperrors.Store(err, "create transcripts table")
	}
	return nil
}

// Record upserts a transcript record keyed by job ID.
func (c *CommonDB) Record(ctx context.Context, rec model.TranscriptRecord) error {
	query := fmt.Sprintf(
		`INSERT INTO transcripts (job_id, original_name, location, size_bytes, created_at)
		 VALUES (%s, %s, %s, %s, %s)
		 ON CONFLICT (job_id) DO UPDATE SET
		   original_name = excluded.original_name,
		   location = excluded.location,
		   size_bytes = excluded.size_bytes,
		   created_at = excluded.created_at`,
		c.placeholders(1), c.placeholders(2), c.placeholders(3), c.placeholders(4), c.placeholders(5),
	)

	_, err := c.db.ExecContext(ctx, query, rec.JobID, rec.OriginalName, rec.Location, rec.SizeBytes, rec.CreatedAt.UTC())
	if err != nil {
		return apperrors.Store(err, "insert transcript record %s", rec.JobID)
	}
	return nil
}

// Get retrieves the record of one job
func (c *CommonDB) Get(ctx context.Context, jobID string) (model.TranscriptRecord, error) {
	query := fmt.Sprintf(
		`SELECT job_id, original_name, location, size_bytes, created_at
		 FROM transcripts
		 WHERE job_id = %s`,
		c.placeholders(1),
	)

	var rec model.TranscriptRecord
	err := c.db.QueryRowContext(ctx, query, jobID).Scan(
		&rec.JobID,
		&rec.OriginalName,
		&rec.Location,
		&rec.SizeBytes,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TranscriptRecord{}, apperrors.NotFound("transcript", jobID)
	}
	if err != nil {
		return model.TranscriptRecord{}, apperrors.Store(err, "query transcript record %s", jobID)
	}
	return rec, nil
}

// List retrieves records newest first
func (c *CommonDB) List(ctx context.Context, limit int) ([]model.TranscriptRecord, error) {
	query := `SELECT job_id, original_name, location, size_bytes, created_at
		 FROM transcripts
		 ORDER BY created_at DESC, job_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT " + c.placeholders(1)
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store(err, "query transcript records")
	}
	defer rows.Close()

	records := make([]model.TranscriptRecord, 0)
	for rows.Next() {
		var rec model.TranscriptRecord
		if err := rows.Scan(&rec.JobID, &rec.OriginalName, &rec.Location, &rec.SizeBytes, &rec.CreatedAt); err != nil {
			return nil, apperrors.Store(err, "scan transcript record")
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, apperrors.Store(err, "iterate transcript records")
	}

	return records, nil
}
