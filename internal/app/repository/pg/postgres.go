package pg

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/repository"
)

type PostgresDB struct {
	*repository.CommonDB
}

var _ repository.TranscriptDAO = (*PostgresDB)(nil)

// NewPostgresDB opens a connection pool; the connection itself is established lazily.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, apperrors.Store(err, "open postgres database")
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing handle.
func NewWithDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}
}

// Open connects and makes sure the schema exists.
func Open(ctx context.Context, connectionString string) (*PostgresDB, error) {
	pdb, err := NewPostgresDB(connectionString)
	if err != nil {
		return nil, err
	}
	if err := pdb.DB().PingContext(ctx); err != nil {
		pdb.Close()
		return nil, apperrors.Store(err, "connect to postgres")
	}
	if err := pdb.EnsureSchema(ctx); err != nil {
		pdb.Close()
		return nil, err
	}
	return pdb, nil
}
