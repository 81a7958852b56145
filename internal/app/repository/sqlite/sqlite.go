package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	apperrors "audio-transcriber/internal/app/errors"
	"audio-transcriber/internal/app/repository"
	"audio-transcriber/internal/app/util/files"
)

type SQLiteDB struct {
	*repository.CommonDB
}

var _ repository.TranscriptDAO = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database file and its schema.
// ":memory:" opens a private in-memory database.
func NewSQLiteDB(ctx context.Context, dbFilePath string) (*SQLiteDB, error) {
	dsn := ":memory:"
	if dbFilePath != ":memory:" {
		if err := files.EnsureDir(filepath.Dir(dbFilePath)); err != nil {
			return nil, apperrors.Store(err, "create database directory")
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.Store(err, "open sqlite database")
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	sdb := &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}
	if err := sdb.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return sdb, nil
}
