package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dutybadge/internal/dbx"
)

// Storage backend names accepted by Open.
const (
	TypeFile     = "file"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeS3       = "s3"
	TypeMemory   = "memory"
)

// DefaultSQLiteFile is used when the sqlite backend has no DSN.
const DefaultSQLiteFile = "dutybadge.db"

// Options selects and configures a backend.
type Options struct {
	Type        string
	DataFile    string
	DatabaseDSN string
	S3          S3Options
}

// Open constructs the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case TypeFile, "":
		if opts.DataFile == "" {
			return nil, fmt.Errorf("file storage requires a data file path")
		}
		return NewFileStore(opts.DataFile), nil
	case TypeSQLite:
		dsn := opts.DatabaseDSN
		if dsn == "" {
			dsn = DefaultSQLiteFile
		}
		return NewSQLStore(ctx, dbx.SQLite, dsn)
	case TypePostgres:
		if opts.DatabaseDSN == "" {
			return nil, fmt.Errorf("postgres storage requires a database DSN")
		}
		return NewSQLStore(ctx, dbx.Postgres, opts.DatabaseDSN)
	case TypeS3:
		return NewS3Store(ctx, opts.S3)
	case TypeMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}
