package records

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/dutybadge/internal/dbx"
	"github.com/dmitrijs2005/dutybadge/internal/server/migrations"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/pressly/goose/v3"
)

// insertBatch bounds the rows per INSERT so a large snapshot stays well
// under the bind-parameter limits of both dialects.
const insertBatch = 500

var userColumns = []string{"user_id", "display_name", "total_duration_ns", "on_duty", "current_start_ns"}
var sessionColumns = []string{"user_id", "seq", "start_ns", "end_ns", "duration_ns"}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// SQLStore keeps users and their closed sessions in two tables. Save
// rewrites both inside one transaction.
type SQLStore struct {
	db      *sql.DB
	dialect dbx.Dialect
	sb      sq.StatementBuilderType
}

// NewSQLStore opens the database, applies pending migrations and returns
// the store. The store owns the connection pool.
func NewSQLStore(ctx context.Context, dialect dbx.Dialect, dsn string) (*SQLStore, error) {
	db, err := dbx.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, ioFailure("open database", err)
	}

	s := newSQLStore(db, dialect)
	if err := s.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, ioFailure("migrate", err)
	}
	return s, nil
}

func newSQLStore(db *sql.DB, dialect dbx.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, sb: dialect.Builder()}
}

// RunMigrations applies the embedded migrations for the store's dialect.
func (s *SQLStore) RunMigrations(ctx context.Context) error {
	var (
		fsys fs.FS = migrations.SQLite
		dir        = "sqlite"
	)
	if s.dialect == dbx.Postgres {
		fsys, dir = migrations.Postgres, "postgres"
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(s.dialect.GooseDialect()); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, dir)
}

func (s *SQLStore) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	byID := map[string]*rawRecord{}
	var order []string

	q, args, err := s.sb.Select(userColumns...).From("users").OrderBy("user_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ioFailure("query users", err)
	}
	for rows.Next() {
		var (
			raw     rawRecord
			totalNS int64
			startNS sql.NullInt64
		)
		if err := rows.Scan(&raw.userID, &raw.displayName, &totalNS, &raw.onDuty, &startNS); err != nil {
			rows.Close()
			return nil, corrupt("scan user: %v", err)
		}
		raw.total = time.Duration(totalNS)
		if startNS.Valid {
			t := time.Unix(0, startNS.Int64)
			raw.currentStart = &t
		}
		byID[raw.userID] = &raw
		order = append(order, raw.userID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, ioFailure("iterate users", err)
	}
	rows.Close()

	q, args, err = s.sb.Select("user_id", "start_ns", "end_ns", "duration_ns").
		From("sessions").OrderBy("user_id", "seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sessions query: %w", err)
	}
	rows, err = s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ioFailure("query sessions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID                string
			startNS, endNS, durNS int64
		)
		if err := rows.Scan(&userID, &startNS, &endNS, &durNS); err != nil {
			return nil, corrupt("scan session: %v", err)
		}
		raw, ok := byID[userID]
		if !ok {
			return nil, corrupt("session for unknown user %s", userID)
		}
		raw.sessions = append(raw.sessions, rawSession{
			start:    time.Unix(0, startNS),
			end:      time.Unix(0, endNS),
			duration: time.Duration(durNS),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, ioFailure("iterate sessions", err)
	}

	raws := make([]rawRecord, 0, len(order))
	for _, id := range order {
		raws = append(raws, *byID[id])
	}
	return buildAll(raws)
}

func (s *SQLStore) Save(ctx context.Context, recs map[string]*models.UserRecord) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range []string{"sessions", "users"} {
			q, args, err := s.sb.Delete(table).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		ids := sortedKeys(recs)

		users := make([][]any, 0, len(ids))
		var sessions [][]any
		for _, id := range ids {
			rec := recs[id]
			var start any
			if since, ok := rec.OpenSince(); ok {
				start = since.UnixNano()
			}
			users = append(users, []any{id, rec.DisplayName, int64(rec.Total), rec.IsOnDuty(), start})
			for i, ses := range rec.Sessions {
				sessions = append(sessions, []any{id, i, ses.Start.UnixNano(), ses.End.UnixNano(), int64(ses.Duration)})
			}
		}

		if err := s.insertRows(ctx, tx, "users", userColumns, users); err != nil {
			return err
		}
		return s.insertRows(ctx, tx, "sessions", sessionColumns, sessions)
	})
	if err != nil {
		return ioFailure("save snapshot", err)
	}
	return nil
}

func (s *SQLStore) insertRows(ctx context.Context, tx dbx.DBTX, table string, columns []string, rows [][]any) error {
	for lo := 0; lo < len(rows); lo += insertBatch {
		hi := min(lo+insertBatch, len(rows))

		ins := s.sb.Insert(table).Columns(columns...)
		for _, row := range rows[lo:hi] {
			ins = ins.Values(row...)
		}
		q, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
