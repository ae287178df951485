// Package pgstore keeps session records in PostgreSQL.
//
// Rows are keyed by sha256(token); raw tokens never reach the database.
// Apply the embedded schema with pg.Migrate(ctx, pool, pgstore.Migrations,
// pgstore.MigrationsDir, cfg, log) before use.
package pgstore

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/websession/pkg/pg"
	"github.com/dmitrymomot/websession/pkg/session"
)

// Migrations holds the goose migrations for the sessions table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements session.Store and session.UserRevoker on PostgreSQL.
type Store struct {
	db  DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to hide expired rows.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store on db.
func New(db DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ session.Store       = (*Store)(nil)
	_ session.UserRevoker = (*Store)(nil)
)

const (
	saveQuery = `
INSERT INTO sessions (token_hash, session_id, user_id, remember, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (token_hash) DO UPDATE SET
    session_id = EXCLUDED.session_id,
    user_id = EXCLUDED.user_id,
    remember = EXCLUDED.remember,
    created_at = EXCLUDED.created_at,
    expires_at = EXCLUDED.expires_at`

	getQuery = `
SELECT session_id, user_id, remember, created_at, expires_at
FROM sessions
WHERE token_hash = $1 AND expires_at >= $2`

	deleteQuery        = `DELETE FROM sessions WHERE token_hash = $1`
	deleteByUserQuery  = `DELETE FROM sessions WHERE user_id = $1`
	deleteExpiredQuery = `DELETE FROM sessions WHERE expires_at < $1`
)

// Save upserts rec under token.
func (s *Store) Save(ctx context.Context, token string, rec session.Record) error {
	if token == "" || rec.UserID == "" || rec.ID == "" {
		return session.ErrInvalidRecord
	}

	_, err := s.db.Exec(ctx, saveQuery,
		session.TokenKey(token), rec.ID, rec.UserID, rec.Remember, rec.CreatedAt, rec.ExpiresAt)
	return err
}

// Get returns the live record for token or session.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, token string) (session.Record, error) {
	var rec session.Record
	err := s.db.QueryRow(ctx, getQuery, session.TokenKey(token), s.now()).
		Scan(&rec.ID, &rec.UserID, &rec.Remember, &rec.CreatedAt, &rec.ExpiresAt)
	if pg.IsNotFoundError(err) {
		return session.Record{}, session.ErrSessionNotFound
	}
	if err != nil {
		return session.Record{}, err
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	return rec, nil
}

// Delete removes the row for token. Unknown tokens are ignored.
func (s *Store) Delete(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, deleteQuery, session.TokenKey(token))
	return err
}

// DeleteByUserID removes every session of userID.
func (s *Store) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, deleteByUserQuery, userID)
	return err
}

// DeleteExpired removes expired rows and reports how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredQuery, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RunCleanup calls DeleteExpired every interval until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration, onError func(error)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.DeleteExpired(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
