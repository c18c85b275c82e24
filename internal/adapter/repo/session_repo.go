package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tutorbot/internal/domain"
)

const sessionColumns = `user_id, username, plan, messages_used, tokens_used, last_reset, education_level, response_style, reply_language, mode, created_at, updated_at`

// SessionRepositoryPG implements domain.SessionStore backed by PostgreSQL.
// Update wraps the read-modify-write in a transaction with SELECT ... FOR
// UPDATE, which gives the same per-user exclusion the in-memory store gets
// from its key lock.
type SessionRepositoryPG struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewSessionRepository creates a new SessionRepositoryPG.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepositoryPG {
	return &SessionRepositoryPG{pool: pool, now: time.Now}
}

// WithClock overrides the repository clock.
func (r *SessionRepositoryPG) WithClock(now func() time.Time) *SessionRepositoryPG {
	r.now = now
	return r
}

// GetOrCreate returns the stored session, inserting first-contact defaults
// when absent.
func (r *SessionRepositoryPG) GetOrCreate(ctx context.Context, userID string) (*domain.Session, error) {
	sess := domain.NewSession(userID, r.now())
	query := `
INSERT INTO sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING ` + sessionColumns + `;
`
	row := r.pool.QueryRow(ctx, query,
		sess.UserID,
		sess.Username,
		sess.Plan,
		sess.Usage.MessagesUsed,
		sess.Usage.TokensUsed,
		sess.Usage.LastReset,
		sess.Level,
		sess.Style,
		sess.Language,
		sess.Mode,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	return scanSession(row)
}

// Get fetches a session by user id.
func (r *SessionRepositoryPG) Get(ctx context.Context, userID string) (*domain.Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1`, userID)
	return scanSession(row)
}

// Update applies fn to the locked row and persists the result. An error from
// fn rolls the transaction back with no state change.
func (r *SessionRepositoryPG) Update(ctx context.Context, userID string, fn func(*domain.Session) error) (*domain.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin session update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 FOR UPDATE`, userID)
	sess, err := scanSession(row)
	if errors.Is(err, domain.ErrNotFound) {
		sess = domain.NewSession(userID, r.now())
	} else if err != nil {
		return nil, err
	}

	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = r.now().UTC()

	query := `
INSERT INTO sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE
SET username = EXCLUDED.username,
    plan = EXCLUDED.plan,
    messages_used = EXCLUDED.messages_used,
    tokens_used = EXCLUDED.tokens_used,
    last_reset = EXCLUDED.last_reset,
    education_level = EXCLUDED.education_level,
    response_style = EXCLUDED.response_style,
    reply_language = EXCLUDED.reply_language,
    mode = EXCLUDED.mode,
    updated_at = EXCLUDED.updated_at;
`
	if _, err := tx.Exec(ctx, query,
		sess.UserID,
		sess.Username,
		sess.Plan,
		sess.Usage.MessagesUsed,
		sess.Usage.TokensUsed,
		sess.Usage.LastReset,
		sess.Level,
		sess.Style,
		sess.Language,
		sess.Mode,
		sess.CreatedAt,
		sess.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit session update: %w", err)
	}
	return sess, nil
}

// List returns every stored session.
func (r *SessionRepositoryPG) List(ctx context.Context) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(
		&s.UserID,
		&s.Username,
		&s.Plan,
		&s.Usage.MessagesUsed,
		&s.Usage.TokensUsed,
		&s.Usage.LastReset,
		&s.Level,
		&s.Style,
		&s.Language,
		&s.Mode,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

var _ domain.SessionStore = (*SessionRepositoryPG)(nil)
