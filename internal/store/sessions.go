package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Sessions keeps an audit trail of issued sessions. The authoritative
// session lookup lives in Redis; these rows are history only.
type Sessions struct{ db *sqlx.DB }

func NewSessions(db *sqlx.DB) *Sessions { return &Sessions{db: db} }

func (s *Sessions) Insert(ctx context.Context, sid string, userID int64, ip, userAgent string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sessions (id, user_id, ip, user_agent, created_at) VALUES (?, ?, ?, ?, NOW())`,
		sid, userID, ip, userAgent)
	return err
}
