package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"quotekeeper/internal/model"
)

// Whitelist stores the allow-list of emails permitted to use the app.
// Emails are case-folded to lowercase at this boundary.
type Whitelist struct{ db *sqlx.DB }

func NewWhitelist(db *sqlx.DB) *Whitelist { return &Whitelist{db: db} }

func (s *Whitelist) Contains(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM email_whitelist WHERE email=?`, strings.ToLower(email))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Whitelist) Add(ctx context.Context, email string, addedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO email_whitelist (email, added_by, created_at, updated_at) VALUES (?, ?, NOW(), NOW())`,
		strings.ToLower(email), addedBy)
	return err
}

func (s *Whitelist) Remove(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM email_whitelist WHERE email=?`, strings.ToLower(email))
	return err
}

func (s *Whitelist) All(ctx context.Context) ([]model.WhitelistEntry, error) {
	entries := []model.WhitelistEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, email, added_by, created_at, updated_at
		FROM email_whitelist ORDER BY id`)
	return entries, err
}
