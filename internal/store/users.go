package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"quotekeeper/internal/model"
)

type Users struct{ db *sqlx.DB }

func NewUsers(db *sqlx.DB) *Users { return &Users{db: db} }

type UpsertUser struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
	// Role is applied as-is when non-empty; otherwise inserts default to
	// "user" and updates keep the existing role.
	Role string
}

// Upsert creates or refreshes the user row keyed by open_id and returns the
// row id. last_signed_in is bumped on every call.
func (s *Users) Upsert(ctx context.Context, u UpsertUser) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (open_id, name, email, login_method, role, last_signed_in, created_at, updated_at)
		VALUES (?, ?, ?, ?, COALESCE(NULLIF(?, ''), 'user'), NOW(), NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			email = VALUES(email),
			login_method = VALUES(login_method),
			role = COALESCE(NULLIF(?, ''), role),
			last_signed_in = NOW(),
			updated_at = NOW(),
			id = LAST_INSERT_ID(id)
	`, u.OpenID, u.Name, u.Email, u.LoginMethod, u.Role, u.Role)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		var fetched int64
		if e := s.db.GetContext(ctx, &fetched, `SELECT id FROM users WHERE open_id=? LIMIT 1`, u.OpenID); e != nil {
			return 0, e
		}
		return fetched, nil
	}
	return id, nil
}

func (s *Users) ByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, open_id, name, email, login_method, role, last_signed_in, created_at, updated_at
		FROM users WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) ByOpenID(ctx context.Context, openID string) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, open_id, name, email, login_method, role, last_signed_in, created_at, updated_at
		FROM users WHERE open_id=? LIMIT 1`, openID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
