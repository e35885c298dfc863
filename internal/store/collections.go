package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"quotekeeper/internal/model"
)

type Collections struct{ db *sqlx.DB }

func NewCollections(db *sqlx.DB) *Collections { return &Collections{db: db} }

const collectionCols = `id, user_id, name, description, color, created_at, updated_at`

func (s *Collections) Create(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (user_id, name, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		c.UserID, c.Name, c.Description, c.Color)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.ByID(ctx, id)
}

func (s *Collections) ByID(ctx context.Context, id int64) (*model.Collection, error) {
	var c model.Collection
	err := s.db.GetContext(ctx, &c,
		`SELECT `+collectionCols+` FROM collections WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Collections) ByUser(ctx context.Context, userID int64) ([]model.Collection, error) {
	out := []model.Collection{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT `+collectionCols+` FROM collections WHERE user_id=? ORDER BY id`, userID)
	return out, err
}

// CollectionPatch carries partial updates; nil fields are left untouched.
type CollectionPatch struct {
	Name        *string
	Description *string
	Color       *string
}

func (s *Collections) Update(ctx context.Context, id int64, p CollectionPatch) error {
	var set []string
	var args []any
	if p.Name != nil {
		set, args = append(set, "name=?"), append(args, *p.Name)
	}
	if p.Description != nil {
		set, args = append(set, "description=?"), append(args, *p.Description)
	}
	if p.Color != nil {
		set, args = append(set, "color=?"), append(args, *p.Color)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	_, err := s.db.ExecContext(ctx,
		`UPDATE collections SET `+strings.Join(set, ", ")+` WHERE id=?`, args...)
	return err
}

// Delete removes the collection and its quotes in one transaction.
func (s *Collections) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE collection_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
