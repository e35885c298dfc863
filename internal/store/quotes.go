package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"quotekeeper/internal/model"
)

type Quotes struct{ db *sqlx.DB }

func NewQuotes(db *sqlx.DB) *Quotes { return &Quotes{db: db} }

const quoteCols = `id, user_id, collection_id, text, source, author, page_number,
	is_read, read_count, last_read_at, kindle_highlight_id, created_at, updated_at`

func (s *Quotes) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes
			(user_id, collection_id, text, source, author, page_number,
			 is_read, read_count, kindle_highlight_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, NOW(), NOW())`,
		q.UserID, q.CollectionID, q.Text, q.Source, q.Author, q.PageNumber, q.KindleHighlightID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.ByID(ctx, id)
}

func (s *Quotes) ByID(ctx context.Context, id int64) (*model.Quote, error) {
	var q model.Quote
	err := s.db.GetContext(ctx, &q,
		`SELECT `+quoteCols+` FROM quotes WHERE id=? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ByUser returns the user's quotes in creation order; the weighted selector
// depends on this being stable.
func (s *Quotes) ByUser(ctx context.Context, userID int64) ([]model.Quote, error) {
	out := []model.Quote{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT `+quoteCols+` FROM quotes WHERE user_id=? ORDER BY id`, userID)
	return out, err
}

func (s *Quotes) ByCollection(ctx context.Context, userID, collectionID int64) ([]model.Quote, error) {
	out := []model.Quote{}
	err := s.db.SelectContext(ctx, &out,
		`SELECT `+quoteCols+` FROM quotes WHERE user_id=? AND collection_id=? ORDER BY id`,
		userID, collectionID)
	return out, err
}

func (s *Quotes) ByKindleHighlightID(ctx context.Context, userID int64, highlightID string) (*model.Quote, error) {
	var q model.Quote
	err := s.db.GetContext(ctx, &q,
		`SELECT `+quoteCols+` FROM quotes WHERE user_id=? AND kindle_highlight_id=? LIMIT 1`,
		userID, highlightID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// QuotePatch carries partial updates; nil fields are left untouched.
type QuotePatch struct {
	Text         *string
	Source       *string
	Author       *string
	PageNumber   *int
	CollectionID *int64
}

func (s *Quotes) Update(ctx context.Context, id int64, p QuotePatch) error {
	var set []string
	var args []any
	if p.Text != nil {
		set, args = append(set, "text=?"), append(args, *p.Text)
	}
	if p.Source != nil {
		set, args = append(set, "source=?"), append(args, *p.Source)
	}
	if p.Author != nil {
		set, args = append(set, "author=?"), append(args, *p.Author)
	}
	if p.PageNumber != nil {
		set, args = append(set, "page_number=?"), append(args, *p.PageNumber)
	}
	if p.CollectionID != nil {
		set, args = append(set, "collection_id=?"), append(args, *p.CollectionID)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)
	_, err := s.db.ExecContext(ctx,
		`UPDATE quotes SET `+strings.Join(set, ", ")+` WHERE id=?`, args...)
	return err
}

func (s *Quotes) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id=?`, id)
	return err
}

// MarkRead writes the read flag with an explicit count supplied by the
// caller, who has read the current row. Concurrent calls on one row can lose
// an increment; accepted.
func (s *Quotes) MarkRead(ctx context.Context, id int64, readCount int, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE quotes SET is_read=1, read_count=?, last_read_at=?, updated_at=NOW() WHERE id=?`,
		readCount, at, id)
	return err
}
