package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"quotekeeper/internal/model"
)

type SyncLogs struct{ db *sqlx.DB }

func NewSyncLogs(db *sqlx.DB) *SyncLogs { return &SyncLogs{db: db} }

const syncLogCols = `id, user_id, synced_at, quotes_added, quotes_duplicated,
	quotes_skipped, status, error_message, created_at`

func (s *SyncLogs) Insert(ctx context.Context, l *model.KindleSyncLog) (*model.KindleSyncLog, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO kindle_sync_log
			(user_id, synced_at, quotes_added, quotes_duplicated, quotes_skipped, status, error_message, created_at)
		VALUES (?, NOW(), ?, ?, ?, ?, ?, NOW())`,
		l.UserID, l.QuotesAdded, l.QuotesDuplicated, l.QuotesSkipped, l.Status, l.ErrorMessage)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var row model.KindleSyncLog
	if err := s.db.GetContext(ctx, &row,
		`SELECT `+syncLogCols+` FROM kindle_sync_log WHERE id=? LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *SyncLogs) LatestByUser(ctx context.Context, userID int64) (*model.KindleSyncLog, error) {
	var row model.KindleSyncLog
	err := s.db.GetContext(ctx, &row,
		`SELECT `+syncLogCols+` FROM kindle_sync_log WHERE user_id=? ORDER BY synced_at DESC, id DESC LIMIT 1`,
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
