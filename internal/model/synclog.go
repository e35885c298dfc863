package model

import "time"

const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

type KindleSyncLog struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"userId"`
	SyncedAt         time.Time `db:"synced_at" json:"syncedAt"`
	QuotesAdded      int       `db:"quotes_added" json:"quotesAdded"`
	QuotesDuplicated int       `db:"quotes_duplicated" json:"quotesDuplicated"`
	QuotesSkipped    int       `db:"quotes_skipped" json:"quotesSkipped"`
	Status           string    `db:"status" json:"status"`
	ErrorMessage     *string   `db:"error_message" json:"errorMessage"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
