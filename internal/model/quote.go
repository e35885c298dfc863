package model

import "time"

type Quote struct {
	ID                int64      `db:"id" json:"id"`
	UserID            int64      `db:"user_id" json:"userId"`
	CollectionID      int64      `db:"collection_id" json:"collectionId"`
	Text              string     `db:"text" json:"text"`
	Source            *string    `db:"source" json:"source"`
	Author            *string    `db:"author" json:"author"`
	PageNumber        *int       `db:"page_number" json:"pageNumber"`
	IsRead            bool       `db:"is_read" json:"isRead"`
	ReadCount         int        `db:"read_count" json:"readCount"`
	LastReadAt        *time.Time `db:"last_read_at" json:"lastReadAt"`
	KindleHighlightID *string    `db:"kindle_highlight_id" json:"kindleHighlightId"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

func (q *Quote) OwnerID() int64 { return q.UserID }
