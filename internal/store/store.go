// Package store holds the sqlx repositories backing the API. Lookups that
// miss return (nil, nil) rather than sql.ErrNoRows so callers can apply the
// ownership policy themselves.
package store

import "github.com/jmoiron/sqlx"

type Store struct {
	Users       *Users
	Whitelist   *Whitelist
	Collections *Collections
	Quotes      *Quotes
	SyncLogs    *SyncLogs
	Sessions    *Sessions
}

func New(db *sqlx.DB) *Store {
	return &Store{
		Users:       NewUsers(db),
		Whitelist:   NewWhitelist(db),
		Collections: NewCollections(db),
		Quotes:      NewQuotes(db),
		SyncLogs:    NewSyncLogs(db),
		Sessions:    NewSessions(db),
	}
}
