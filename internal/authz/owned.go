// Package authz centralizes the ownership policy: a row that is absent or
// owned by another user is reported as not found, never forbidden, so
// non-owners learn nothing about which IDs exist.
package authz

import (
	"quotekeeper/internal/apperr"
)

type Owned interface {
	OwnerID() int64
}

// Require returns the entity when it exists and belongs to callerID,
// otherwise a NOT_FOUND error named after what ("collection", "quote", ...).
func Require[T any, PT interface {
	*T
	Owned
}](e PT, callerID int64, what string) (PT, error) {
	if e == nil || e.OwnerID() != callerID {
		return nil, apperr.NotFound(what + " not found")
	}
	return e, nil
}
