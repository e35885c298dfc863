package quote

import (
	"context"
	"math/rand/v2"
	"time"

	"quotekeeper/internal/authz"
	"quotekeeper/internal/model"
)

const (
	weightUnread = 3
	weightRead   = 1
)

type Store interface {
	ByUser(ctx context.Context, userID int64) ([]model.Quote, error)
	ByID(ctx context.Context, id int64) (*model.Quote, error)
	MarkRead(ctx context.Context, id int64, readCount int, at time.Time) error
}

// Service holds the non-CRUD quote behaviors: the weighted random selector
// and mark-as-read. Randomness and clock are injectable for tests.
type Service struct {
	store     Store
	randFloat func() float64
	now       func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store:     store,
		randFloat: rand.Float64,
		now:       time.Now,
	}
}

// Random picks one of the user's quotes, weighting unread ones 3x. Returns
// (nil, nil) when the user has no quotes. Quotes are walked in creation
// order, as returned by the store.
func (s *Service) Random(ctx context.Context, userID int64) (*model.Quote, error) {
	quotes, err := s.store.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}

	totalWeight := 0
	for _, q := range quotes {
		totalWeight += weight(q)
	}

	r := s.randFloat() * float64(totalWeight)
	for i := range quotes {
		r -= float64(weight(quotes[i]))
		if r <= 0 {
			return &quotes[i], nil
		}
	}

	// Unreachable given the loop invariant; uniform fallback kept anyway.
	i := int(s.randFloat() * float64(len(quotes)))
	if i >= len(quotes) {
		i = len(quotes) - 1
	}
	return &quotes[i], nil
}

// MarkAsRead sets the read flag and bumps the counter off the fetched row.
// Concurrent calls on the same quote can lose an increment; accepted.
func (s *Service) MarkAsRead(ctx context.Context, userID, id int64) error {
	q, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	q, err = authz.Require(q, userID, "quote")
	if err != nil {
		return err
	}
	return s.store.MarkRead(ctx, q.ID, q.ReadCount+1, s.now())
}

func weight(q model.Quote) int {
	if q.IsRead {
		return weightRead
	}
	return weightUnread
}
