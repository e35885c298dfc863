package quote

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotekeeper/internal/apperr"
	"quotekeeper/internal/model"
)

type fakeStore struct {
	rows   map[int64]*model.Quote
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]*model.Quote{}}
}

func (f *fakeStore) add(userID int64, text string, isRead bool) *model.Quote {
	f.nextID++
	q := &model.Quote{ID: f.nextID, UserID: userID, CollectionID: 1, Text: text, IsRead: isRead}
	f.rows[q.ID] = q
	return q
}

func (f *fakeStore) ByUser(_ context.Context, userID int64) ([]model.Quote, error) {
	out := []model.Quote{}
	for _, q := range f.rows {
		if q.UserID == userID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ByID(_ context.Context, id int64) (*model.Quote, error) {
	q, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id int64, readCount int, at time.Time) error {
	q := f.rows[id]
	q.IsRead = true
	q.ReadCount = readCount
	q.LastReadAt = &at
	return nil
}

func TestRandomEmptySetReturnsNil(t *testing.T) {
	svc := NewService(newFakeStore())

	q, err := svc.Random(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestRandomSingleQuoteAlwaysReturned(t *testing.T) {
	st := newFakeStore()
	want := st.add(1, "Memento mori", false)
	svc := NewService(st)

	for i := 0; i < 100; i++ {
		q, err := svc.Random(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, want.ID, q.ID)
	}
}

func TestRandomNeverReturnsForeignQuote(t *testing.T) {
	st := newFakeStore()
	st.add(1, "mine", false)
	st.add(2, "theirs", false)
	st.add(2, "also theirs", true)
	svc := NewService(st)

	for i := 0; i < 500; i++ {
		q, err := svc.Random(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, int64(1), q.UserID)
	}
}

// One unread and one read quote: the unread one carries weight 3 of 4, so it
// should win close to 75% of draws.
func TestRandomWeightsUnreadThreeToOne(t *testing.T) {
	st := newFakeStore()
	unread := st.add(1, "unread", false)
	st.add(1, "read", true)
	svc := NewService(st)

	const draws = 20000
	hits := 0
	for i := 0; i < draws; i++ {
		q, err := svc.Random(context.Background(), 1)
		require.NoError(t, err)
		if q.ID == unread.ID {
			hits++
		}
	}

	assert.InDelta(t, 0.75, float64(hits)/draws, 0.03)
}

// A draw at the very top of the range lands on the last quote; the walk
// never exhausts for r < totalWeight, so the uniform fallback stays dormant.
func TestRandomUpperEdgeDraw(t *testing.T) {
	st := newFakeStore()
	st.add(1, "a", false)
	last := st.add(1, "b", true)
	svc := NewService(st)
	svc.randFloat = func() float64 { return 0.999999 }

	q, err := svc.Random(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, last.ID, q.ID)
}

func TestMarkAsReadIncrementsEachCall(t *testing.T) {
	st := newFakeStore()
	q := st.add(1, "twice", false)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(st)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.MarkAsRead(context.Background(), 1, q.ID))
	require.NoError(t, svc.MarkAsRead(context.Background(), 1, q.ID))

	got := st.rows[q.ID]
	assert.True(t, got.IsRead)
	assert.Equal(t, 2, got.ReadCount)
	require.NotNil(t, got.LastReadAt)
	assert.Equal(t, now, *got.LastReadAt)
}

func TestMarkAsReadOwnershipIsolation(t *testing.T) {
	st := newFakeStore()
	q := st.add(2, "not yours", false)
	svc := NewService(st)

	err := svc.MarkAsRead(context.Background(), 1, q.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)

	err = svc.MarkAsRead(context.Background(), 1, 999)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
}
