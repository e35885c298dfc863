package quote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotekeeper/internal/apperr"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/store"
)

type fakeFullStore struct {
	fakeStore
}

func (f *fakeFullStore) ByCollection(_ context.Context, userID, collectionID int64) ([]model.Quote, error) {
	out := []model.Quote{}
	for _, q := range f.rows {
		if q.UserID == userID && q.CollectionID == collectionID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeFullStore) Create(_ context.Context, q *model.Quote) (*model.Quote, error) {
	f.nextID++
	q.ID = f.nextID
	cp := *q
	f.rows[q.ID] = &cp
	return q, nil
}

func (f *fakeFullStore) Update(_ context.Context, id int64, p store.QuotePatch) error {
	q := f.rows[id]
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.Source != nil {
		q.Source = p.Source
	}
	if p.Author != nil {
		q.Author = p.Author
	}
	if p.PageNumber != nil {
		q.PageNumber = p.PageNumber
	}
	if p.CollectionID != nil {
		q.CollectionID = *p.CollectionID
	}
	return nil
}

func (f *fakeFullStore) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeCollections struct {
	rows map[int64]*model.Collection
}

func (f *fakeCollections) ByID(_ context.Context, id int64) (*model.Collection, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func newHandlerApp(quotes *fakeFullStore, colls *fakeCollections, callerID int64) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserKey, &model.User{ID: callerID})
		return c.Next()
	})
	h := NewHandler(quotes, colls, NewService(quotes))
	app.Get("/quotes", h.List)
	app.Post("/quotes", h.Create)
	app.Get("/quotes/:id", h.Get)
	app.Patch("/quotes/:id", h.Update)
	app.Delete("/quotes/:id", h.Delete)
	app.Post("/quotes/:id/read", h.MarkAsRead)
	return app
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func fixtures() (*fakeFullStore, *fakeCollections) {
	quotes := &fakeFullStore{fakeStore: *newFakeStore()}
	colls := &fakeCollections{rows: map[int64]*model.Collection{
		10: {ID: 10, UserID: 1, Name: "mine"},
		20: {ID: 20, UserID: 2, Name: "theirs"},
	}}
	return quotes, colls
}

func TestHandlerCreateQuote(t *testing.T) {
	quotes, colls := fixtures()
	app := newHandlerApp(quotes, colls, 1)

	resp, err := app.Test(jsonReq(http.MethodPost, "/quotes",
		`{"collectionId":10,"text":"Memento mori"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotZero(t, got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.False(t, got.IsRead)
	assert.Equal(t, 0, got.ReadCount)
}

// Creating into another user's collection reads as absence, with the
// descriptive message.
func TestHandlerCreateIntoForeignCollection(t *testing.T) {
	quotes, colls := fixtures()
	app := newHandlerApp(quotes, colls, 1)

	resp, err := app.Test(jsonReq(http.MethodPost, "/quotes",
		`{"collectionId":20,"text":"not allowed"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "collection not found")
	assert.Empty(t, quotes.rows)
}

// Foreign quotes answer 404 on every verb, never 403.
func TestHandlerOwnershipIsolation(t *testing.T) {
	quotes, colls := fixtures()
	theirs := quotes.add(2, "theirs", false)
	app := newHandlerApp(quotes, colls, 1)

	for _, req := range []*http.Request{
		jsonReq(http.MethodGet, "/quotes/1", ""),
		jsonReq(http.MethodPatch, "/quotes/1", `{"text":"mine now"}`),
		jsonReq(http.MethodDelete, "/quotes/1", ""),
		jsonReq(http.MethodPost, "/quotes/1/read", ""),
	} {
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", req.Method, req.URL.Path)
	}

	got := quotes.rows[theirs.ID]
	assert.Equal(t, "theirs", got.Text)
	assert.False(t, got.IsRead)
}

// Moving a quote re-verifies ownership of the destination collection.
func TestHandlerUpdateIntoForeignCollection(t *testing.T) {
	quotes, colls := fixtures()
	mine := quotes.add(1, "mine", false)
	mine2 := quotes.rows[mine.ID]
	mine2.CollectionID = 10
	app := newHandlerApp(quotes, colls, 1)

	resp, err := app.Test(jsonReq(http.MethodPatch, "/quotes/1", `{"collectionId":20}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int64(10), quotes.rows[mine.ID].CollectionID)
}

func TestHandlerUpdateMovesWithinOwnCollections(t *testing.T) {
	quotes, colls := fixtures()
	colls.rows[11] = &model.Collection{ID: 11, UserID: 1, Name: "also mine"}
	mine := quotes.add(1, "mine", false)
	quotes.rows[mine.ID].CollectionID = 10
	app := newHandlerApp(quotes, colls, 1)

	resp, err := app.Test(jsonReq(http.MethodPatch, "/quotes/1", `{"collectionId":11}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(11), quotes.rows[mine.ID].CollectionID)
}
