package kindle

import (
	"context"
	"fmt"
	"strings"

	"quotekeeper/internal/model"
	"quotekeeper/internal/telemetry"
)

type QuoteStore interface {
	ByKindleHighlightID(ctx context.Context, userID int64, highlightID string) (*model.Quote, error)
	Create(ctx context.Context, q *model.Quote) (*model.Quote, error)
}

type LogStore interface {
	Insert(ctx context.Context, l *model.KindleSyncLog) (*model.KindleSyncLog, error)
	LatestByUser(ctx context.Context, userID int64) (*model.KindleSyncLog, error)
}

type Highlight struct {
	Text              string  `json:"text" validate:"required,min=1"`
	Source            *string `json:"source"`
	Author            *string `json:"author"`
	PageNumber        *int    `json:"pageNumber"`
	KindleHighlightID string  `json:"kindleHighlightId" validate:"required"`
}

type Result struct {
	Added      int      `json:"added"`
	Duplicated int      `json:"duplicated"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

type Service struct {
	quotes QuoteStore
	logs   LogStore
}

func NewService(quotes QuoteStore, logs LogStore) *Service {
	return &Service{quotes: quotes, logs: logs}
}

// Sync imports highlights into the given collection, deduplicating by
// kindle_highlight_id per user. Items are processed in input order; each
// insert is committed before the next item is examined, so a repeated id
// within one batch counts as duplicated. Failures on single items are
// tallied as skipped without aborting the batch. One sync log row is written
// at the end.
//
// The lookup-then-insert pair is not transactional: two concurrent imports
// of overlapping highlights can both miss the duplicate check and insert the
// same highlight twice. Accepted for a single-user flow.
func (s *Service) Sync(ctx context.Context, userID, collectionID int64, highlights []Highlight) (Result, error) {
	res := Result{Errors: []string{}}

	for _, h := range highlights {
		existing, err := s.quotes.ByKindleHighlightID(ctx, userID, h.KindleHighlightID)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("failed to add highlight: %v", err))
			continue
		}
		if existing != nil {
			res.Duplicated++
			continue
		}

		hid := h.KindleHighlightID
		_, err = s.quotes.Create(ctx, &model.Quote{
			UserID:            userID,
			CollectionID:      collectionID,
			Text:              h.Text,
			Source:            h.Source,
			Author:            h.Author,
			PageNumber:        h.PageNumber,
			KindleHighlightID: &hid,
		})
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("failed to add highlight: %v", err))
			continue
		}
		res.Added++
	}

	logRow := &model.KindleSyncLog{
		UserID:           userID,
		QuotesAdded:      res.Added,
		QuotesDuplicated: res.Duplicated,
		QuotesSkipped:    res.Skipped,
		Status:           model.SyncStatusSuccess,
	}
	if len(res.Errors) > 0 {
		logRow.Status = model.SyncStatusPartial
		msg := strings.Join(res.Errors, "; ")
		logRow.ErrorMessage = &msg
	}
	if _, err := s.logs.Insert(ctx, logRow); err != nil {
		return res, err
	}

	telemetry.L().Info().
		Int64("user_id", userID).
		Int("added", res.Added).
		Int("duplicated", res.Duplicated).
		Int("skipped", res.Skipped).
		Msg("kindle_sync_done")
	return res, nil
}

func (s *Service) LastSync(ctx context.Context, userID int64) (*model.KindleSyncLog, error) {
	return s.logs.LatestByUser(ctx, userID)
}
