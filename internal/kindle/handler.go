// Package kindle implements the deduplicating highlight import and its
// sync history.
package kindle

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/authz"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/validate"
	"quotekeeper/internal/ws"
)

type CollectionStore interface {
	ByID(ctx context.Context, id int64) (*model.Collection, error)
}

type Handler struct {
	collections CollectionStore
	svc         *Service
}

func NewHandler(collections CollectionStore, svc *Service) *Handler {
	return &Handler{collections: collections, svc: svc}
}

type syncRequest struct {
	Highlights   []Highlight `json:"highlights" validate:"required,dive"`
	CollectionID int64       `json:"collectionId" validate:"required"`
}

func (h *Handler) Sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	coll, err := h.collections.ByID(c.Context(), req.CollectionID)
	if err != nil {
		return err
	}
	if _, err = authz.Require(coll, userID, "collection"); err != nil {
		return err
	}

	ws.BroadcastSyncStarted(userID, req.CollectionID, len(req.Highlights))
	res, err := h.svc.Sync(c.Context(), userID, req.CollectionID, req.Highlights)
	if err != nil {
		return err
	}
	ws.BroadcastSyncCompleted(userID, ws.SyncSummary(res))

	return c.JSON(res)
}

func (h *Handler) GetLastSync(c *fiber.Ctx) error {
	row, err := h.svc.LastSync(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	if row == nil {
		return c.JSON(nil)
	}
	return c.JSON(row)
}
