// Package quote implements quote CRUD, mark-as-read, and the weighted
// random feed, all scoped to the caller.
package quote

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/authz"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/store"
	"quotekeeper/internal/validate"
)

type FullStore interface {
	Store
	ByCollection(ctx context.Context, userID, collectionID int64) ([]model.Quote, error)
	Create(ctx context.Context, q *model.Quote) (*model.Quote, error)
	Update(ctx context.Context, id int64, p store.QuotePatch) error
	Delete(ctx context.Context, id int64) error
}

type CollectionStore interface {
	ByID(ctx context.Context, id int64) (*model.Collection, error)
}

type Handler struct {
	quotes      FullStore
	collections CollectionStore
	svc         *Service
}

func NewHandler(quotes FullStore, collections CollectionStore, svc *Service) *Handler {
	return &Handler{quotes: quotes, collections: collections, svc: svc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.quotes.ByUser(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *Handler) ListByCollection(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	out, err := h.quotes.ByCollection(c.Context(), middleware.UserID(c), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	q, err := h.quotes.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	q, err = authz.Require(q, middleware.UserID(c), "quote")
	if err != nil {
		return err
	}
	return c.JSON(q)
}

type createRequest struct {
	CollectionID int64   `json:"collectionId" validate:"required"`
	Text         string  `json:"text" validate:"required,min=1"`
	Source       *string `json:"source"`
	Author       *string `json:"author"`
	PageNumber   *int    `json:"pageNumber"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
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

	q, err := h.quotes.Create(c.Context(), &model.Quote{
		UserID:       userID,
		CollectionID: req.CollectionID,
		Text:         req.Text,
		Source:       req.Source,
		Author:       req.Author,
		PageNumber:   req.PageNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(q)
}

type updateRequest struct {
	Text         *string `json:"text" validate:"omitempty,min=1"`
	Source       *string `json:"source"`
	Author       *string `json:"author"`
	PageNumber   *int    `json:"pageNumber"`
	CollectionID *int64  `json:"collectionId"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	userID := middleware.UserID(c)
	q, err := h.quotes.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	q, err = authz.Require(q, userID, "quote")
	if err != nil {
		return err
	}

	// Moving the quote requires owning the destination collection too.
	if req.CollectionID != nil && *req.CollectionID != q.CollectionID {
		coll, err := h.collections.ByID(c.Context(), *req.CollectionID)
		if err != nil {
			return err
		}
		if _, err = authz.Require(coll, userID, "collection"); err != nil {
			return err
		}
	}

	err = h.quotes.Update(c.Context(), q.ID, store.QuotePatch{
		Text:         req.Text,
		Source:       req.Source,
		Author:       req.Author,
		PageNumber:   req.PageNumber,
		CollectionID: req.CollectionID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	q, err := h.quotes.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	q, err = authz.Require(q, middleware.UserID(c), "quote")
	if err != nil {
		return err
	}

	if err := h.quotes.Delete(c.Context(), q.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) MarkAsRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrBadRequest
	}
	if err := h.svc.MarkAsRead(c.Context(), middleware.UserID(c), int64(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) GetRandom(c *fiber.Ctx) error {
	q, err := h.svc.Random(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	if q == nil {
		return c.JSON(nil)
	}
	return c.JSON(q)
}
