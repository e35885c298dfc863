// Package collection implements collection CRUD, scoped to the caller.
package collection

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/authz"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/store"
	"quotekeeper/internal/validate"
)

type Store interface {
	Create(ctx context.Context, c *model.Collection) (*model.Collection, error)
	ByID(ctx context.Context, id int64) (*model.Collection, error)
	ByUser(ctx context.Context, userID int64) ([]model.Collection, error)
	Update(ctx context.Context, id int64, p store.CollectionPatch) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	collections Store
}

func NewHandler(collections Store) *Handler { return &Handler{collections: collections} }

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.collections.ByUser(c.Context(), middleware.UserID(c))
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
	coll, err := h.collections.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	coll, err = authz.Require(coll, middleware.UserID(c), "collection")
	if err != nil {
		return err
	}
	return c.JSON(coll)
}

type createRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,len=7,hexcolor"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	coll, err := h.collections.Create(c.Context(), &model.Collection{
		UserID:      middleware.UserID(c),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(coll)
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,len=7,hexcolor"`
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

	coll, err := h.collections.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	if _, err = authz.Require(coll, middleware.UserID(c), "collection"); err != nil {
		return err
	}

	err = h.collections.Update(c.Context(), coll.ID, store.CollectionPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
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
	coll, err := h.collections.ByID(c.Context(), int64(id))
	if err != nil {
		return err
	}
	if _, err = authz.Require(coll, middleware.UserID(c), "collection"); err != nil {
		return err
	}

	if err := h.collections.Delete(c.Context(), coll.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
