// Package whitelist exposes the admin-only allow-list procedures.
package whitelist

import (
	"github.com/gofiber/fiber/v2"

	"quotekeeper/internal/middleware"
	"quotekeeper/internal/store"
	"quotekeeper/internal/telemetry"
	"quotekeeper/internal/validate"
)

type Handler struct {
	wl *store.Whitelist
}

func NewHandler(wl *store.Whitelist) *Handler { return &Handler{wl: wl} }

func (h *Handler) GetAll(c *fiber.Ctx) error {
	entries, err := h.wl.All(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) Add(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	caller := middleware.CurrentUser(c)
	if err := h.wl.Add(c.Context(), req.Email, caller.ID); err != nil {
		return err
	}
	telemetry.L().Info().Str("email", req.Email).Int64("added_by", caller.ID).Msg("whitelist_add")
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Remove(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	if err := h.wl.Remove(c.Context(), req.Email); err != nil {
		return err
	}
	telemetry.L().Info().Str("email", req.Email).Msg("whitelist_remove")
	return c.JSON(fiber.Map{"success": true})
}
