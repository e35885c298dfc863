package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"quotekeeper/internal/apperr"
	"quotekeeper/internal/model"
	"quotekeeper/internal/store"
)

const UserKey = "user"

type SessionProvider interface {
	Rdb() *redis.Client
	CookieName() string
	Users() *store.Users
	Whitelist() *store.Whitelist
}

// AuthSession resolves the session cookie into a user and enforces the email
// allow-list before any protected handler runs. Missing or stale sessions are
// UNAUTHORIZED; a verified identity whose email is absent from the allow-list
// is FORBIDDEN.
func AuthSession(reg SessionProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveSession(c, reg)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.Unauthorized("not signed in")
		}

		if user.Email == nil || *user.Email == "" {
			return apperr.Forbidden("email not provided by identity provider")
		}
		allowed, err := reg.Whitelist().Contains(c.Context(), *user.Email)
		if err != nil {
			return err
		}
		if !allowed {
			return apperr.Forbidden("email is not authorized to access this application")
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// OptionalSession resolves the session if present and valid, without failing
// the request. Used by public procedures like me.
func OptionalSession(reg SessionProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolveSession(c, reg); err == nil && user != nil {
			c.Locals(UserKey, user)
		}
		return c.Next()
	}
}

// RequireAdmin gates admin-only procedures. Must run after AuthSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperr.Unauthorized("not signed in")
		}
		if !user.IsAdmin() {
			return apperr.Forbidden("admin role required")
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(UserKey).(*model.User)
	return user
}

func UserID(c *fiber.Ctx) int64 {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func resolveSession(c *fiber.Ctx, reg SessionProvider) (*model.User, error) {
	sid := c.Cookies(reg.CookieName())
	if sid == "" {
		return nil, nil
	}
	val, err := reg.Rdb().Get(c.Context(), "sess:"+sid).Result()
	if err != nil {
		return nil, nil
	}
	uid, err := strconv.ParseInt(val, 10, 64)
	if err != nil || uid == 0 {
		return nil, nil
	}
	return reg.Users().ByID(c.Context(), uid)
}
