package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"quotekeeper/internal/config"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/model"
	"quotekeeper/internal/store"
	"quotekeeper/internal/telemetry"
	"quotekeeper/internal/validate"
)

// Registry owns the identity-provider flow: OAuth redirect, callback with
// user upsert, session issuance, and the public auth procedures.
type Registry struct {
	cfg   *config.Config
	st    *store.Store
	rdb   *redis.Client
	oauth *oauth2.Config
}

func NewRegistry(cfg *config.Config, st *store.Store, rdb *redis.Client) *Registry {
	return &Registry{
		cfg: cfg, st: st, rdb: rdb,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (r *Registry) Rdb() *redis.Client        { return r.rdb }
func (r *Registry) CookieName() string        { return r.cfg.SessionCookieName }
func (r *Registry) Users() *store.Users       { return r.st.Users }
func (r *Registry) Whitelist() *store.Whitelist { return r.st.Whitelist }

func (r *Registry) GoogleLogin(c *fiber.Ctx) error {
	state := randomHex(16)
	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: state, HTTPOnly: true, SameSite: "Lax"})
	url := r.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
	return c.Redirect(url, http.StatusFound)
}

func (r *Registry) GoogleCallback(c *fiber.Ctx) error {
	rid, _ := c.Locals(middleware.ReqIDKey).(string)
	log := telemetry.L().With().Str("req_id", rid).Logger()

	state := c.Cookies("oauth_state")
	if state == "" || state != c.Query("state") {
		log.Warn().Msg("oauth_state_mismatch")
		return c.Status(fiber.StatusBadRequest).SendString("bad state")
	}

	tok, err := r.oauth.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth_exchange_failed")
		return c.Status(fiber.StatusBadRequest).SendString("exchange failed")
	}

	ui, err := fetchGoogleUserinfo(c.Context(), tok.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("oauth_userinfo_failed")
		return c.Status(fiber.StatusBadGateway).SendString("userinfo failed")
	}

	up := store.UpsertUser{
		OpenID:      ui.Sub,
		Name:        ui.Name,
		Email:       ui.Email,
		LoginMethod: "google",
	}
	if r.cfg.OwnerOpenID != "" && ui.Sub == r.cfg.OwnerOpenID {
		up.Role = model.RoleAdmin
	}
	userID, err := r.st.Users.Upsert(c.Context(), up)
	if err != nil {
		log.Error().Err(err).Msg("user_upsert_failed")
		return c.Status(fiber.StatusInternalServerError).SendString("db error")
	}
	log.Info().Int64("user_id", userID).Str("email", ui.Email).Msg("user_signed_in")

	sessID := randomHex(16)
	if err := r.st.Sessions.Insert(c.Context(), sessID, userID, c.IP(), string(c.Request().Header.UserAgent())); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("session_audit_insert_failed")
	}

	ttl := time.Duration(r.cfg.SessionTTLDays) * 24 * time.Hour
	if err := r.rdb.Set(c.Context(), "sess:"+sessID, userID, ttl).Err(); err != nil {
		log.Error().Err(err).Msg("session_store_failed")
		return c.Status(fiber.StatusInternalServerError).SendString("session error")
	}

	c.Cookie(&fiber.Cookie{
		Name:     r.cfg.SessionCookieName,
		Value:    sessID,
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   int(ttl.Seconds()),
	})

	redir := c.Query("redirect")
	if redir == "" {
		redir = r.cfg.ClientURL
	}
	return c.Redirect(redir, http.StatusFound)
}

// Me returns the signed-in user, or null without a valid session. Mounted
// behind OptionalSession.
func (r *Registry) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(nil)
	}
	return c.JSON(user)
}

func (r *Registry) Logout(c *fiber.Ctx) error {
	sid := c.Cookies(r.cfg.SessionCookieName)
	if sid != "" {
		r.rdb.Del(c.Context(), "sess:"+sid)
		c.ClearCookie(r.cfg.SessionCookieName)
	}
	return c.JSON(fiber.Map{"success": true})
}

// CheckEmailAccess reports whether an email is on the allow-list, without
// requiring a session, so the client can explain a denied login.
func (r *Registry) CheckEmailAccess(c *fiber.Ctx) error {
	email := c.Query("email")
	if err := validate.Email(email); err != nil {
		return err
	}
	allowed, err := r.st.Whitelist.Contains(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"allowed": allowed})
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleUserinfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v3/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ui googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&ui); err != nil {
		return nil, err
	}
	return &ui, nil
}
