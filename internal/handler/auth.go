package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/repository"
)

// AuthHandler bundles dependencies for login, logout and the identity probe.
type AuthHandler struct {
	Cfg      config.Config
	Actors   *repository.ActorRepo
	Sessions auth.Store
	Resolver *auth.Resolver
	Audit    *repository.AuditRepo
	Pub      AuditPublisher
	Log      zerolog.Logger
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResp struct {
	Authenticated bool   `json:"authenticated"`
	Variant       string `json:"variant,omitempty"`
	ID            uint64 `json:"id,omitempty"`
	Role          string `json:"role,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
}

// Login handles POST /v1/auth/:variant/login. On success it creates a
// session and sets the variant's cookie. Bad email, bad password, missing
// credentials and deactivated accounts all answer the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	variant, ok := auth.ParseVariant(c.Param("variant"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	actor, err := h.Actors.GetByEmail(ctx, variant, req.Email)
	if err != nil || !actor.IsActive || !repository.VerifyPassword(actor, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.Sessions.Create(ctx, variant, actor.ID, h.Cfg.SessionTTL)
	if err != nil {
		h.Log.Error().Err(err).Msg("session create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName(variant),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	recordAudit(ctx, h.Log, h.Audit, h.Pub,
		auth.Identity{Variant: variant, ID: actor.ID, Role: actor.Role},
		"auth.login", string(variant), actor.ID, "")

	return c.JSON(http.StatusOK, identityResp{
		Authenticated: true,
		Variant:       string(variant),
		ID:            actor.ID,
		Role:          actor.Role,
		DisplayName:   actor.DisplayName,
	})
}

// Logout handles POST /v1/auth/:variant/logout: deletes the session (if any)
// and expires the cookie. Always succeeds from the client's perspective.
func (h *AuthHandler) Logout(c echo.Context) error {
	variant, ok := auth.ParseVariant(c.Param("variant"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if ck, err := c.Cookie(auth.CookieName(variant)); err == nil && ck.Value != "" {
		if err := h.Sessions.Delete(ctx, variant, ck.Value); err != nil {
			h.Log.Warn().Err(err).Msg("session delete failed")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName(variant),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/auth/me, the background identity probe. It checks every
// variant's cookie and deliberately swallows store and database failures:
// the caller UI cannot recover from a hard failure here, so any trouble
// reads as "logged out" rather than a 5xx.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if id, ok := h.Resolver.ResolveAny(ctx, c.Request(), auth.Variants()...); ok {
		actor, err := h.Actors.GetByID(ctx, id.Variant, id.ID)
		if err != nil {
			return c.JSON(http.StatusOK, identityResp{Authenticated: false})
		}
		return c.JSON(http.StatusOK, identityResp{
			Authenticated: true,
			Variant:       string(id.Variant),
			ID:            id.ID,
			Role:          id.Role,
			DisplayName:   actor.DisplayName,
		})
	}
	return c.JSON(http.StatusOK, identityResp{Authenticated: false})
}
