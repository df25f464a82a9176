package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

// EditPackHandler implements capability-URL access to scripts. The token in
// the URL is the whole access control for the GET path: no session, no role.
type EditPackHandler struct {
	Cfg     config.Config
	Packs   *repository.EditPackRepo
	Scripts *repository.ScriptRepo
	Audit   *repository.AuditRepo
	Pub     AuditPublisher
	Log     zerolog.Logger
}

// Create handles POST /v1/edit-packs (creator or admin). The optional
// ttl_hours bounds the pack's life; the configured default applies
// otherwise. A creator may only share their own scripts.
func (h *EditPackHandler) Create(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		ScriptID uint64 `json:"script_id"`
		TTLHours int    `json:"ttl_hours"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.ScriptID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "script_id is required"})
	}
	ttl := h.Cfg.EditPackTTL
	if body.TTLHours > 0 {
		ttl = time.Duration(body.TTLHours) * time.Hour
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	script, err := h.Scripts.GetByID(ctx, body.ScriptID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	if id.Variant == auth.VariantAdmin && !id.IsAdminRole() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}
	if id.Variant == auth.VariantContentCreator && script.CreatorID != id.ID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}

	token, err := auth.NewToken()
	if err != nil {
		h.Log.Error().Err(err).Msg("edit pack token generation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	pack := model.EditPack{
		Token:     token,
		ScriptID:  script.ID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := h.Packs.Create(ctx, &pack); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "edit_pack.create", "edit_pack", pack.ID, "")
	return c.JSON(http.StatusCreated, echo.Map{
		"token":      pack.Token,
		"script_id":  pack.ScriptID,
		"expires_at": pack.ExpiresAt.Format(time.RFC3339),
	})
}

// Get handles GET /v1/edit-packs/:token, unauthenticated. Unknown tokens are
// 404; known but expired tokens are 410 so the UI can tell a dead link from
// one that never existed. The payload is the sanitized script view only.
func (h *EditPackHandler) Get(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	view, err := h.Packs.GetByToken(ctx, token)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	if time.Now().UTC().After(view.ExpiresAt) {
		return c.JSON(http.StatusGone, echo.Map{"error": "edit pack expired"})
	}

	resp := echo.Map{
		"title":      view.Title,
		"text":       view.Text,
		"expires_at": view.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if view.AudioURL != nil {
		resp["audio_url"] = *view.AudioURL
	}
	return c.JSON(http.StatusOK, resp)
}
