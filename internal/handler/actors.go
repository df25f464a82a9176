package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

// ActorHandler is the admin's account management surface over the five
// actor tables. The :variant path segment picks the table.
type ActorHandler struct {
	Cfg    config.Config
	Actors *repository.ActorRepo
	Audit  *repository.AuditRepo
	Pub    AuditPublisher
	Log    zerolog.Logger
}

type actorResp struct {
	ID          uint64  `json:"id"`
	Email       *string `json:"email,omitempty"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

func toActorResp(a model.Actor) actorResp {
	return actorResp{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func pathVariant(c echo.Context) (auth.Variant, bool) {
	return auth.ParseVariant(c.Param("variant"))
}

// Create handles POST /v1/actors/:variant (admin-gated). Email and password
// are optional together: an account without credentials is a roster entry
// that cannot log in.
func (h *ActorHandler) Create(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	variant, ok := pathVariant(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(body.DisplayName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_name is required"})
	}
	role := strings.ToLower(strings.TrimSpace(body.Role))
	if role == "" {
		role = "member"
		if variant == auth.VariantAdmin {
			role = "staff"
		}
	}

	var email, password *string
	if v := strings.TrimSpace(body.Email); v != "" {
		email = &v
	}
	if body.Password != "" {
		password = &body.Password
	}
	if (email == nil) != (password == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password go together"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	actorID, err := h.Actors.Create(ctx, variant, email, password, name, role, h.Cfg.BcryptCost)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	created, err := h.Actors.GetByID(ctx, variant, actorID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "actor.create", string(variant), actorID, name)
	return c.JSON(http.StatusCreated, toActorResp(created))
}

// List handles GET /v1/actors/:variant (admin-gated).
func (h *ActorHandler) List(c echo.Context) error {
	variant, ok := pathVariant(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Actors.List(ctx, variant)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]actorResp, 0, len(list))
	for _, a := range list {
		out = append(out, toActorResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/actors/:variant/:id (admin-gated).
func (h *ActorHandler) Get(c echo.Context) error {
	variant, ok := pathVariant(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	actorID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	a, err := h.Actors.GetByID(ctx, variant, actorID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toActorResp(a))
}

// SetActive handles PUT /v1/actors/:variant/:id/active (admin-gated).
// Deactivation kills future logins and session resolution; existing cookies
// stop resolving on the next request.
func (h *ActorHandler) SetActive(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	variant, ok := pathVariant(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	actorID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Actors.SetActive(ctx, variant, actorID, body.IsActive); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	detail := "deactivated"
	if body.IsActive {
		detail = "activated"
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "actor.active", string(variant), actorID, detail)
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/actors/:variant/:id (admin-gated). An admin
// cannot delete their own account.
func (h *ActorHandler) Delete(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	variant, ok := pathVariant(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	actorID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	if variant == auth.VariantAdmin && actorID == id.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Actors.Delete(ctx, variant, actorID); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "actor.delete", string(variant), actorID, "")
	return c.NoContent(http.StatusNoContent)
}
