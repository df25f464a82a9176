package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

const (
	auditDefaultPerPage = 50
	auditMaxPerPage     = 200
)

// AuditHandler exposes the read side of the audit trail.
type AuditHandler struct {
	Cfg   config.Config
	Audit *repository.AuditRepo
	Log   zerolog.Logger
}

type auditResp struct {
	ID           uint64  `json:"id"`
	ActorVariant string  `json:"actor_variant"`
	ActorID      uint64  `json:"actor_id"`
	Action       string  `json:"action"`
	Entity       string  `json:"entity"`
	EntityID     uint64  `json:"entity_id"`
	Detail       *string `json:"detail,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func toAuditResp(e model.AuditLog) auditResp {
	return auditResp{
		ID:           e.ID,
		ActorVariant: e.ActorVariant,
		ActorID:      e.ActorID,
		Action:       e.Action,
		Entity:       e.Entity,
		EntityID:     e.EntityID,
		Detail:       e.Detail,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /v1/audit-logs (admin-gated), newest first. ?page= is
// 1-based and ?per_page= is capped.
func (h *AuditHandler) List(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "page must be a positive integer"})
		}
		page = n
	}
	perPage := auditDefaultPerPage
	if v := c.QueryParam("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "per_page must be a positive integer"})
		}
		perPage = min(n, auditMaxPerPage)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Audit.List(ctx, page, perPage)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	total, err := h.Audit.Count(ctx)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	out := make([]auditResp, 0, len(list))
	for _, e := range list {
		out = append(out, toAuditResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"entries":  out,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}
