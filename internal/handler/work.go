package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

// WorkHandler implements work submissions and extra-work requests. Both
// follow the same pending/approved/rejected lifecycle as streams; the
// submitting actor may be any non-admin variant.
type WorkHandler struct {
	Cfg    config.Config
	Subs   *repository.WorkSubmissionRepo
	Extras *repository.ExtraWorkRepo
	Audit  *repository.AuditRepo
	Pub    AuditPublisher
	Log    zerolog.Logger
}

type workResp struct {
	ID           uint64  `json:"id"`
	ActorVariant string  `json:"actor_variant"`
	ActorID      uint64  `json:"actor_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status"`
	Cost         int64   `json:"cost"`
	AdminNotes   *string `json:"admin_notes,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
}

func toWorkResp(w model.WorkSubmission) workResp {
	r := workResp{
		ID:           w.ID,
		ActorVariant: w.ActorVariant,
		ActorID:      w.ActorID,
		Title:        w.Title,
		Description:  w.Description,
		Status:       w.Status,
		Cost:         w.Cost,
		AdminNotes:   w.AdminNotes,
	}
	if w.ApprovedAt != nil {
		t := w.ApprovedAt.UTC().Format(time.RFC3339)
		r.ApprovedAt = &t
	}
	return r
}

type extraResp struct {
	ID           uint64  `json:"id"`
	ActorVariant string  `json:"actor_variant"`
	ActorID      uint64  `json:"actor_id"`
	WorkDate     string  `json:"work_date"`
	Hours        float64 `json:"hours"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	Cost         int64   `json:"cost"`
	AdminNotes   *string `json:"admin_notes,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
}

func toExtraResp(e model.ExtraWorkRequest) extraResp {
	r := extraResp{
		ID:           e.ID,
		ActorVariant: e.ActorVariant,
		ActorID:      e.ActorID,
		WorkDate:     e.WorkDate.Format("2006-01-02"),
		Hours:        e.Hours,
		Reason:       e.Reason,
		Status:       e.Status,
		Cost:         e.Cost,
		AdminNotes:   e.AdminNotes,
	}
	if e.ApprovedAt != nil {
		t := e.ApprovedAt.UTC().Format(time.RFC3339)
		r.ApprovedAt = &t
	}
	return r
}

// reviewBody is shared by both review endpoints.
type reviewBody struct {
	Status     string `json:"status"`
	Cost       *int64 `json:"cost"`
	AdminNotes string `json:"admin_notes"`
}

// SubmitWork handles POST /v1/work-submissions (any non-admin actor).
func (h *WorkHandler) SubmitWork(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	w := model.WorkSubmission{
		ActorVariant: string(id.Variant),
		ActorID:      id.ID,
		Title:        title,
	}
	if v := strings.TrimSpace(body.Description); v != "" {
		w.Description = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Subs.Create(ctx, &w); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "work.submit", "work_submission", w.ID, "")
	return c.JSON(http.StatusCreated, toWorkResp(w))
}

// ReviewWork handles PUT /v1/work-submissions/:id/review (admin-gated).
func (h *WorkHandler) ReviewWork(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	workID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.IsTerminal(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	var cost int64
	if body.Cost != nil {
		cost = *body.Cost
	}
	var notes *string
	if v := strings.TrimSpace(body.AdminNotes); v != "" {
		notes = &v
	}
	var approvedAt *time.Time
	if status == model.StatusApproved {
		now := time.Now().UTC()
		approvedAt = &now
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Subs.Review(ctx, workID, status, cost, notes, approvedAt)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "work.review", "work_submission", workID, status)
	return c.JSON(http.StatusOK, toWorkResp(updated))
}

// ListWork handles GET /v1/work-submissions (admin-gated), optionally
// filtered by ?status=.
func (h *WorkHandler) ListWork(c echo.Context) error {
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != model.StatusPending && !model.IsTerminal(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Subs.ListAll(ctx, status)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]workResp, 0, len(list))
	for _, w := range list {
		out = append(out, toWorkResp(w))
	}
	return c.JSON(http.StatusOK, out)
}

// ListMyWork handles GET /v1/my/work-submissions.
func (h *WorkHandler) ListMyWork(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Subs.ListByActor(ctx, string(id.Variant), id.ID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]workResp, 0, len(list))
	for _, w := range list {
		out = append(out, toWorkResp(w))
	}
	return c.JSON(http.StatusOK, out)
}

// SubmitExtra handles POST /v1/extra-work (any non-admin actor). Date and
// hours are required, mirroring the stream submission contract.
func (h *WorkHandler) SubmitExtra(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		WorkDate string  `json:"work_date"`
		Hours    float64 `json:"hours"`
		Reason   string  `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.WorkDate) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "work_date is required"})
	}
	if body.Hours <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be greater than zero"})
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(body.WorkDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "work_date must be YYYY-MM-DD"})
	}

	e := model.ExtraWorkRequest{
		ActorVariant: string(id.Variant),
		ActorID:      id.ID,
		WorkDate:     date,
		Hours:        body.Hours,
		Reason:       reason,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Extras.Create(ctx, &e); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "extra_work.submit", "extra_work_request", e.ID, "")
	return c.JSON(http.StatusCreated, toExtraResp(e))
}

// ReviewExtra handles PUT /v1/extra-work/:id/review (admin-gated).
func (h *WorkHandler) ReviewExtra(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	reqID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.IsTerminal(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	var cost int64
	if body.Cost != nil {
		cost = *body.Cost
	}
	var notes *string
	if v := strings.TrimSpace(body.AdminNotes); v != "" {
		notes = &v
	}
	var approvedAt *time.Time
	if status == model.StatusApproved {
		now := time.Now().UTC()
		approvedAt = &now
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Extras.Review(ctx, reqID, status, cost, notes, approvedAt)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "extra_work.review", "extra_work_request", reqID, status)
	return c.JSON(http.StatusOK, toExtraResp(updated))
}

// ListExtra handles GET /v1/extra-work (admin-gated).
func (h *WorkHandler) ListExtra(c echo.Context) error {
	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != model.StatusPending && !model.IsTerminal(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Extras.ListAll(ctx, status)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]extraResp, 0, len(list))
	for _, e := range list {
		out = append(out, toExtraResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// ListMyExtra handles GET /v1/my/extra-work.
func (h *WorkHandler) ListMyExtra(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Extras.ListByActor(ctx, string(id.Variant), id.ID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]extraResp, 0, len(list))
	for _, e := range list {
		out = append(out, toExtraResp(e))
	}
	return c.JSON(http.StatusOK, out)
}
