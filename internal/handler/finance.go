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

// FinanceHandler covers the admin bookkeeping surfaces: financial records,
// weekly social media stats and monthly plans.
type FinanceHandler struct {
	Cfg     config.Config
	Finance *repository.FinanceRepo
	Stats   *repository.StatsRepo
	Plans   *repository.PlanRepo
	Audit   *repository.AuditRepo
	Pub     AuditPublisher
	Log     zerolog.Logger
}

func validMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

type financeResp struct {
	ID          uint64  `json:"id"`
	Month       string  `json:"month"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Income      int64   `json:"income"`
	Expense     int64   `json:"expense"`
	Net         int64   `json:"net"`
}

func toFinanceResp(f model.FinancialRecord) financeResp {
	return financeResp{
		ID:          f.ID,
		Month:       f.Month,
		Category:    f.Category,
		Description: f.Description,
		Income:      f.Income,
		Expense:     f.Expense,
		Net:         f.Income - f.Expense,
	}
}

// CreateRecord handles POST /v1/finance/records (admin-gated). One row per
// (month, category); a duplicate pair answers 409.
func (h *FinanceHandler) CreateRecord(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		Month       string `json:"month"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Income      int64  `json:"income"`
		Expense     int64  `json:"expense"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	month := strings.TrimSpace(body.Month)
	category := strings.TrimSpace(body.Category)
	if !validMonth(month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
	}
	if category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}
	if body.Income < 0 || body.Expense < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "income and expense must not be negative"})
	}

	f := model.FinancialRecord{Month: month, Category: category, Income: body.Income, Expense: body.Expense}
	if v := strings.TrimSpace(body.Description); v != "" {
		f.Description = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Finance.Create(ctx, &f); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "finance.create", "financial_record", f.ID, month+"/"+category)
	return c.JSON(http.StatusCreated, toFinanceResp(f))
}

// UpdateRecord handles PUT /v1/finance/records/:id (admin-gated). Month and
// category are immutable once written; only figures and description change.
func (h *FinanceHandler) UpdateRecord(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	recID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	var body struct {
		Description string `json:"description"`
		Income      int64  `json:"income"`
		Expense     int64  `json:"expense"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Income < 0 || body.Expense < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "income and expense must not be negative"})
	}
	var desc *string
	if v := strings.TrimSpace(body.Description); v != "" {
		desc = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Finance.Update(ctx, recID, desc, body.Income, body.Expense)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "finance.update", "financial_record", recID, "")
	return c.JSON(http.StatusOK, toFinanceResp(updated))
}

// ListRecords handles GET /v1/finance/records (admin-gated), optionally
// narrowed by ?month=YYYY-MM. The response carries per-row nets plus totals.
func (h *FinanceHandler) ListRecords(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		list []model.FinancialRecord
		err  error
	)
	if month := strings.TrimSpace(c.QueryParam("month")); month != "" {
		if !validMonth(month) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
		}
		list, err = h.Finance.ListByMonth(ctx, month)
	} else {
		list, err = h.Finance.ListAll(ctx)
	}
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	out := make([]financeResp, 0, len(list))
	var income, expense int64
	for _, f := range list {
		out = append(out, toFinanceResp(f))
		income += f.Income
		expense += f.Expense
	}
	return c.JSON(http.StatusOK, echo.Map{
		"records":       out,
		"total_income":  income,
		"total_expense": expense,
		"net":           income - expense,
	})
}

// DeleteRecord handles DELETE /v1/finance/records/:id (admin-gated).
func (h *FinanceHandler) DeleteRecord(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	recID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid record id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Finance.Delete(ctx, recID); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "finance.delete", "financial_record", recID, "")
	return c.NoContent(http.StatusNoContent)
}

type statsResp struct {
	ID         uint64 `json:"id"`
	Week       string `json:"week"`
	Platform   string `json:"platform"`
	Followers  int64  `json:"followers"`
	Views      int64  `json:"views"`
	Engagement int64  `json:"engagement"`
}

func toStatsResp(s model.SocialMediaStats) statsResp {
	return statsResp{
		ID:         s.ID,
		Week:       s.Week,
		Platform:   s.Platform,
		Followers:  s.Followers,
		Views:      s.Views,
		Engagement: s.Engagement,
	}
}

// CreateStats handles POST /v1/stats (admin-gated). One snapshot per
// (week, platform); duplicates answer 409.
func (h *FinanceHandler) CreateStats(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		Week       string `json:"week"`
		Platform   string `json:"platform"`
		Followers  int64  `json:"followers"`
		Views      int64  `json:"views"`
		Engagement int64  `json:"engagement"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	week := strings.TrimSpace(body.Week)
	platform := strings.ToLower(strings.TrimSpace(body.Platform))
	if week == "" || platform == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "week and platform are required"})
	}
	if body.Followers < 0 || body.Views < 0 || body.Engagement < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "counters must not be negative"})
	}

	s := model.SocialMediaStats{
		Week:       week,
		Platform:   platform,
		Followers:  body.Followers,
		Views:      body.Views,
		Engagement: body.Engagement,
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Stats.Create(ctx, &s); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "stats.create", "social_media_stats", s.ID, week+"/"+platform)
	return c.JSON(http.StatusCreated, toStatsResp(s))
}

// ListStats handles GET /v1/stats (admin-gated), optionally by ?week=.
func (h *FinanceHandler) ListStats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		list []model.SocialMediaStats
		err  error
	)
	if week := strings.TrimSpace(c.QueryParam("week")); week != "" {
		list, err = h.Stats.ListByWeek(ctx, week)
	} else {
		list, err = h.Stats.ListAll(ctx)
	}
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]statsResp, 0, len(list))
	for _, s := range list {
		out = append(out, toStatsResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

type planResp struct {
	ID          uint64  `json:"id"`
	Month       string  `json:"month"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Done        bool    `json:"done"`
}

func toPlanResp(p model.MonthlyPlan) planResp {
	return planResp{
		ID:          p.ID,
		Month:       p.Month,
		Title:       p.Title,
		Description: p.Description,
		Done:        p.Done,
	}
}

// CreatePlan handles POST /v1/plans (admin-gated).
func (h *FinanceHandler) CreatePlan(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		Month       string `json:"month"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	month := strings.TrimSpace(body.Month)
	title := strings.TrimSpace(body.Title)
	if !validMonth(month) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
	}
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	p := model.MonthlyPlan{Month: month, Title: title}
	if v := strings.TrimSpace(body.Description); v != "" {
		p.Description = &v
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Plans.Create(ctx, &p); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "plan.create", "monthly_plan", p.ID, month)
	return c.JSON(http.StatusCreated, toPlanResp(p))
}

// SetPlanDone handles PUT /v1/plans/:id/done (admin-gated).
func (h *FinanceHandler) SetPlanDone(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	planID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan id"})
	}
	var body struct {
		Done bool `json:"done"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Plans.SetDone(ctx, planID, body.Done)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	detail := "open"
	if body.Done {
		detail = "done"
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "plan.done", "monthly_plan", planID, detail)
	return c.JSON(http.StatusOK, toPlanResp(updated))
}

// ListPlans handles GET /v1/plans (admin-gated), optionally by ?month=.
func (h *FinanceHandler) ListPlans(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		list []model.MonthlyPlan
		err  error
	)
	if month := strings.TrimSpace(c.QueryParam("month")); month != "" {
		if !validMonth(month) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
		}
		list, err = h.Plans.ListByMonth(ctx, month)
	} else {
		list, err = h.Plans.ListAll(ctx)
	}
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	out := make([]planResp, 0, len(list))
	for _, p := range list {
		out = append(out, toPlanResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// DeletePlan handles DELETE /v1/plans/:id (admin-gated).
func (h *FinanceHandler) DeletePlan(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	planID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Plans.Delete(ctx, planID); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "plan.delete", "monthly_plan", planID, "")
	return c.NoContent(http.StatusNoContent)
}
