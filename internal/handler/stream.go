package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/rates"
	"github.com/arhaval/talent-admin/internal/repository"
)

// StreamHandler implements stream submission, listing and review.
type StreamHandler struct {
	Cfg     config.Config
	Streams *repository.StreamRepo
	Audit   *repository.AuditRepo
	Pub     AuditPublisher
	Log     zerolog.Logger
}

type streamResp struct {
	ID              uint64  `json:"id"`
	StreamerID      uint64  `json:"streamer_id"`
	StreamDate      string  `json:"stream_date"`
	DurationHours   float64 `json:"duration_hours"`
	MatchInfo       *string `json:"match_info,omitempty"`
	Team            *string `json:"team,omitempty"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	TotalRevenue    int64   `json:"total_revenue"`
	StreamerEarning int64   `json:"streamer_earning"`
	ArhavalProfit   int64   `json:"arhaval_profit"`
	Cost            int64   `json:"cost"`
	AdminNotes      *string `json:"admin_notes,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
}

func toStreamResp(s model.Stream) streamResp {
	r := streamResp{
		ID:              s.ID,
		StreamerID:      s.StreamerID,
		StreamDate:      s.StreamDate.Format("2006-01-02"),
		DurationHours:   s.DurationHours,
		MatchInfo:       s.MatchInfo,
		Team:            s.Team,
		Status:          s.Status,
		PaymentStatus:   s.PaymentStatus,
		TotalRevenue:    s.TotalRevenue,
		StreamerEarning: s.StreamerEarning,
		ArhavalProfit:   s.ArhavalProfit,
		Cost:            s.Cost,
		AdminNotes:      s.AdminNotes,
	}
	if s.ReviewedAt != nil {
		t := s.ReviewedAt.UTC().Format(time.RFC3339)
		r.ReviewedAt = &t
	}
	return r
}

func toStreamResps(list []model.Stream) []streamResp {
	out := make([]streamResp, 0, len(list))
	for _, s := range list {
		out = append(out, toStreamResp(s))
	}
	return out
}

// Submit handles POST /v1/streams (streamer-gated). The record is created in
// pending with every money field zeroed; any money values in the body are
// server-owned and ignored.
func (h *StreamHandler) Submit(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		StreamDate    string  `json:"stream_date"`
		DurationHours float64 `json:"duration_hours"`
		MatchInfo     string  `json:"match_info"`
		Team          string  `json:"team"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.StreamDate) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stream_date is required"})
	}
	if body.DurationHours <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_hours must be greater than zero"})
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(body.StreamDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stream_date must be YYYY-MM-DD"})
	}

	s := model.Stream{
		StreamerID:    id.ID,
		StreamDate:    date,
		DurationHours: body.DurationHours,
	}
	if v := strings.TrimSpace(body.MatchInfo); v != "" {
		s.MatchInfo = &v
	}
	if v := strings.TrimSpace(body.Team); v != "" {
		s.Team = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Streams.Create(ctx, &s); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "stream.submit", "stream", s.ID, "")
	return c.JSON(http.StatusCreated, toStreamResp(s))
}

// Review handles PUT /v1/streams/:id/status (admin-gated). On approval the
// money fields come from the body when all three are supplied, otherwise
// from the rate table keyed by the stream's team. Reviewing a record that
// already reached a terminal status is a conflict, never an overwrite.
func (h *StreamHandler) Review(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	streamID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stream id"})
	}
	var body struct {
		Status          string  `json:"status"`
		AdminNotes      string  `json:"admin_notes"`
		TotalRevenue    *int64  `json:"total_revenue"`
		StreamerEarning *int64  `json:"streamer_earning"`
		ArhavalProfit   *int64  `json:"arhaval_profit"`
		Cost            *int64  `json:"cost"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.IsTerminal(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	fields := repository.ReviewFields{Status: status}
	if v := strings.TrimSpace(body.AdminNotes); v != "" {
		fields.AdminNotes = &v
	}
	if body.Cost != nil {
		fields.Cost = *body.Cost
	}

	// A rejection stamps notes only; the review timestamp and money fields
	// belong to approvals.
	if status == model.StatusApproved {
		now := time.Now().UTC()
		fields.ReviewedAt = &now
		if body.TotalRevenue != nil && body.StreamerEarning != nil && body.ArhavalProfit != nil {
			fields.TotalRevenue = *body.TotalRevenue
			fields.StreamerEarning = *body.StreamerEarning
			fields.ArhavalProfit = *body.ArhavalProfit
		} else {
			cur, err := h.Streams.GetByID(ctx, streamID)
			if err != nil {
				return persistError(c, h.Log, err, !h.Cfg.IsProd())
			}
			if cur.Team == nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "stream has no team; supply explicit revenue figures"})
			}
			split, err := rates.Earnings(*cur.Team, cur.DurationHours)
			if err != nil {
				if errors.Is(err, rates.ErrUnknownTeam) {
					return c.JSON(http.StatusBadRequest, echo.Map{
						"error": fmt.Sprintf("unknown team %q; supply explicit revenue figures", *cur.Team),
					})
				}
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			fields.TotalRevenue = split.TotalRevenue
			fields.StreamerEarning = split.StreamerEarning
			fields.ArhavalProfit = split.ArhavalProfit
		}
	}

	updated, err := h.Streams.Review(ctx, streamID, fields)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "stream.review", "stream", streamID, status)
	return c.JSON(http.StatusOK, toStreamResp(updated))
}

// SetPayment handles PUT /v1/streams/:id/payment (admin-gated).
func (h *StreamHandler) SetPayment(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	streamID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stream id"})
	}
	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ps := strings.ToLower(strings.TrimSpace(body.PaymentStatus))
	if ps != model.PaymentPaid && ps != model.PaymentUnpaid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_status must be paid or unpaid"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Streams.SetPaymentStatus(ctx, streamID, ps)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "stream is not approved"})
		}
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "stream.payment", "stream", streamID, ps)
	return c.JSON(http.StatusOK, toStreamResp(updated))
}

// List handles GET /v1/streams (admin-gated). With filter=monthly&month=
// YYYY-MM it returns that month's streams. This is a dashboard read: when
// the degrade policy is on, persistence errors yield an empty array instead
// of a 5xx, and the swallowed error is logged.
func (h *StreamHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		list []model.Stream
		err  error
	)
	if c.QueryParam("filter") == "monthly" {
		month := strings.TrimSpace(c.QueryParam("month"))
		if _, perr := time.Parse("2006-01", month); perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
		}
		list, err = h.Streams.ListMonthly(ctx, month)
	} else {
		list, err = h.Streams.ListAll(ctx)
	}
	if err != nil {
		if h.Cfg.ListDegrade {
			h.Log.Error().Err(err).Msg("stream listing degraded to empty result")
			return c.JSON(http.StatusOK, []streamResp{})
		}
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toStreamResps(list))
}

// ListMine handles GET /v1/my/streams (streamer-gated).
func (h *StreamHandler) ListMine(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Streams.ListByStreamer(ctx, id.ID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toStreamResps(list))
}

// Get handles GET /v1/streams/:id (admin-gated).
func (h *StreamHandler) Get(c echo.Context) error {
	streamID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stream id"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	s, err := h.Streams.GetByID(ctx, streamID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toStreamResp(s))
}
