package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/repository"
)

// ExportHandler produces the full-database JSON snapshot used for offline
// backups. It is gated by a shared secret rather than a session so a cron
// job can call it.
type ExportHandler struct {
	Cfg     config.Config
	Actors  *repository.ActorRepo
	Streams *repository.StreamRepo
	Subs    *repository.WorkSubmissionRepo
	Extras  *repository.ExtraWorkRepo
	Scripts *repository.ScriptRepo
	Packs   *repository.EditPackRepo
	Finance *repository.FinanceRepo
	Stats   *repository.StatsRepo
	Plans   *repository.PlanRepo
	Audit   *repository.AuditRepo
	Log     zerolog.Logger
}

type exportActor struct {
	ID          uint64  `json:"id"`
	Email       *string `json:"email,omitempty"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"is_active"`
}

// authorize checks the Authorization header against the configured secret in
// constant time. An unconfigured secret disables the endpoint outright.
func (h *ExportHandler) authorize(c echo.Context) bool {
	if h.Cfg.ExportSecret == "" {
		return false
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Cfg.ExportSecret)) == 1
}

// Snapshot handles GET /v1/export. The tables are read concurrently and the
// export is all-or-nothing: any read failure fails the whole request, since a
// partial backup is worse than none.
func (h *ExportHandler) Snapshot(c echo.Context) error {
	if !h.authorize(c) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid export credentials"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	var mu sync.Mutex
	tables := map[string]any{}
	put := func(key string, v any) {
		mu.Lock()
		tables[key] = v
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, v := range auth.Variants() {
		variant := v
		g.Go(func() error {
			list, err := h.Actors.List(gctx, variant)
			if err != nil {
				return err
			}
			out := make([]exportActor, 0, len(list))
			for _, a := range list {
				out = append(out, exportActor{
					ID:          a.ID,
					Email:       a.Email,
					DisplayName: a.DisplayName,
					Role:        a.Role,
					IsActive:    a.IsActive,
				})
			}
			put(string(variant)+"s", out)
			return nil
		})
	}
	g.Go(func() error {
		list, err := h.Streams.ListAll(gctx)
		if err != nil {
			return err
		}
		put("streams", toStreamResps(list))
		return nil
	})
	g.Go(func() error {
		list, err := h.Subs.ListAll(gctx, "")
		if err != nil {
			return err
		}
		out := make([]workResp, 0, len(list))
		for _, w := range list {
			out = append(out, toWorkResp(w))
		}
		put("work_submissions", out)
		return nil
	})
	g.Go(func() error {
		list, err := h.Extras.ListAll(gctx, "")
		if err != nil {
			return err
		}
		out := make([]extraResp, 0, len(list))
		for _, e := range list {
			out = append(out, toExtraResp(e))
		}
		put("extra_work_requests", out)
		return nil
	})
	g.Go(func() error {
		list, err := h.Scripts.ListAll(gctx)
		if err != nil {
			return err
		}
		put("voiceover_scripts", toScriptResps(list))
		return nil
	})
	g.Go(func() error {
		list, err := h.Finance.ListAll(gctx)
		if err != nil {
			return err
		}
		out := make([]financeResp, 0, len(list))
		for _, f := range list {
			out = append(out, toFinanceResp(f))
		}
		put("financial_records", out)
		return nil
	})
	g.Go(func() error {
		list, err := h.Stats.ListAll(gctx)
		if err != nil {
			return err
		}
		out := make([]statsResp, 0, len(list))
		for _, s := range list {
			out = append(out, toStatsResp(s))
		}
		put("social_media_stats", out)
		return nil
	})
	g.Go(func() error {
		list, err := h.Plans.ListAll(gctx)
		if err != nil {
			return err
		}
		out := make([]planResp, 0, len(list))
		for _, p := range list {
			out = append(out, toPlanResp(p))
		}
		put("monthly_plans", out)
		return nil
	})
	g.Go(func() error {
		entries, err := h.Audit.List(gctx, 1, exportAuditLimit)
		if err != nil {
			return err
		}
		out := make([]auditResp, 0, len(entries))
		for _, e := range entries {
			out = append(out, toAuditResp(e))
		}
		put("audit_logs", out)
		return nil
	})

	if err := g.Wait(); err != nil {
		h.Log.Error().Err(err).Msg("export snapshot failed")
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}

	counts := map[string]int{}
	for k, v := range tables {
		switch t := v.(type) {
		case []exportActor:
			counts[k] = len(t)
		case []streamResp:
			counts[k] = len(t)
		case []workResp:
			counts[k] = len(t)
		case []extraResp:
			counts[k] = len(t)
		case []scriptResp:
			counts[k] = len(t)
		case []financeResp:
			counts[k] = len(t)
		case []statsResp:
			counts[k] = len(t)
		case []planResp:
			counts[k] = len(t)
		case []auditResp:
			counts[k] = len(t)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"counts":       counts,
		"tables":       tables,
	})
}

// exportAuditLimit bounds the audit slice in a snapshot. The table is
// append-only and can outgrow the rest of the export combined.
const exportAuditLimit = 10000
