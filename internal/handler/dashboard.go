package handler

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

// DashboardHandler aggregates the counters the admin landing page shows.
type DashboardHandler struct {
	Cfg     config.Config
	Actors  *repository.ActorRepo
	Streams *repository.StreamRepo
	Subs    *repository.WorkSubmissionRepo
	Extras  *repository.ExtraWorkRepo
	Scripts *repository.ScriptRepo
	Log     zerolog.Logger
}

// Summary handles GET /v1/dashboard (admin-gated). The counters are gathered
// concurrently; with the degrade policy on, a failed source reports zero
// instead of failing the whole page.
func (h *DashboardHandler) Summary(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	var mu sync.Mutex
	counts := map[string]int64{}
	set := func(key string, n int64) {
		mu.Lock()
		counts[key] = n
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	count := func(key string, fn func() (int64, error)) {
		g.Go(func() error {
			n, err := fn()
			if err != nil {
				if h.Cfg.ListDegrade {
					h.Log.Error().Err(err).Str("counter", key).Msg("dashboard counter degraded to zero")
					set(key, 0)
					return nil
				}
				return err
			}
			set(key, n)
			return nil
		})
	}

	for _, v := range auth.Variants() {
		variant := v
		count("actors."+string(variant), func() (int64, error) {
			return h.Actors.Count(gctx, variant)
		})
	}
	count("streams.total", func() (int64, error) { return h.Streams.Count(gctx) })
	count("streams.pending", func() (int64, error) { return h.Streams.CountByStatus(gctx, model.StatusPending) })
	count("streams.approved", func() (int64, error) { return h.Streams.CountByStatus(gctx, model.StatusApproved) })
	count("work.pending", func() (int64, error) { return h.Subs.CountByStatus(gctx, model.StatusPending) })
	count("extra_work.pending", func() (int64, error) { return h.Extras.CountByStatus(gctx, model.StatusPending) })
	count("scripts.total", func() (int64, error) { return h.Scripts.Count(gctx) })

	if err := g.Wait(); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, counts)
}
