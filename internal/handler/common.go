// Package handler implements the HTTP endpoints. Handlers bind and validate
// input, call the repositories with a bounded context, and map persistence
// failures onto the HTTP error taxonomy. Validation and authorization are
// always checked before any mutation.
package handler

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/middleware"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/queue"
	"github.com/arhaval/talent-admin/internal/repository"
)

// dbTimeout bounds every per-request persistence call.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// AuditPublisher is the slice of queue.Publisher the handlers need; nil-able
// and stubbed in tests.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

// persistError maps a repository failure onto the HTTP taxonomy. showDetail
// controls whether the raw message is surfaced (never in prod).
func persistError(c echo.Context, log zerolog.Logger, err error, showDetail bool) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate record"})
	case errors.Is(err, repository.ErrAlreadyReviewed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "record already reviewed"})
	case errors.Is(err, repository.ErrAlreadyClaimed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "script already claimed"})
	case isUnavailable(err):
		log.Error().Err(err).Str("path", c.Path()).Msg("persistence unavailable")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
	msg := "internal error"
	if showDetail {
		msg = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// isUnavailable classifies connection-level failures that warrant a 503.
func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// mustIdentity fetches the identity set by the session middleware. Routes
// calling this are always gated, so a missing identity is a wiring bug and
// answered with 401 rather than a panic.
func mustIdentity(c echo.Context) (auth.Identity, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return auth.Identity{}, c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return id, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// recordAudit writes the audit row synchronously and mirrors it onto the bus
// best-effort. Audit failures never fail the operation they describe; they
// are logged and dropped.
func recordAudit(ctx context.Context, log zerolog.Logger, repo *repository.AuditRepo, pub AuditPublisher,
	id auth.Identity, action, entity string, entityID uint64, detail string) {
	var detailPtr *string
	if detail != "" {
		detailPtr = &detail
	}
	entry := &model.AuditLog{
		ActorVariant: string(id.Variant),
		ActorID:      id.ID,
		Action:       action,
		Entity:       entity,
		EntityID:     entityID,
		Detail:       detailPtr,
	}
	if repo != nil {
		if err := repo.Insert(ctx, entry); err != nil {
			log.Error().Err(err).Str("action", action).Msg("audit insert failed")
		}
	}
	if pub != nil {
		_ = pub.Publish(ctx, queue.NewAuditEvent(string(id.Variant), id.ID, action, entity, entityID, detail))
	}
}
