// Package router wires handlers to their routes and access gates. Routes are
// grouped by audience: public, talent (session-gated per variant) and admin.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/handler"
)

// RegisterPublic registers routes that require no session: the health check,
// login/logout for every variant, the identity probe, the capability-URL
// edit pack reader and the secret-gated export. rl is the rate limiter;
// public callers have no identity, so user-keyed strategies read as anon
// here. The health check stays unlimited for probes.
func RegisterPublic(e *echo.Echo, rl echo.MiddlewareFunc, a *handler.AuthHandler, ep *handler.EditPackHandler, ex *handler.ExportHandler) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth", rl)
	g.POST("/:variant/login", a.Login)
	g.POST("/:variant/logout", a.Logout)
	g.GET("/me", a.Me)

	// The token in the URL is the credential; no session gate.
	e.GET("/v1/edit-packs/:token", ep.Get, rl)

	// Gated inside the handler by the export secret, not a session.
	e.GET("/v1/export", ex.Snapshot, rl)
}
