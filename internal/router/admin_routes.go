package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/handler"
	"github.com/arhaval/talent-admin/internal/middleware"
)

// AdminHandlers bundles everything registered behind the admin gate.
type AdminHandlers struct {
	Actors    *handler.ActorHandler
	Streams   *handler.StreamHandler
	Work      *handler.WorkHandler
	Scripts   *handler.ScriptHandler
	Finance   *handler.FinanceHandler
	Audit     *handler.AuditHandler
	Dashboard *handler.DashboardHandler
}

// RegisterAdmin registers every admin-gated endpoint under /v1. All routes
// require an admin-variant session whose role is the literal "admin". The
// rate limiter runs after the gate so it can key on the resolved identity.
func RegisterAdmin(e *echo.Echo, r *auth.Resolver, rl echo.MiddlewareFunc, h AdminHandlers) {
	g := e.Group("/v1", middleware.RequireAdmin(r), rl)

	g.GET("/dashboard", h.Dashboard.Summary)
	g.GET("/rates", handler.Rates)

	g.POST("/actors/:variant", h.Actors.Create)
	g.GET("/actors/:variant", h.Actors.List)
	g.GET("/actors/:variant/:id", h.Actors.Get)
	g.PUT("/actors/:variant/:id/active", h.Actors.SetActive)
	g.DELETE("/actors/:variant/:id", h.Actors.Delete)

	g.GET("/streams", h.Streams.List)
	g.GET("/streams/:id", h.Streams.Get)
	g.PUT("/streams/:id/status", h.Streams.Review)
	g.PUT("/streams/:id/payment", h.Streams.SetPayment)

	g.GET("/work-submissions", h.Work.ListWork)
	g.PUT("/work-submissions/:id/review", h.Work.ReviewWork)
	g.GET("/extra-work", h.Work.ListExtra)
	g.PUT("/extra-work/:id/review", h.Work.ReviewExtra)

	g.GET("/scripts", h.Scripts.ListAll)
	g.PUT("/scripts/:id/assign", h.Scripts.Assign)

	g.POST("/finance/records", h.Finance.CreateRecord)
	g.GET("/finance/records", h.Finance.ListRecords)
	g.PUT("/finance/records/:id", h.Finance.UpdateRecord)
	g.DELETE("/finance/records/:id", h.Finance.DeleteRecord)

	g.POST("/stats", h.Finance.CreateStats)
	g.GET("/stats", h.Finance.ListStats)

	g.POST("/plans", h.Finance.CreatePlan)
	g.GET("/plans", h.Finance.ListPlans)
	g.PUT("/plans/:id/done", h.Finance.SetPlanDone)
	g.DELETE("/plans/:id", h.Finance.DeletePlan)

	g.GET("/audit-logs", h.Audit.List)
}
