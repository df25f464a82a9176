package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/handler"
	"github.com/arhaval/talent-admin/internal/middleware"
)

// TalentHandlers bundles the endpoints talent accounts reach directly.
type TalentHandlers struct {
	Streams *handler.StreamHandler
	Work    *handler.WorkHandler
	Scripts *handler.ScriptHandler
	Packs   *handler.EditPackHandler
}

// talentVariants are the four non-admin session kinds.
var talentVariants = []auth.Variant{
	auth.VariantStreamer,
	auth.VariantVoiceActor,
	auth.VariantContentCreator,
	auth.VariantTeamMember,
}

// RegisterTalent registers the session-gated talent endpoints under /v1.
// The rate limiter runs after each session gate so user-keyed strategies see
// the resolved identity instead of anon.
func RegisterTalent(e *echo.Echo, r *auth.Resolver, rl echo.MiddlewareFunc, h TalentHandlers) {
	// Streamers submit streams and list their own.
	streamer := e.Group("/v1", middleware.RequireActor(r, auth.VariantStreamer), rl)
	streamer.POST("/streams", h.Streams.Submit)
	streamer.GET("/my/streams", h.Streams.ListMine)

	// Work submissions and extra-work requests are open to every talent kind.
	talent := e.Group("/v1", middleware.RequireActor(r, talentVariants...), rl)
	talent.POST("/work-submissions", h.Work.SubmitWork)
	talent.GET("/my/work-submissions", h.Work.ListMyWork)
	talent.POST("/extra-work", h.Work.SubmitExtra)
	talent.GET("/my/extra-work", h.Work.ListMyExtra)

	// Script authoring is creator territory.
	creator := e.Group("/v1", middleware.RequireActor(r, auth.VariantContentCreator), rl)
	creator.POST("/scripts", h.Scripts.Create)
	creator.PUT("/scripts/:id", h.Scripts.Update)

	// Claiming and voicing belong to voice actors.
	va := e.Group("/v1", middleware.RequireActor(r, auth.VariantVoiceActor), rl)
	va.GET("/scripts/unclaimed", h.Scripts.ListUnclaimed)
	va.POST("/scripts/:id/claim", h.Scripts.Claim)
	va.PUT("/scripts/:id/audio", h.Scripts.SetAudio)

	// Creators and voice actors share the "my scripts" listing; the handler
	// picks the scope from the session variant.
	scripted := e.Group("/v1", middleware.RequireActor(r, auth.VariantContentCreator, auth.VariantVoiceActor), rl)
	scripted.GET("/my/scripts", h.Scripts.ListMine)

	// Script deletion and edit pack minting are shared between creators and
	// admins, so they get one registration with a combined gate.
	shared := e.Group("/v1", middleware.RequireActor(r, auth.VariantContentCreator, auth.VariantAdmin), rl)
	shared.DELETE("/scripts/:id", h.Scripts.Delete)
	shared.POST("/edit-packs", h.Packs.Create)
}
