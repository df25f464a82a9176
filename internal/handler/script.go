package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
)

// ScriptHandler implements voiceover script CRUD and assignment.
type ScriptHandler struct {
	Cfg     config.Config
	Scripts *repository.ScriptRepo
	Audit   *repository.AuditRepo
	Pub     AuditPublisher
	Log     zerolog.Logger
}

type scriptResp struct {
	ID           uint64  `json:"id"`
	CreatorID    uint64  `json:"creator_id"`
	VoiceActorID *uint64 `json:"voice_actor_id,omitempty"`
	Title        string  `json:"title"`
	Text         string  `json:"text"`
	AudioURL     *string `json:"audio_url,omitempty"`
}

func toScriptResp(s model.VoiceoverScript) scriptResp {
	return scriptResp{
		ID:           s.ID,
		CreatorID:    s.CreatorID,
		VoiceActorID: s.VoiceActorID,
		Title:        s.Title,
		Text:         s.Text,
		AudioURL:     s.AudioURL,
	}
}

func toScriptResps(list []model.VoiceoverScript) []scriptResp {
	out := make([]scriptResp, 0, len(list))
	for _, s := range list {
		out = append(out, toScriptResp(s))
	}
	return out
}

// Create handles POST /v1/scripts (content-creator-gated).
func (h *ScriptHandler) Create(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	var body struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(body.Title)
	text := strings.TrimSpace(body.Text)
	if title == "" || text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and text are required"})
	}

	s := model.VoiceoverScript{CreatorID: id.ID, Title: title, Text: text}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Scripts.Create(ctx, &s); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "script.create", "voiceover_script", s.ID, "")
	return c.JSON(http.StatusCreated, toScriptResp(s))
}

// Update handles PUT /v1/scripts/:id (content-creator-gated, owner only).
func (h *ScriptHandler) Update(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	scriptID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid script id"})
	}
	var body struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	title := strings.TrimSpace(body.Title)
	text := strings.TrimSpace(body.Text)
	if title == "" || text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and text are required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Scripts.Update(ctx, scriptID, id.ID, title, text)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toScriptResp(updated))
}

// Delete handles DELETE /v1/scripts/:id. Creators may delete their own
// scripts; admins may delete any.
func (h *ScriptHandler) Delete(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	scriptID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid script id"})
	}

	ownerScope := id.ID
	if id.Variant == auth.VariantAdmin {
		if !id.IsAdminRole() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		}
		ownerScope = 0 // admin delete is unscoped
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Scripts.Delete(ctx, scriptID, ownerScope); err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "script.delete", "voiceover_script", scriptID, "")
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my/scripts for creators and voice actors: a
// creator sees their own scripts, a voice actor their assignments.
func (h *ScriptHandler) ListMine(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	var list []model.VoiceoverScript
	switch id.Variant {
	case auth.VariantContentCreator:
		list, err = h.Scripts.ListByCreator(ctx, id.ID)
	case auth.VariantVoiceActor:
		list, err = h.Scripts.ListByVoiceActor(ctx, id.ID)
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no script listing for this role"})
	}
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toScriptResps(list))
}

// ListAll handles GET /v1/scripts (admin-gated). ?unclaimed=true narrows to
// scripts with no assigned voice actor.
func (h *ScriptHandler) ListAll(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	var (
		list []model.VoiceoverScript
		err  error
	)
	if c.QueryParam("unclaimed") == "true" {
		list, err = h.Scripts.ListUnclaimed(ctx)
	} else {
		list, err = h.Scripts.ListAll(ctx)
	}
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toScriptResps(list))
}

// ListUnclaimed handles GET /v1/scripts/unclaimed (voice-actor-gated), the
// pool a voice actor can claim from.
func (h *ScriptHandler) ListUnclaimed(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	list, err := h.Scripts.ListUnclaimed(ctx)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toScriptResps(list))
}

// Assign handles PUT /v1/scripts/:id/assign (admin-gated). A null
// voice_actor_id unassigns the script back into the unclaimed pool.
func (h *ScriptHandler) Assign(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	scriptID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid script id"})
	}
	var body struct {
		VoiceActorID *uint64 `json:"voice_actor_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Scripts.Assign(ctx, scriptID, body.VoiceActorID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "script.assign", "voiceover_script", scriptID, "")
	return c.JSON(http.StatusOK, toScriptResp(updated))
}

// Claim handles POST /v1/scripts/:id/claim (voice-actor-gated). Concurrent
// claims are safe: the repository CAS lets exactly one claimer win.
func (h *ScriptHandler) Claim(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	scriptID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid script id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Scripts.Claim(ctx, scriptID, id.ID)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	recordAudit(ctx, h.Log, h.Audit, h.Pub, id, "script.claim", "voiceover_script", scriptID, "")
	return c.JSON(http.StatusOK, toScriptResp(updated))
}

// SetAudio handles PUT /v1/scripts/:id/audio (voice-actor-gated, assignee
// only). The audio URL is a plain reference; upload storage is external.
func (h *ScriptHandler) SetAudio(c echo.Context) error {
	id, err := mustIdentity(c)
	if err != nil {
		return err
	}
	scriptID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid script id"})
	}
	var body struct {
		AudioURL string `json:"audio_url"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	url := strings.TrimSpace(body.AudioURL)
	if url == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "audio_url is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	updated, err := h.Scripts.SetAudio(ctx, scriptID, id.ID, url)
	if err != nil {
		return persistError(c, h.Log, err, !h.Cfg.IsProd())
	}
	return c.JSON(http.StatusOK, toScriptResp(updated))
}
