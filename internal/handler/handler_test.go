package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/handler"
	"github.com/arhaval/talent-admin/internal/middleware"
	"github.com/arhaval/talent-admin/internal/model"
	"github.com/arhaval/talent-admin/internal/repository"
	"github.com/arhaval/talent-admin/internal/router"
)

// stubActors satisfies auth.ActorLookup with a fixed role per variant. Every
// actor id is considered present and active unless the variant is missing.
type stubActors map[auth.Variant]string

func (s stubActors) LookupActor(_ context.Context, v auth.Variant, _ uint64) (string, bool, error) {
	role, ok := s[v]
	if !ok {
		return "", false, repository.ErrNotFound
	}
	return role, true, nil
}

type app struct {
	e        *echo.Echo
	mock     sqlmock.Sqlmock
	sessions *auth.MemoryStore
}

func newApp(t *testing.T, cfg config.Config, actors stubActors) app {
	t.Helper()
	off := middleware.NewRateLimiter(config.RateLimitConfig{}).Middleware()
	return newLimitedApp(t, cfg, actors, off)
}

// newLimitedApp wires the full router with the given rate limiter so tests
// can exercise limiter placement relative to the session gates.
func newLimitedApp(t *testing.T, cfg config.Config, actors stubActors, rl echo.MiddlewareFunc) app {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	sessions := auth.NewMemoryStore()
	resolver := auth.NewResolver(sessions, actors)

	actorRepo := repository.NewActorRepo(db)
	streams := repository.NewStreamRepo(db)
	subs := repository.NewWorkSubmissionRepo(db)
	extras := repository.NewExtraWorkRepo(db)
	scripts := repository.NewScriptRepo(db)
	packs := repository.NewEditPackRepo(db)
	finance := repository.NewFinanceRepo(db)
	stats := repository.NewStatsRepo(db)
	plans := repository.NewPlanRepo(db)
	audit := repository.NewAuditRepo(db)

	authH := &handler.AuthHandler{Cfg: cfg, Actors: actorRepo, Sessions: sessions, Resolver: resolver, Audit: audit, Log: log}
	actorH := &handler.ActorHandler{Cfg: cfg, Actors: actorRepo, Audit: audit, Log: log}
	streamH := &handler.StreamHandler{Cfg: cfg, Streams: streams, Audit: audit, Log: log}
	workH := &handler.WorkHandler{Cfg: cfg, Subs: subs, Extras: extras, Audit: audit, Log: log}
	scriptH := &handler.ScriptHandler{Cfg: cfg, Scripts: scripts, Audit: audit, Log: log}
	packH := &handler.EditPackHandler{Cfg: cfg, Packs: packs, Scripts: scripts, Audit: audit, Log: log}
	financeH := &handler.FinanceHandler{Cfg: cfg, Finance: finance, Stats: stats, Plans: plans, Audit: audit, Log: log}
	auditH := &handler.AuditHandler{Cfg: cfg, Audit: audit, Log: log}
	dashH := &handler.DashboardHandler{Cfg: cfg, Actors: actorRepo, Streams: streams, Subs: subs, Extras: extras, Scripts: scripts, Log: log}
	exportH := &handler.ExportHandler{
		Cfg: cfg, Actors: actorRepo, Streams: streams, Subs: subs, Extras: extras,
		Scripts: scripts, Packs: packs, Finance: finance, Stats: stats, Plans: plans,
		Audit: audit, Log: log,
	}

	e := echo.New()
	router.RegisterPublic(e, rl, authH, packH, exportH)
	router.RegisterTalent(e, resolver, rl, router.TalentHandlers{Streams: streamH, Work: workH, Scripts: scriptH, Packs: packH})
	router.RegisterAdmin(e, resolver, rl, router.AdminHandlers{
		Actors: actorH, Streams: streamH, Work: workH, Scripts: scriptH,
		Finance: financeH, Audit: auditH, Dashboard: dashH,
	})

	return app{e: e, mock: mock, sessions: sessions}
}

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		ExportSecret: "export-secret",
		SessionTTL:   time.Hour,
		EditPackTTL:  72 * time.Hour,
	}
}

// login creates a session in the memory store and returns the cookie to send.
func (a app) login(t *testing.T, v auth.Variant, actorID uint64) *http.Cookie {
	t.Helper()
	token, err := a.sessions.Create(context.Background(), v, actorID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName(v), Value: token}
}

func (a app) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

var streamColNames = []string{
	"id", "streamer_id", "stream_date", "duration_hours", "match_info", "team",
	"status", "payment_status", "total_revenue", "streamer_earning", "arhaval_profit", "cost",
	"admin_notes", "reviewed_at", "created_at", "updated_at",
}

func streamRow(id, streamerID uint64, team, status string, total, earning, profit int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(streamColNames).AddRow(
		id, streamerID, now, 3.0, nil, team,
		status, model.PaymentUnpaid, total, earning, profit, int64(0),
		nil, nil, now, now)
}

func TestStreamSubmitRequiresSession(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})
	rec := a.do(http.MethodPost, "/v1/streams", `{"stream_date":"2025-01-10","duration_hours":3}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamSubmitCreatesPendingRecord(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantStreamer: ""})
	ck := a.login(t, auth.VariantStreamer, 7)

	a.mock.ExpectExec("INSERT INTO streams").
		WithArgs(uint64(7), "2025-01-10", 3.0, nil, "Sangal", model.StatusPending, model.PaymentUnpaid).
		WillReturnResult(sqlmock.NewResult(42, 1))
	a.mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, 7, "Sangal", model.StatusPending, 0, 0, 0))
	a.mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"stream_date":"2025-01-10","duration_hours":3,"team":"Sangal","total_revenue":99999}`
	rec := a.do(http.MethodPost, "/v1/streams", body, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, float64(0), got["total_revenue"])
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestStreamSubmitRejectsMissingFields(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantStreamer: ""})
	ck := a.login(t, auth.VariantStreamer, 7)

	rec := a.do(http.MethodPost, "/v1/streams", `{"duration_hours":3}`, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/v1/streams", `{"stream_date":"2025-01-10","duration_hours":-1}`, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamReviewAppliesRateTable(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	// No explicit money in the body: the handler reads the stream (Sangal,
	// 3h) and stamps 1200/900/300 from the rate table.
	a.mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, 7, "Sangal", model.StatusPending, 0, 0, 0))
	a.mock.ExpectExec("UPDATE streams").
		WithArgs(model.StatusApproved, nil, int64(1200), int64(900), int64(300), int64(0),
			sqlmock.AnyArg(), uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	a.mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, 7, "Sangal", model.StatusApproved, 1200, 900, 300))
	a.mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := a.do(http.MethodPut, "/v1/streams/42/status", `{"status":"approved"}`, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(1200), got["total_revenue"])
	assert.Equal(t, float64(900), got["streamer_earning"])
	assert.Equal(t, float64(300), got["arhaval_profit"])
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestStreamRejectStampsNotesOnly(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	// Rejection writes the notes, zero money and a NULL review timestamp.
	a.mock.ExpectExec("UPDATE streams").
		WithArgs(model.StatusRejected, "fabricated duration", int64(0), int64(0), int64(0), int64(0),
			nil, uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	a.mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, 7, "Sangal", model.StatusRejected, 0, 0, 0))
	a.mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := a.do(http.MethodPut, "/v1/streams/42/status", `{"status":"rejected","admin_notes":"fabricated duration"}`, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "rejected", got["status"])
	assert.Equal(t, float64(0), got["total_revenue"])
	assert.NotContains(t, got, "reviewed_at")
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestStreamReviewInvalidStatus(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	rec := a.do(http.MethodPut, "/v1/streams/42/status", `{"status":"pending"}`, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/v1/streams/42/status", `{"status":"done"}`, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamReviewAlreadyReviewedConflicts(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	a.mock.ExpectExec("UPDATE streams").
		WillReturnResult(sqlmock.NewResult(0, 0))
	a.mock.ExpectQuery("SELECT (.+) FROM streams WHERE id=").
		WithArgs(uint64(42)).
		WillReturnRows(streamRow(42, 7, "Sangal", model.StatusApproved, 1200, 900, 300))

	body := `{"status":"approved","total_revenue":1,"streamer_earning":1,"arhaval_profit":1}`
	rec := a.do(http.MethodPut, "/v1/streams/42/status", body, ck)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestAdminGateDistinguishes401And403(t *testing.T) {
	// A valid admin-variant session whose role is staff gets 403, not 401.
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "staff"})
	ck := a.login(t, auth.VariantAdmin, 2)

	rec := a.do(http.MethodGet, "/v1/dashboard", "", ck)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/v1/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGateRejectsTalentSession(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantStreamer: ""})
	ck := a.login(t, auth.VariantStreamer, 7)

	rec := a.do(http.MethodGet, "/v1/streams", "", ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamListDegradesToEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.ListDegrade = true
	a := newApp(t, cfg, stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	a.mock.ExpectQuery("SELECT (.+) FROM streams ORDER BY").
		WillReturnError(assert.AnError)

	rec := a.do(http.MethodGet, "/v1/streams", "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestStreamListBadMonthFilter(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})
	ck := a.login(t, auth.VariantAdmin, 1)

	rec := a.do(http.MethodGet, "/v1/streams?filter=monthly&month=2025-13", "", ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var packCols = []string{"token", "expires_at", "title", "text", "audio_url"}

func TestEditPackUnknownTokenIs404(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})

	a.mock.ExpectQuery("SELECT (.+) FROM edit_packs").
		WithArgs("deadbeef").
		WillReturnRows(sqlmock.NewRows(packCols))

	rec := a.do(http.MethodGet, "/v1/edit-packs/deadbeef", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestEditPackExpiredTokenIs410(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})

	a.mock.ExpectQuery("SELECT (.+) FROM edit_packs").
		WithArgs("oldtoken").
		WillReturnRows(sqlmock.NewRows(packCols).
			AddRow("oldtoken", time.Now().UTC().Add(-time.Hour), "Title", "Text", nil))

	rec := a.do(http.MethodGet, "/v1/edit-packs/oldtoken", "")
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestEditPackValidTokenReturnsSanitizedPayload(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})

	audio := "https://cdn.example.com/take1.mp3"
	a.mock.ExpectQuery("SELECT (.+) FROM edit_packs").
		WithArgs("goodtoken").
		WillReturnRows(sqlmock.NewRows(packCols).
			AddRow("goodtoken", time.Now().UTC().Add(time.Hour), "Intro", "Read this warmly.", audio))

	rec := a.do(http.MethodGet, "/v1/edit-packs/goodtoken", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Intro", got["title"])
	assert.Equal(t, "Read this warmly.", got["text"])
	assert.Equal(t, audio, got["audio_url"])
	// The payload never leaks ownership or assignment.
	assert.NotContains(t, got, "creator_id")
	assert.NotContains(t, got, "voice_actor_id")
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestExportRejectsBadSecret(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})

	req := httptest.NewRequest(http.MethodGet, "/v1/export", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/v1/export", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportDisabledWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.ExportSecret = ""
	a := newApp(t, cfg, stubActors{})

	req := httptest.NewRequest(http.MethodGet, "/v1/export", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer ")
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeUnauthenticatedNeverFails(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})

	rec := a.do(http.MethodGet, "/v1/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestLoginSetsCookieAndAuditTrail(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantStreamer: ""})

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	a.mock.ExpectQuery("SELECT (.+) FROM streamers WHERE email=").
		WithArgs("kaan@arhaval.example").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "display_name", "role", "is_active", "created_at", "updated_at",
		}).AddRow(7, "kaan@arhaval.example", string(hash), "Kaan", "", true, now, now))
	a.mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"email":"Kaan@Arhaval.example","password":"hunter22"}`
	rec := a.do(http.MethodPost, "/v1/auth/streamer/login", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.CookieName(auth.VariantStreamer) {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "login must set the streamer cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, cookie.Value, 64)

	// The minted session resolves to the actor.
	id, err := a.sessions.Resolve(context.Background(), auth.VariantStreamer, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestLoginWrongPasswordIsUniform401(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantStreamer: ""})

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	a.mock.ExpectQuery("SELECT (.+) FROM streamers WHERE email=").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "display_name", "role", "is_active", "created_at", "updated_at",
		}).AddRow(7, "kaan@arhaval.example", string(hash), "Kaan", "", true, now, now))

	rec := a.do(http.MethodPost, "/v1/auth/streamer/login", `{"email":"kaan@arhaval.example","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown email answers identically.
	a.mock.ExpectQuery("SELECT (.+) FROM streamers WHERE email=").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "display_name", "role", "is_active", "created_at", "updated_at",
		}))
	rec = a.do(http.MethodPost, "/v1/auth/streamer/login", `{"email":"nobody@arhaval.example","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestLoginUnknownVariantIs400(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{})
	rec := a.do(http.MethodPost, "/v1/auth/wizard/login", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScriptClaimConflictWhenTaken(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantVoiceActor: ""})
	ck := a.login(t, auth.VariantVoiceActor, 5)

	// CAS misses, row exists with an assignee -> conflict.
	a.mock.ExpectExec("UPDATE voiceover_scripts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	a.mock.ExpectQuery("SELECT (.+) FROM voiceover_scripts WHERE id=").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "creator_id", "voice_actor_id", "title", "text", "audio_url", "created_at", "updated_at",
		}).AddRow(11, 3, 9, "Intro", "Text", nil, time.Now(), time.Now()))

	rec := a.do(http.MethodPost, "/v1/scripts/11/claim", "", ck)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestRatesTableIsAdminOnly(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantAdmin: "admin"})

	rec := a.do(http.MethodGet, "/v1/rates", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ck := a.login(t, auth.VariantAdmin, 1)
	rec = a.do(http.MethodGet, "/v1/rates", "", ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	teams := make([]string, 0, len(got))
	for _, row := range got {
		teams = append(teams, row["team"].(string))
	}
	assert.Contains(t, teams, "Sangal")
}

func TestUserKeyedRateLimitSeesIdentity(t *testing.T) {
	// One token per user, no meaningful refill. The limiter runs after the
	// session gate, so buckets key on the actor, not on a shared anon bucket.
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		IdleTTL:        time.Hour,
		KeyStrategy:    "user",
	})
	a := newLimitedApp(t, testConfig(), stubActors{auth.VariantStreamer: ""}, limiter.Middleware())
	ckA := a.login(t, auth.VariantStreamer, 7)
	ckB := a.login(t, auth.VariantStreamer, 8)

	// The empty body fails validation before any database work, so the test
	// only observes the limiter and the gate.
	rec := a.do(http.MethodPost, "/v1/streams", `{}`, ckA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/v1/streams", `{}`, ckA)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different actor has its own bucket.
	rec = a.do(http.MethodPost, "/v1/streams", `{}`, ckB)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkSubmitAndListMine(t *testing.T) {
	a := newApp(t, testConfig(), stubActors{auth.VariantTeamMember: ""})
	ck := a.login(t, auth.VariantTeamMember, 4)

	now := time.Now().UTC()
	a.mock.ExpectExec("INSERT INTO work_submissions").
		WithArgs("team_member", uint64(4), "Edited trailer", nil, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(13, 1))
	a.mock.ExpectQuery("SELECT (.+) FROM work_submissions WHERE id=").
		WithArgs(uint64(13)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "actor_variant", "actor_id", "title", "description", "status", "cost",
			"admin_notes", "approved_at", "created_at", "updated_at",
		}).AddRow(13, "team_member", 4, "Edited trailer", nil, model.StatusPending, int64(0), nil, nil, now, now))
	a.mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := a.do(http.MethodPost, "/v1/work-submissions", `{"title":"Edited trailer"}`, ck)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, float64(0), got["cost"])
	assert.NoError(t, a.mock.ExpectationsWereMet())
}
