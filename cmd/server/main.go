package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/arhaval/talent-admin/internal/auth"
	"github.com/arhaval/talent-admin/internal/config"
	"github.com/arhaval/talent-admin/internal/database"
	"github.com/arhaval/talent-admin/internal/handler"
	"github.com/arhaval/talent-admin/internal/middleware"
	"github.com/arhaval/talent-admin/internal/queue"
	"github.com/arhaval/talent-admin/internal/repository"
	"github.com/arhaval/talent-admin/internal/router"
)

func main() {
	// Local development reads .env; deployed environments set real vars and
	// the missing file is not an error.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "talent-admin").Logger()
	cfg := config.Load()
	if !cfg.IsProd() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	db, err := database.Open(database.Params{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	defer func() { _ = db.Close() }()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Apply(migrateCtx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// Sessions live in Redis when it is reachable; otherwise an in-memory
	// store keeps the instance usable, at the cost of sessions not surviving
	// a restart.
	var sessions auth.Store
	var memStore *auth.MemoryStore
	if rdb := config.NewRedisClient(); rdb != nil {
		sessions = auth.NewRedisStore(rdb)
		log.Info().Msg("sessions backed by redis")
	} else {
		memStore = auth.NewMemoryStore()
		sessions = memStore
		log.Warn().Msg("redis unreachable, sessions held in memory")
	}

	actors := repository.NewActorRepo(db)
	streams := repository.NewStreamRepo(db)
	subs := repository.NewWorkSubmissionRepo(db)
	extras := repository.NewExtraWorkRepo(db)
	scripts := repository.NewScriptRepo(db)
	packs := repository.NewEditPackRepo(db)
	finance := repository.NewFinanceRepo(db)
	stats := repository.NewStatsRepo(db)
	plans := repository.NewPlanRepo(db)
	audit := repository.NewAuditRepo(db)

	resolver := auth.NewResolver(sessions, actors)
	pub := queue.NewPublisher(cfg.AuditQueueName, log)
	if cfg.ConsumerEnabled {
		go queue.StartAuditConsumer(cfg.AuditQueueName, log)
	}

	limiter := middleware.NewRateLimiter(config.LoadRateLimitConfig())

	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if n := limiter.Sweep(); n > 0 {
			log.Debug().Int("buckets", n).Msg("rate limiter sweep")
		}
		if memStore != nil {
			if n := memStore.Sweep(); n > 0 {
				log.Debug().Int("sessions", n).Msg("memory session sweep")
			}
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("cron registration failed")
	}
	if _, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := packs.DeleteExpired(ctx, time.Now().UTC())
		if err != nil {
			log.Error().Err(err).Msg("edit pack cleanup failed")
			return
		}
		if n > 0 {
			log.Info().Int64("packs", n).Msg("expired edit packs removed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("cron registration failed")
	}
	c.Start()
	defer c.Stop()

	authH := &handler.AuthHandler{Cfg: cfg, Actors: actors, Sessions: sessions, Resolver: resolver, Audit: audit, Pub: pub, Log: log}
	actorH := &handler.ActorHandler{Cfg: cfg, Actors: actors, Audit: audit, Pub: pub, Log: log}
	streamH := &handler.StreamHandler{Cfg: cfg, Streams: streams, Audit: audit, Pub: pub, Log: log}
	workH := &handler.WorkHandler{Cfg: cfg, Subs: subs, Extras: extras, Audit: audit, Pub: pub, Log: log}
	scriptH := &handler.ScriptHandler{Cfg: cfg, Scripts: scripts, Audit: audit, Pub: pub, Log: log}
	packH := &handler.EditPackHandler{Cfg: cfg, Packs: packs, Scripts: scripts, Audit: audit, Pub: pub, Log: log}
	financeH := &handler.FinanceHandler{Cfg: cfg, Finance: finance, Stats: stats, Plans: plans, Audit: audit, Pub: pub, Log: log}
	auditH := &handler.AuditHandler{Cfg: cfg, Audit: audit, Log: log}
	dashH := &handler.DashboardHandler{Cfg: cfg, Actors: actors, Streams: streams, Subs: subs, Extras: extras, Scripts: scripts, Log: log}
	exportH := &handler.ExportHandler{
		Cfg: cfg, Actors: actors, Streams: streams, Subs: subs, Extras: extras,
		Scripts: scripts, Packs: packs, Finance: finance, Stats: stats, Plans: plans,
		Audit: audit, Log: log,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	// The limiter is mounted per route group, after the session gates, so
	// user-keyed strategies see the resolved identity.
	rl := limiter.Middleware()
	router.RegisterPublic(e, rl, authH, packH, exportH)
	router.RegisterTalent(e, resolver, rl, router.TalentHandlers{
		Streams: streamH,
		Work:    workH,
		Scripts: scriptH,
		Packs:   packH,
	})
	router.RegisterAdmin(e, resolver, rl, router.AdminHandlers{
		Actors:    actorH,
		Streams:   streamH,
		Work:      workH,
		Scripts:   scriptH,
		Finance:   financeH,
		Audit:     auditH,
		Dashboard: dashH,
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
