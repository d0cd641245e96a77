package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerline/backoffice-portal/internal/api"
	"github.com/ledgerline/backoffice-portal/internal/api/metrics"
	"github.com/ledgerline/backoffice-portal/internal/api/middleware"
	"github.com/ledgerline/backoffice-portal/internal/api/view"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
	"github.com/ledgerline/backoffice-portal/internal/core/service"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/backend"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/config"
	mongostore "github.com/ledgerline/backoffice-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/ledgerline/backoffice-portal/internal/infrastructure/db/redis"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/http/handlers"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/memstore"
	"github.com/ledgerline/backoffice-portal/internal/infrastructure/queue"
	"github.com/ledgerline/backoffice-portal/internal/pkg/assets"
	"github.com/ledgerline/backoffice-portal/pkg/logger"
)

const (
	submitGuardTTL  = 15 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// @title        Ledgerline back-office portal
// @version      1.0
// @description  JSON endpoints of the back-office web portal.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Configuration ---
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "backoffice-portal"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backoffice-portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped with error")
	}
	log.Info().Msg("portal exiting")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	health := map[string]handlers.Pinger{}

	// --- Backend API ---
	client, err := backend.New(backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: cfg.Backend.Timeout}, log)
	if err != nil {
		return err
	}
	health["backend"] = client

	// --- Session store + submit guard ---
	var (
		store ports.SessionStore
		guard ports.SubmitGuard
	)
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		rs := redisstore.NewSessionStore(rdb, cfg.Session.IdleTTL)
		store, guard = rs, redisstore.NewSubmitGuard(rdb)
		health["redis"] = rs
	default:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		store, guard = memstore.NewSessionStore(cfg.Session.IdleTTL), memstore.NewSubmitGuard(submitGuardTTL)
	}
	store.Subscribe(metrics.ObserveSessionEvent)

	// --- Session audit trail ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if cfg.Audit.Enabled {
		mc, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()

		audit := mongostore.NewAuditRepository(db, cfg.Audit.Retention)
		if err := audit.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure audit indexes")
		}
		health["mongodb"] = audit

		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, audit, log)
		dispatcher.Start(workerCtx)
		unsubscribe := store.Subscribe(dispatcher.Enqueue)
		// stop feeding, drain, then let the mongo client disconnect
		defer func() {
			unsubscribe()
			cancelWorkers()
			dispatcher.Wait()
		}()
	}

	// --- HTTP ---
	renderer, err := view.NewRenderer(assets.NewLinker(cfg.AssetBaseURL))
	if err != nil {
		return err
	}

	sessions := service.NewSessionService(store, client, log)
	e := api.NewRouter(api.Deps{
		Log:      log,
		Sessions: sessions,
		Client:   client,
		Admin:    client,
		Guard:    guard,
		Renderer: renderer,
		Codec:    middleware.NewCookieCodec(cfg.Session.Secret, cfg.Session.IdleTTL),
		Cookie: middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.IdleTTL,
		},
		Health: health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("session_store", cfg.Session.Store).Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
