package main

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/training-portal/internal/blob"
	"github.com/example/training-portal/internal/config"
	"github.com/example/training-portal/internal/handlers"
	"github.com/example/training-portal/internal/platform/analytics"
	"github.com/example/training-portal/internal/platform/auth"
	platformcfg "github.com/example/training-portal/internal/platform/config"
	"github.com/example/training-portal/internal/platform/db"
	"github.com/example/training-portal/internal/platform/httpserver"
	"github.com/example/training-portal/internal/platform/logging"
	"github.com/example/training-portal/internal/platform/natsconn"
	"github.com/example/training-portal/internal/platform/run"
	"github.com/example/training-portal/internal/progress"
	"github.com/example/training-portal/internal/store"
	"github.com/example/training-portal/internal/tokens"
)

// cacheInvalidateSubject fans catalogue changes out to every replica's cache.
const cacheInvalidateSubject = "portal.cache.videos"

func main() {
	appCfg, err := platformcfg.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(appCfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	portalCfg, err := config.LoadPortal()
	if err != nil {
		log.Error("load portal config", zap.Error(err))
		run.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx)
	if err != nil {
		log.Error("open database", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	// Analytics and cache invalidation both run over NATS; neither is on the
	// request critical path, so a missing broker degrades instead of failing.
	var nc *nats.Conn
	var ap *analytics.Publisher
	if nc, err = natsconn.Connect(natsconn.Options{}); err != nil {
		log.Warn("nats unavailable, analytics and cache fan-out disabled", zap.Error(err))
	} else {
		defer func() { _ = nc.Drain() }()
		js, jsErr := nc.JetStream()
		if jsErr != nil {
			log.Warn("jetstream unavailable, analytics disabled", zap.Error(jsErr))
		} else {
			ap = analytics.New(js, log)
		}
	}

	blobs, err := blob.NewDiskStore(portalCfg.UploadDir)
	if err != nil {
		log.Error("init blob store", zap.Error(err))
		run.Exit(1)
	}

	users := store.NewPostgresUserStore(pool)
	videos := store.NewPostgresVideoStore(pool)
	progressStore := store.NewPostgresProgressStore(pool)

	tok := tokens.Service{Secret: portalCfg.JWTSecret, AccessTokenTTL: portalCfg.AccessTokenTTL}
	verifier := auth.JWTVerifier{Secret: portalCfg.JWTSecret}

	reconciler := &progress.Reconciler{Store: progressStore, Catalog: videos, Events: ap}
	query := &progress.QueryService{Store: progressStore}

	videoHandlers := &handlers.Videos{
		Store:      videos,
		Blobs:      blobs,
		Query:      query,
		Cache:      handlers.NewTTLCache(portalCfg.VideoCacheTTLSec, nc, cacheInvalidateSubject),
		Categories: portalCfg.Categories,
		Events:     ap,
		Log:        log,
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, portalCfg.FrontendOrigin)

	r.Post("/api/login", handlers.Login(users, tok, portalCfg.BootstrapAdminID, ap))

	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalUser(verifier))
		r.Get("/api/videos", videoHandlers.List())
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Post("/api/progress", handlers.SaveProgress(reconciler, log))
		r.Get("/api/progress", handlers.QueryProgress(query, log))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/api/videos", videoHandlers.Upload())
			r.Delete("/api/videos/{id}", videoHandlers.Delete())
		})
	})

	r.Get("/uploads/{filename}", videoHandlers.Serve())

	srv := httpserver.New(httpserver.Options{
		Addr:        appCfg.HTTP.Addr,
		ServiceName: appCfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
