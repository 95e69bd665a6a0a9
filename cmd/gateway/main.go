package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phuslu/log"

	api "github.com/mind-engage/greenscore/internal/api/http"
	"github.com/mind-engage/greenscore/internal/app"
	auth "github.com/mind-engage/greenscore/internal/auth/middleware"
	"github.com/mind-engage/greenscore/internal/config"
	rbac "github.com/mind-engage/greenscore/internal/rbac"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	log.DefaultLogger.SetLevel(log.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, "greenscore-gateway")
	if err != nil {
		log.Fatal().Err(err).Msg("startup")
	}
	svc := a.Service

	// --- Auth (local admin, JWT) ---
	authSvc, err := auth.NewAuthService(cfg.AuthHMACSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("auth")
	}
	authSvc.AddAccount(cfg.AdminUser, cfg.AdminPassHash, "admin")

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "X-Report-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Public scoring surface
	r.Get("/get-infrastructure/{province}", api.InfrastructureHandler(svc))
	r.Get("/districts/{district}/environmental-score/{subdistrict}", api.EnvironmentalScoreHandler(svc))
	r.Get("/districts/{district}/environmental-scores", api.EnvironmentalScoresHandler(svc))
	r.Get("/investment-score/{region}", api.InvestmentScoreHandler(svc))
	r.Post("/score", api.ScoreHandler(svc))
	r.Get("/scores/*", api.HistoryHandler(a.Scores))
	r.Route("/reports", func(rr chi.Router) {
		api.MountReports(rr, svc, a.Archiver)
	})

	// Admin (JWT -> role in context -> RBAC)
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.JWTMiddleware(authSvc))
		ar.With(rbac.Require("categories:refresh")).
			Post("/categories/refresh", api.RefreshCategoriesHandler(svc))
		ar.With(rbac.Require("batch:run")).
			Post("/batch/run", api.BatchRunHandler(a.Batch))
		ar.With(rbac.RequireAny("batch:view", "batch:run")).
			Get("/batch/last", api.BatchLastHandler(a.Batch))
	})

	r.Get("/healthz", api.HealthHandler())
	r.Get("/readyz", api.ReadyHandler(a.DB))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("mode", string(cfg.Mode)).Str("db", cfg.DBDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("close")
	}
}
