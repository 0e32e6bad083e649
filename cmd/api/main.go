package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alexander2005-rgb/portfolio/db"
	"github.com/Alexander2005-rgb/portfolio/internal/app/migrate"
	"github.com/Alexander2005-rgb/portfolio/internal/cache"
	httpx "github.com/Alexander2005-rgb/portfolio/internal/http"
	"github.com/Alexander2005-rgb/portfolio/internal/repository/postgres"
	"github.com/Alexander2005-rgb/portfolio/internal/service/auth"
	"github.com/Alexander2005-rgb/portfolio/internal/service/certificate"
	"github.com/Alexander2005-rgb/portfolio/internal/service/contact"
	"github.com/Alexander2005-rgb/portfolio/internal/service/project"
	"github.com/Alexander2005-rgb/portfolio/internal/service/skill"
	"github.com/Alexander2005-rgb/portfolio/internal/storage"
	"github.com/Alexander2005-rgb/portfolio/internal/ws"
	"github.com/Alexander2005-rgb/portfolio/pkg/config"
	jwtpkg "github.com/Alexander2005-rgb/portfolio/pkg/jwt"
	"github.com/Alexander2005-rgb/portfolio/pkg/logger"
)

func main() {
	cfg := config.LoadAPIConfig()
	log := logger.New("api", logger.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	tokens, err := jwtpkg.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Error("token issuer unavailable", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	runner, err := migrate.New(pool, db.Migrations(cfg.MigrationsDir), log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Up(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	var store cache.Store = cache.Nop{}
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		redisStore, err := cache.NewRedis(addr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis cache unavailable, serving uncached", "error", err)
		} else {
			defer redisStore.Close()
			store = redisStore
			log.Info("redis cache enabled", "addr", addr, "ttl", cfg.CacheTTL.String())
		}
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	repo := postgres.New(pool)
	services := httpx.Services{
		Auth:         auth.New(repo, tokens, cfg.OwnerRegistrationCode, log),
		Projects:     project.New(repo, store, cfg.CacheTTL, log),
		Certificates: certificate.New(repo, store, cfg.CacheTTL, log),
		Skills:       skill.New(repo, store, cfg.CacheTTL, log),
		Contacts:     contact.New(repo, hub, ws.TopicContact, log),
	}

	opts := httpx.Options{
		Tokens:         tokens,
		Hub:            hub,
		DBHealth:       pool.Ping,
		StrictAuth:     cfg.StrictAuth,
		AllowedOrigins: []string{cfg.ClientURL},
	}
	if cfg.UploadsEnabled() {
		presigner, err := storage.NewPresigner(ctx, storage.Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			Expires:       cfg.UploadURLTTL,
		})
		if err != nil {
			log.Warn("uploads disabled", "error", err)
		} else {
			opts.Uploader = presigner
		}
	}

	router := httpx.NewRouter(log, services, opts)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr, "env", cfg.Environment, "strict_auth", cfg.StrictAuth)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
