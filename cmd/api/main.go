package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/deskhub/offices-api/internal/http/handlers"
	hmw "github.com/deskhub/offices-api/internal/http/middleware"
	"github.com/deskhub/offices-api/internal/mailer"
	"github.com/deskhub/offices-api/internal/notify"
	"github.com/deskhub/offices-api/internal/repo/postgres"
	"github.com/deskhub/offices-api/internal/repo/redisstore"
	"github.com/deskhub/offices-api/internal/service"
	"github.com/deskhub/offices-api/pkg/auth"
	"github.com/deskhub/offices-api/pkg/cache"
	"github.com/deskhub/offices-api/pkg/config"
	"github.com/deskhub/offices-api/pkg/database"
	"github.com/deskhub/offices-api/pkg/events"
	"github.com/deskhub/offices-api/pkg/logger"
	mw "github.com/deskhub/offices-api/pkg/middleware"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var idemStore mw.IdempotencyStore
	if redisClient := cache.NewClient(cfg.Redis); redisClient != nil {
		idemStore = redisstore.NewIdempotencyStore(redisClient)
	} else {
		logger.Warn("redis unreachable, idempotency caching disabled")
	}

	officeRepo := postgres.NewOfficeRepo(pool)
	tagRepo := postgres.NewTagRepo(pool)
	userRepo := postgres.NewUserRepo(pool)

	notifier := notify.NewBusNotifier(userRepo, eventBus)
	officeService := service.NewOfficeService(officeRepo, tagRepo, notifier, eventBus)
	authService := service.NewAuthService(userRepo, cfg)

	officeHandler := handlers.NewOfficeHandler(officeService, cfg.BaseURL)
	tagHandler := handlers.NewTagHandler(tagRepo)
	authHandler := handlers.NewAuthHandler(authService)

	var mailService mailer.Service
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mailService = mailer.NewDev()
	} else {
		mailService = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	worker := notify.NewWorker(eventBus, mailService)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))

	requireJWT := hmw.RequireJWT(cfg.Auth.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tags", tagHandler.List)
		r.Mount("/auth", authHandler.Routes())

		r.Route("/offices", func(r chi.Router) {
			r.Get("/", officeHandler.List)
			r.Get("/{id}", officeHandler.Show)
			r.With(requireJWT, hmw.RequireScope(auth.ScopeOfficeCreate), mw.Idempotency(idemStore)).
				Post("/", officeHandler.Create)
			r.With(requireJWT).Put("/{id}", officeHandler.Update)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
