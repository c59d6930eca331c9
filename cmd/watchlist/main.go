package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"watchlist/internal/auth"
	"watchlist/internal/config"
	"watchlist/internal/db"
	httpx "watchlist/internal/http"
	"watchlist/internal/http/handler"
	"watchlist/internal/jobs"
	"watchlist/internal/mail"
	"watchlist/internal/users"
	"watchlist/internal/watchlist"
)

type userStore interface {
	auth.UserStore
	watchlist.Store
	handler.UserAdmin
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	var (
		store   userStore
		storage = "memory"
		queue   *jobs.Repo
	)
	if cfg.DatabaseURL != "" {
		gdb, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
		store = &users.GormStore{DB: gdb}
		storage = "connected"
		queue = &jobs.Repo{DB: gdb}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory user store")
		store = users.NewMemoryStore()
	}

	var mailer mail.Mailer = mail.Disabled{}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Warn("SMTP not configured, verification emails disabled")
	}

	authSvc := &auth.Service{
		Store:   store,
		Mailer:  mailer,
		JWT:     auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL),
		Mode:    cfg.Mode,
		BaseURL: cfg.AppBaseURL,
		Log:     logger.Named("auth"),
	}
	wlSvc := &watchlist.Service{Store: store, Mode: cfg.Mode, Log: logger.Named("watchlist")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// strict mode keeps undelivered verification mail in the outbox
	if cfg.Mode == config.ModeStrict && queue != nil {
		authSvc.Queue = queue
		worker := &jobs.Worker{
			ID:      "worker-" + uuid.NewString(),
			Queue:   queue,
			Mailer:  mailer,
			BaseURL: cfg.AppBaseURL,
			Log:     logger.Named("jobs"),
		}
		go worker.Run(ctx)
	}

	r := httpx.NewRouter(cfg, httpx.Services{
		Auth:      authSvc,
		Watchlist: wlSvc,
		Users:     store,
		Storage:   storage,
		Log:       logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("mode", string(cfg.Mode)),
			zap.String("storage", storage),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
