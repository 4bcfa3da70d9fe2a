package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmrivas/tradeacademy/internal/config"
	"github.com/jmrivas/tradeacademy/internal/domain/enrollments"
	"github.com/jmrivas/tradeacademy/internal/domain/products"
	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
	"github.com/jmrivas/tradeacademy/internal/domain/subscriptions"
	"github.com/jmrivas/tradeacademy/internal/domain/users"
	"github.com/jmrivas/tradeacademy/internal/infra/db"
	httpx "github.com/jmrivas/tradeacademy/internal/infra/http"
	"github.com/jmrivas/tradeacademy/internal/infra/logger"
	"github.com/jmrivas/tradeacademy/internal/infra/notify"
	"github.com/jmrivas/tradeacademy/internal/infra/payments"
	"github.com/jmrivas/tradeacademy/internal/tracker"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", "tz", cfg.App.Timezone, "err", err)
		return
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	userRepo := users.NewRepo(pool)
	productRepo := products.NewRepo(pool)
	sessionRepo := sessions.NewRepo(pool)
	subsRepo := subscriptions.NewRepo(pool)
	enrollRepo := enrollments.NewRepo(pool)

	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	if tg == nil {
		log.Info("telegram notifications disabled")
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tradeacademy_next_session_seconds",
		Help: "Seconds until the next scheduled live session.",
	})
	prometheus.MustRegister(gauge)

	trk := tracker.New(tracker.Options{
		Store:        sessionRepo,
		Location:     loc,
		Log:          log,
		Notifier:     tg,
		Gauge:        gauge,
		ReminderLead: cfg.Tracker.ReminderLead,
	})
	go func() {
		if err := trk.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("tracker stopped", "err", err)
		}
	}()

	paySvc := payments.NewService(cfg.Payments.BaseURL)
	payHandler := payments.NewHandler(log, enrollRepo, productRepo, subsRepo, userRepo, tg)

	srv := httpx.New(httpx.Options{
		Addr:           cfg.HTTP.Addr,
		JWTSecret:      cfg.Auth.JWTSecret,
		Location:       loc,
		Log:            log,
		Metrics:        cfg.Metrics.Enabled,
		Sessions:       sessionRepo,
		Subscriptions:  subsRepo,
		Products:       productRepo,
		Users:          userRepo,
		Enrollments:    enrollRepo,
		Checkout:       paySvc,
		Tracker:        trk,
		PaymentsReturn: payHandler,
	})
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "err", err)
	}
	log.Info("graceful shutdown complete")
}
