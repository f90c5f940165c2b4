// main wires the enforcement cache's dependencies and keeps the server
// lifecycle small. Domain logic lives in the internal/enforcement packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/compliance"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/handler"
	enfmetrics "github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/metrics"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/notify"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/snapshot"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/store"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/platform/config"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/platform/httpserver"
	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/platform/logger"
	platformredis "github.com/shotleybuilder/sertantai-enforcement-sub000/internal/platform/redis"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	var (
		reader        store.Reader
		snapshotStore snapshot.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return err
		}
		reader = store.NewPostgresReader(db)
		snapshotStore = snapshot.NewPostgresStore(db)
	} else {
		// No database configured: serve from empty in-memory stores so the
		// binary still comes up for local exploration.
		log.Warn("no database configured, using in-memory stores")
		reader = store.NewMemoryReader()
		snapshotStore = snapshot.NewMemoryStore()
	}

	var notifier notify.Notifier
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		notifier = notify.NewRedisNotifier(redisClient.Client, log)
		log.Info("using redis change notifier")
	} else {
		bus := notify.NewMemoryBus()
		defer bus.Close()
		notifier = bus
	}

	m := enfmetrics.New()
	engine := snapshot.NewEngine(reader, snapshotStore, notifier, log,
		snapshot.WithMetrics(m))
	classifier := compliance.New(compliance.WithUrgentThreshold(cfg.UrgentThresholdDays))

	h := handler.New(reader, engine, classifier, log, cfg.AdminToken,
		handler.WithPageSize(cfg.PageSize),
		handler.WithMetrics(m))

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := snapshot.NewScheduler(engine, cfg.RefreshInterval, log)
	go func() {
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("scheduler stopped", "error", err.Error())
		}
	}()

	go func() {
		log.Info("starting enforcement server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
