package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eldercare-reminders/internal/adapters/notify/lognotify"
	"eldercare-reminders/internal/adapters/notify/webhook"
	mem "eldercare-reminders/internal/adapters/storage/memory"
	pg "eldercare-reminders/internal/adapters/storage/postgres"
	rdb "eldercare-reminders/internal/adapters/storage/redis"
	"eldercare-reminders/internal/adapters/storage/sqlite"
	"eldercare-reminders/internal/domain/reminders"
	"eldercare-reminders/internal/platform/config"
	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/ports/kv"
	"eldercare-reminders/internal/ports/notify"
	"eldercare-reminders/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.App.LogLevel),
		Format: logger.ParseFormat(cfg.App.LogFormat),
		App:    cfg.App.Name,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:     log,
		Location:   cfg.App.Location,
		DoseWindow: cfg.Reminders.DoseWindow,
	}

	// Sin DB_DSN corre todo in-memory (modo dev)
	if cfg.DB.DSN != "" {
		if cfg.DB.Migrate {
			if err := pg.Migrate(cfg.DB.DSN); err != nil {
				return err
			}
		}
		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
		log.Info("using postgres repositories", nil)
	}

	store, closeStore, err := openKV(ctx, cfg.KV)
	if err != nil {
		return err
	}
	defer closeStore()
	opts.KV = store
	log.Info("kv store ready", map[string]any{"driver": cfg.KV.Driver})

	svcs := router.NewServices(opts)

	if cfg.Reminders.Enabled {
		out, err := newNotifier(cfg.Notify, log)
		if err != nil {
			return err
		}
		rem := reminders.NewService(reminders.Options{
			Medications:  svcs.Medications,
			Appointments: svcs.Appointments,
			Preferences:  svcs.Settings,
			Store:        svcs.KV,
			Notifier:     out,
			Logger:       log.With(map[string]any{"component": "reminders"}),
			Offset:       cfg.Reminders.AppointmentOffset,
			Location:     cfg.App.Location,
		})
		if err := rem.Start(ctx, cfg.Reminders.Cron); err != nil {
			return err
		}
		defer rem.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router.NewRouterWith(opts, svcs),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openKV(ctx context.Context, cfg config.KVConfig) (kv.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s), nil
	case "redis":
		s, err := rdb.Open(ctx, rdb.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   rdb.DefaultPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s), nil
	default:
		return mem.NewKVStore(), func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}

func newNotifier(cfg config.NotifyConfig, log logger.Logger) (notify.Notifier, error) {
	if cfg.WebhookURL == "" {
		return lognotify.New(log), nil
	}
	n, err := webhook.New(webhook.Options{
		URL:        cfg.WebhookURL,
		APIKey:     cfg.WebhookAPIKey,
		RatePerSec: float64(cfg.RatePerSec),
		Timeout:    5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}
