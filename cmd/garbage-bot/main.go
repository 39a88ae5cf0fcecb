/*
Package main is the entry point for the Telegram garbage collection bot.

It is responsible for loading configuration, initializing the global logging
system, selecting the user store backend, wiring the location resolver, event
service, and reminder scheduler onto the Telegram transport, starting the
operational HTTP server, and gracefully handling operating system interrupt
signals (SIGINT, SIGTERM) for a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miscOS/telegram-garbage-bot/internal/app/reminder"
	"github.com/miscOS/telegram-garbage-bot/internal/app/store"
	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
	"github.com/miscOS/telegram-garbage-bot/internal/bot"
	"github.com/miscOS/telegram-garbage-bot/internal/configs"
	"github.com/miscOS/telegram-garbage-bot/internal/handler"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/metrics"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"cron_step_minutes", cfg.CronStepMinutes,
	)

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logx.Fatal(err, "Failed to load configured timezone")
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Select the user store backend
	var userStore store.UserStore
	if cfg.DatabaseDSN != "" {
		pg, err := store.NewPostgres(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to initialize Postgres user store")
		}
		defer pg.Close()
		userStore = pg
		logx.Info("Using Postgres user store")
	} else {
		fs, err := store.NewFileStore(cfg.UsersFile)
		if err != nil {
			logx.Fatal(err, "Failed to initialize file user store")
		}
		userStore = fs
		logx.Info("Using file user store", "path", cfg.UsersFile)
	}

	// Wire the domain services
	provider, err := waste.NewRegioITClient("")
	if err != nil {
		logx.Fatal(err, "Failed to initialize waste data provider")
	}
	resolver := waste.NewResolver(provider)
	events := waste.NewEvents(provider, resolver, userStore, zone)
	reminders := reminder.NewService(cfg.CronStepMinutes, zone)

	// Wire the Telegram transport
	svc := bot.NewService(userStore, resolver, events, reminders, cfg.Timezone)
	telegram, err := bot.NewTelegram(cfg.BotToken, svc)
	if err != nil {
		logx.Fatal(err, "Failed to initialize Telegram transport")
	}

	scheduler := reminder.NewScheduler(userStore, events, telegram, cfg.CronStepMinutes, zone)

	// Operational HTTP server (/health, /metrics)
	opsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Operational endpoints available on http://localhost%s", opsServer.Addr))
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Operational server failed to start")
		}
	}()

	go scheduler.Run(ctx)
	go telegram.Run(ctx)

	// Wait for interrupt signal to gracefully shut down with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Operational server forced to shutdown")
	}

	logx.Info("Bot gracefully stopped.")
}
