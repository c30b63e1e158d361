package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triply/internal/app"
	"triply/internal/config"
	"triply/internal/logging"
	"triply/internal/telegram"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	deps := telegram.Deps{
		Gateway:   application.Gateway(),
		Trips:     application.Trips(),
		Usage:     application.Metrics(),
		Covers:    application.Covers(),
		Publisher: application.Publisher(),
		Logger:    logger,
	}

	bot, err := telegram.NewBot(cfg, deps)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("telegram bot server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	if cfg.TelegramWebhookURL == "" {
		logger.Info("no webhook configured, polling for updates")
		if err := bot.Poll(ctx); err != nil {
			logger.Error("polling stopped", zap.Error(err))
		}
	} else {
		<-ctx.Done()
	}
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	bot.Wait()

	logger.Info("server exiting")
}
