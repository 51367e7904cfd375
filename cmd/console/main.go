package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carmodel-inventory/internal/config"
	"carmodel-inventory/internal/console"
	"carmodel-inventory/internal/export"
	"carmodel-inventory/internal/metrics"
	"carmodel-inventory/internal/storeclient"
	"carmodel-inventory/pkg/jwt"

	"github.com/joho/godotenv"
)

const tokenTTL = 5 * time.Minute

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.LoadConsole()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// 2. Store client, signing a fresh service token per request when a secret is set
	var tokens storeclient.TokenProvider
	if cfg.TokenSecret != "" {
		secret := []byte(cfg.TokenSecret)
		tokens = func(ctx context.Context) (string, error) {
			return jwt.GenerateToken(secret, "console", tokenTTL)
		}
	}
	store := storeclient.New(cfg.StoreURL, cfg.StoreTimeout, tokens, logger)

	// 3. Wiring
	m := metrics.New()
	exporter := export.New(export.Options{
		CurrencyPrefix: cfg.CurrencyPrefix,
		Locale:         cfg.Locale,
		Compress:       true,
	})
	h := console.NewHandler(store, exporter, m, cfg.Locale, logger)
	app := console.NewApp(h, m, true)

	// 4. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()
	logger.Info("console started", slog.String("port", cfg.Port), slog.String("store", cfg.StoreURL))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down console...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Console forced to shutdown:", err)
	}
	log.Println("Console exited")
}
