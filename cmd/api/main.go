package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"carmodel-inventory/internal/blobstore"
	"carmodel-inventory/internal/config"
	"carmodel-inventory/internal/handler"
	"carmodel-inventory/internal/middleware"
	"carmodel-inventory/internal/repository"
	"carmodel-inventory/internal/service"
	"carmodel-inventory/internal/ws"
	"carmodel-inventory/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.LoadStore()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// AutoMigrate; production deployments may prefer a separate migration step
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Setup Blob Store
	blobs, err := blobstore.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open blob store: %v", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	carModelRepo := repository.NewCarModelRepo(db)
	reportRepo := repository.NewReportRepo(db)

	carModelService := service.NewCarModelService(carModelRepo, blobs, cfg.AssetPath, wsHub)
	reportService := service.NewReportService(reportRepo)

	guard := middleware.RequireServiceToken([]byte(cfg.TokenSecret))
	if cfg.TokenSecret == "" {
		log.Println("Warning: SERVICE_TOKEN_SECRET not set, mutating routes are unprotected")
	}

	// 6. Setup Fiber + Routes
	app := handler.NewApp(handler.Routes{
		CarModels: handler.NewCarModelHandler(carModelService),
		Reports:   handler.NewReportHandler(reportService),
		Assets:    handler.NewAssetHandler(blobs),
		Hub:       wsHub,
		AssetPath: cfg.AssetPath,
		Guard:     guard,
	}, true)

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
