package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ovasilenko/roomproof/internal/api"
	"github.com/ovasilenko/roomproof/internal/config"
	"github.com/ovasilenko/roomproof/internal/detect"
	"github.com/ovasilenko/roomproof/internal/inventory"
	"github.com/ovasilenko/roomproof/internal/pricing"
	"github.com/ovasilenko/roomproof/internal/scan"
	"github.com/ovasilenko/roomproof/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if cfg.DetectorURL == "" {
		logger.Fatal("DETECTOR_URL is required")
	}
	if cfg.PricerURL == "" {
		logger.Printf("PRICER_URL not set; items will be offered without price estimates")
	}

	blobs, err := storage.NewLocalStorage(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage:", err)
	}

	db, err := inventory.NewDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	rooms := inventory.NewSQLiteStore(db)
	detector := detect.NewHTTPDetector(cfg.DetectorURL, cfg.DetectorKey, blobs)
	pricer := pricing.NewHTTPPricer(cfg.PricerURL, cfg.PricerKey)

	scanService := scan.NewService(detector, pricer, blobs, rooms, logger)

	app := api.NewApp(scanService, rooms, blobs, logger, cfg.MaxUploadSize)
	router := api.NewRouter(app)

	logger.Printf("Server starting on port %d", cfg.Port)
	logger.Printf("Blob directory: %s", cfg.BlobDir)
	logger.Printf("Database path: %s", cfg.DBPath)
	logger.Printf("Detector endpoint: %s", cfg.DetectorURL)

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), router); err != nil {
		logger.Fatal(err)
	}
}
