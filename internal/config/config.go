package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	BlobDir       string
	BlobBaseURL   string
	DBPath        string
	DetectorURL   string
	DetectorKey   string
	PricerURL     string
	PricerKey     string
	MaxUploadSize int64
}

func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	port := getEnvAsInt("PORT", 8080)

	return &Config{
		Port:          port,
		BlobDir:       getEnv("BLOB_DIR", "./blobs"),
		BlobBaseURL:   getEnv("BLOB_BASE_URL", fmt.Sprintf("http://localhost:%d/blobs", port)),
		DBPath:        getEnv("DB_PATH", "./roomproof.db"),
		DetectorURL:   getEnv("DETECTOR_URL", ""),
		DetectorKey:   getEnv("DETECTOR_API_KEY", ""),
		PricerURL:     getEnv("PRICER_URL", ""),
		PricerKey:     getEnv("PRICER_API_KEY", ""),
		MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 20*1024*1024),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
