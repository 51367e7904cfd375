// Package config reads process settings from the environment. Callers load
// .env with godotenv before calling Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// Blob storage drivers.
const (
	BlobDriverFS    = "fs"
	BlobDriverMinio = "minio"
)

// Store is the reference record store configuration.
type Store struct {
	Port        string
	DatabaseURL string
	TokenSecret string

	BlobDriver string
	BlobDir    string
	AssetPath  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Console is the inventory console configuration.
type Console struct {
	Port           string
	StoreURL       string
	StoreTimeout   time.Duration
	TokenSecret    string
	CurrencyPrefix string
	Locale         language.Tag
}

// LoadStore reads the store settings.
func LoadStore() (*Store, error) {
	cfg := &Store{
		Port:           getEnv("PORT", "4000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TokenSecret:    os.Getenv("SERVICE_TOKEN_SECRET"),
		BlobDriver:     getEnv("BLOB_DRIVER", BlobDriverFS),
		BlobDir:        getEnv("BLOB_DIR", "./uploads"),
		AssetPath:      getEnv("ASSET_PATH", "/uploads"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "car-models"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "carmodels"),
			getEnv("DB_PORT", "5432"),
		)
	}

	var err error
	if cfg.MinioUseSSL, err = getBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	switch cfg.BlobDriver {
	case BlobDriverFS:
	case BlobDriverMinio:
		if cfg.MinioEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when BLOB_DRIVER=%s", BlobDriverMinio)
		}
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER %q", cfg.BlobDriver)
	}
	return cfg, nil
}

// LoadConsole reads the console settings.
func LoadConsole() (*Console, error) {
	cfg := &Console{
		Port:           getEnv("CONSOLE_PORT", "3000"),
		StoreURL:       getEnv("STORE_URL", "http://localhost:4000"),
		TokenSecret:    os.Getenv("SERVICE_TOKEN_SECRET"),
		CurrencyPrefix: getEnv("EXPORT_CURRENCY_PREFIX", "Rs. "),
	}

	var err error
	if cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	locale := getEnv("EXPORT_LOCALE", "en-US")
	if cfg.Locale, err = language.Parse(locale); err != nil {
		return nil, fmt.Errorf("EXPORT_LOCALE %q: %w", locale, err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
