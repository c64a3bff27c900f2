package config

import (
	"os"
	"strconv"
)

// Config centralizes the environment the service reads at startup.
type Config struct {
	AppEnv         string
	Port           string
	DBPath         string
	CacheDir       string
	MaxUploadBytes int64
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment with local-friendly
// defaults.
func Load() Config {
	maxUpload := int64(32 << 20) // 32 MiB
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxUpload = n
		}
	}

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "flightdeck.db"),
		CacheDir:       getEnv("CACHE_DIR", "cache"),
		MaxUploadBytes: maxUpload,
	}
}
