package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	BaseURL      string
	TargetURL    string
	UserAgent    string
	HTTPTimeout  int // milliseconds
	RateLimitRPS int

	BindAddr     string
	SharedSecret string
	LogLevel     string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		BaseURL:      getEnv("DA_BASE_URL", "https://www.da.gov.ph"),
		TargetURL:    getEnv("DA_TARGET_URL", "https://www.da.gov.ph/price-monitoring/"),
		UserAgent:    getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		HTTPTimeout:  getEnvInt("SCRAPER_TIMEOUT_MS", 30000),
		RateLimitRPS: getEnvInt("SCRAPER_RATE_LIMIT_RPS", 2),

		BindAddr:     getEnv("BIND_ADDR", ":8080"),
		SharedSecret: getEnv("INTERNAL_SECRET", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
