package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultUserAgent identifies the crawler as Googlebot.
const DefaultUserAgent = "Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko; compatible;" +
	" Googlebot/2.1; +http://www.google.com/bot.html)" +
	" Chrome/80.1.2.4 Safari/537.36"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string `validate:"required_if=PostgresEnabled true"`
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string `validate:"required_if=PostgresEnabled true"`
	PostgresSSLMode  string

	MaxConcurrency int `validate:"min=1,max=64"`
	RateLimitMs    int `validate:"min=0"`
	MaxRetries     int `validate:"min=1"`
	PagesToScrape  int `validate:"min=0"`

	JSONOutputPath string `validate:"required"`
	CSVOutputPath  string
	ChromeBin      string
	UserAgent      string

	TransitLines []string `validate:"min=1,dive,required"`
	StationsFile string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "daft"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		PagesToScrape:  getEnvInt("PAGES_TO_SCRAPE", 0),

		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "/tmp/data.json"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		UserAgent:      getEnv("USER_AGENT", DefaultUserAgent),

		TransitLines: getEnvList("TRANSIT_LINES", []string{"GREEN_LUAS"}),
		StationsFile: getEnv("STATIONS_FILE", ""),
	}
}

// Validate checks value ranges and required settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] %s=%q is not an integer, using %d", key, val, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
		log.Printf("[config] %s=%q is not a boolean, using %t", key, val, fallback)
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
