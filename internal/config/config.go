package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	dotEnvFile = ".env.dev"
)

type Config struct {
	GinMode   string `yaml:"ginMode"`
	TZ        string `yaml:"tz"`
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"logLevel"`
	DBDriver  string `yaml:"dbDriver"`
	DBHost    string `yaml:"dbHost"`
	DBPort    string `yaml:"dbPort"`
	DBUser    string `yaml:"dbUser"`
	DBPass    string `yaml:"dbPass"`
	DBName    string `yaml:"dbName"`
	DBSSLMode string `yaml:"dbSSLMode"`

	SQLitePath string `yaml:"sqlitePath"`

	RateLimitRPS   float64 `yaml:"rateLimitRPS"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	OTLPEndpoint string `yaml:"otlpEndpoint"`
	ServiceName  string `yaml:"serviceName"`
}

func defaults() Config {
	return Config{
		GinMode:        "debug",
		TZ:             "UTC",
		Port:           "8080",
		LogLevel:       "info",
		DBDriver:       DriverPostgres,
		DBHost:         "localhost",
		DBPort:         "5432",
		DBUser:         "postgres",
		DBName:         "postgres",
		SQLitePath:     "catalog.db",
		RateLimitBurst: 20,
		ServiceName:    "catalog-api",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables. In debug mode a .env.dev found
// in the working directory or any parent is loaded first.
func Load() (*Config, error) {
	if getenv("GIN_MODE", "debug") == "debug" {
		loadDotEnv()
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.GinMode = getenv("GIN_MODE", cfg.GinMode)
	cfg.TZ = getenv("TZ", cfg.TZ)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBDriver = getenv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getenv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getenv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getenv("DB_USER", cfg.DBUser)
	cfg.DBPass = getenv("DB_PASS", cfg.DBPass)
	cfg.DBName = getenv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getenv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.SQLitePath = getenv("SQLITE_PATH", cfg.SQLitePath)
	cfg.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.ServiceName = getenv("OTEL_SERVICE_NAME", cfg.ServiceName)

	var err error
	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getenvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}

	if cfg.DBSSLMode == "" {
		if cfg.GinMode == "release" {
			cfg.DBSSLMode = "require"
		} else {
			cfg.DBSSLMode = "disable"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost,
		c.DBUser,
		c.DBPass,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
		c.TZ,
	)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// findDotEnv walks up from dir looking for .env.dev.
func findDotEnv(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, dotEnvFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	path, ok := findDotEnv(wd)
	if !ok {
		slog.Debug("no env file found", "file", dotEnvFile)
		return
	}

	if err := godotenv.Load(path); err != nil {
		slog.Warn("could not load env file", "path", path, "error", err)
		return
	}
	slog.Info("loaded env file", "path", path)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}
