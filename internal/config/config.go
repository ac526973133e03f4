// Package config reads service settings from flags, falling back to
// environment variables and then to built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the service reads.
const EnvPrefix = "ARTICLES_"

type Config struct {
	Addr            string
	DiagAddr        string
	Routes          bool
	MigrateOnly     bool
	LogLevel        string
	LogDevelopment  bool
	ShutdownTimeout time.Duration
	Database        Database
}

// Database holds the PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string //nolint:gosec // connection config
	Name     string
	SSLMode  string
}

// DSN renders the settings as a lib/pq keyword/value connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load parses args (without the program name). A .env file in the working
// directory, when present, seeds the environment first; variables already
// set win over the file.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	fset := flag.NewFlagSet("articles", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", getEnv("ADDR", ":3333"), "application address")
	fset.StringVar(&cfg.DiagAddr, "diag_addr", getEnv("DIAG_ADDR", ":9999"), "diagnostics address")
	fset.BoolVar(&cfg.Routes, "routes", getEnvBool("ROUTES", false), "generate router documentation and exit")
	fset.BoolVar(&cfg.MigrateOnly, "migrate-only", getEnvBool("MIGRATE_ONLY", false), "apply migrations and exit")
	fset.StringVar(&cfg.LogLevel, "log_level", getEnv("LOG_LEVEL", "info"), "log level")
	fset.BoolVar(&cfg.LogDevelopment, "log_development", getEnvBool("LOG_DEVELOPMENT", false), "human readable logs")
	fset.DurationVar(&cfg.ShutdownTimeout, "shutdown_timeout", getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "graceful shutdown timeout")
	fset.StringVar(&cfg.Database.Host, "db_host", getEnv("DB_HOST", "localhost"), "database host")
	fset.StringVar(&cfg.Database.Port, "db_port", getEnv("DB_PORT", "5432"), "database port")
	fset.StringVar(&cfg.Database.User, "db_user", getEnv("DB_USER", "postgres"), "database user")
	fset.StringVar(&cfg.Database.Password, "db_password", getEnv("DB_PASSWORD", "postgres"), "database password")
	fset.StringVar(&cfg.Database.Name, "db_name", getEnv("DB_NAME", "articles"), "database name")
	fset.StringVar(&cfg.Database.SSLMode, "db_sslmode", getEnv("DB_SSLMODE", "disable"), "database sslmode")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DiagAddr == "" {
		return errors.New("diag_addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("db_host and db_name are required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}

	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}

	return d
}
