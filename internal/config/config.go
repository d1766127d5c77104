package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application level configuration.
// Sources are layered: defaults, CONFIG_FILE (YAML), ENV_FILE (.env), environment, flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	AuthSecret         string
	AuthStrategy       string
	AuthTokenTTL       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           string
	CORSAllowedOrigins []string
	KafkaBrokers       []string
	KafkaOrderTopic    string
	UploadTmpDir       string
	UploadTmpTTL       time.Duration
	CleanupInterval    time.Duration
	CleanupWorkers     int
	AdminLogin         string
	AdminPassword      string
}

const (
	defaultRunAddress      = ":8080"
	defaultAuthSecret      = "change-me-in-production"
	defaultAuthStrategy    = "hmac"
	defaultAuthTokenTTL    = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultKafkaOrderTopic = "order-status-updated"
	defaultUploadTmpTTL    = 24 * time.Hour
	defaultCleanupInterval = time.Hour
	defaultCleanupWorkers  = 2
	defaultEnvFile         = ".env"
)

// Load parses configuration from files, environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, env envLookup) (*Config, error) {
	lookup, err := layered(env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		AuthSecret:         getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AuthStrategy:       getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		AuthTokenTTL:       getDuration(lookup, "AUTH_TOKEN_TTL", defaultAuthTokenTTL),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
		CORSAllowedOrigins: getList(lookup, "CORS_ALLOWED_ORIGINS"),
		KafkaBrokers:       getList(lookup, "KAFKA_BROKERS"),
		KafkaOrderTopic:    getString(lookup, "KAFKA_ORDER_TOPIC", defaultKafkaOrderTopic),
		UploadTmpDir:       getString(lookup, "UPLOAD_TMP_DIR", ""),
		UploadTmpTTL:       getDuration(lookup, "UPLOAD_TMP_TTL", defaultUploadTmpTTL),
		CleanupInterval:    getDuration(lookup, "CLEANUP_INTERVAL", defaultCleanupInterval),
		CleanupWorkers:     getInt(lookup, "CLEANUP_WORKERS", defaultCleanupWorkers),
		AdminLogin:         getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:      getString(lookup, "ADMIN_PASSWORD", ""),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.AuthTokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		cleanupIntervalStr = cfg.CleanupInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Token format: hmac or jwt")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cleanupIntervalStr, "cleanup-interval", cleanupIntervalStr, "Interval between upload cleanup runs")
	fs.IntVar(&cfg.CleanupWorkers, "cleanup-workers", cfg.CleanupWorkers, "Number of concurrent cleanup workers")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.AuthTokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.CleanupInterval, err = time.ParseDuration(cleanupIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid cleanup interval: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.AuthTokenTTL <= 0 {
		cfg.AuthTokenTTL = defaultAuthTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.UploadTmpTTL <= 0 {
		cfg.UploadTmpTTL = defaultUploadTmpTTL
	}

	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	if cfg.CleanupWorkers <= 0 {
		cfg.CleanupWorkers = defaultCleanupWorkers
	}

	cfg.AuthStrategy = strings.ToLower(cfg.AuthStrategy)
	if cfg.AuthStrategy != "hmac" && cfg.AuthStrategy != "jwt" {
		return nil, fmt.Errorf("unsupported auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// layered merges the environment with optional .env and YAML files, environment first.
func layered(env envLookup) (envLookup, error) {
	fileValues, err := readYAML(env)
	if err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(env)
	if err != nil {
		return nil, err
	}
	for k, v := range dotenv {
		fileValues[k] = v
	}

	return func(key string) (string, bool) {
		if v, ok := env(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}, nil
}

func readYAML(env envLookup) (map[string]string, error) {
	values := make(map[string]string)
	path, ok := env("CONFIG_FILE")
	if !ok || path == "" {
		return values, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	for k, v := range raw {
		switch typed := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(typed))
			for _, item := range typed {
				parts = append(parts, fmt.Sprint(item))
			}
			values[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			values[strings.ToUpper(k)] = fmt.Sprint(typed)
		}
	}
	return values, nil
}

func readDotenv(env envLookup) (map[string]string, error) {
	path, explicit := env("ENV_FILE")
	if !explicit || path == "" {
		path = defaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(lookup envLookup, key string) []string {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	var result []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
