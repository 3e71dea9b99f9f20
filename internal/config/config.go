// Package config reads process configuration from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skufu/heartguard/internal/artifact"
	"github.com/Skufu/heartguard/internal/logging"
	"github.com/Skufu/heartguard/internal/profile"
)

const (
	defaultPort            = "8080"
	defaultGinMode         = "release"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultVariants        = "core,extended"
	defaultArtifactDir     = "artifacts"
	defaultArtifactTimeout = 10 * time.Second
)

// Config is the resolved process configuration.
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Variants         []profile.Variant
	DefaultVariant   profile.Variant
	CategoryStrategy string

	Artifacts artifact.Settings
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", defaultPort),
		GinMode:          getEnv("GIN_MODE", defaultGinMode),
		LogLevel:         getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:        getEnv("LOG_FORMAT", defaultLogFormat),
		CategoryStrategy: strings.ToLower(getEnv("CATEGORY_STRATEGY", "auto")),
		Artifacts: artifact.Settings{
			Dir:           getEnv("ARTIFACT_DIR", defaultArtifactDir),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			URL:           os.Getenv("ARTIFACT_URL"),
			Timeout:       defaultArtifactTimeout,
		},
	}

	if _, err := parsePort(cfg.Port); err != nil {
		return nil, err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if f := strings.ToLower(cfg.LogFormat); f != "json" && f != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or console)", cfg.LogFormat)
	}

	switch cfg.CategoryStrategy {
	case "auto", string(profile.StrategyTiered), string(profile.StrategyBinary):
	default:
		return nil, fmt.Errorf("invalid CATEGORY_STRATEGY %q (want auto, tiered or binary)", cfg.CategoryStrategy)
	}

	variants, err := parseVariants(getEnv("PROFILE_VARIANTS", defaultVariants))
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_VARIANTS: %w", err)
	}
	cfg.Variants = variants

	def, err := profile.ParseVariant(getEnv("DEFAULT_VARIANT", string(variants[0])))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_VARIANT: %w", err)
	}
	if !slices.Contains(variants, def) {
		return nil, fmt.Errorf("DEFAULT_VARIANT %q is not listed in PROFILE_VARIANTS", def)
	}
	cfg.DefaultVariant = def

	source, err := artifact.ParseSource(os.Getenv("ARTIFACT_SOURCE"))
	if err != nil {
		return nil, err
	}
	cfg.Artifacts.Source = source

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.Artifacts.RedisDB = db
	}

	if v := os.Getenv("ARTIFACT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ARTIFACT_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("ARTIFACT_TIMEOUT must be positive")
		}
		cfg.Artifacts.Timeout = d
	}

	if err := cfg.Artifacts.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parsePort(v string) (int, error) {
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT %q: %w", v, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("PORT out of range: %d", port)
	}
	return port, nil
}

func parseVariants(csv string) ([]profile.Variant, error) {
	var out []profile.Variant
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := profile.ParseVariant(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variants listed")
	}
	return out, nil
}
