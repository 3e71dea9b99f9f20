package config

import (
	"strings"
	"testing"
	"time"

	"github.com/Skufu/heartguard/internal/artifact"
	"github.com/Skufu/heartguard/internal/profile"
)

var keys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "PROFILE_VARIANTS",
	"DEFAULT_VARIANT", "CATEGORY_STRATEGY", "ARTIFACT_SOURCE", "ARTIFACT_DIR",
	"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "ARTIFACT_URL",
	"ARTIFACT_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Variants) != 2 || cfg.DefaultVariant != profile.VariantCore {
		t.Fatalf("expected core+extended with core default, got %v / %s", cfg.Variants, cfg.DefaultVariant)
	}
	if cfg.CategoryStrategy != "auto" {
		t.Fatalf("expected auto strategy, got %s", cfg.CategoryStrategy)
	}
	if cfg.Artifacts.Source != artifact.SourceFile || cfg.Artifacts.Dir != "artifacts" {
		t.Fatalf("expected file store in ./artifacts, got %+v", cfg.Artifacts)
	}
	if cfg.Artifacts.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Artifacts.Timeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PROFILE_VARIANTS", "extended, core, extended")
	t.Setenv("DEFAULT_VARIANT", "Extended")
	t.Setenv("CATEGORY_STRATEGY", "Tiered")
	t.Setenv("ARTIFACT_SOURCE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ARTIFACT_TIMEOUT", "2s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.Variants) != 2 || cfg.Variants[0] != profile.VariantExtended {
		t.Fatalf("expected deduplicated variants in listed order, got %v", cfg.Variants)
	}
	if cfg.DefaultVariant != profile.VariantExtended {
		t.Fatalf("expected extended default, got %s", cfg.DefaultVariant)
	}
	if cfg.CategoryStrategy != "tiered" {
		t.Fatalf("expected tiered, got %s", cfg.CategoryStrategy)
	}
	if cfg.Artifacts.Source != artifact.SourceRedis || cfg.Artifacts.RedisDB != 3 {
		t.Fatalf("unexpected artifact settings: %+v", cfg.Artifacts)
	}
	if cfg.Artifacts.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %s", cfg.Artifacts.Timeout)
	}
}

func TestFromEnvDefaultVariantFollowsList(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROFILE_VARIANTS", "extended")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultVariant != profile.VariantExtended {
		t.Fatalf("expected extended default, got %s", cfg.DefaultVariant)
	}
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port not numeric", map[string]string{"PORT": "http"}, "PORT"},
		{"port out of range", map[string]string{"PORT": "70000"}, "PORT"},
		{"log level", map[string]string{"LOG_LEVEL": "chatty"}, "LOG_LEVEL"},
		{"log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"strategy", map[string]string{"CATEGORY_STRATEGY": "fuzzy"}, "CATEGORY_STRATEGY"},
		{"variant", map[string]string{"PROFILE_VARIANTS": "core,legacy"}, "PROFILE_VARIANTS"},
		{"default not served", map[string]string{"PROFILE_VARIANTS": "core", "DEFAULT_VARIANT": "extended"}, "DEFAULT_VARIANT"},
		{"source", map[string]string{"ARTIFACT_SOURCE": "s3"}, "artifact source"},
		{"postgres needs url", map[string]string{"ARTIFACT_SOURCE": "postgres"}, "DATABASE_URL"},
		{"http needs url", map[string]string{"ARTIFACT_SOURCE": "http"}, "ARTIFACT_URL"},
		{"redis db", map[string]string{"ARTIFACT_SOURCE": "redis", "REDIS_ADDR": "r:6379", "REDIS_DB": "-1"}, "REDIS_DB"},
		{"timeout", map[string]string{"ARTIFACT_TIMEOUT": "soon"}, "ARTIFACT_TIMEOUT"},
		{"timeout positive", map[string]string{"ARTIFACT_TIMEOUT": "0s"}, "ARTIFACT_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}
