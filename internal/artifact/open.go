package artifact

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Source names a store backend.
type Source string

const (
	SourceFile     Source = "file"
	SourcePostgres Source = "postgres"
	SourceRedis    Source = "redis"
	SourceHTTP     Source = "http"
)

// ParseSource normalises a backend name.
func ParseSource(name string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SourceFile, SourcePostgres, SourceRedis, SourceHTTP:
		return s, nil
	case "":
		return SourceFile, nil
	}
	return "", fmt.Errorf("unknown artifact source %q (want file, postgres, redis or http)", name)
}

// Settings select and configure a backend.
type Settings struct {
	Source        Source
	Dir           string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	URL           string
	Timeout       time.Duration
}

// Validate checks that the selected backend has what it needs.
func (s Settings) Validate() error {
	switch s.Source {
	case SourceFile:
		if s.Dir == "" {
			return fmt.Errorf("ARTIFACT_DIR is required when ARTIFACT_SOURCE=file")
		}
	case SourcePostgres:
		if s.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when ARTIFACT_SOURCE=postgres")
		}
	case SourceRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when ARTIFACT_SOURCE=redis")
		}
	case SourceHTTP:
		if s.URL == "" {
			return fmt.Errorf("ARTIFACT_URL is required when ARTIFACT_SOURCE=http")
		}
	default:
		return fmt.Errorf("unknown artifact source %q", s.Source)
	}
	return nil
}

// Open connects the configured backend. The returned close func releases
// any connection and is never nil.
func Open(ctx context.Context, s Settings) (Store, func(), error) {
	if err := s.Validate(); err != nil {
		return nil, func() {}, err
	}
	switch s.Source {
	case SourcePostgres:
		pool, err := ConnectPostgres(ctx, s.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		return NewPostgresStore(pool), pool.Close, nil
	case SourceRedis:
		client := NewRedisClient(s.RedisAddr, s.RedisPassword, s.RedisDB)
		closer := func() { _ = client.Close() }
		store := NewRedisStore(NewRedisKV(client))
		if err := store.Ping(ctx); err != nil {
			closer()
			return nil, func() {}, fmt.Errorf("ping redis: %w", err)
		}
		return store, closer, nil
	case SourceHTTP:
		return NewHTTPStore(s.URL, s.Timeout), func() {}, nil
	default:
		return NewFileStore(s.Dir), func() {}, nil
	}
}
