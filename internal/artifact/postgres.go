package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/heartguard/internal/profile"
)

const selectArtifact = `SELECT payload FROM model_artifacts WHERE variant = $1`

// RowQuerier is the subset of *pgxpool.Pool used by PostgresStore.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore reads artifacts from the model_artifacts table.
type PostgresStore struct {
	db RowQuerier
}

func NewPostgresStore(db RowQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Fetch(ctx context.Context, variant profile.Variant) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, selectArtifact, string(variant)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no %s row in model_artifacts", ErrArtifactNotFound, variant)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s artifact: %w", variant, err)
	}
	return payload, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// ConnectPostgres opens a pool and checks it answers within five seconds.
func ConnectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
