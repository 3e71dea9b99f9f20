// Package artifact fetches fitted model artifacts from a backing store and
// turns them into ready gateways.
package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skufu/heartguard/internal/model"
	"github.com/Skufu/heartguard/internal/profile"
)

// ErrArtifactNotFound is returned when a store has no artifact for a variant.
var ErrArtifactNotFound = errors.New("artifact not found")

// Store returns the raw artifact document for a variant.
type Store interface {
	Fetch(ctx context.Context, variant profile.Variant) ([]byte, error)
}

// HealthChecker is implemented by stores backed by a remote service.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Load fetches and validates the artifacts of every variant. Any failure is
// returned; callers treat it as fatal.
func Load(ctx context.Context, store Store, variants []profile.Variant) ([]*model.Gateway, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("no profile variants requested")
	}
	out := make([]*model.Gateway, 0, len(variants))
	for _, v := range variants {
		g, err := loadOne(ctx, store, v)
		if err != nil {
			return nil, fmt.Errorf("load %s artifact: %w", v, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func loadOne(ctx context.Context, store Store, v profile.Variant) (*model.Gateway, error) {
	data, err := store.Fetch(ctx, v)
	if err != nil {
		return nil, err
	}
	b, err := model.ParseBundle(data)
	if err != nil {
		return nil, err
	}
	if b.Variant != v {
		return nil, fmt.Errorf("document declares variant %q", b.Variant)
	}
	return model.NewGateway(b)
}
