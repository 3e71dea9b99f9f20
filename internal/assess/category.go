package assess

import (
	"fmt"
	"strings"

	"github.com/Skufu/heartguard/internal/model"
	"github.com/Skufu/heartguard/internal/profile"
)

// Category is the coarse risk bucket.
type Category string

const (
	CategoryLow      Category = "Low"
	CategoryModerate Category = "Moderate"
	CategoryHigh     Category = "High"
)

// CategoryStrategy buckets a prediction.
type CategoryStrategy interface {
	Name() profile.Strategy
	Categorize(pred model.Prediction) Category
}

// Tiered uses score thresholds: above 70 is High, above 30 Moderate.
type Tiered struct{}

func (Tiered) Name() profile.Strategy { return profile.StrategyTiered }

func (Tiered) Categorize(pred model.Prediction) Category {
	switch {
	case pred.Score > 70:
		return CategoryHigh
	case pred.Score > 30:
		return CategoryModerate
	default:
		return CategoryLow
	}
}

// Binary maps the predicted label straight to High or Low.
type Binary struct{}

func (Binary) Name() profile.Strategy { return profile.StrategyBinary }

func (Binary) Categorize(pred model.Prediction) Category {
	if pred.Positive {
		return CategoryHigh
	}
	return CategoryLow
}

// StrategyFor resolves a configured strategy name. "auto" and "" pick the
// schema's default.
func StrategyFor(name string, s *profile.Schema) (CategoryStrategy, error) {
	switch profile.Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", "auto":
		if s.DefaultStrategy == profile.StrategyBinary {
			return Binary{}, nil
		}
		return Tiered{}, nil
	case profile.StrategyTiered:
		return Tiered{}, nil
	case profile.StrategyBinary:
		return Binary{}, nil
	default:
		return nil, fmt.Errorf("unknown category strategy %q", name)
	}
}
