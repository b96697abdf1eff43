package alpha

import (
	"time"

	"rotator/internal/domain"
)

// FixedWeights emits the same allocation at every event. Used for
// benchmark runs, e.g. 100% SPY with a buy-and-hold calendar.
type FixedWeights struct {
	weights domain.TargetWeights
}

func NewFixedWeights(weights domain.TargetWeights) FixedWeights {
	copied := domain.TargetWeights{}
	for symbol, weight := range weights {
		copied[symbol] = weight
	}
	return FixedWeights{weights: copied}
}

func (m FixedWeights) Weights(t time.Time) (domain.TargetWeights, error) {
	out := domain.TargetWeights{}
	for symbol, weight := range m.weights {
		out[symbol] = weight
	}
	return out, nil
}
