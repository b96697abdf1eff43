package alpha

import (
	"fmt"
	"time"

	"rotator/internal/domain"
)

// SignalProvider is the read-only surface the engine consumes. Warmup
// reports how many full observation periods the signal has accumulated
// and is monotonically non-decreasing as simulated time advances.
type SignalProvider interface {
	Value(symbol string, lookback int) (float64, error)
	Warmup() int
}

// Universe reports the set of eligible assets at a point in time,
// sorted and stable across calls.
type Universe interface {
	MembersAt(t time.Time) []string
}

// Model converts a timestamp into target weights. Implementations are
// pure with respect to their own state - consecutive calls share no
// memory.
type Model interface {
	Weights(t time.Time) (domain.TargetWeights, error)
}

type EngineConfig struct {
	// number of assets to allocate to
	TopN int
	// lookbacks in observation periods for the long-horizon "heat"
	// and short-horizon "chill" signals
	HeatLookback  int
	ChillLookback int
	// blend weight given to heat; chill gets the remainder. Zero
	// means the default equal split.
	HeatWeight float64
}

// Engine ranks a long-horizon gain signal descending and a short-term
// gain signal ascending, blends the two rank lists, and allocates
// 1/topN of capital to each of the best topN assets. It favors assets
// that are high-momentum over the long horizon and not overbought over
// the short one.
type Engine struct {
	heat     SignalProvider
	chill    SignalProvider
	universe Universe
	cfg      EngineConfig
}

func NewEngine(heat, chill SignalProvider, universe Universe, cfg EngineConfig) (*Engine, error) {
	if cfg.TopN < 1 {
		return nil, domain.NewConfigurationError("top N must be >= 1, got %d", cfg.TopN)
	}
	if cfg.HeatLookback < 1 || cfg.ChillLookback < 1 {
		return nil, domain.NewConfigurationError(
			"signal lookbacks must be >= 1, got heat=%d chill=%d",
			cfg.HeatLookback, cfg.ChillLookback,
		)
	}
	if cfg.HeatWeight < 0 || cfg.HeatWeight > 1 {
		return nil, domain.NewConfigurationError("heat weight must be within [0, 1], got %f", cfg.HeatWeight)
	}
	if cfg.HeatWeight == 0 {
		cfg.HeatWeight = 0.5
	}
	return &Engine{
		heat:     heat,
		chill:    chill,
		universe: universe,
		cfg:      cfg,
	}, nil
}

// Weights produces the target weight vector for one rebalance event.
// Every universe member appears in the result; unselected assets map
// to 0. Before enough signal history has accumulated the engine is
// inert and the whole vector is zero. The gate is recomputed fresh on
// every call - there is no sticky activation state.
func (e *Engine) Weights(t time.Time) (domain.TargetWeights, error) {
	members := e.universe.MembersAt(t)
	weights := domain.TargetWeights{}
	for _, symbol := range members {
		weights[symbol] = 0.0
	}
	if len(members) == 0 {
		return weights, nil
	}

	required := e.cfg.HeatLookback
	if e.cfg.ChillLookback > required {
		required = e.cfg.ChillLookback
	}
	warmup := e.heat.Warmup()
	if e.chill.Warmup() < warmup {
		warmup = e.chill.Warmup()
	}
	if warmup < required {
		return weights, nil
	}

	heatValues := map[string]float64{}
	chillValues := map[string]float64{}
	for _, symbol := range members {
		heat, err := e.heat.Value(symbol, e.cfg.HeatLookback)
		if err != nil {
			return nil, fmt.Errorf("failed to compute heat signal for %s: %w", symbol, err)
		}
		chill, err := e.chill.Value(symbol, e.cfg.ChillLookback)
		if err != nil {
			return nil, fmt.Errorf("failed to compute chill signal for %s: %w", symbol, err)
		}
		heatValues[symbol] = heat
		chillValues[symbol] = chill
	}

	// high long-horizon gain preferred, low short-horizon gain
	// preferred
	heatRanks := Rank(heatValues, members, Descending)
	chillRanks := Rank(chillValues, members, Ascending)

	composite, err := Blend(members, []WeightedRankList{
		{List: heatRanks, Weight: e.cfg.HeatWeight},
		{List: chillRanks, Weight: 1 - e.cfg.HeatWeight},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to blend rank lists: %w", err)
	}

	selected := composite
	if len(selected) > e.cfg.TopN {
		selected = selected[:e.cfg.TopN]
	}

	// each selected asset gets exactly 1/topN, not 1/len(selected);
	// with fewer than topN assets available the remainder stays
	// uninvested.
	for _, scored := range selected {
		weights[scored.Symbol] = 1.0 / float64(e.cfg.TopN)
	}

	return weights, nil
}
