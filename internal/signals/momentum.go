package signals

import "fmt"

// Momentum measures the holding-period return over a lookback of
// observation periods: price now against price lookback bars ago.
type Momentum struct {
	*history
}

// NewMomentum sizes the rolling buffers for the largest lookback the
// caller intends to query.
func NewMomentum(maxLookback int) *Momentum {
	return &Momentum{history: newHistory(maxLookback + 1)}
}

func (m *Momentum) Value(symbol string, lookback int) (float64, error) {
	base, err := m.at(symbol, lookback)
	if err != nil {
		return 0, err
	}
	latest, err := m.at(symbol, 0)
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, fmt.Errorf("cannot compute momentum for %s: zero base price", symbol)
	}
	return latest/base - 1, nil
}
