package domain

import "sort"

// TargetWeights maps every asset in the current universe to the
// fraction of capital it should hold. Unselected assets are present
// with weight 0. The sum may be below 1 - the residual is implicitly
// held as cash.
type TargetWeights map[string]float64

func (w TargetWeights) Sum() float64 {
	sum := 0.0
	for _, weight := range w {
		sum += weight
	}
	return sum
}

// NonZero returns only the invested assets.
func (w TargetWeights) NonZero() TargetWeights {
	out := TargetWeights{}
	for symbol, weight := range w {
		if weight != 0 {
			out[symbol] = weight
		}
	}
	return out
}

func (w TargetWeights) Symbols() []string {
	symbols := []string{}
	for symbol := range w {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
