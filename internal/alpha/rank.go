package alpha

import (
	"math"
	"sort"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

type RankedAsset struct {
	Symbol string
	Rank   int
}

// RankedList is ordered best-first; rank 1 is best under the requested
// direction.
type RankedList []RankedAsset

func (l RankedList) ranks() map[string]int {
	out := make(map[string]int, len(l))
	for _, ranked := range l {
		out[ranked.Symbol] = ranked.Rank
	}
	return out
}

func (l RankedList) symbols() map[string]bool {
	out := make(map[string]bool, len(l))
	for _, ranked := range l {
		out[ranked.Symbol] = true
	}
	return out
}

// Rank sorts values in the requested direction and assigns ranks 1..K.
// order supplies the iteration order of the value map and breaks ties
// (stable sort, no secondary key). Non-finite values sort worst under
// either direction, stable among themselves - they are kept in the
// list rather than excluded so that every rank list over the same
// universe covers the same asset set.
func Rank(values map[string]float64, order []string, direction Direction) RankedList {
	symbols := make([]string, len(order))
	copy(symbols, order)

	sort.SliceStable(symbols, func(i, j int) bool {
		vi, vj := values[symbols[i]], values[symbols[j]]
		fi, fj := isFinite(vi), isFinite(vj)
		if fi != fj {
			return fi
		}
		if !fi {
			return false
		}
		if direction == Descending {
			return vi > vj
		}
		return vi < vj
	})

	out := make(RankedList, len(symbols))
	for i, symbol := range symbols {
		out[i] = RankedAsset{Symbol: symbol, Rank: i + 1}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
