package alpha

import (
	"sort"

	"rotator/internal/domain"
)

type WeightedRankList struct {
	List   RankedList
	Weight float64
}

type ScoredAsset struct {
	Symbol string
	Score  float64
}

// CompositeScore is sorted ascending - the smallest blended rank is
// the most preferred asset.
type CompositeScore []ScoredAsset

// Blend computes, per asset, the weighted sum of ranks across all
// supplied lists. symbols fixes the shared asset set and its original
// iteration order, which ties fall back to. Every list must cover
// exactly that asset set.
func Blend(symbols []string, lists []WeightedRankList) (CompositeScore, error) {
	for _, weighted := range lists {
		if len(weighted.List) != len(symbols) {
			return nil, domain.NewConfigurationError(
				"cannot blend rank lists over mismatched asset sets: expected %d assets, got %d",
				len(symbols), len(weighted.List),
			)
		}
		covered := weighted.List.symbols()
		for _, symbol := range symbols {
			if !covered[symbol] {
				return nil, domain.NewConfigurationError(
					"cannot blend rank lists over mismatched asset sets: missing %s", symbol,
				)
			}
		}
	}

	out := make(CompositeScore, len(symbols))
	for i, symbol := range symbols {
		out[i] = ScoredAsset{Symbol: symbol}
	}
	for _, weighted := range lists {
		ranks := weighted.List.ranks()
		for i := range out {
			out[i].Score += weighted.Weight * float64(ranks[out[i].Symbol])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})

	return out, nil
}
