// Package universe provides the set of assets eligible for allocation
// at a point in simulated time.
package universe

import (
	"sort"
	"time"
)

// Static always reports the same member set.
type Static struct {
	symbols []string
}

func NewStatic(symbols ...string) Static {
	copied := make([]string, len(symbols))
	copy(copied, symbols)
	sort.Strings(copied)
	return Static{symbols: copied}
}

func (u Static) MembersAt(t time.Time) []string {
	out := make([]string, len(u.symbols))
	copy(out, u.symbols)
	return out
}

// Dynamic admits each asset once its membership window opens. Assets
// with no end date stay members forever; an end date closes the
// window.
type Dynamic struct {
	entries []membership
}

type membership struct {
	symbol string
	start  time.Time
	end    *time.Time
}

func NewDynamic(startDates map[string]time.Time) Dynamic {
	entries := []membership{}
	for symbol, start := range startDates {
		entries = append(entries, membership{symbol: symbol, start: start})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].symbol < entries[j].symbol
	})
	return Dynamic{entries: entries}
}

// WithEnd closes an asset's membership window. Unknown symbols are
// ignored.
func (u Dynamic) WithEnd(symbol string, end time.Time) Dynamic {
	entries := make([]membership, len(u.entries))
	copy(entries, u.entries)
	for i := range entries {
		if entries[i].symbol == symbol {
			e := end
			entries[i].end = &e
		}
	}
	return Dynamic{entries: entries}
}

func (u Dynamic) MembersAt(t time.Time) []string {
	out := []string{}
	for _, entry := range u.entries {
		if t.Before(entry.start) {
			continue
		}
		if entry.end != nil && !t.Before(*entry.end) {
			continue
		}
		out = append(out, entry.symbol)
	}
	return out
}
