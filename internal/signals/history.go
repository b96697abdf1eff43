// Package signals computes per-asset scalar performance measures from
// rolling price history fed in bar by bar.
package signals

import (
	"fmt"
	"sort"
)

// history is a bounded per-asset price buffer. Buffers are created
// lazily the first time an asset shows up in an observation, so assets
// that join the universe late simply have shorter buffers.
type history struct {
	buffers  map[string][]float64
	capacity int
}

func newHistory(capacity int) *history {
	return &history{
		buffers:  map[string][]float64{},
		capacity: capacity,
	}
}

// Observe appends one day's closing prices.
func (h *history) Observe(prices map[string]float64) {
	for symbol, price := range prices {
		buf := append(h.buffers[symbol], price)
		if len(buf) > h.capacity {
			buf = buf[len(buf)-h.capacity:]
		}
		h.buffers[symbol] = buf
	}
}

func (h *history) Assets() []string {
	symbols := []string{}
	for symbol := range h.buffers {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// at returns the price barsAgo bars back; 0 is the latest observation.
func (h *history) at(symbol string, barsAgo int) (float64, error) {
	buf := h.buffers[symbol]
	if barsAgo < 0 || len(buf) <= barsAgo {
		return 0, fmt.Errorf("insufficient price history for %s: have %d bars, need %d", symbol, len(buf), barsAgo+1)
	}
	return buf[len(buf)-1-barsAgo], nil
}

// window returns the most recent n bars, oldest first.
func (h *history) window(symbol string, n int) ([]float64, error) {
	buf := h.buffers[symbol]
	if len(buf) < n {
		return nil, fmt.Errorf("insufficient price history for %s: have %d bars, need %d", symbol, len(buf), n)
	}
	return buf[len(buf)-n:], nil
}
