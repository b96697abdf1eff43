// Package pricedata exposes daily closing prices to the simulation.
// How bars get produced is the caller's problem - this package only
// serves lookups over bars it was handed.
package pricedata

import (
	"fmt"
	"sort"
	"time"

	"rotator/internal/domain"

	"github.com/shopspring/decimal"
)

// Provider is the market-data surface the backtest driver consumes.
type Provider interface {
	// PriceOn resolves the closing price for the most recent trading
	// day at or before the given day.
	PriceOn(symbol string, day time.Time) (decimal.Decimal, error)
	// ClosesOn returns every known close on the exact day.
	ClosesOn(day time.Time) map[string]float64
	// TradingDays lists the distinct bar dates within [start, end].
	TradingDays(start, end time.Time) []time.Time
}

const maxForwardFillDays = 7

type MemoryStore struct {
	// symbol -> yyyy-mm-dd -> close
	prices map[string]map[string]decimal.Decimal
	days   []time.Time
}

func NewMemoryStore(bars []domain.AssetPrice) *MemoryStore {
	prices := map[string]map[string]decimal.Decimal{}
	seen := map[string]time.Time{}
	for _, bar := range bars {
		day := dateOf(bar.Date)
		if _, ok := prices[bar.Symbol]; !ok {
			prices[bar.Symbol] = map[string]decimal.Decimal{}
		}
		prices[bar.Symbol][day.Format(time.DateOnly)] = bar.Price
		seen[day.Format(time.DateOnly)] = day
	}

	days := []time.Time{}
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return &MemoryStore{prices: prices, days: days}
}

func (s *MemoryStore) PriceOn(symbol string, day time.Time) (decimal.Decimal, error) {
	bySymbol, ok := s.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no price history for %s", symbol)
	}

	// weekends and holidays fall back to the most recent close
	current := dateOf(day)
	for i := 0; i <= maxForwardFillDays; i++ {
		if price, ok := bySymbol[current.Format(time.DateOnly)]; ok {
			return price, nil
		}
		current = current.AddDate(0, 0, -1)
	}

	return decimal.Zero, fmt.Errorf("no price for %s on or near %s", symbol, day.Format(time.DateOnly))
}

func (s *MemoryStore) ClosesOn(day time.Time) map[string]float64 {
	key := dateOf(day).Format(time.DateOnly)
	out := map[string]float64{}
	for symbol, bySymbol := range s.prices {
		if price, ok := bySymbol[key]; ok {
			out[symbol] = price.InexactFloat64()
		}
	}
	return out
}

func (s *MemoryStore) TradingDays(start, end time.Time) []time.Time {
	out := []time.Time{}
	for _, day := range s.days {
		if day.Before(dateOf(start)) || day.After(dateOf(end)) {
			continue
		}
		out = append(out, day)
	}
	return out
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
