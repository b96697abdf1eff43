package pricedata

import (
	"testing"
	"time"

	"rotator/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func bar(symbol string, date time.Time, price float64) domain.AssetPrice {
	return domain.AssetPrice{
		Symbol: symbol,
		Date:   date,
		Price:  decimal.NewFromFloat(price),
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore([]domain.AssetPrice{
		bar("XLK", day(2020, 1, 2), 100),
		bar("XLK", day(2020, 1, 3), 101),
		bar("XLK", day(2020, 1, 6), 103),
		bar("XLB", day(2020, 1, 2), 50),
		bar("XLB", day(2020, 1, 3), 51),
		bar("XLB", day(2020, 1, 6), 49),
	})

	t.Run("exact day lookup", func(t *testing.T) {
		price, err := store.PriceOn("XLK", day(2020, 1, 3))
		require.NoError(t, err)
		require.True(t, price.Equal(decimal.NewFromInt(101)))
	})

	t.Run("weekend falls back to friday close", func(t *testing.T) {
		price, err := store.PriceOn("XLK", day(2020, 1, 5))
		require.NoError(t, err)
		require.True(t, price.Equal(decimal.NewFromInt(101)))
	})

	t.Run("unknown symbol fails", func(t *testing.T) {
		_, err := store.PriceOn("SPY", day(2020, 1, 3))
		require.ErrorContains(t, err, "no price history")
	})

	t.Run("long gap fails rather than filling forever", func(t *testing.T) {
		_, err := store.PriceOn("XLK", day(2020, 3, 1))
		require.Error(t, err)
	})

	t.Run("closes on a day", func(t *testing.T) {
		out := store.ClosesOn(day(2020, 1, 6))
		require.Equal(
			t,
			"",
			cmp.Diff(map[string]float64{"XLK": 103, "XLB": 49}, out),
		)
	})

	t.Run("trading days within range", func(t *testing.T) {
		out := store.TradingDays(day(2020, 1, 3), day(2020, 1, 31))
		require.Equal(
			t,
			"",
			cmp.Diff([]time.Time{day(2020, 1, 3), day(2020, 1, 6)}, out),
		)
	})
}
