package calendar

import (
	"errors"
	"testing"
	"time"

	"rotator/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ts(year, month, day, hour, minute int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
}

func TestGenerate_Monthly(t *testing.T) {
	t.Run("first business day of each month", func(t *testing.T) {
		// Feb 1 2020 is a Saturday and Mar 1 is a Sunday, so both
		// anchors shift off the 1st
		out := Generate(
			ts(2020, 1, 1, 0, 0),
			ts(2020, 3, 31, 0, 0),
			Monthly{PreMarket: true},
		)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.RebalanceEvent{
					{At: ts(2020, 1, 1, 14, 30), PreMarket: true},
					{At: ts(2020, 2, 3, 14, 30), PreMarket: true},
					{At: ts(2020, 3, 2, 14, 30), PreMarket: true},
				},
				out,
			),
		)
	})

	t.Run("offset shifts anchors by business days", func(t *testing.T) {
		out := Generate(
			ts(2020, 1, 1, 0, 0),
			ts(2020, 2, 29, 0, 0),
			Monthly{OffsetBusinessDays: 2, PreMarket: false},
		)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.RebalanceEvent{
					{At: ts(2020, 1, 3, 21, 0)},
					{At: ts(2020, 2, 5, 21, 0)},
				},
				out,
			),
		)
	})

	t.Run("large offset rolls into next month", func(t *testing.T) {
		// Feb 2020 has exactly 20 business days starting Feb 3, so a
		// 20 day offset lands on Mar 2. That roll is accepted as-is.
		out := Generate(
			ts(2020, 2, 1, 0, 0),
			ts(2020, 2, 29, 0, 0),
			Monthly{OffsetBusinessDays: 20},
		)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.RebalanceEvent{
					{At: ts(2020, 3, 2, 21, 0)},
				},
				out,
			),
		)
	})

	t.Run("inverted range yields empty sequence", func(t *testing.T) {
		out := Generate(
			ts(2020, 3, 1, 0, 0),
			ts(2020, 1, 1, 0, 0),
			Monthly{},
		)
		require.Empty(t, out)
	})

	t.Run("strictly increasing over long range", func(t *testing.T) {
		out := Generate(
			ts(2018, 1, 1, 0, 0),
			ts(2020, 12, 31, 0, 0),
			Monthly{OffsetBusinessDays: 3, PreMarket: true},
		)
		require.Len(t, out, 36)
		for i := 1; i < len(out); i++ {
			require.True(t, out[i-1].At.Before(out[i].At))
		}
	})
}

func TestGenerate_Weekly(t *testing.T) {
	t.Run("every configured weekday in range", func(t *testing.T) {
		out := Generate(
			ts(2020, 1, 1, 0, 0),
			ts(2020, 1, 31, 0, 0),
			Weekly{Weekday: time.Monday, PreMarket: true},
		)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.RebalanceEvent{
					{At: ts(2020, 1, 6, 14, 30), PreMarket: true},
					{At: ts(2020, 1, 13, 14, 30), PreMarket: true},
					{At: ts(2020, 1, 20, 14, 30), PreMarket: true},
					{At: ts(2020, 1, 27, 14, 30), PreMarket: true},
				},
				out,
			),
		)
	})

	t.Run("start on the configured weekday is included", func(t *testing.T) {
		out := Generate(
			ts(2020, 1, 6, 0, 0),
			ts(2020, 1, 6, 23, 59),
			Weekly{Weekday: time.Monday},
		)
		require.Len(t, out, 1)
		require.Equal(t, ts(2020, 1, 6, 21, 0), out[0].At)
	})
}

func TestGenerate_Daily(t *testing.T) {
	out := Generate(
		ts(2020, 1, 1, 0, 0),
		ts(2020, 1, 7, 0, 0),
		Daily{PreMarket: true},
	)

	require.Equal(
		t,
		"",
		cmp.Diff(
			[]domain.RebalanceEvent{
				{At: ts(2020, 1, 1, 14, 30), PreMarket: true},
				{At: ts(2020, 1, 2, 14, 30), PreMarket: true},
				{At: ts(2020, 1, 3, 14, 30), PreMarket: true},
				{At: ts(2020, 1, 6, 14, 30), PreMarket: true},
				{At: ts(2020, 1, 7, 14, 30), PreMarket: true},
			},
			out,
		),
	)
}

func TestGenerate_EndOfMonth(t *testing.T) {
	// Feb 29 2020 is a Saturday, so February closes on the 28th
	out := Generate(
		ts(2020, 1, 1, 0, 0),
		ts(2020, 3, 31, 0, 0),
		EndOfMonth{},
	)

	require.Equal(
		t,
		"",
		cmp.Diff(
			[]domain.RebalanceEvent{
				{At: ts(2020, 1, 31, 21, 0)},
				{At: ts(2020, 2, 28, 21, 0)},
				{At: ts(2020, 3, 31, 21, 0)},
			},
			out,
		),
	)
}

func TestGenerate_BuyAndHold(t *testing.T) {
	t.Run("single event at start", func(t *testing.T) {
		start := ts(2020, 6, 15, 14, 30)
		out := Generate(start, ts(2024, 1, 1, 0, 0), BuyAndHold{})
		require.Len(t, out, 1)
		require.Equal(t, start, out[0].At)
	})

	t.Run("end is ignored entirely", func(t *testing.T) {
		start := ts(2020, 6, 15, 14, 30)
		out := Generate(start, ts(2019, 1, 1, 0, 0), BuyAndHold{})
		require.Len(t, out, 1)
		require.Equal(t, start, out[0].At)
	})
}

func TestParsePolicy(t *testing.T) {
	t.Run("weekly with weekday", func(t *testing.T) {
		policy, err := ParsePolicy(ParsePolicyInput{
			Selector:  "weekly",
			Weekday:   "MON",
			PreMarket: true,
		})
		require.NoError(t, err)
		require.Equal(t, Weekly{Weekday: time.Monday, PreMarket: true}, policy)
	})

	t.Run("unknown selector is a configuration error", func(t *testing.T) {
		_, err := ParsePolicy(ParsePolicyInput{Selector: "quarterly"})
		require.Error(t, err)
		confErr := domain.ConfigurationError{}
		require.True(t, errors.As(err, &confErr))
	})

	t.Run("unknown weekday is a configuration error", func(t *testing.T) {
		_, err := ParsePolicy(ParsePolicyInput{Selector: "weekly", Weekday: "SUNDAY"})
		require.Error(t, err)
		confErr := domain.ConfigurationError{}
		require.True(t, errors.As(err, &confErr))
	})
}
