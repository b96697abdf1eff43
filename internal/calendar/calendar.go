package calendar

import (
	"time"

	"rotator/internal/domain"
)

// Rebalance timestamps carry a fixed time-of-day in UTC, matching US
// equity market open and close.
const (
	preMarketHour    = 14
	preMarketMinute  = 30
	postMarketHour   = 21
	postMarketMinute = 0
)

// Policy decides which days in a date range are rebalance days. Each
// variant is a closed policy with no shared state.
type Policy interface {
	events(start, end time.Time) []domain.RebalanceEvent
}

// Monthly rebalances on the first business day of each month, shifted
// forward by OffsetBusinessDays business days. A large offset may roll
// the event into the following month - that is accepted, not corrected.
type Monthly struct {
	OffsetBusinessDays int
	PreMarket          bool
}

// Weekly rebalances on every occurrence of Weekday in range.
type Weekly struct {
	Weekday   time.Weekday
	PreMarket bool
}

// Daily rebalances on every business day in range.
type Daily struct {
	PreMarket bool
}

// EndOfMonth rebalances on the last business day of each month.
type EndOfMonth struct {
	PreMarket bool
}

// BuyAndHold emits a single event at the start of the range.
type BuyAndHold struct{}

// Generate produces the full, strictly increasing event sequence for
// the range. An inverted range yields an empty sequence, not an error.
// Once generated, events are never retroactively adjusted.
func Generate(start, end time.Time, policy Policy) []domain.RebalanceEvent {
	if _, ok := policy.(BuyAndHold); !ok && end.Before(start) {
		return []domain.RebalanceEvent{}
	}
	return policy.events(start, end)
}

func (p Monthly) events(start, end time.Time) []domain.RebalanceEvent {
	out := []domain.RebalanceEvent{}
	for _, anchor := range firstBusinessDays(start, end) {
		day := addBusinessDays(anchor, p.OffsetBusinessDays)
		out = append(out, marketTimeEvent(day, p.PreMarket))
	}
	return out
}

func (p Weekly) events(start, end time.Time) []domain.RebalanceEvent {
	out := []domain.RebalanceEvent{}
	for day := dateOf(start); !day.After(dateOf(end)); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == p.Weekday {
			out = append(out, marketTimeEvent(day, p.PreMarket))
		}
	}
	return out
}

func (p Daily) events(start, end time.Time) []domain.RebalanceEvent {
	out := []domain.RebalanceEvent{}
	for day := dateOf(start); !day.After(dateOf(end)); day = day.AddDate(0, 0, 1) {
		if isBusinessDay(day) {
			out = append(out, marketTimeEvent(day, p.PreMarket))
		}
	}
	return out
}

func (p EndOfMonth) events(start, end time.Time) []domain.RebalanceEvent {
	out := []domain.RebalanceEvent{}
	for day := dateOf(start); !day.After(dateOf(end)); day = day.AddDate(0, 0, 1) {
		if isBusinessDay(day) && lastBusinessDayOfMonth(day).Equal(day) {
			out = append(out, marketTimeEvent(day, p.PreMarket))
		}
	}
	return out
}

func (p BuyAndHold) events(start, end time.Time) []domain.RebalanceEvent {
	// end is deliberately ignored
	return []domain.RebalanceEvent{{At: start, PreMarket: true}}
}

func marketTimeEvent(day time.Time, preMarket bool) domain.RebalanceEvent {
	hour, minute := postMarketHour, postMarketMinute
	if preMarket {
		hour, minute = preMarketHour, preMarketMinute
	}
	return domain.RebalanceEvent{
		At:        time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC),
		PreMarket: preMarket,
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isBusinessDay(day time.Time) bool {
	return day.Weekday() != time.Saturday && day.Weekday() != time.Sunday
}

// addBusinessDays steps forward n business days, weekend-aware. Month
// boundaries are not respected, so a large n walks into the next month.
func addBusinessDays(day time.Time, n int) time.Time {
	for i := 0; i < n; i++ {
		day = day.AddDate(0, 0, 1)
		for !isBusinessDay(day) {
			day = day.AddDate(0, 0, 1)
		}
	}
	return day
}

// firstBusinessDays enumerates the first business day of every
// calendar month whose first business day falls within [start, end].
func firstBusinessDays(start, end time.Time) []time.Time {
	out := []time.Time{}
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDay := dateOf(end)
	for !month.After(endDay) {
		day := month
		for !isBusinessDay(day) {
			day = day.AddDate(0, 0, 1)
		}
		if !day.Before(dateOf(start)) && !day.After(endDay) {
			out = append(out, day)
		}
		month = month.AddDate(0, 1, 0)
	}
	return out
}

func lastBusinessDayOfMonth(day time.Time) time.Time {
	last := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1)
	for !isBusinessDay(last) {
		last = last.AddDate(0, 0, -1)
	}
	return last
}
