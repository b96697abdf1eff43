package calendar

import (
	"strings"
	"time"

	"rotator/internal/domain"
)

// ParsePolicyInput is the configuration surface for calendar
// construction. Selector values mirror the CLI: monthly, weekly,
// daily, end_of_month, buy_and_hold.
type ParsePolicyInput struct {
	Selector string
	// three-letter weekday, e.g. "MON" (weekly only)
	Weekday string
	// business days past the month's first business day (monthly only)
	MonthOffset int
	PreMarket   bool
}

var weekdays = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
}

func ParsePolicy(in ParsePolicyInput) (Policy, error) {
	switch strings.ToLower(in.Selector) {
	case "monthly":
		if in.MonthOffset < 0 {
			return nil, domain.NewConfigurationError("monthly rebalance offset must be >= 0, got %d", in.MonthOffset)
		}
		return Monthly{OffsetBusinessDays: in.MonthOffset, PreMarket: in.PreMarket}, nil
	case "weekly":
		weekday, ok := weekdays[strings.ToUpper(in.Weekday)]
		if !ok {
			return nil, domain.NewConfigurationError("could not convert '%s' to known rebalance weekday", in.Weekday)
		}
		return Weekly{Weekday: weekday, PreMarket: in.PreMarket}, nil
	case "daily":
		return Daily{PreMarket: in.PreMarket}, nil
	case "end_of_month":
		return EndOfMonth{PreMarket: in.PreMarket}, nil
	case "buy_and_hold":
		return BuyAndHold{}, nil
	}
	return nil, domain.NewConfigurationError("could not convert '%s' to known rebalance periodicity", in.Selector)
}
