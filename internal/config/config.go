// Package config loads the strategy definition from a YAML file and
// applies the CLI's defaults. It is the configuration boundary - core
// packages never read files or flags themselves.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"rotator/internal/domain"

	"gopkg.in/yaml.v3"
)

type Strategy struct {
	Name string `yaml:"name"`
	// symbol -> membership start date (yyyy-mm-dd); empty string
	// means member from the backtest start
	Universe map[string]string `yaml:"universe"`

	TopN        int     `yaml:"top_n"`
	HeatWindow  int     `yaml:"heat_window"`
	ChillWindow int     `yaml:"chill_window"`
	HeatWeight  float64 `yaml:"heat_weight"`
	// goval expressions; empty means plain holding-period return
	HeatExpression  string `yaml:"heat_expression"`
	ChillExpression string `yaml:"chill_expression"`

	Rebalance    string `yaml:"rebalance"`
	RebalanceDay string `yaml:"rebalance_day"`
	PreMarket    bool   `yaml:"pre_market"`

	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	BurnIn    string `yaml:"burn_in"`

	InitialCapital float64 `yaml:"initial_capital"`
	Benchmark      string  `yaml:"benchmark"`
}

// Default mirrors the canonical sector-rotation run: six-month heat,
// five-day chill, hold the top three, rebalance weekly on Monday.
func Default() Strategy {
	return Strategy{
		Name:           "rotation",
		TopN:           3,
		HeatWindow:     126,
		ChillWindow:    5,
		HeatWeight:     0.5,
		Rebalance:      "weekly",
		RebalanceDay:   "MON",
		PreMarket:      true,
		BurnIn:         "1y",
		InitialCapital: 100_000,
		Benchmark:      "SPY",
	}
}

// Load reads a YAML strategy over the defaults. A missing path keeps
// the defaults untouched.
func Load(path string) (*Strategy, error) {
	strategy := Default()
	if path == "" {
		return &strategy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open strategy config: %w", err)
	}
	if err := yaml.Unmarshal(data, &strategy); err != nil {
		return nil, fmt.Errorf("could not parse strategy config: %w", err)
	}

	return &strategy, nil
}

func (s Strategy) Validate() error {
	if s.TopN < 1 {
		return domain.NewConfigurationError("top_n must be >= 1, got %d", s.TopN)
	}
	if s.HeatWindow < 1 || s.ChillWindow < 1 {
		return domain.NewConfigurationError(
			"signal windows must be >= 1, got heat_window=%d chill_window=%d",
			s.HeatWindow, s.ChillWindow,
		)
	}
	if s.HeatWeight < 0 || s.HeatWeight > 1 {
		return domain.NewConfigurationError("heat_weight must be within [0, 1], got %f", s.HeatWeight)
	}
	start, err := s.Start()
	if err != nil {
		return err
	}
	if _, err := s.End(); err != nil {
		return err
	}
	if _, err := s.BurnInDate(start); err != nil {
		return err
	}
	return nil
}

func (s Strategy) Start() (time.Time, error) {
	return s.parseDate("start_date", s.StartDate)
}

func (s Strategy) End() (time.Time, error) {
	return s.parseDate("end_date", s.EndDate)
}

func (s Strategy) parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, domain.NewConfigurationError("%s is required", field)
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, domain.NewConfigurationError("could not parse %s '%s': expected yyyy-mm-dd", field, value)
	}
	return parsed, nil
}

var burnInPattern = regexp.MustCompile(`^(?:(\d+)y)?(?:(\d+)m)?(?:(\d+)d)?$`)

// BurnInDate resolves the burn-in timespan, e.g. "1y", "6m" or
// "1y2m10d", against the backtest start.
func (s Strategy) BurnInDate(start time.Time) (time.Time, error) {
	if s.BurnIn == "" {
		return start, nil
	}
	match := burnInPattern.FindStringSubmatch(s.BurnIn)
	if match == nil || (match[1] == "" && match[2] == "" && match[3] == "") {
		return time.Time{}, domain.NewConfigurationError("could not parse burn_in '%s': expected e.g. 1y, 6m, 1y2m10d", s.BurnIn)
	}
	years, _ := strconv.Atoi(match[1])
	months, _ := strconv.Atoi(match[2])
	days, _ := strconv.Atoi(match[3])
	return start.AddDate(years, months, days), nil
}

// AssetStartDates resolves the universe's membership windows. Symbols
// without an explicit date open at the backtest start.
func (s Strategy) AssetStartDates(start time.Time) (map[string]time.Time, error) {
	out := map[string]time.Time{}
	for symbol, date := range s.Universe {
		if date == "" {
			out[symbol] = start
			continue
		}
		parsed, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, domain.NewConfigurationError("could not parse universe start date '%s' for %s", date, symbol)
		}
		out[symbol] = parsed
	}
	return out, nil
}

// MonthOffset interprets rebalance_day for the monthly periodicity.
func (s Strategy) MonthOffset() (int, error) {
	if s.RebalanceDay == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(s.RebalanceDay)
	if err != nil {
		return 0, domain.NewConfigurationError("could not parse rebalance_day '%s' as a business day offset", s.RebalanceDay)
	}
	return offset, nil
}
