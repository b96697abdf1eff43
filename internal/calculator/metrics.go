// Package calculator turns an equity curve into summary performance
// statistics.
package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"rotator/internal/domain"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

type Metrics struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	AnnualizedStdev  float64 `json:"annualizedStdev"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	SortinoRatio     float64 `json:"sortinoRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
}

// Compute assumes the curve samples consecutive trading days, which is
// what the backtest session produces.
func Compute(curve []domain.EquityPoint) (*Metrics, error) {
	if len(curve) < 2 {
		return nil, fmt.Errorf("cannot compute metrics on < 2 equity points")
	}

	sorted := make([]domain.EquityPoint, len(curve))
	copy(sorted, curve)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	returns, err := dailyReturns(sorted)
	if err != nil {
		return nil, err
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev of returns: %w", err)
	}
	annualizedStdev := stdev * math.Sqrt(tradingDaysPerYear)

	startValue := sorted[0].Value.InexactFloat64()
	endValue := sorted[len(sorted)-1].Value.InexactFloat64()
	if startValue <= 0 {
		return nil, fmt.Errorf("cannot compute metrics from start value %f", startValue)
	}
	totalReturn := endValue/startValue - 1

	numYears := sorted[len(sorted)-1].Date.Sub(sorted[0].Date).Hours() / (365 * 24)
	if numYears <= 0 {
		return nil, fmt.Errorf("equity curve spans no time")
	}
	annualizedReturn := math.Pow(endValue/startValue, 1/numYears) - 1

	sharpe := 0.0
	if annualizedStdev > 0 {
		sharpe = annualizedReturn / annualizedStdev
	}

	sortino := 0.0
	downside := downsideDeviation(returns) * math.Sqrt(tradingDaysPerYear)
	if downside > 0 {
		sortino = annualizedReturn / downside
	}

	return &Metrics{
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualizedReturn,
		AnnualizedStdev:  annualizedStdev,
		SharpeRatio:      sharpe,
		SortinoRatio:     sortino,
		MaxDrawdown:      maxDrawdown(sorted),
	}, nil
}

func dailyReturns(curve []domain.EquityPoint) ([]float64, error) {
	returns := []float64{}
	for i := 1; i < len(curve); i++ {
		last := curve[i-1].Value
		if last.IsZero() {
			return nil, fmt.Errorf("equity hit zero on %s", curve[i-1].Date.Format(time.DateOnly))
		}
		ret := curve[i].Value.Sub(last).Div(last).InexactFloat64()
		returns = append(returns, ret)
	}
	return returns, nil
}

func downsideDeviation(returns []float64) float64 {
	sumSquares := 0.0
	for _, ret := range returns {
		if ret < 0 {
			sumSquares += ret * ret
		}
	}
	return math.Sqrt(sumSquares / float64(len(returns)))
}

// maxDrawdown is reported as a negative fraction, e.g. -0.25 for a 25%
// peak-to-trough loss.
func maxDrawdown(curve []domain.EquityPoint) float64 {
	peak := curve[0].Value.InexactFloat64()
	worst := 0.0
	for _, point := range curve {
		value := point.Value.InexactFloat64()
		if value > peak {
			peak = value
		}
		if peak > 0 {
			drawdown := value/peak - 1
			if drawdown < worst {
				worst = drawdown
			}
		}
	}
	return worst
}
