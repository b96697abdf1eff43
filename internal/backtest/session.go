// Package backtest drives a simulation: it generates the rebalance
// calendar once, streams daily bars into the signal collection in
// timestamp order, and at each event asks the alpha model for target
// weights, which it marks to market into an equity curve. Order
// execution, fees and slippage are outside this package - weights go
// straight into holdings.
package backtest

import (
	"fmt"
	"sync"
	"time"

	"rotator/internal/alpha"
	"rotator/internal/calendar"
	"rotator/internal/domain"
	"rotator/internal/pricedata"
	"rotator/internal/signals"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Session struct {
	Name   string
	Start  time.Time
	End    time.Time
	// equity samples before BurnIn are discarded so the warmup window
	// does not pollute the statistics. Zero means no burn-in.
	BurnIn time.Time
	Policy calendar.Policy
	Model  alpha.Model
	Prices pricedata.Provider
	// nil for models that need no market history, e.g. fixed weights
	Signals        *signals.Collection
	InitialCapital decimal.Decimal
	Log            *zap.SugaredLogger
}

type AllocationSnapshot struct {
	Event   domain.RebalanceEvent
	Weights domain.TargetWeights
}

type Result struct {
	RunID       uuid.UUID
	Name        string
	EquityCurve []domain.EquityPoint
	Allocations []AllocationSnapshot
}

func (r *Result) FinalValue() decimal.Decimal {
	if len(r.EquityCurve) == 0 {
		return decimal.Zero
	}
	return r.EquityCurve[len(r.EquityCurve)-1].Value
}

// Run executes the full simulation synchronously. Events fire in
// strictly increasing order; pre-market events are evaluated before
// the day's close is observed, post-market ones after, so a pre-market
// evaluation only ever sees history through the prior close.
func (s *Session) Run() (*Result, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if s.Model == nil {
		return nil, domain.NewConfigurationError("session '%s' has no alpha model", s.Name)
	}
	capital := s.InitialCapital
	if capital.IsZero() {
		capital = decimal.NewFromInt(100_000)
	}

	events := calendar.Generate(s.Start, s.End, s.Policy)
	days := s.Prices.TradingDays(s.Start, s.End)
	if len(days) == 0 {
		return nil, fmt.Errorf("no trading days between %s and %s", s.Start.Format(time.DateOnly), s.End.Format(time.DateOnly))
	}

	log.Infow("starting backtest",
		"name", s.Name,
		"start", s.Start.Format(time.DateOnly),
		"end", s.End.Format(time.DateOnly),
		"events", len(events),
		"tradingDays", len(days),
	)

	result := &Result{
		RunID:       uuid.New(),
		Name:        s.Name,
		EquityCurve: []domain.EquityPoint{},
		Allocations: []AllocationSnapshot{},
	}

	portfolio := domain.NewPortfolio()
	portfolio.Cash = capital

	burnIn := s.BurnIn
	if burnIn.IsZero() {
		burnIn = s.Start
	}

	eventIdx := 0
	for _, day := range days {
		due := func() bool {
			return eventIdx < len(events) && !dateOf(events[eventIdx].At).After(day)
		}

		for due() && events[eventIdx].PreMarket {
			rebalanced, err := s.applyEvent(result, portfolio, events[eventIdx], day)
			if err != nil {
				return nil, err
			}
			portfolio = rebalanced
			eventIdx++
		}

		if s.Signals != nil {
			s.Signals.Observe(s.Prices.ClosesOn(day))
		}

		for due() {
			rebalanced, err := s.applyEvent(result, portfolio, events[eventIdx], day)
			if err != nil {
				return nil, err
			}
			portfolio = rebalanced
			eventIdx++
		}

		value, err := s.markToMarket(portfolio, day)
		if err != nil {
			return nil, err
		}
		if !day.Before(dateOf(burnIn)) {
			result.EquityCurve = append(result.EquityCurve, domain.EquityPoint{Date: day, Value: value})
		}
	}

	log.Infow("backtest complete",
		"name", s.Name,
		"runId", result.RunID,
		"rebalances", len(result.Allocations),
		"finalValue", result.FinalValue().StringFixed(2),
	)

	return result, nil
}

// applyEvent asks the model for weights and rotates the portfolio into
// them at the day's prices. Weights that sum below 1 leave the
// remainder in cash.
func (s *Session) applyEvent(result *Result, portfolio *domain.Portfolio, event domain.RebalanceEvent, day time.Time) (*domain.Portfolio, error) {
	weights, err := s.Model.Weights(event.At)
	if err != nil {
		return nil, fmt.Errorf("failed to compute weights at %v: %w", event.At, err)
	}

	value, err := s.markToMarket(portfolio, day)
	if err != nil {
		return nil, err
	}

	rebalanced := domain.NewPortfolio()
	invested := decimal.Zero
	for symbol, weight := range weights.NonZero() {
		price, err := s.Prices.PriceOn(symbol, day)
		if err != nil {
			return nil, fmt.Errorf("failed to rebalance at %v: %w", event.At, err)
		}
		dollars := value.Mul(decimal.NewFromFloat(weight))
		rebalanced.Positions[symbol] = &domain.Position{
			Symbol:   symbol,
			Quantity: dollars.Div(price),
		}
		invested = invested.Add(dollars)
	}
	rebalanced.Cash = value.Sub(invested)

	result.Allocations = append(result.Allocations, AllocationSnapshot{
		Event:   event,
		Weights: weights,
	})

	return rebalanced, nil
}

func (s *Session) markToMarket(portfolio *domain.Portfolio, day time.Time) (decimal.Decimal, error) {
	priceMap := map[string]decimal.Decimal{}
	for _, symbol := range portfolio.HeldSymbols() {
		price, err := s.Prices.PriceOn(symbol, day)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to mark portfolio to market on %s: %w", day.Format(time.DateOnly), err)
		}
		priceMap[symbol] = price
	}
	return portfolio.TotalValue(priceMap)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RunPair executes a strategy and its benchmark concurrently. The two
// sessions share no mutable state, so no synchronization beyond the
// final join is needed.
func RunPair(strategy, benchmark *Session) (*Result, *Result, error) {
	var (
		wg              sync.WaitGroup
		strategyResult  *Result
		benchmarkResult *Result
		strategyErr     error
		benchmarkErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		strategyResult, strategyErr = strategy.Run()
	}()
	go func() {
		defer wg.Done()
		benchmarkResult, benchmarkErr = benchmark.Run()
	}()
	wg.Wait()

	if strategyErr != nil {
		return nil, nil, fmt.Errorf("strategy run failed: %w", strategyErr)
	}
	if benchmarkErr != nil {
		return nil, nil, fmt.Errorf("benchmark run failed: %w", benchmarkErr)
	}

	return strategyResult, benchmarkResult, nil
}
