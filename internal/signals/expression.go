package signals

import (
	"fmt"

	"github.com/maja42/goval"
	"github.com/montanaflynn/stats"
)

// Expression defines a signal's scalar as a goval expression over the
// asset's rolling price history, e.g.
//
//	ret(lookback) / stdev(20)
//
// Available functions: price(barsAgo), ret(bars), stdev(bars). The
// queried lookback is bound as the `lookback` variable.
type Expression struct {
	*history
	expression string
}

func NewExpression(expression string, maxLookback int) *Expression {
	return &Expression{
		history:    newHistory(maxLookback + 1),
		expression: expression,
	}
}

func (e *Expression) Value(symbol string, lookback int) (float64, error) {
	eval := goval.NewEvaluator()
	result, err := eval.Evaluate(
		e.expression,
		map[string]interface{}{
			"lookback": lookback,
		},
		e.functions(symbol),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate signal expression for %s: %w", symbol, err)
	}

	switch value := result.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	}
	return 0, fmt.Errorf("signal expression returned non-numeric %T for %s", result, symbol)
}

func (e *Expression) functions(symbol string) map[string]goval.ExpressionFunction {
	return map[string]goval.ExpressionFunction{
		// price(barsAgo) - closing price barsAgo bars back
		"price": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("price needs 1 arg, got %d", len(args))
			}
			n, ok := args[0].(int)
			if !ok {
				return 0, fmt.Errorf("price needs an integer arg, got %T", args[0])
			}
			return e.at(symbol, n)
		},

		// ret(bars) - holding-period return over the last bars bars
		"ret": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("ret needs 1 arg, got %d", len(args))
			}
			n, ok := args[0].(int)
			if !ok {
				return 0, fmt.Errorf("ret needs an integer arg, got %T", args[0])
			}
			base, err := e.at(symbol, n)
			if err != nil {
				return 0, err
			}
			latest, err := e.at(symbol, 0)
			if err != nil {
				return 0, err
			}
			if base == 0 {
				return 0, fmt.Errorf("zero base price for %s", symbol)
			}
			return latest/base - 1, nil
		},

		// stdev(bars) - sample stdev of daily returns over the last
		// bars observation periods
		"stdev": func(args ...interface{}) (interface{}, error) {
			if len(args) < 1 {
				return 0, fmt.Errorf("stdev needs 1 arg, got %d", len(args))
			}
			n, ok := args[0].(int)
			if !ok {
				return 0, fmt.Errorf("stdev needs an integer arg, got %T", args[0])
			}
			prices, err := e.window(symbol, n+1)
			if err != nil {
				return 0, err
			}
			returns := make([]float64, 0, n)
			for i := 1; i < len(prices); i++ {
				if prices[i-1] == 0 {
					return 0, fmt.Errorf("zero price in history for %s", symbol)
				}
				returns = append(returns, prices[i]/prices[i-1]-1)
			}
			return stats.StandardDeviationSample(returns)
		},
	}
}
