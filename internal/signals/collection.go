package signals

import (
	"fmt"

	"rotator/internal/domain"
)

// Provider is a named source of per-asset scalars.
type Provider interface {
	Value(symbol string, lookback int) (float64, error)
	Assets() []string
}

// Observer consumes one day's closing prices.
type Observer interface {
	Observe(prices map[string]float64)
}

// Collection holds named providers and owns the shared warmup counter.
// The driver feeds it one bar per observation period; warmup is the
// number of completed periods, so after N bars warmup is N-1. Signals
// never advance on their own.
type Collection struct {
	providers map[string]Provider
	observers []Observer
	bars      int
}

func NewCollection() *Collection {
	return &Collection{providers: map[string]Provider{}}
}

func (c *Collection) Register(name string, provider Provider) error {
	if _, ok := c.providers[name]; ok {
		return domain.NewConfigurationError("signal '%s' registered twice", name)
	}
	c.providers[name] = provider
	if observer, ok := provider.(Observer); ok {
		c.observers = append(c.observers, observer)
	}
	return nil
}

func (c *Collection) Observe(prices map[string]float64) {
	for _, observer := range c.observers {
		observer.Observe(prices)
	}
	c.bars++
}

func (c *Collection) Warmup() int {
	if c.bars == 0 {
		return 0
	}
	return c.bars - 1
}

// Signal returns an evaluation handle for a registered provider. The
// handle satisfies the engine's SignalProvider interface; its warmup
// is read through the collection so it stays current as bars arrive.
func (c *Collection) Signal(name string) (Signal, error) {
	provider, ok := c.providers[name]
	if !ok {
		return Signal{}, fmt.Errorf("no signal named '%s' registered", name)
	}
	return Signal{provider: provider, collection: c}, nil
}

type Signal struct {
	provider   Provider
	collection *Collection
}

func (s Signal) Value(symbol string, lookback int) (float64, error) {
	return s.provider.Value(symbol, lookback)
}

func (s Signal) Warmup() int {
	return s.collection.Warmup()
}
