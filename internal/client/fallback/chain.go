// Package fallback runs a fixed-priority list of strategies until one of
// them produces an accepted result.
//
// A chain is not error recovery: every strategy is tried in order, and the
// first whose call returns no error and whose result passes its OK predicate
// wins. A Halt predicate can stop the chain on errors that must not fall
// through (for example an expired session).
package fallback

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

// ErrExhausted is returned when no strategy produced an accepted result and
// the last strategy did not itself return an error.
var ErrExhausted = errors.New("all strategies failed")

// Strategy is one tier of a chain.
type Strategy[T any] struct {
	Name string
	Do   func(ctx context.Context) (T, error)
	// OK decides whether a successful call counts as success. Nil accepts
	// every result.
	OK func(T) bool
}

// Result describes how a chain ended.
type Result[T any] struct {
	// Value is the accepted value, or the last value seen when Err is set.
	Value T
	// Strategy names the accepted strategy, or the last one attempted.
	Strategy string
	// Attempts counts strategies that were called.
	Attempts int
	// Err is nil when a strategy was accepted.
	Err error
}

// Succeeded reports whether a strategy was accepted.
func (r Result[T]) Succeeded() bool { return r.Err == nil }

// Chain is an ordered list of strategies sharing a name for logs and metrics.
type Chain[T any] struct {
	name       string
	strategies []Strategy[T]
	halt       func(error) bool
	log        logging.Logger
	metrics    *Metrics
}

type ChainOption[T any] func(*Chain[T])

// WithHalt stops the chain when halt(err) is true for a strategy error.
func WithHalt[T any](halt func(error) bool) ChainOption[T] {
	return func(c *Chain[T]) { c.halt = halt }
}

// WithMetrics records every attempt in m.
func WithMetrics[T any](m *Metrics) ChainOption[T] {
	return func(c *Chain[T]) { c.metrics = m }
}

// New returns a chain named name. The strategies are tried in the given order.
func New[T any](name string, log logging.Logger, strategies []Strategy[T], opts ...ChainOption[T]) *Chain[T] {
	c := &Chain[T]{name: name, strategies: strategies, log: log.With("chain", name)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run tries each strategy in turn.
func (c *Chain[T]) Run(ctx context.Context) Result[T] {
	var res Result[T]
	res.Err = ErrExhausted

	for _, s := range c.strategies {
		res.Attempts++
		res.Strategy = s.Name

		v, err := s.Do(ctx)
		switch {
		case err != nil:
			res.Err = err
			c.record(s.Name, OutcomeError)

			if c.halt != nil && c.halt(err) {
				c.log.Warn(ctx, "strategy failed, chain halted", "strategy", s.Name, "error", err)
				return res
			}
			c.log.Warn(ctx, "strategy failed", "strategy", s.Name, "error", err)

		case s.OK != nil && !s.OK(v):
			res.Value = v
			res.Err = ErrExhausted
			c.record(s.Name, OutcomeRejected)
			c.log.Warn(ctx, "strategy result rejected", "strategy", s.Name)

		default:
			c.record(s.Name, OutcomeAccepted)
			c.log.Debug(ctx, "strategy accepted", "strategy", s.Name)
			return Result[T]{Value: v, Strategy: s.Name, Attempts: res.Attempts}
		}
	}
	return res
}

func (c *Chain[T]) record(strategy string, outcome Outcome) {
	if c.metrics != nil {
		c.metrics.observe(c.name, strategy, outcome)
	}
}
