package engine

import (
	"fmt"
	"math"

	"github.com/vk/stockflow/internal/formula"
)

// Stock is a named accumulator. Stocks are treated as immutable once they are
// registered with a Model.
type Stock struct {
	Name    string
	Initial *formula.Formula
	Maximum *formula.Formula
	Show    bool
}

// StockOption configures a Stock built by NewStock.
type StockOption func(*Stock)

// WithInitial sets the stock's initial value formula.
func WithInitial(f *formula.Formula) StockOption {
	return func(s *Stock) { s.Initial = f }
}

// WithMaximum sets the stock's capacity formula.
func WithMaximum(f *formula.Formula) StockOption {
	return func(s *Stock) { s.Maximum = f }
}

// Hidden excludes the stock from rendered results.
func Hidden() StockOption {
	return func(s *Stock) { s.Show = false }
}

// NewStock returns a visible stock starting at 0 with no maximum unless
// options say otherwise.
func NewStock(name string, opts ...StockOption) *Stock {
	s := &Stock{Name: name, Show: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.Initial == nil {
		s.Initial = formula.Literal(0)
	}
	if s.Maximum == nil {
		s.Maximum = formula.Literal(math.Inf(1))
	}
	return s
}

// NewInfiniteStock returns a hidden stock with an infinite initial value, for
// use as an unbounded source.
func NewInfiniteStock(name string) *Stock {
	return NewStock(name, WithInitial(formula.Literal(math.Inf(1))), Hidden())
}

func (s *Stock) String() string {
	return fmt.Sprintf("Stock(%s)", s.Name)
}
