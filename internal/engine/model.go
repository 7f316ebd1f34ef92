package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vk/stockflow/internal/formula"
)

// MaxRounds is the largest round count Run accepts. Every round keeps a
// snapshot, so memory grows linearly with the count.
const MaxRounds = 1_000_000

// Model is an ordered collection of stocks and flows. Declaration order is
// significant: it fixes both the column order of results and the order in
// which flows are processed each round.
type Model struct {
	Name   string
	stocks []*Stock
	byName map[string]*Stock
	flows  []*Flow
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name, byName: make(map[string]*Stock)}
}

// AddStock registers an existing stock. Names must be unique.
func (m *Model) AddStock(s *Stock) (*Stock, error) {
	if _, exists := m.byName[s.Name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateStock, s.Name)
	}
	m.stocks = append(m.stocks, s)
	m.byName[s.Name] = s
	return s, nil
}

// NewStock creates and registers a stock.
func (m *Model) NewStock(name string, opts ...StockOption) (*Stock, error) {
	return m.AddStock(NewStock(name, opts...))
}

// InfiniteStock creates and registers a hidden stock with an infinite initial
// value.
func (m *Model) InfiniteStock(name string) (*Stock, error) {
	return m.AddStock(NewInfiniteStock(name))
}

// AddFlow connects two registered stocks.
func (m *Model) AddFlow(source, destination *Stock, rate Rate) (*Flow, error) {
	for _, s := range []*Stock{source, destination} {
		if s == nil {
			return nil, fmt.Errorf("%w: nil stock", ErrUnknownStock)
		}
		if m.byName[s.Name] != s {
			return nil, fmt.Errorf("%w: %s is not part of model %q", ErrUnknownStock, s, m.Name)
		}
	}
	flow, err := NewFlow(source, destination, rate)
	if err != nil {
		return nil, err
	}
	m.flows = append(m.flows, flow)
	return flow, nil
}

// Stock looks a stock up by name.
func (m *Model) Stock(name string) (*Stock, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// Stocks returns the stocks in declaration order.
func (m *Model) Stocks() []*Stock {
	return append([]*Stock(nil), m.stocks...)
}

// Flows returns the flows in declaration order.
func (m *Model) Flows() []*Flow {
	return append([]*Flow(nil), m.flows...)
}

// VisibleStocks returns the stocks with Show set, in declaration order.
func (m *Model) VisibleStocks() []*Stock {
	var visible []*Stock
	for _, s := range m.stocks {
		if s.Show {
			visible = append(visible, s)
		}
	}
	return visible
}

// Validate checks that every formula only references stocks of this model.
// All problems are reported, joined.
func (m *Model) Validate() error {
	var errs []error
	check := func(f *formula.Formula) {
		for _, ref := range f.References() {
			if _, ok := m.byName[ref]; !ok {
				errs = append(errs, formula.Invalid(f, fmt.Sprintf("reference to non-existent stock '%s'", ref)))
			}
		}
	}
	for _, s := range m.stocks {
		check(s.Initial)
		check(s.Maximum)
	}
	for _, f := range m.flows {
		check(f.Rate.Formula)
	}
	return errors.Join(errs...)
}

// Run simulates the model for the given number of rounds and returns one
// snapshot per round, round 0 included.
func (m *Model) Run(rounds int) ([]Snapshot, error) {
	return m.RunContext(context.Background(), rounds)
}

// RunContext is Run with cancellation checked between rounds.
func (m *Model) RunContext(ctx context.Context, rounds int) ([]Snapshot, error) {
	if rounds < 0 {
		return nil, fmt.Errorf("rounds must not be negative, got %d", rounds)
	}
	if rounds > MaxRounds {
		return nil, fmt.Errorf("rounds must not exceed %d, got %d", MaxRounds, rounds)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	state, err := NewState(m)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, min(rounds, 1024)+1)
	snapshots = append(snapshots, state.Snapshot())
	for round := 1; round <= rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := state.Advance(); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		snapshots = append(snapshots, state.Snapshot())
	}
	return snapshots, nil
}

// OrderingWarning describes a flow whose destination headroom is read before
// an earlier-declared flow drains that destination in the same round.
type OrderingWarning struct {
	Flow  *Flow
	Drain *Flow
}

func (w OrderingWarning) String() string {
	return fmt.Sprintf("%s reads the headroom of %s before %s drains it; declare it before the draining flow",
		w.Flow, w.Flow.Destination, w.Drain)
}

// OrderingWarnings lists flows into bounded stocks that are drained by a flow
// declared earlier. Such flows see last round's level of their destination.
func (m *Model) OrderingWarnings() []OrderingWarning {
	var warnings []OrderingWarning
	for j, flow := range m.flows {
		if unbounded(flow.Destination) {
			continue
		}
		for _, drain := range m.flows[:j] {
			if drain.Source == flow.Destination {
				warnings = append(warnings, OrderingWarning{Flow: flow, Drain: drain})
			}
		}
	}
	return warnings
}

func unbounded(s *Stock) bool {
	if !s.Maximum.IsLiteral() {
		return false
	}
	v, err := s.Maximum.Compute(nil)
	return err == nil && math.IsInf(v, 1)
}
