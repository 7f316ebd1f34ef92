package engine

import (
	"fmt"
	"maps"
)

// Snapshot is a frozen copy of every stock's level after some round.
type Snapshot map[string]float64

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return maps.Clone(s)
}

// State is the live level of every stock in one run. It belongs to a single
// run and must not be advanced concurrently.
type State struct {
	model  *Model
	levels map[string]float64
}

type deposit struct {
	stock  string
	amount float64
}

// NewState evaluates each stock's initial formula. Initial formulas may not
// reference other stocks.
func NewState(m *Model) (*State, error) {
	s := &State{model: m, levels: make(map[string]float64, len(m.stocks))}
	for _, stock := range m.stocks {
		if refs := stock.Initial.References(); len(refs) > 0 {
			return nil, &ReferencesInInitialFormulaError{Stock: stock, Formula: stock.Initial}
		}
		v, err := stock.Initial.Compute(nil)
		if err != nil {
			return nil, fmt.Errorf("initial value of %s: %w", stock, err)
		}
		s.levels[stock.Name] = v
	}
	return s, nil
}

// Advance runs one round. Flows are visited last-declared first; withdrawals
// hit the live levels immediately and deposits are applied once all flows
// have been visited.
func (s *State) Advance() error {
	flows := s.model.flows
	deferred := make([]deposit, 0, len(flows))

	for i := len(flows) - 1; i >= 0; i-- {
		flow := flows[i]
		src := s.levels[flow.Source.Name]
		dest := s.levels[flow.Destination.Name]

		withdraw, add, err := flow.Change(s.levels, src, dest)
		if err != nil {
			return fmt.Errorf("%s: %w", flow, err)
		}
		s.levels[flow.Source.Name] -= withdraw
		deferred = append(deferred, deposit{stock: flow.Destination.Name, amount: add})
	}

	for _, d := range deferred {
		s.levels[d.stock] += d.amount
	}
	return nil
}

// Snapshot returns a copy of the current levels.
func (s *State) Snapshot() Snapshot {
	return Snapshot(maps.Clone(s.levels))
}

// Level returns the current level of one stock.
func (s *State) Level(name string) (float64, bool) {
	v, ok := s.levels[name]
	return v, ok
}
