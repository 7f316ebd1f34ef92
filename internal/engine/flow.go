package engine

import (
	"fmt"

	"github.com/vk/stockflow/internal/formula"
)

// Flow moves quantity from Source to Destination once per round. The stocks
// are referenced, not owned.
type Flow struct {
	Source      *Stock
	Destination *Stock
	Rate        Rate
}

// NewFlow connects two stocks, rejecting sources the rate cannot draw from.
func NewFlow(source, destination *Stock, rate Rate) (*Flow, error) {
	if err := rate.ValidateSource(source); err != nil {
		return nil, err
	}
	return &Flow{Source: source, Destination: destination, Rate: rate}, nil
}

// Change computes this round's (withdraw, deposit) pair. Capacity is the
// destination's maximum under the current values minus its current level.
func (f *Flow) Change(values formula.Values, srcLevel, destLevel float64) (withdraw, deposit float64, err error) {
	maximum, err := f.Destination.Maximum.Compute(values)
	if err != nil {
		return 0, 0, fmt.Errorf("maximum of %s: %w", f.Destination, err)
	}
	capacity := maximum - destLevel
	return f.Rate.Calculate(values, srcLevel, destLevel, capacity)
}

func (f *Flow) String() string {
	return fmt.Sprintf("Flow(%s to %s at %s)", f.Source, f.Destination, f.Rate)
}
