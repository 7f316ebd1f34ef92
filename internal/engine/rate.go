package engine

import (
	"fmt"
	"math"

	"github.com/vk/stockflow/internal/formula"
)

// RateKind selects how a Rate turns its formula into a transfer.
type RateKind int

const (
	Plain RateKind = iota
	Conversion
	Leak
)

func (k RateKind) String() string {
	switch k {
	case Plain:
		return "Rate"
	case Conversion:
		return "Conversion"
	case Leak:
		return "Leak"
	}
	return fmt.Sprintf("RateKind(%d)", int(k))
}

// ParseRateKind maps the names used in model files to a RateKind.
func ParseRateKind(s string) (RateKind, error) {
	switch s {
	case "rate", "plain":
		return Plain, nil
	case "conversion":
		return Conversion, nil
	case "leak":
		return Leak, nil
	}
	return 0, fmt.Errorf("unknown flow kind %q: must be 'rate', 'conversion' or 'leak'", s)
}

// Rate is a flow's transfer strategy: an absolute amount (Plain), a ratio
// (Conversion) or a fraction of the source (Leak).
type Rate struct {
	Kind    RateKind
	Formula *formula.Formula
}

// NewRate returns a Plain rate moving the formula's value each round.
func NewRate(f *formula.Formula) Rate {
	return Rate{Kind: Plain, Formula: f}
}

// NewConversion returns a Conversion rate with the formula as ratio.
func NewConversion(f *formula.Formula) Rate {
	return Rate{Kind: Conversion, Formula: f}
}

// NewLeak returns a Leak rate with the formula as the per-round fraction.
func NewLeak(f *formula.Formula) Rate {
	return Rate{Kind: Leak, Formula: f}
}

func (r Rate) String() string {
	return fmt.Sprintf("%s(%s)", r.Kind, r.Formula)
}

// ValidateSource reports whether source may feed a flow with this rate.
// Conversion and Leak reject stocks whose initial value is infinite.
func (r Rate) ValidateSource(source *Stock) error {
	if r.Kind == Plain {
		return nil
	}
	initial, err := source.Initial.Compute(nil)
	if err != nil {
		return fmt.Errorf("evaluating initial value of %s: %w", source, err)
	}
	if math.IsInf(initial, 1) {
		return &IllegalSourceStockError{Rate: r, Stock: source}
	}
	return nil
}

// Calculate returns how much leaves the source and how much arrives at the
// destination this round, given the source level, destination level and the
// destination's remaining capacity.
func (r Rate) Calculate(values formula.Values, src, dest, capacity float64) (withdraw, deposit float64, err error) {
	evaluated, err := r.Formula.Compute(values)
	if err != nil {
		return 0, 0, err
	}

	switch r.Kind {
	case Plain:
		return plain(evaluated, src, capacity)
	case Conversion:
		return conversion(evaluated, src, dest, capacity)
	case Leak:
		return leak(evaluated, src, capacity)
	}
	return 0, 0, fmt.Errorf("unknown rate kind %d", r.Kind)
}

// plain transfers the full amount or nothing.
func plain(amount, src, capacity float64) (float64, float64, error) {
	if !(src-amount >= 0) {
		return 0, 0, nil
	}
	change := amount
	if !(src-amount > 0) {
		change = src
	}
	change = capped(capacity, change)
	return change, change, nil
}

// conversion bounds the source side by destination space.
//
// The finite branch subtracts dest from capacity even though capacity is
// already maximum minus dest, so the effective bound is maximum - 2*dest.
func conversion(ratio, src, dest, capacity float64) (float64, float64, error) {
	var maxSrc float64
	if math.IsInf(dest, 1) || math.IsInf(capacity, 1) {
		maxSrc = src
	} else {
		if ratio == 0 {
			return 0, 0, fmt.Errorf("conversion ratio: %w", formula.ErrDivisionByZero)
		}
		bound, err := floor((capacity - dest) / ratio)
		if err != nil {
			return 0, 0, err
		}
		maxSrc = 0
		if bound > 0 {
			maxSrc = bound
		}
	}

	deposit, err := floor(maxSrc * ratio)
	if err != nil {
		return 0, 0, err
	}
	if deposit == 0 {
		return 0, 0, nil
	}
	return maxSrc, deposit, nil
}

// leak moves a fraction of the source. A NaN capacity (infinite maximum on an
// infinite destination) leaves the change unclamped.
func leak(fraction, src, capacity float64) (float64, float64, error) {
	change, err := floor(src * fraction)
	if err != nil {
		return 0, 0, err
	}
	if !math.IsNaN(capacity) {
		change = capped(capacity, change)
	}
	return change, change, nil
}

// capped returns change if it is strictly below capacity and capacity
// otherwise, so a NaN capacity wins.
func capped(capacity, change float64) float64 {
	if change < capacity {
		return change
	}
	return capacity
}

func floor(v float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s", ErrNonFinite, formula.FormatNumber(v))
	}
	return math.Floor(v), nil
}
