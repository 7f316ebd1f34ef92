package engine

import (
	"errors"
	"fmt"

	"github.com/vk/stockflow/internal/formula"
)

var (
	// ErrIllegalSourceStock is returned when a Conversion or Leak is attached
	// to a stock whose initial value is infinite.
	ErrIllegalSourceStock = errors.New("illegal source stock")
	// ErrReferencesInInitialFormula is returned when a stock's initial value
	// depends on other stocks.
	ErrReferencesInInitialFormula = errors.New("references in initial formula")
	// ErrNonFinite is an arithmetic failure raised when a rate has to floor an
	// infinite or NaN quantity.
	ErrNonFinite = errors.New("cannot floor a non-finite value")
	// ErrDuplicateStock is returned when a stock name is registered twice.
	ErrDuplicateStock = errors.New("duplicate stock")
	// ErrUnknownStock is returned when a flow names a stock the model does not hold.
	ErrUnknownStock = errors.New("unknown stock")
)

// IllegalSourceStockError names the rate and stock that cannot be combined.
type IllegalSourceStockError struct {
	Rate  Rate
	Stock *Stock
}

func (e *IllegalSourceStockError) Error() string {
	return fmt.Sprintf("%s may not draw from %s: its initial value is infinite", e.Rate, e.Stock)
}

func (e *IllegalSourceStockError) Is(target error) bool {
	return target == ErrIllegalSourceStock
}

// ReferencesInInitialFormulaError carries the offending initial formula.
type ReferencesInInitialFormulaError struct {
	Stock   *Stock
	Formula *formula.Formula
}

func (e *ReferencesInInitialFormulaError) Error() string {
	return fmt.Sprintf("initial value of %s must not reference other stocks: %s references %v",
		e.Stock, e.Formula, e.Formula.References())
}

func (e *ReferencesInInitialFormulaError) Is(target error) bool {
	return target == ErrReferencesInInitialFormula
}
