package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormula marks malformed formulas and formulas that reference
	// stocks a model does not have.
	ErrInvalidFormula = errors.New("invalid formula")
	// ErrReferenceNotFound is returned when evaluation meets a reference that
	// is missing from the supplied values.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrDivisionByZero is an arithmetic failure during evaluation.
	ErrDivisionByZero = errors.New("division by zero")
)

// InvalidFormulaError carries the offending formula and a readable reason.
type InvalidFormulaError struct {
	Formula *Formula
	Reason  string
}

func (e *InvalidFormulaError) Error() string {
	return fmt.Sprintf("invalid formula %s: %s", e.Formula, e.Reason)
}

func (e *InvalidFormulaError) Is(target error) bool {
	return target == ErrInvalidFormula
}

// Invalid builds an InvalidFormulaError for f. Callers outside this package use
// it to report model-level problems such as unknown references.
func Invalid(f *Formula, reason string) error {
	return &InvalidFormulaError{Formula: f, Reason: reason}
}

// ReferenceNotFoundError names the reference that could not be resolved.
type ReferenceNotFoundError struct {
	Formula *Formula
	Name    string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("formula %s: reference %q not found in state", e.Formula, e.Name)
}

func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}
