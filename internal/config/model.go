package config

import (
	"fmt"
	"strconv"
)

// Model is the format-agnostic representation of one `model` definition.
type Model struct {
	Name string
	// Rounds is the number of rounds the file asks for; nil means unset.
	Rounds *int
	Stocks []*Stock
	Flows  []*Flow
	// Filename is the file the model was loaded from, if any.
	Filename string
}

// Stock is the format-agnostic representation of a `stock` definition.
type Stock struct {
	Name     string
	Infinite bool
	Initial  Formula
	Maximum  Formula
	// Show overrides the default visibility when set.
	Show *bool
}

// Visible reports whether the stock is rendered. Infinite stocks are hidden
// unless explicitly shown.
func (s *Stock) Visible() bool {
	if s.Show != nil {
		return *s.Show
	}
	return !s.Infinite
}

// Flow is the format-agnostic representation of a `flow` definition.
type Flow struct {
	// Kind is one of "rate", "conversion" or "leak".
	Kind string
	From string
	To   string
	Rate Formula
}

// Formula is either a number or formula source text. The zero value means the
// attribute was not given.
type Formula struct {
	Literal *float64
	Source  string
}

// Number returns a literal formula.
func Number(v float64) Formula {
	return Formula{Literal: &v}
}

// Expr returns a formula that still has to be tokenized.
func Expr(src string) Formula {
	return Formula{Source: src}
}

// IsZero reports whether the formula is unset.
func (f Formula) IsZero() bool {
	return f.Literal == nil && f.Source == ""
}

func (f Formula) String() string {
	switch {
	case f.Literal != nil:
		return strconv.FormatFloat(*f.Literal, 'f', -1, 64)
	case f.Source != "":
		return f.Source
	}
	return "<unset>"
}

// Validate checks the parts of a model that do not need the engine: names are
// present and flows have a kind and both endpoints.
func (m *Model) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model in %s has no name", m.location())
	}
	if m.Rounds != nil && *m.Rounds < 0 {
		return fmt.Errorf("model %q: rounds must not be negative, got %d", m.Name, *m.Rounds)
	}
	for i, s := range m.Stocks {
		if s.Name == "" {
			return fmt.Errorf("model %q: stock #%d has no name", m.Name, i+1)
		}
	}
	for i, f := range m.Flows {
		switch {
		case f.Kind == "":
			return fmt.Errorf("model %q: flow #%d has no kind", m.Name, i+1)
		case f.From == "" || f.To == "":
			return fmt.Errorf("model %q: flow #%d must name both 'from' and 'to'", m.Name, i+1)
		case f.Rate.IsZero():
			return fmt.Errorf("model %q: flow #%d from %q has no rate", m.Name, i+1, f.From)
		}
	}
	return nil
}

func (m *Model) location() string {
	if m.Filename == "" {
		return "<input>"
	}
	return m.Filename
}
