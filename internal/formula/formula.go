// Package formula implements the flat arithmetic expressions that drive stock
// initial values, stock maximums and flow rates.
//
// A formula is either a literal number or a token stream in which operands and
// operators strictly alternate. Evaluation folds left to right with no operator
// precedence: "10 / 2 - 1" is 4 and "1 + 2 * 3" is 9.
package formula

import (
	"fmt"
	"strconv"

	"github.com/vk/stockflow/internal/token"
)

// Values maps stock names to their current levels.
type Values = map[string]float64

// Formula is immutable once constructed and safe to share between runs.
type Formula struct {
	literal   float64
	isLiteral bool
	tokens    token.Stream
	def       float64
}

// Option configures a Formula at construction time.
type Option func(*Formula)

// WithDefault sets the value Compute returns when a token formula folds to
// zero. The default default is 0.
func WithDefault(v float64) Option {
	return func(f *Formula) {
		f.def = v
	}
}

// Literal returns a formula that always evaluates to v.
func Literal(v float64, opts ...Option) *Formula {
	f := &Formula{literal: v, isLiteral: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New wraps an already tokenized stream and validates it.
func New(stream token.Stream, opts ...Option) (*Formula, error) {
	f := &Formula{tokens: append(token.Stream(nil), stream...)}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse tokenizes src and validates the result.
func Parse(src string, opts ...Option) (*Formula, error) {
	stream, err := token.Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormula, err)
	}
	return New(stream, opts...)
}

// MustParse is Parse for formulas known to be valid, such as those written
// in Go source. It panics on error.
func MustParse(src string, opts ...Option) *Formula {
	f, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// IsLiteral reports whether f is a bare number.
func (f *Formula) IsLiteral() bool {
	return f.isLiteral
}

// Tokens returns a copy of the token stream, or nil for literals.
func (f *Formula) Tokens() token.Stream {
	if f.isLiteral {
		return nil
	}
	return append(token.Stream(nil), f.tokens...)
}

// Default returns the value used when a token formula folds to zero.
func (f *Formula) Default() float64 {
	return f.def
}

// Validate checks that operators and operands alternate, starting and ending
// with an operand. Literal formulas are always valid.
func (f *Formula) Validate() error {
	if f.isLiteral {
		return nil
	}
	if len(f.tokens) == 0 {
		return Invalid(f, "formula is empty. must specify a number or a reference")
	}

	var prev *token.Kind
	for i := range f.tokens {
		kind := f.tokens[i].Kind
		if kind == token.Operator {
			if prev == nil {
				return Invalid(f, "can't start with an operation")
			}
			if *prev == token.Operator {
				return Invalid(f, "operation can't be preceded by an operation")
			}
		} else if prev != nil && *prev != token.Operator {
			return Invalid(f, "must have an operation between values or references")
		}
		prev = &kind
	}
	if *prev == token.Operator {
		return Invalid(f, "formula cannot end with an operation")
	}
	return nil
}

// References returns the stock names the formula reads, in token order and
// with duplicates preserved.
func (f *Formula) References() []string {
	if f.isLiteral {
		return nil
	}
	return f.tokens.References()
}

// Compute evaluates f against values using the formula's own default.
func (f *Formula) Compute(values Values) (float64, error) {
	return f.ComputeWithDefault(values, f.def)
}

// ComputeWithDefault evaluates f against values.
//
// A token formula whose result is exactly zero returns def instead, so a
// formula that legitimately evaluates to 0 cannot be told apart from one that
// produced nothing. Literal formulas are returned as-is, including 0.
func (f *Formula) ComputeWithDefault(values Values, def float64) (float64, error) {
	if f.isLiteral {
		return f.literal, nil
	}

	var (
		acc     float64
		started bool
		op      string
	)
	for _, tok := range f.tokens {
		if tok.Kind == token.Operator {
			op = tok.Text
			continue
		}

		val, err := f.operand(tok, values)
		if err != nil {
			return 0, err
		}

		if !started {
			acc = val
			started = true
			continue
		}
		switch op {
		case "/":
			if val == 0 {
				return 0, fmt.Errorf("formula %s: %w", f, ErrDivisionByZero)
			}
			acc /= val
		case "*":
			acc *= val
		case "+":
			acc += val
		case "-":
			acc -= val
		default:
			return 0, Invalid(f, fmt.Sprintf("unknown operator %q", op))
		}
	}

	if acc == 0 {
		return def, nil
	}
	return acc, nil
}

func (f *Formula) operand(tok token.Token, values Values) (float64, error) {
	switch tok.Kind {
	case token.Integer:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			// Out of int64 range; keep the magnitude as a float.
			return strconv.ParseFloat(tok.Text, 64)
		}
		return float64(n), nil
	case token.Decimal:
		return strconv.ParseFloat(tok.Text, 64)
	case token.Reference:
		v, ok := values[tok.Text]
		if !ok {
			return 0, &ReferenceNotFoundError{Formula: f, Name: tok.Text}
		}
		return v, nil
	}
	return 0, Invalid(f, fmt.Sprintf("unexpected token %s", tok))
}

// String renders the formula for diagnostics, e.g. F(2) or F(a + 2).
func (f *Formula) String() string {
	if f == nil {
		return "F(<nil>)"
	}
	if f.isLiteral {
		return fmt.Sprintf("F(%s)", FormatNumber(f.literal))
	}
	return fmt.Sprintf("F(%s)", token.PrettyPrint(f.tokens))
}

// Source returns formula text that parses back into an equivalent formula.
// Literals render as numbers; infinity renders as "inf" and cannot be parsed.
func (f *Formula) Source() string {
	if f.isLiteral {
		return FormatNumber(f.literal)
	}
	return token.PrettyPrint(f.tokens)
}
