package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a token in a formula stream.
type Kind int

const (
	Operator Kind = iota
	Integer
	Decimal
	Reference
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Operator:
		return "OPERATOR"
	case Integer:
		return "INTEGER"
	case Decimal:
		return "DECIMAL"
	case Reference:
		return "REFERENCE"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsOperand reports whether tokens of this kind produce a value.
func (k Kind) IsOperand() bool {
	return k == Integer || k == Decimal || k == Reference
}

// Token is a single (kind, raw text) pair. For references Text is the stock
// name without any quoting.
type Token struct {
	Kind Kind
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Kind, t.Text)
}

// Stream is an ordered sequence of tokens.
type Stream []Token

// References returns the text of every reference token, in order.
func (s Stream) References() []string {
	var refs []string
	for _, t := range s {
		if t.Kind == Reference {
			refs = append(refs, t.Text)
		}
	}
	return refs
}

// PrettyPrint renders a stream back into readable formula text. References
// that are not plain identifiers are quoted, with "${" and "%{" doubled, so
// the output tokenizes back into the same stream.
func PrettyPrint(s Stream) string {
	parts := make([]string, 0, len(s))
	for _, t := range s {
		if t.Kind == Reference && !isIdentifier(t.Text) {
			parts = append(parts, quote(t.Text))
			continue
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func quote(name string) string {
	return templateEscaper.Replace(strconv.Quote(name))
}
