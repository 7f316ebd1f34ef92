package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ErrUnexpectedToken is returned when formula source contains something other
// than numbers, references and the four arithmetic operators.
var ErrUnexpectedToken = errors.New("unexpected token in formula")

// Tokenize scans formula source text into a Stream. It does not check that
// operators and operands alternate; that is the formula's job.
func Tokenize(src string) (Stream, error) {
	raw, diags := hclsyntax.LexExpression([]byte(src), "formula", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to scan formula %q: %w", src, diags)
	}

	var out Stream
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		switch tok.Type {
		case hclsyntax.TokenNewline, hclsyntax.TokenComment, hclsyntax.TokenEOF:
			continue
		case hclsyntax.TokenPlus, hclsyntax.TokenMinus, hclsyntax.TokenStar, hclsyntax.TokenSlash:
			out = append(out, Token{Kind: Operator, Text: string(tok.Bytes)})
		case hclsyntax.TokenNumberLit:
			out = append(out, Token{Kind: numberKind(tok.Bytes), Text: string(tok.Bytes)})
		case hclsyntax.TokenIdent:
			out = append(out, Token{Kind: Reference, Text: string(tok.Bytes)})
		case hclsyntax.TokenOQuote:
			name, next, err := quotedReference(raw, i)
			if err != nil {
				return nil, fmt.Errorf("formula %q: %w", src, err)
			}
			out = append(out, Token{Kind: Reference, Text: name})
			i = next
		default:
			return nil, fmt.Errorf("%w %q at column %d in %q", ErrUnexpectedToken, tok.Bytes, tok.Range.Start.Column, src)
		}
	}
	return out, nil
}

// quotedReference consumes an open quote, the literal parts and a close quote
// starting at raw[start]. The scanner splits literals at '$' and '%', so the
// parts are joined. Template sequences are rejected; escapes are decoded.
// It returns the name and the index of the close quote.
func quotedReference(raw hclsyntax.Tokens, start int) (string, int, error) {
	var lit []byte
	i := start + 1
	for ; i < len(raw) && raw[i].Type == hclsyntax.TokenQuotedLit; i++ {
		lit = append(lit, raw[i].Bytes...)
	}
	if i >= len(raw) || raw[i].Type != hclsyntax.TokenCQuote || len(lit) == 0 {
		return "", 0, fmt.Errorf("%w: quoted references must be a plain name without template sequences", ErrUnexpectedToken)
	}
	name, err := strconv.Unquote(`"` + templateUnescaper.Replace(string(lit)) + `"`)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid escape sequence in reference %q", ErrUnexpectedToken, lit)
	}
	return name, i, nil
}

var (
	templateEscaper   = strings.NewReplacer("${", "$${", "%{", "%%{")
	templateUnescaper = strings.NewReplacer("$${", "${", "%%{", "%{")
)

func numberKind(b []byte) Kind {
	if strings.ContainsAny(string(b), ".eE") {
		return Decimal
	}
	return Integer
}

// isIdentifier mirrors HCL's identifier rule closely enough for printing:
// a letter or underscore followed by letters, digits, underscores or dashes.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
