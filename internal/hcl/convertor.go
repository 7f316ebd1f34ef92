package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeFormula turns a formula attribute into a config.Formula. Constant
// numbers and strings are evaluated; any other expression is kept as source
// text. An omitted attribute yields the zero Formula.
func decodeFormula(ctx context.Context, expr hcl.Expression, src []byte, attrName string) (config.Formula, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return config.Formula{}, nil
	}

	switch expr.(type) {
	case *hclsyntax.LiteralValueExpr, *hclsyntax.TemplateExpr, *hclsyntax.UnaryOpExpr:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return config.Formula{}, fmt.Errorf("attribute %q: %w", attrName, diags)
		}
		return formulaFromValue(ctx, val, attrName)
	}

	text := strings.TrimSpace(string(expr.Range().SliceBytes(src)))
	ctxlog.FromContext(ctx).Debug("Using expression source as formula.", "attribute", attrName, "source", text)
	return config.Expr(text), nil
}

// formulaFromValue accepts numbers and strings. Strings that parse as a
// float (including "inf") become literals.
func formulaFromValue(ctx context.Context, val cty.Value, attrName string) (config.Formula, error) {
	if val.IsNull() || !val.IsWhollyKnown() {
		return config.Formula{}, fmt.Errorf("attribute %q must have a known, non-null value", attrName)
	}

	switch val.Type() {
	case cty.Number:
		var n float64
		if err := decode(ctx, val, &n); err != nil {
			return config.Formula{}, fmt.Errorf("attribute %q: %w", attrName, err)
		}
		return config.Number(n), nil
	case cty.String:
		var s string
		if err := decode(ctx, val, &s); err != nil {
			return config.Formula{}, fmt.Errorf("attribute %q: %w", attrName, err)
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return config.Number(n), nil
		}
		return config.Expr(s), nil
	}
	return config.Formula{}, fmt.Errorf("attribute %q must be a number or a formula string, got %s", attrName, val.Type().FriendlyName())
}

// decode handles the conversion and decoding of a cty.Value into a Go pointer.
func decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", valPtr.Elem().Type().String(), "error", err)
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// toCtyValue converts a native Go value into its corresponding cty.Value.
func toCtyValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
