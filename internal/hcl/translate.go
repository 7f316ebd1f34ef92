// This file translates decoded HCL blocks into the format-agnostic models of
// the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
)

func (l *Loader) translateModel(ctx context.Context, b *modelBlock, src []byte) (*config.Model, error) {
	m := &config.Model{Name: b.Name, Rounds: b.Rounds}

	for _, s := range b.Stocks {
		stock, err := l.translateStock(ctx, s, src)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", b.Name, err)
		}
		m.Stocks = append(m.Stocks, stock)
	}

	for _, f := range b.Flows {
		rate, err := decodeFormula(ctx, f.Rate, src, "rate")
		if err != nil {
			return nil, fmt.Errorf("model %q: flow %q from %q: %w", b.Name, f.Kind, f.From, err)
		}
		m.Flows = append(m.Flows, &config.Flow{Kind: f.Kind, From: f.From, To: f.To, Rate: rate})
	}

	ctxlog.FromContext(ctx).Debug("Translated model block.", "model", m.Name, "stocks", len(m.Stocks), "flows", len(m.Flows))
	return m, nil
}

func (l *Loader) translateStock(ctx context.Context, b *stockBlock, src []byte) (*config.Stock, error) {
	s := &config.Stock{Name: b.Name, Show: b.Show}
	if b.Infinite != nil {
		s.Infinite = *b.Infinite
	}

	var err error
	if s.Initial, err = decodeFormula(ctx, b.Initial, src, "initial"); err != nil {
		return nil, fmt.Errorf("stock %q: %w", b.Name, err)
	}
	if s.Maximum, err = decodeFormula(ctx, b.Maximum, src, "maximum"); err != nil {
		return nil, fmt.Errorf("stock %q: %w", b.Name, err)
	}
	if s.Infinite && !s.Initial.IsZero() {
		return nil, fmt.Errorf("stock %q: 'initial' cannot be combined with 'infinite'", b.Name)
	}
	return s, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// expressions, so a nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}
