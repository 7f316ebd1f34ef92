package builder

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/engine"
	"github.com/vk/stockflow/internal/formula"
)

// Build constructs a validated engine model from a config model.
func Build(ctx context.Context, cfg *config.Model) (*engine.Model, error) {
	logger := ctxlog.FromContext(ctx).With("model", cfg.Name)
	logger.Debug("Build: Starting model construction.")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := engine.NewModel(cfg.Name)

	for _, s := range cfg.Stocks {
		if err := addStock(m, s); err != nil {
			return nil, fmt.Errorf("model %q: stock %q: %w", cfg.Name, s.Name, err)
		}
	}
	logger.Debug("Build: Stock creation complete.", "stock_count", len(cfg.Stocks))

	for i, f := range cfg.Flows {
		if err := addFlow(m, f); err != nil {
			return nil, fmt.Errorf("model %q: flow #%d (%s -> %s): %w", cfg.Name, i+1, f.From, f.To, err)
		}
	}
	logger.Debug("Build: Flow linking complete.", "flow_count", len(cfg.Flows))

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model %q: %w", cfg.Name, err)
	}
	logger.Debug("Build: Reference validation passed.")

	return m, nil
}

func addStock(m *engine.Model, s *config.Stock) error {
	var opts []engine.StockOption
	if s.Infinite {
		opts = append(opts, engine.WithInitial(formula.Literal(math.Inf(1))))
	} else if !s.Initial.IsZero() {
		f, err := buildFormula(s.Initial)
		if err != nil {
			return fmt.Errorf("initial: %w", err)
		}
		opts = append(opts, engine.WithInitial(f))
	}
	if !s.Maximum.IsZero() {
		f, err := buildFormula(s.Maximum)
		if err != nil {
			return fmt.Errorf("maximum: %w", err)
		}
		opts = append(opts, engine.WithMaximum(f))
	}
	if !s.Visible() {
		opts = append(opts, engine.Hidden())
	}

	_, err := m.NewStock(s.Name, opts...)
	return err
}

func addFlow(m *engine.Model, f *config.Flow) error {
	kind, err := engine.ParseRateKind(f.Kind)
	if err != nil {
		return err
	}
	src, ok := m.Stock(f.From)
	if !ok {
		return fmt.Errorf("%w: 'from' names %q", engine.ErrUnknownStock, f.From)
	}
	dst, ok := m.Stock(f.To)
	if !ok {
		return fmt.Errorf("%w: 'to' names %q", engine.ErrUnknownStock, f.To)
	}
	rate, err := buildFormula(f.Rate)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}

	_, err = m.AddFlow(src, dst, engine.Rate{Kind: kind, Formula: rate})
	return err
}

// buildFormula parses source formulas and wraps literal numbers.
func buildFormula(f config.Formula) (*formula.Formula, error) {
	if f.Literal != nil {
		return formula.Literal(*f.Literal), nil
	}
	return formula.Parse(f.Source)
}

// BuildAll builds every model, stopping at the first failure.
func BuildAll(ctx context.Context, cfgs []*config.Model) ([]*engine.Model, error) {
	models := make([]*engine.Model, 0, len(cfgs))
	for _, cfg := range cfgs {
		m, err := Build(ctx, cfg)
		if err != nil {
			if cfg.Filename != "" {
				return nil, fmt.Errorf("%s: %w", cfg.Filename, err)
			}
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}
