package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/stockflow/internal/builder"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/engine"
	"github.com/vk/stockflow/internal/render"
	"github.com/vk/stockflow/internal/style"
	"golang.org/x/sync/errgroup"
)

// Run builds and simulates every model, then renders the results in input
// order. Models run concurrently, bounded by the configured worker count, and
// the first failure cancels the rest.
func (a *App) Run(ctx context.Context, cfgs []*config.Model) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "models", len(cfgs), "workers", a.config.WorkerCount)

	models, err := builder.BuildAll(ctx, cfgs)
	if err != nil {
		return err
	}

	results := make([]render.Result, len(models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, m := range models {
		rounds := a.rounds(cfgs[i])
		g.Go(func() error {
			snapshots, err := a.simulate(gctx, m, rounds)
			if err != nil {
				return fmt.Errorf("model %q: %w", m.Name, err)
			}
			results[i] = render.NewResult(m, snapshots)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(a.outW, "\n"); err != nil {
				return err
			}
		}
		if err := render.Write(a.outW, r, a.config.Format, a.renderOptions()); err != nil {
			return fmt.Errorf("rendering %q: %w", r.Name, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) simulate(ctx context.Context, m *engine.Model, rounds int) ([]engine.Snapshot, error) {
	ctx = ctxlog.With(ctx, "model", m.Name)
	logger := ctxlog.FromContext(ctx)
	warnOrdering(ctx, m)

	logger.Debug("Starting simulation.", "rounds", rounds, "stocks", len(m.Stocks()), "flows", len(m.Flows()))
	snapshots, err := m.RunContext(ctx, rounds)
	if err != nil {
		return nil, err
	}
	logger.Info("Simulation finished.", "rounds", rounds, "snapshots", len(snapshots))
	return snapshots, nil
}

func warnOrdering(ctx context.Context, m *engine.Model) {
	logger := ctxlog.FromContext(ctx)
	for _, w := range m.OrderingWarnings() {
		logger.Warn("Flow reads destination headroom before it is drained this round.",
			"flow", w.Flow.String(),
			"drained_by", w.Drain.String(),
		)
	}
}

// rounds resolves the round count: command line, then model file, then the
// default.
func (a *App) rounds(cfg *config.Model) int {
	if a.config.Rounds != nil {
		return *a.config.Rounds
	}
	if cfg.Rounds != nil {
		return *cfg.Rounds
	}
	return DefaultRounds
}

func (a *App) renderOptions() render.Options {
	return render.Options{
		Separator: a.config.Separator,
		Pad:       a.config.Pad,
		Renderer:  a.renderer,
	}
}

// Validate builds every model without running it. One line per valid model
// is written to the output, followed by any ordering warnings.
func (a *App) Validate(ctx context.Context, cfgs []*config.Model) error {
	ctx = a.context(ctx)
	models, err := builder.BuildAll(ctx, cfgs)
	if err != nil {
		return err
	}
	styles := style.NewStyles(a.renderer)
	for i, m := range models {
		if _, err := fmt.Fprintf(a.outW, "%s: model %q is valid (%d stocks, %d flows)\n",
			location(cfgs[i]), m.Name, len(m.Stocks()), len(m.Flows())); err != nil {
			return err
		}
		for _, w := range m.OrderingWarnings() {
			if _, err := fmt.Fprintln(a.outW, styles.Warning.Render("  warning: "+w.String())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Convert writes the models as HCL after checking that they build.
func (a *App) Convert(ctx context.Context, cfgs []*config.Model) error {
	ctx = a.context(ctx)
	if _, err := builder.BuildAll(ctx, cfgs); err != nil {
		return err
	}
	return a.encoder.Encode(ctx, a.outW, cfgs...)
}

func location(cfg *config.Model) string {
	if cfg.Filename == "" {
		return "<input>"
	}
	return cfg.Filename
}
