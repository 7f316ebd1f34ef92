package toml

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/fsutil"
)

// Extension is the file extension handled by this package.
const Extension = ".toml"

type fileRoot struct {
	Model []modelTable `toml:"model"`
}

type modelTable struct {
	Name   string       `toml:"name"`
	Rounds *int         `toml:"rounds"`
	Stock  []stockTable `toml:"stock"`
	Flow   []flowTable  `toml:"flow"`
}

type stockTable struct {
	Name     string `toml:"name"`
	Infinite bool   `toml:"infinite"`
	Show     *bool  `toml:"show"`
	Initial  any    `toml:"initial"`
	Maximum  any    `toml:"maximum"`
}

type flowTable struct {
	Kind string `toml:"kind"`
	From string `toml:"from"`
	To   string `toml:"to"`
	Rate any    `toml:"rate"`
}

// Loader implements config.Loader for TOML files.
type Loader struct{}

// NewLoader creates a new TOML model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .toml file under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.ExpandPaths(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered TOML files.", "count", len(files))

	var models []*config.Model
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		found, err := l.LoadBytes(ctx, data, file)
		if err != nil {
			return nil, err
		}
		models = append(models, found...)
	}
	return models, nil
}

// LoadBytes decodes TOML source held in memory.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, filename string) ([]*config.Model, error) {
	var root fileRoot
	md, err := toml.Decode(string(data), &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %s: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("TOML file %s: unknown keys: %s", filename, strings.Join(keys, ", "))
	}

	models := make([]*config.Model, 0, len(root.Model))
	for i, mt := range root.Model {
		m, err := translateModel(mt)
		if err != nil {
			return nil, fmt.Errorf("TOML file %s: model #%d: %w", filename, i+1, err)
		}
		m.Filename = filename
		models = append(models, m)
	}
	ctxlog.FromContext(ctx).Debug("Decoded TOML file.", "path", filename, "models", len(models))
	return models, nil
}

func translateModel(mt modelTable) (*config.Model, error) {
	m := &config.Model{Name: mt.Name, Rounds: mt.Rounds}
	for _, st := range mt.Stock {
		initial, err := formulaFromValue(st.Initial)
		if err != nil {
			return nil, fmt.Errorf("stock %q: initial: %w", st.Name, err)
		}
		maximum, err := formulaFromValue(st.Maximum)
		if err != nil {
			return nil, fmt.Errorf("stock %q: maximum: %w", st.Name, err)
		}
		if st.Infinite && !initial.IsZero() {
			return nil, fmt.Errorf("stock %q: 'initial' cannot be combined with 'infinite'", st.Name)
		}
		m.Stocks = append(m.Stocks, &config.Stock{
			Name:     st.Name,
			Infinite: st.Infinite,
			Initial:  initial,
			Maximum:  maximum,
			Show:     st.Show,
		})
	}
	for _, ft := range mt.Flow {
		rate, err := formulaFromValue(ft.Rate)
		if err != nil {
			return nil, fmt.Errorf("flow %q from %q: rate: %w", ft.Kind, ft.From, err)
		}
		m.Flows = append(m.Flows, &config.Flow{Kind: ft.Kind, From: ft.From, To: ft.To, Rate: rate})
	}
	return m, nil
}

func formulaFromValue(v any) (config.Formula, error) {
	switch x := v.(type) {
	case nil:
		return config.Formula{}, nil
	case int64:
		return config.Number(float64(x)), nil
	case float64:
		return config.Number(x), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return config.Number(n), nil
		}
		return config.Expr(s), nil
	}
	return config.Formula{}, fmt.Errorf("must be a number or a formula string, got %T", v)
}
