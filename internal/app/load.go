package app

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/examples"
	"github.com/vk/stockflow/internal/fsutil"
)

// Load reads every model under the configured paths. Files are dispatched to
// a loader by extension; directories are scanned for all known extensions.
func (a *App) Load(ctx context.Context) ([]*config.Model, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading models...", "paths", a.config.ModelPaths)

	if len(a.config.ModelPaths) == 0 {
		return nil, fmt.Errorf("no model paths given")
	}

	files, err := fsutil.ExpandPaths(a.config.ModelPaths, a.extensions()...)
	if err != nil {
		return nil, err
	}

	var models []*config.Model
	for _, file := range files {
		loader, err := a.loaderFor(file)
		if err != nil {
			return nil, err
		}
		found, err := loader.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		models = append(models, found...)
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("no models found in %s", strings.Join(a.config.ModelPaths, ", "))
	}
	logger.Info("Models loaded.", "files", len(files), "models", len(models))
	return models, nil
}

// LoadExample reads one of the embedded example files.
func (a *App) LoadExample(ctx context.Context, name string) ([]*config.Model, error) {
	ctx = a.context(ctx)
	data, filename, err := examples.Read(name)
	if err != nil {
		return nil, fmt.Errorf("unknown example %q (available: %s)", name, strings.Join(examples.Names(), ", "))
	}
	loader, err := a.loaderFor(filename)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loading embedded example.", "example", filename)
	return loader.LoadBytes(ctx, data, filename)
}

func (a *App) loaderFor(file string) (sourceLoader, error) {
	ext := strings.ToLower(filepath.Ext(file))
	if loader, ok := a.loaders[ext]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("%s: unsupported model file extension %q (expected one of %s)",
		file, ext, strings.Join(a.extensions(), ", "))
}

func (a *App) extensions() []string {
	return slices.Sorted(maps.Keys(a.loaders))
}
