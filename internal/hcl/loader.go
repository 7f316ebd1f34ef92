package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/fsutil"
)

// Extension is the file extension handled by this package.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and returns the models they define,
// in file order and then declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.ExpandPaths(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var models []*config.Model
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		found, err := l.decodeFile(ctx, hclFile, file)
		if err != nil {
			return nil, err
		}
		models = append(models, found...)
	}

	logger.Debug("HCL loading complete.", "models", len(models))
	return models, nil
}

// LoadBytes parses HCL source held in memory. filename is used in
// diagnostics only.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) ([]*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decodeFile(ctx, hclFile, filename)
}

func (l *Loader) decodeFile(ctx context.Context, file *hcl.File, filename string) ([]*config.Model, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	models := make([]*config.Model, 0, len(root.Models))
	for _, block := range root.Models {
		m, err := l.translateModel(ctx, block, file.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		m.Filename = filename
		models = append(models, m)
	}
	return models, nil
}
