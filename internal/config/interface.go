package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific model loader.
type Loader interface {
	// Load reads every model defined under the given paths. A path may be a
	// single file or a directory that is scanned recursively.
	Load(ctx context.Context, paths ...string) ([]*Model, error)
}

// Encoder writes models back out in a specific file format.
type Encoder interface {
	Encode(ctx context.Context, w io.Writer, models ...*Model) error
}
