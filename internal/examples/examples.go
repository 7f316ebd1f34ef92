// Package examples embeds the example model files shipped with the binary.
package examples

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed *.hcl *.toml
var files embed.FS

// Default is the example run by `stockflow demo` when no name is given.
const Default = "hiring_funnel.hcl"

// Names lists the embedded example files.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Read returns the contents of an embedded example. The extension may be
// omitted when it is unambiguous.
func Read(name string) ([]byte, string, error) {
	if path.Ext(name) == "" {
		for _, n := range Names() {
			if n[:len(n)-len(path.Ext(n))] == name {
				name = n
				break
			}
		}
	}
	data, err := files.ReadFile(name)
	return data, name, err
}
