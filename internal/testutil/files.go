// Package testutil holds helpers shared by the package tests: a thread-safe
// output buffer and a way to lay out model files on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// WriteFiles lays out files in a fresh temporary directory and returns it.
// Keys are slash-separated paths relative to that directory, so
// "nested/b.toml" creates the nested folder.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, filepath.FromSlash(name), content)
	}
	return dir
}

// LogOnFailure dumps captured logs at the end of the test when the test fails
// or when STOCKFLOW_TEST_LOGS=true.
func LogOnFailure(t *testing.T, logs *SafeBuffer) {
	t.Helper()

	t.Cleanup(func() {
		if t.Failed() || os.Getenv("STOCKFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
}
