package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	dir := WriteFiles(t, map[string]string{
		"a.hcl":         `model "a" {}`,
		"nested/b.toml": "[[model]]\n",
	})

	data, err := os.ReadFile(filepath.Join(dir, "nested", "b.toml"))
	require.NoError(t, err)
	assert.Equal(t, "[[model]]\n", string(data))
	assert.FileExists(t, filepath.Join(dir, "a.hcl"))
}

func TestSafeBufferConcurrentWrites(t *testing.T) {
	var (
		buf SafeBuffer
		wg  sync.WaitGroup
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = buf.Write([]byte("x"))
		}()
	}
	wg.Wait()

	assert.Len(t, buf.String(), 10)
}
