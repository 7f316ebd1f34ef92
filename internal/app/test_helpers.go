package app

import (
	"testing"

	"github.com/vk/stockflow/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns the
// app, its result output and its captured debug log.
func SetupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	out := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	testutil.LogOnFailure(t, logBuffer)

	return NewApp(out, logBuffer, appConfig), out, logBuffer
}
