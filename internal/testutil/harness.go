package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/app"
	"github.com/specialistvlad/ipforge/internal/hcl"
	"github.com/specialistvlad/ipforge/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	// Root is the temporary directory the files were written to.
	Root string
	// BuildDir is where the top descriptor was built.
	BuildDir string
}

// NewTestApp writes files (paths relative to a temporary root, typically
// "lib/<name>/<name>.hcl") and creates an App whose only library path is
// root/lib and whose build directory is root/build. Without modules, the
// built-in modules are registered.
func NewTestApp(t *testing.T, files map[string]string, modules ...registry.Module) (*HarnessResult, *SafeBuffer) {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		LibraryPaths: []string{filepath.Join(root, "lib")},
		BuildDir:     filepath.Join(root, "build"),
		LogLevel:     "debug",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp, err := app.NewApp(context.Background(), logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("IPFORGE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
		Root:      root,
	}, logBuffer
}

// RunIntegrationTest loads files into a test app and builds top. A load
// error is reported in the result like a build error.
func RunIntegrationTest(t *testing.T, files map[string]string, top string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, top, modules...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, top string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	result, logs := NewTestApp(t, files, modules...)
	if result.Err != nil {
		return result
	}
	result.BuildDir, result.Err = result.App.Setup(ctx, top)
	result.LogOutput = logs.String()
	return result
}
