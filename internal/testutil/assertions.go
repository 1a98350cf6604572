package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertModuleSetUp checks the log output within a HarnessResult to confirm
// that a descriptor was set up for the given purpose.
func AssertModuleSetUp(t *testing.T, result *HarnessResult, name, purpose string) {
	t.Helper()

	expected := fmt.Sprintf("descriptor=%s purpose=%s top=", name, purpose)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected setup of '%s' for %s was not found in logs", name, purpose,
	)
}

// ReadBuildFile returns the content of a file in the build directory.
func ReadBuildFile(t *testing.T, result *HarnessResult, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(result.BuildDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
