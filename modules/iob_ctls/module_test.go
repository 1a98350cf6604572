package iob_ctls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/setup"
)

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	d, ok := r.Descriptor(setup.CtlsDescriptor)
	require.True(t, ok)
	assert.Empty(t, d.SetupDir, "the built-in declaration contributes no sources")
}
