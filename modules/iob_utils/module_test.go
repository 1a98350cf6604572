package iob_utils

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newState(t *testing.T, setupDir string) *descriptor.State {
	t.Helper()
	base := &descriptor.Descriptor{Name: Name, Version: "V0.10"}
	override := &descriptor.Descriptor{Name: Name, Version: "V0.10", SetupDir: setupDir}
	st := descriptor.NewState(override, []*descriptor.Descriptor{base, override})
	st.BuildDir = t.TempDir()
	return st
}

func TestCopySources_PurgesLowerPurposesOnHardware(t *testing.T) {
	// --- Arrange ---
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, Header), []byte("`define IOB_MAX(a,b) ((a)>(b)?(a):(b))\n"), 0o644))
	st := newState(t, src)
	ctx := testContext()

	at := func(p descriptor.Purpose) string {
		dir, err := p.Dir()
		require.NoError(t, err)
		return filepath.Join(st.BuildDir, dir, Header)
	}

	// --- Act ---
	for _, p := range []descriptor.Purpose{descriptor.PurposeSimulation, descriptor.PurposeEmbedded, descriptor.PurposeHardware} {
		st.Purposes = append(st.Purposes, p)
		require.NoError(t, CopySources(ctx, st))
	}

	// --- Assert ---
	assert.FileExists(t, at(descriptor.PurposeHardware))
	assert.FileExists(t, at(descriptor.PurposeEmbedded), "the software copy is kept")
	assert.NoFileExists(t, at(descriptor.PurposeSimulation))
}

func TestCopySources_SinglePurpose(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, Header), []byte("x"), 0o644))
	st := newState(t, src)
	st.Purposes = []descriptor.Purpose{descriptor.PurposeFPGA}

	require.NoError(t, CopySources(testContext(), st))

	data, err := os.ReadFile(filepath.Join(st.BuildDir, descriptor.DirFPGASrc, Header))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCopySources_NoSetupDir(t *testing.T) {
	st := descriptor.NewState(&descriptor.Descriptor{Name: Name}, []*descriptor.Descriptor{{Name: Name}})
	st.BuildDir = t.TempDir()
	st.Purposes = []descriptor.Purpose{descriptor.PurposeHardware}

	require.NoError(t, CopySources(testContext(), st))

	entries, err := os.ReadDir(st.BuildDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	_, ok := r.Descriptor(Name)
	require.True(t, ok)
	assert.NotNil(t, r.Behaviour(Name).CopySources)
}
