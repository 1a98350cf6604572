package iob_prio_enc

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/inmemorystore"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/setup"
)

func TestSetup_PullsInReverser(t *testing.T) {
	// --- Arrange ---
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := registry.New()
	(&Module{}).Register(r)
	r.RegisterDescriptor(&descriptor.Descriptor{
		Name:       "iob_soc",
		Version:    "V0.70",
		Submodules: []descriptor.Dependency{{Module: Name, Purpose: descriptor.PurposeSimulation}},
	})
	e := setup.New(r, inmemorystore.New(), nil, nil, setup.Options{BuildDir: filepath.Join(t.TempDir(), "build")})

	// --- Act ---
	err := e.SetupTop(ctx, "iob_soc")

	// --- Assert ---
	require.NoError(t, err)
	purpose, err := e.SetupPurpose(ctx, Reverse)
	require.NoError(t, err)
	assert.Equal(t, descriptor.PurposeSimulation, purpose, "the reverser inherits the purpose of the encoder")
}

func TestCreateSubmodules_AddsOnce(t *testing.T) {
	st := descriptor.NewState(&descriptor.Descriptor{Name: Name}, nil)

	require.NoError(t, CreateSubmodules(context.Background(), st))
	require.NoError(t, CreateSubmodules(context.Background(), st))

	assert.Equal(t, []descriptor.Dependency{{Module: Reverse}}, st.Submodules)
}
