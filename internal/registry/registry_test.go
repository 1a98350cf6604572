package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/ipforge/internal/config"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func chainNames(chain []*descriptor.Descriptor) []string {
	var names []string
	for _, d := range chain {
		names = append(names, d.Name)
	}
	return names
}

func TestRegisterDescriptorPanicsOnDuplicate(t *testing.T) {
	r := New()
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_reg"})

	assert.Panics(t, func() { r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_reg"}) })
}

func TestManifestOverridesBuiltin(t *testing.T) {
	r := New()
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_reg", Version: "V0.10"})

	err := r.PopulateFromModel(&config.Model{Descriptors: []*descriptor.Descriptor{
		{Name: "iob_reg", Version: "V0.20", Source: "lib/iob_reg.hcl"},
	}})
	require.NoError(t, err)

	d, ok := r.Descriptor("iob_reg")
	require.True(t, ok)
	assert.Equal(t, "V0.20", d.Version)
}

func TestDuplicateManifestDeclarationIsConfigError(t *testing.T) {
	r := New()
	require.NoError(t, r.AddManifestDescriptor(&descriptor.Descriptor{Name: "iob_uart", Source: "a.hcl"}))

	err := r.AddManifestDescriptor(&descriptor.Descriptor{Name: "iob_uart", Source: "b.hcl"})

	var cfgErr *descriptor.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "a.hcl")
	assert.Contains(t, err.Error(), "b.hcl")
}

func TestChain(t *testing.T) {
	r := New()
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_base"})
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_uart", Extends: "iob_base"})
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_uart16550", Extends: "iob_uart"})

	chain, err := r.Chain("iob_uart16550")
	require.NoError(t, err)

	want := []string{"iob_base", "iob_uart", "iob_uart16550"}
	if diff := cmp.Diff(want, chainNames(chain)); diff != "" {
		t.Errorf("chain mismatch (-want +got):\n%s", diff)
	}
}

func TestChainErrors(t *testing.T) {
	r := New()
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "a", Extends: "b"})
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "b", Extends: "a"})
	r.RegisterDescriptor(&descriptor.Descriptor{Name: "orphan", Extends: "missing"})

	testCases := []struct {
		name    string
		wantMsg string
	}{
		{"a", "extends cycle"},
		{"orphan", `extends unknown descriptor "missing"`},
		{"nope", "unknown descriptor"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Chain(tc.name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestBehaviourAndFlowHooks(t *testing.T) {
	r := New()
	called := false
	hook := func(ctx context.Context, st *descriptor.State) error { called = true; return nil }

	r.RegisterBehaviour("iob_utils", &Behaviour{CopySources: hook})
	r.RegisterFlowHook("iob_uart", descriptor.FlowSim, hook)

	assert.NotNil(t, r.Behaviour("iob_utils").CopySources)
	assert.Nil(t, r.Behaviour("iob_reg").CopySources, "unknown descriptors get an empty behaviour")

	h, ok := r.FlowHook("iob_uart", descriptor.FlowSim)
	require.True(t, ok)
	require.NoError(t, h(context.Background(), nil))
	assert.True(t, called)

	_, ok = r.FlowHook("iob_uart", descriptor.FlowEmb)
	assert.False(t, ok)

	assert.Panics(t, func() { r.RegisterBehaviour("iob_utils", &Behaviour{}) })
	assert.Panics(t, func() { r.RegisterFlowHook("iob_uart", descriptor.FlowSim, hook) })
}

func TestValidate(t *testing.T) {
	t.Run("valid registry", func(t *testing.T) {
		r := New()
		r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_reg", Version: "V0.10"})
		r.RegisterDescriptor(&descriptor.Descriptor{
			Name:    "iob_uart",
			Version: "V0.10",
			Flows:   descriptor.Flows{descriptor.FlowSim},
			Submodules: []descriptor.Dependency{
				{Module: "iob_reg"},
				{Interface: &descriptor.InterfaceRequest{Interface: "iob_wire"}},
			},
		})
		r.RegisterFlowHook("iob_uart", descriptor.FlowSim, func(context.Context, *descriptor.State) error { return nil })

		assert.NoError(t, r.Validate(testContext()))
	})

	t.Run("reports every problem", func(t *testing.T) {
		r := New()
		r.RegisterDescriptor(&descriptor.Descriptor{
			Name:    "top",
			Version: "one",
			Submodules: []descriptor.Dependency{
				{Module: "ghost"},
				{Interface: &descriptor.InterfaceRequest{Interface: "axi_s_port"}},
				{},
			},
			Instances: []descriptor.Instance{{Type: "phantom", Name: "P0"}},
		})
		r.RegisterBehaviour("missing", &Behaviour{})

		err := r.Validate(testContext())
		require.Error(t, err)

		for _, want := range []string{
			"behaviour registered for unknown descriptor 'missing'",
			"submodule 'ghost' is not a known descriptor",
			"unknown interface 'axi_s_port'",
			"unrecognized submodule entry",
			"instance 'P0' of unknown descriptor 'phantom'",
			`version "one"`,
		} {
			assert.Contains(t, err.Error(), want)
		}
	})
}

func TestNamesSorted(t *testing.T) {
	r := New()
	for _, n := range []string{"c", "a", "b"} {
		r.RegisterDescriptor(&descriptor.Descriptor{Name: n})
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}
