package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurpose_Dir(t *testing.T) {
	want := map[Purpose]string{
		PurposeHardware:      "hardware/src",
		PurposeSimulation:    "hardware/simulation/src",
		PurposeFPGA:          "hardware/fpga/src",
		PurposeEmbedded:      "software/src",
		PurposeDocumentation: "document/tsrc",
	}
	for _, p := range Purposes {
		dir, err := p.Dir()
		require.NoError(t, err)
		assert.Equal(t, want[p], dir)
	}

	_, err := Purpose("synthesis").Dir()
	assert.Error(t, err)
}

func TestPurpose_Absorbed(t *testing.T) {
	assert.False(t, PurposeSimulation.Absorbed(nil))
	assert.True(t, PurposeSimulation.Absorbed([]Purpose{PurposeSimulation}))
	assert.False(t, PurposeFPGA.Absorbed([]Purpose{PurposeSimulation}))
	assert.True(t, PurposeFPGA.Absorbed([]Purpose{PurposeSimulation, PurposeHardware}), "hardware absorbs every purpose")
}

func TestParseFlowAndPurpose(t *testing.T) {
	f, err := ParseFlow("emb")
	require.NoError(t, err)
	assert.Equal(t, FlowEmb, f)
	_, err = ParseFlow("asic")
	assert.Error(t, err)

	p, err := ParsePurpose("fpga")
	require.NoError(t, err)
	assert.Equal(t, PurposeFPGA, p)
}

func TestState_SetupPurposeBeforeSetup(t *testing.T) {
	st := NewState(&Descriptor{Name: "iob_uart"}, nil)

	_, err := st.SetupPurpose()

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "iob_uart", cfgErr.Descriptor)

	st.Purposes = append(st.Purposes, PurposeSimulation, PurposeHardware)
	p, err := st.SetupPurpose()
	require.NoError(t, err)
	assert.Equal(t, PurposeHardware, p)
}
