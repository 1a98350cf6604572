package vexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := []string{
		"w",
		"uart_txd_o",
		"cpu.core.pc",
		"data[7:0]",
		"mem[addr][3]",
		"bus[base+:8]",
		"{a, b[1], 2'b01}",
		"{4{1'b0}}",
		"{DATA_W{en}}",
		"`DATA_W",
		"slaves_req[`VALID(`IOB_SOC_UART0)]",
		"slaves_req[`ADDRESS(`IOB_SOC_UART0,`IOB_UART_SWREG_ADDR_W)]",
		"a & ~b",
		"(a | b) ^ c",
		"-1",
		"32'hDEAD_BEEF",
		"sel ? a : b",
		"sel ? a : sel2 ? b : c",
		"mem[sel ? 1 : 0]",
		"cnt >= 4'd3",
		"a <= b",
		"a === b",
		"a !== b",
		"data <<< 2",
		"data >>> shamt",
		"~&bus",
		"2 ** `ADDR_W",
	}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			assert.NoError(t, Validate(expr))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"a,",
		"{a, b",
		"data[7:]",
		"a b",
		"1a",
		"x +",
		"sel ? a",
		"sel ? a :",
		"? a : b",
	}
	for _, expr := range invalid {
		t.Run(expr, func(t *testing.T) {
			assert.Error(t, Validate(expr))
		})
	}
}

func TestSignals(t *testing.T) {
	got, err := Signals("{cpu.rdata[idx], `MACRO(en), 1'b0} & mask")
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu.rdata", "idx", "en", "mask"}, got)

	got, err = Signals("sel ? tx[0] : rx")
	require.NoError(t, err)
	assert.Equal(t, []string{"sel", "tx", "rx"}, got)
}
