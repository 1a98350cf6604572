package systemgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func port(name string) descriptor.Entry {
	return descriptor.NewEntry(name, descriptor.Attrs{"type": descriptor.Str("I"), "n_bits": descriptor.Str("1")})
}

func TestSplice_SingleInstance(t *testing.T) {
	// --- Arrange ---
	tmpl := "module top(\n);\nendmodule\n"
	sys := System{
		Name: "top",
		Instances: []descriptor.Instance{
			{Type: "T", Name: "u0", Connections: map[string]string{"data": "w"}},
		},
		Peripherals: map[string]Peripheral{"T": {Top: "T", Ports: []descriptor.Entry{port("data")}}},
	}

	// --- Act ---
	out, err := Splice(tmpl, sys)

	// --- Assert ---
	require.NoError(t, err)
	want := strings.Join([]string{
		"module top(",
		");",
		"",
		"   // u0",
		"",
		"   T",
		"   u0 (",
		"      .data(w)",
		"      );",
		"endmodule",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("spliced output mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, strings.Count(out, "   u0 ("))
}

func TestSplice_FullSystem(t *testing.T) {
	// --- Arrange ---
	tmpl := strings.Join([]string{
		"`include \"iob_soc_conf.vh\"",
		"//PHEADER",
		"module iob_soc (",
		"   input clk_i",
		");",
		"endmodule",
	}, "\n")
	uart := Peripheral{Top: "iob_uart", Ports: []descriptor.Entry{
		port("clk_i"), port("txd_o"), port("rxd_i"), port("iob_valid_i"), port("iob_addr_i"),
	}}
	sys := System{
		Name: "iob_soc",
		Instances: []descriptor.Instance{
			{
				Type:        "iob_uart",
				Name:        "UART0",
				Params:      []descriptor.Param{{Name: "DATA_W", Value: "32"}, {Name: "BAUD", Value: "115200"}},
				Connections: map[string]string{"txd_o": "{uart_txd_o, tx_dbg}", "rxd_i": "uart_rxd_i"},
			},
			{
				Type:        "iob_uart",
				Name:        "UART1",
				Connections: map[string]string{"txd_o": "txd1", "rxd_i": "rxd1"},
			},
		},
		Wires:       []descriptor.Wire{{Name: "tx_dbg", Width: "1"}, {Name: "bus", Width: "`DATA_W"}},
		Peripherals: map[string]Peripheral{"iob_uart": uart},
	}

	// --- Act ---
	out, err := Splice(tmpl, sys)

	// --- Assert ---
	require.NoError(t, err)
	want := strings.Join([]string{
		"`include \"iob_soc_conf.vh\"",
		"//PHEADER",
		"`include \"iob_uart_swreg_def.vh\"",
		"module iob_soc (",
		"   input clk_i",
		");",
		"    // Module internal wires",
		"    wire [1-1:0] tx_dbg;",
		"    wire [`DATA_W-1:0] bus;",
		"",
		"   // UART0",
		"",
		"   iob_uart",
		"     #(",
		"      .DATA_W(32),",
		"      .BAUD(115200)",
		"   )",
		"   UART0 (",
		"      .txd_o({uart_txd_o, tx_dbg}),",
		"      .rxd_i(uart_rxd_i),",
		"      .clk_i(clk_i),",
		"      .iob_valid_i(slaves_req[`VALID(`IOB_SOC_UART0)]),",
		"      .iob_addr_i(slaves_req[`ADDRESS(`IOB_SOC_UART0,`IOB_UART_SWREG_ADDR_W)])",
		"      );",
		"",
		"   // UART1",
		"",
		"   iob_uart",
		"   UART1 (",
		"      .txd_o(txd1),",
		"      .rxd_i(rxd1),",
		"      .clk_i(clk_i),",
		"      .iob_valid_i(slaves_req[`VALID(`IOB_SOC_UART1)]),",
		"      .iob_addr_i(slaves_req[`ADDRESS(`IOB_SOC_UART1,`IOB_UART_SWREG_ADDR_W)])",
		"      );",
		"endmodule",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("spliced output mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_Errors(t *testing.T) {
	periph := map[string]Peripheral{"T": {Top: "T", Ports: []descriptor.Entry{port("data")}}}

	testCases := []struct {
		name    string
		tmpl    string
		sys     System
		wantMsg string
	}{
		{
			name:    "no endmodule",
			tmpl:    "module top(\n);\n",
			sys:     System{Name: "top"},
			wantMsg: "endmodule",
		},
		{
			name:    "wires without port list end",
			tmpl:    "module top;\nendmodule\n",
			sys:     System{Name: "top", Wires: []descriptor.Wire{{Name: "w", Width: "1"}}},
			wantMsg: "wires",
		},
		{
			name: "missing connection",
			tmpl: "module top(\n);\nendmodule\n",
			sys: System{Name: "top", Peripherals: periph, Instances: []descriptor.Instance{
				{Type: "T", Name: "u0"},
			}},
			wantMsg: "does not connect port 'data'",
		},
		{
			name: "unknown port",
			tmpl: "module top(\n);\nendmodule\n",
			sys: System{Name: "top", Peripherals: periph, Instances: []descriptor.Instance{
				{Type: "T", Name: "u0", Connections: map[string]string{"data": "w", "extra": "x"}},
			}},
			wantMsg: "unknown port 'extra'",
		},
		{
			name: "invalid expression",
			tmpl: "module top(\n);\nendmodule\n",
			sys: System{Name: "top", Peripherals: periph, Instances: []descriptor.Instance{
				{Type: "T", Name: "u0", Connections: map[string]string{"data": "{w,"}},
			}},
			wantMsg: "port 'data'",
		},
		{
			name: "unknown type",
			tmpl: "module top(\n);\nendmodule\n",
			sys: System{Name: "top", Instances: []descriptor.Instance{
				{Type: "X", Name: "u0"},
			}},
			wantMsg: "unknown type 'X'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Splice(tc.tmpl, tc.sys)

			var cfgErr *descriptor.ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %v", err)
			assert.Equal(t, "top", cfgErr.Descriptor)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestSplice_NoHeaderAnchorSkipsIncludes(t *testing.T) {
	sys := System{
		Name:        "top",
		Instances:   []descriptor.Instance{{Type: "T", Name: "u0", Connections: map[string]string{"data": "w"}}},
		Peripherals: map[string]Peripheral{"T": {Top: "T", Ports: []descriptor.Entry{port("data")}}},
	}

	out, err := Splice("module top(\n);\nendmodule\n", sys)

	require.NoError(t, err)
	assert.NotContains(t, out, "`include")
}

func TestGenerate(t *testing.T) {
	t.Run("missing template is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		outPath := filepath.Join(dir, "out", "top.v")

		written, err := Generate(testContext(), filepath.Join(dir, "top.vt"), outPath, System{Name: "top"})

		require.NoError(t, err)
		assert.False(t, written)
		assert.NoFileExists(t, outPath)
	})

	t.Run("writes the spliced template", func(t *testing.T) {
		// --- Arrange ---
		setupDir := t.TempDir()
		tmplPath := TemplatePath(setupDir, "top")
		require.NoError(t, os.MkdirAll(filepath.Dir(tmplPath), 0o755))
		require.NoError(t, os.WriteFile(tmplPath, []byte("module top(\n);\nendmodule\n"), 0o644))
		outPath := filepath.Join(t.TempDir(), "hardware", "src", "top.v")

		// --- Act ---
		written, err := Generate(testContext(), tmplPath, outPath, System{Name: "top"})

		// --- Assert ---
		require.NoError(t, err)
		assert.True(t, written)
		got, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Equal(t, "module top(\n);\nendmodule\n", string(got))
	})
}

func TestLoadPeripherals(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "peripherals.yaml")
	content := `
- type: iob_uart
  name: UART0
  description: console
  params:
    ZETA: 1
    ALPHA: 2
  connections:
    txd_o: uart_txd_o
- type: iob_timer
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// --- Act ---
	got, err := LoadPeripherals(path)

	// --- Assert ---
	require.NoError(t, err)
	want := []descriptor.Instance{
		{
			Type:        "iob_uart",
			Name:        "UART0",
			Description: "console",
			Params:      []descriptor.Param{{Name: "ZETA", Value: "1"}, {Name: "ALPHA", Value: "2"}},
			Connections: map[string]string{"txd_o": "uart_txd_o"},
		},
		{Type: "iob_timer", Name: "iob_timer_0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("peripherals mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPeripherals_Errors(t *testing.T) {
	testCases := map[string]string{
		"missing type":     "- name: UART0\n",
		"params not a map": "- type: iob_uart\n  params: [1, 2]\n",
		"nested param":     "- type: iob_uart\n  params:\n    A: {b: 1}\n",
		"not a list":       "type: iob_uart\n",
	}
	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "p.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := LoadPeripherals(path)
			assert.Error(t, err)
		})
	}
}
