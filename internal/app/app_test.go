package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/internal/testutil"
)

const uartManifest = `
descriptor "iob_uart" {
  version   = "V0.10"
  flows     = ["sim"]
  setup_dir = "."

  conf "DATA_W" {
    type  = "P"
    val   = "32"
    min   = "NA"
    max   = "NA"
    descr = "Data width"
  }

  reg_group "uart" {
    descr = "UART registers"
    reg "TXDATA" {
      type   = "W"
      n_bits = 8
      addr   = -1
      descr  = "TX"
    }
  }

  io_group "general" {
    port "clk_i" {
      type   = "I"
      n_bits = "1"
    }
  }

  io_group "rs232" {
    descr = "RS232"
    port "txd_o" {
      type   = "O"
      n_bits = "1"
    }
  }
}
`

const socManifest = `
descriptor "iob_soc" {
  version   = "V0.70"
  setup_dir = "."

  submodule "iob_uart" {}

  wire "uart_txd" {
    n_bits = "1"
  }
}
`

const socTemplate = "//PHEADER\nmodule iob_soc (\n   input clk_i\n);\nendmodule\n"

func uartFiles() map[string]string {
	return map[string]string{
		"lib/iob_uart/iob_uart.hcl":            uartManifest,
		"lib/iob_uart/hardware/src/iob_uart.v": "module iob_uart;\nendmodule\n",
	}
}

func TestApp_SetupFromManifest(t *testing.T) {
	// --- Arrange ---
	files := uartFiles()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, "iob_uart")

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, filepath.Join(result.Root, "build"), result.BuildDir)
	assert.Contains(t, testutil.ReadBuildFile(t, result, "hardware/src/iob_uart_conf.vh"), "`define IOB_UART_VERSION 16'h0010")
	assert.Contains(t, testutil.ReadBuildFile(t, result, "hardware/src/iob_uart.v"), "module iob_uart;")
	testutil.AssertModuleSetUp(t, result, "iob_ctls", "hardware")
}

func TestApp_UnknownTop(t *testing.T) {
	result := testutil.RunIntegrationTest(t, uartFiles(), "iob_missing")

	var cfgErr *descriptor.ConfigError
	require.True(t, errors.As(result.Err, &cfgErr), "got %v", result.Err)
	assert.Equal(t, "iob_missing", cfgErr.Descriptor)
}

func TestApp_DuplicateManifest(t *testing.T) {
	files := uartFiles()
	files["lib/copy/iob_uart.hcl"] = uartManifest

	result, _ := testutil.NewTestApp(t, files)

	var cfgErr *descriptor.ConfigError
	require.True(t, errors.As(result.Err, &cfgErr), "got %v", result.Err)
}

func TestApp_ManifestOverridesBuiltin(t *testing.T) {
	files := map[string]string{
		"lib/iob_utils/iob_utils.hcl": `descriptor "iob_utils" {
  version   = "V0.20"
  setup_dir = "."
}
`,
		"lib/iob_utils/iob_utils.vh": "`define IOB_UTILS\n",
	}

	result := testutil.RunIntegrationTest(t, files, "iob_utils")

	require.NoError(t, result.Err)
	d, ok := result.App.Registry().Descriptor("iob_utils")
	require.True(t, ok)
	assert.Equal(t, "V0.20", d.Version)
	assert.Equal(t, "`define IOB_UTILS\n", testutil.ReadBuildFile(t, result, "hardware/src/iob_utils.vh"),
		"the built-in copy hook runs on the manifest's sources")
}

func TestApp_NoOpModuleDropsBuiltins(t *testing.T) {
	result := testutil.RunIntegrationTest(t, uartFiles(), "iob_uart", &testutil.NoOpModule{})

	// iob_uart declares registers, which need the built-in control module.
	var cfgErr *descriptor.ConfigError
	require.True(t, errors.As(result.Err, &cfgErr), "got %v", result.Err)
}

func TestApp_InlineModule(t *testing.T) {
	var called bool
	mod := testutil.ModuleFunc(func(r *registry.Registry) {
		r.RegisterDescriptor(&descriptor.Descriptor{Name: "iob_ctls", Version: "V0.10"})
		r.RegisterBehaviour("iob_uart", &registry.Behaviour{
			SetupConfs: func(ctx context.Context, st *descriptor.State) error {
				called = true
				return nil
			},
		})
	})

	result := testutil.RunIntegrationTest(t, uartFiles(), "iob_uart", mod)

	require.NoError(t, result.Err)
	assert.True(t, called)
}

func TestApp_System(t *testing.T) {
	// --- Arrange ---
	files := uartFiles()
	files["lib/iob_soc/iob_soc.hcl"] = socManifest
	files["lib/iob_soc/hardware/src/iob_soc.vt"] = socTemplate
	files["peripherals.yaml"] = `
- type: iob_uart
  name: UART0
  description: console
  params: {DATA_W: 32}
  connections: {txd_o: uart_txd}
`
	result, _ := testutil.NewTestApp(t, files)
	require.NoError(t, result.Err)

	// --- Act ---
	path, err := result.App.System(context.Background(), "iob_soc", filepath.Join(result.Root, "peripherals.yaml"), "")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(result.Root, "build", "hardware", "src", "iob_soc.v"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "   // console\n")
	assert.Contains(t, out, "      .DATA_W(32)")
	assert.Contains(t, out, "      .txd_o(uart_txd),\n      .clk_i(clk_i)\n      );")
}

func TestApp_SystemWithoutTemplate(t *testing.T) {
	files := uartFiles()
	files["peripherals.yaml"] = "- type: iob_uart\n  connections: {txd_o: x}\n"
	result, _ := testutil.NewTestApp(t, files)
	require.NoError(t, result.Err)

	_, err := result.App.System(context.Background(), "iob_uart", filepath.Join(result.Root, "peripherals.yaml"), "")

	var cfgErr *descriptor.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestApp_WatchRebuildsOnChange(t *testing.T) {
	// --- Arrange ---
	result, _ := testutil.NewTestApp(t, uartFiles())
	require.NoError(t, result.Err)
	src := filepath.Join(result.Root, "lib", "iob_uart", "hardware", "src", "iob_uart.v")
	built := filepath.Join(result.Root, "build", "hardware", "src", "iob_uart.v")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- result.App.Watch(ctx, "iob_uart") }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("watch did not stop")
		}
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(built)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond, "initial build")

	// --- Act & Assert ---
	// Keep touching the source until the watcher is up and has rebuilt.
	require.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(src, []byte("module iob_uart; // v2\nendmodule\n"), 0o644))
		data, err := os.ReadFile(built)
		return err == nil && string(data) == "module iob_uart; // v2\nendmodule\n"
	}, 15*time.Second, 700*time.Millisecond)
}
