// Package ifgen generates the standard interface snippets (port lists, port
// maps and wire declarations) that descriptors request inline instead of
// shipping them as source files.
package ifgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

type direction int

const (
	in direction = iota
	out
)

func (d direction) flip() direction { return 1 - d }

func (d direction) keyword() string {
	if d == in {
		return "input"
	}
	return "output"
}

func (d direction) suffix() string {
	if d == in {
		return "_i"
	}
	return "_o"
}

// signal is one signal of a bus, as seen by the subordinate side.
type signal struct {
	base  string
	dir   direction
	width string
	descr string
}

var iobSignals = []signal{
	{"iob_valid", in, "1", "Request valid."},
	{"iob_addr", in, "ADDR_W", "Address."},
	{"iob_wdata", in, "DATA_W", "Write data."},
	{"iob_wstrb", in, "(DATA_W/8)", "Write strobe."},
	{"iob_rvalid", out, "1", "Read data valid."},
	{"iob_rdata", out, "DATA_W", "Read data."},
	{"iob_ready", out, "1", "Interface ready."},
}

var clkEnRstSignals = []signal{
	{"clk", in, "1", "Clock."},
	{"cke", in, "1", "Clock enable."},
	{"arst", in, "1", "Asynchronous reset."},
}

type kind int

const (
	port kind = iota
	portmap
	wire
)

type layout struct {
	signals []signal
	kind    kind
	// master renders the bus from the manager side.
	master bool
}

var interfaces = map[string]layout{
	"iob_s_port":             {signals: iobSignals, kind: port},
	"iob_s_s_portmap":        {signals: iobSignals, kind: portmap},
	"iob_m_port":             {signals: iobSignals, kind: port, master: true},
	"iob_m_m_portmap":        {signals: iobSignals, kind: portmap, master: true},
	"iob_wire":               {signals: iobSignals, kind: wire},
	"clk_en_rst_s_port":      {signals: clkEnRstSignals, kind: port},
	"clk_en_rst_s_s_portmap": {signals: clkEnRstSignals, kind: portmap},
}

// Known reports whether name is a standard interface.
func Known(name string) bool {
	_, ok := interfaces[name]
	return ok
}

// Names returns every standard interface name, sorted.
func Names() []string {
	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileName returns the snippet file name for req.
func FileName(req descriptor.InterfaceRequest) string {
	return req.FilePrefix + req.Interface + ".vs"
}

// Render returns the snippet text for req.
func Render(req descriptor.InterfaceRequest) (string, error) {
	s, ok := interfaces[req.Interface]
	if !ok {
		return "", fmt.Errorf("unknown interface %q", req.Interface)
	}

	var b strings.Builder
	for _, sig := range s.signals {
		dir := sig.dir
		if s.master {
			dir = dir.flip()
		}
		name := sig.base + dir.suffix()

		switch s.kind {
		case port:
			fmt.Fprintf(&b, "   %s [%s-1:0] %s%s, // %s\n", dir.keyword(), sig.width, req.PortPrefix, name, sig.descr)
		case portmap:
			fmt.Fprintf(&b, "   .%s%s(%s%s),\n", req.PortPrefix, name, req.WirePrefix, name)
		case wire:
			fmt.Fprintf(&b, "   wire [%s-1:0] %s%s;\n", sig.width, req.WirePrefix, sig.base)
		}
	}
	return b.String(), nil
}

// Write renders req into dir and returns the path of the written file.
func Write(dir string, req descriptor.InterfaceRequest) (string, error) {
	text, err := Render(req)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snippet directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(req))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write interface snippet %s: %w", path, err)
	}
	return path, nil
}
