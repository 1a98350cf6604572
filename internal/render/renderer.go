package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// Input is everything a renderer needs to know about one descriptor.
type Input struct {
	Name        string
	Version     descriptor.Version
	Confs       []descriptor.Entry
	Table       Table
	IOs         []descriptor.Group
	BlockGroups []descriptor.Group
}

// Upper returns the descriptor name in upper case.
func (in Input) Upper() string { return strings.ToUpper(in.Name) }

// Renderer produces the generated files of one descriptor. Each method
// writes into dir and returns the paths it wrote.
type Renderer interface {
	// Hardware writes the register access logic and headers, the
	// configuration headers, and the port declarations.
	Hardware(dir string, in Input) ([]string, error)
	// SimParams writes the simulation-only register parameter header.
	SimParams(dir string, in Input) ([]string, error)
	// Software writes the register accessors and the configuration header.
	Software(dir string, in Input) ([]string, error)
	// Documentation writes the LaTeX tables.
	Documentation(dir string, in Input) ([]string, error)
}

// Default is the stock Verilog, C and LaTeX renderer.
type Default struct{}

// New returns the stock renderer.
func New() Renderer {
	return Default{}
}

var _ Renderer = Default{}

type file struct {
	name string
	text string
}

func writeAll(dir string, files []file) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	var paths []string
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := os.WriteFile(p, []byte(f.text), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// list terminates every line but the last with sep.
func list(lines []string, sep string) string {
	var b strings.Builder
	for i, l := range lines {
		b.WriteString(l)
		if i < len(lines)-1 {
			b.WriteString(sep)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Hardware implements Renderer.
func (Default) Hardware(dir string, in Input) ([]string, error) {
	var files []file
	if len(in.Table.Regs) > 0 {
		files = append(files,
			file{in.Name + "_swreg_def.vh", swregDef(in)},
			file{in.Name + "_swreg_inst.vs", swregInst(in)},
		)
	}
	if len(in.Confs) > 0 {
		files = append(files,
			file{in.Name + "_conf.vh", confVH(in)},
			file{in.Name + "_params.vs", paramsVS(in)},
			file{in.Name + "_inst_params.vs", instParamsVS(in)},
		)
	}
	if len(in.IOs) > 0 {
		files = append(files, file{in.Name + "_io.vs", ioVS(in)})
	}
	return writeAll(dir, files)
}

// SimParams implements Renderer.
func (Default) SimParams(dir string, in Input) ([]string, error) {
	if len(in.Table.Regs) == 0 {
		return nil, nil
	}
	return writeAll(dir, []file{{in.Name + "_swreg_lparam.vh", swregLparam(in)}})
}

// Software implements Renderer.
func (Default) Software(dir string, in Input) ([]string, error) {
	var files []file
	if len(in.Table.Regs) > 0 {
		files = append(files,
			file{in.Name + "_swreg.h", swregHeader(in)},
			file{in.Name + "_swreg_emb.c", swregEmb(in)},
		)
	}
	if len(in.Confs) > 0 {
		files = append(files, file{in.Name + "_conf.h", confHeader(in)})
	}
	return writeAll(dir, files)
}

// Documentation implements Renderer.
func (Default) Documentation(dir string, in Input) ([]string, error) {
	return writeAll(dir, []file{
		{"confs.tex", confsTex(in)},
		{"ios.tex", iosTex(in)},
		{"swregs.tex", swregsTex(in)},
		{"blocks.tex", blocksTex(in)},
	})
}
