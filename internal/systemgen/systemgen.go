package systemgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/vexpr"
)

// Template anchors.
const (
	HeaderAnchor  = "PHEADER"
	EndAnchor     = "endmodule"
	PortListEnd   = ");"
	TemplateExt   = ".vt"
	GeneratedExt  = ".v"
	wiresComment  = "    // Module internal wires"
	includeFormat = "`include \"%s_swreg_def.vh\""
)

// Peripheral is the metadata of one peripheral type used by the system.
type Peripheral struct {
	// Top is the name of the peripheral's top-level module.
	Top   string
	Ports []descriptor.Entry
}

// System is everything needed to instantiate a system template.
type System struct {
	// Name is the system top-level name; it prefixes instance macros.
	Name        string
	Instances   []descriptor.Instance
	Wires       []descriptor.Wire
	Peripherals map[string]Peripheral
}

// TemplatePath returns the template location of the named top inside its
// setup directory.
func TemplatePath(setupDir, top string) string {
	return filepath.Join(setupDir, descriptor.DirHardwareSrc, top+TemplateExt)
}

// Generate instantiates the template at templatePath into outPath. A missing
// template is not an error: it reports false and writes nothing.
func Generate(ctx context.Context, templatePath, outPath string, sys System) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No system template.", "path", templatePath)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read template: %w", err)
	}

	out, err := Splice(string(data), sys)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logger.Info("Generated system top.", "path", outPath, "instances", len(sys.Instances))
	return true, nil
}

// Splice returns template with the headers, wires and instance blocks of sys
// inserted at their anchors.
func Splice(template string, sys System) (string, error) {
	lines := strings.Split(strings.TrimSuffix(template, "\n"), "\n")

	header := -1
	portEnd := -1
	end := -1
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch {
		case header < 0 && strings.Contains(l, HeaderAnchor):
			header = i
		case portEnd < 0 && trimmed == PortListEnd:
			portEnd = i
		case end < 0 && strings.HasPrefix(trimmed, EndAnchor):
			end = i
		}
	}
	if end < 0 {
		return "", descriptor.Errorf(sys.Name, "template has no %q line", EndAnchor)
	}
	if len(sys.Wires) > 0 && (portEnd < 0 || portEnd > end) {
		return "", descriptor.Errorf(sys.Name, "template has no %q line to declare wires after", PortListEnd)
	}

	var includes, wires, instances block
	seen := make(map[string]bool)
	for _, inst := range sys.Instances {
		p, ok := sys.Peripherals[inst.Type]
		if !ok {
			return "", descriptor.Errorf(sys.Name, "instance '%s' has unknown type '%s'", inst.Name, inst.Type)
		}
		if !seen[inst.Type] {
			seen[inst.Type] = true
			includes.add(includeFormat, p.Top)
		}
		if err := instanceBlock(&instances, sys.Name, inst, p); err != nil {
			return "", err
		}
	}
	if len(sys.Wires) > 0 {
		wires.add("%s", wiresComment)
		for _, w := range sys.Wires {
			wires.add("    wire [%s-1:0] %s;", w.Width, w.Name)
		}
	}

	var sb strings.Builder
	for i, l := range lines {
		if i == end {
			sb.WriteString(instances.String())
		}
		sb.WriteString(l)
		sb.WriteString("\n")
		if i == header {
			sb.WriteString(includes.String())
		}
		if i == portEnd {
			sb.WriteString(wires.String())
		}
	}
	return sb.String(), nil
}

func instanceBlock(b *block, system string, inst descriptor.Instance, p Peripheral) error {
	var regular, reserved []descriptor.Entry
	for _, port := range p.Ports {
		if IsReserved(port.Name) {
			reserved = append(reserved, port)
		} else {
			regular = append(regular, port)
		}
	}

	known := make(map[string]bool, len(regular))
	conns := make([]string, 0, len(p.Ports))
	for _, port := range regular {
		known[port.Name] = true
		expr, ok := inst.Connections[port.Name]
		if !ok {
			return descriptor.Errorf(system, "instance '%s' does not connect port '%s'", inst.Name, port.Name)
		}
		if err := vexpr.Validate(expr); err != nil {
			return descriptor.Errorf(system, "instance '%s' port '%s': %v", inst.Name, port.Name, err)
		}
		conns = append(conns, fmt.Sprintf("      .%s(%s)", port.Name, expr))
	}
	for port := range inst.Connections {
		if !known[port] {
			return descriptor.Errorf(system, "instance '%s' connects unknown port '%s'", inst.Name, port)
		}
	}

	instMacro := strings.ToUpper(system) + "_" + inst.Name
	swreg := strings.ToUpper(p.Top) + "_SWREG"
	for _, port := range reserved {
		conns = append(conns, fmt.Sprintf("      .%s(%s)", port.Name, reservedConnection(port.Name, instMacro, swreg)))
	}

	b.blank()
	b.add("   // %s", inst.Name)
	b.blank()
	b.add("   %s", p.Top)
	if len(inst.Params) > 0 {
		b.add("     #(")
		for i, prm := range inst.Params {
			b.item(fmt.Sprintf("      .%s(%s)", prm.Name, prm.Value), i == len(inst.Params)-1)
		}
		b.add("   )")
	}
	b.add("   %s (", inst.Name)
	for i, c := range conns {
		b.item(c, i == len(conns)-1)
	}
	b.add("      );")
	return nil
}
