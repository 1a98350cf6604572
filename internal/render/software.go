package render

import (
	"fmt"
	"strings"
)

func cType(nbits int) string {
	switch {
	case nbits <= 8:
		return "uint8_t"
	case nbits <= 16:
		return "uint16_t"
	}
	return "uint32_t"
}

func swregHeader(in Input) string {
	up := in.Upper()
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef H_%s_SWREG_H\n#define H_%s_SWREG_H\n\n", up, up)
	b.WriteString("#include <stdint.h>\n\n")
	fmt.Fprintf(&b, "#define %s_SWREG_ADDR_W %d\n\n", up, in.Table.AddrW)

	b.WriteString("// Addresses\n")
	for _, r := range in.Table.Regs {
		fmt.Fprintf(&b, "#define %s_%s %d\n", up, r.Name, r.Addr)
	}
	b.WriteString("\n// Data widths (bit)\n")
	for _, r := range in.Table.Regs {
		fmt.Fprintf(&b, "#define %s_%s_W %d\n", up, r.Name, r.NBits)
	}

	b.WriteString("\n// Base Address\n")
	fmt.Fprintf(&b, "void %s_INIT_BASEADDR(uint32_t addr);\n\n", up)

	b.WriteString("// Core Setters and Getters\n")
	for _, r := range in.Table.Regs {
		if r.Writable() {
			fmt.Fprintf(&b, "void %s_SET_%s(%s value);\n", up, r.Name, cType(r.NBits))
		}
		if r.Readable() {
			fmt.Fprintf(&b, "%s %s_GET_%s();\n", cType(r.NBits), up, r.Name)
		}
	}
	fmt.Fprintf(&b, "\n#endif // H_%s_SWREG_H\n", up)
	return b.String()
}

func swregEmb(in Input) string {
	up := in.Upper()
	var b strings.Builder
	fmt.Fprintf(&b, "#include \"%s_swreg.h\"\n\n", in.Name)
	b.WriteString("// Base Address\n")
	b.WriteString("static int base;\n")
	fmt.Fprintf(&b, "void %s_INIT_BASEADDR(uint32_t addr) {\n  base = addr;\n}\n", up)

	b.WriteString("\n// Core Setters and Getters\n")
	for _, r := range in.Table.Regs {
		t := cType(r.NBits)
		if r.Writable() {
			fmt.Fprintf(&b, "void %s_SET_%s(%s value) {\n", up, r.Name, t)
			fmt.Fprintf(&b, "  (*((volatile %s *)((base) + (%s_%s))) = (value));\n}\n", t, up, r.Name)
		}
		if r.Readable() {
			fmt.Fprintf(&b, "%s %s_GET_%s() {\n", t, up, r.Name)
			fmt.Fprintf(&b, "  return (*((volatile %s *)((base) + (%s_%s))));\n}\n", t, up, r.Name)
		}
	}
	return b.String()
}

// cValue rewrites a Verilog sized hexadecimal literal into C.
func cValue(v string) string {
	if i := strings.Index(v, "'h"); i >= 0 {
		return "0x" + v[i+2:]
	}
	if i := strings.Index(v, "'d"); i >= 0 {
		return v[i+2:]
	}
	return v
}

func confHeader(in Input) string {
	up := in.Upper()
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef H_%s_CONF_H\n#define H_%s_CONF_H\n\n", up, up)
	for _, c := range in.Confs {
		val := c.Attrs.String("val")
		if val == "" || strings.ContainsAny(val, "`$") {
			continue
		}
		fmt.Fprintf(&b, "#define %s_%s %s\n", up, c.Name, cValue(val))
	}
	fmt.Fprintf(&b, "\n#endif // H_%s_CONF_H\n", up)
	return b.String()
}
