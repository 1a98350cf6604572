package render

import (
	"fmt"
	"strings"
)

func swregDef(in Input) string {
	up := in.Upper()
	var b strings.Builder
	fmt.Fprintf(&b, "// %s software accessible registers\n", in.Name)
	fmt.Fprintf(&b, "`define %s_SWREG_ADDR_W %d\n", up, in.Table.AddrW)
	for _, r := range in.Table.Regs {
		fmt.Fprintf(&b, "`define %s_%s_ADDR %d\n", up, r.Name, r.Addr)
		fmt.Fprintf(&b, "`define %s_%s_W %d\n", up, r.Name, r.NBits)
	}
	return b.String()
}

func swregInst(in Input) string {
	up := in.Upper()
	var b strings.Builder
	b.WriteString("   // software accessible registers\n")
	var conns []string
	for _, r := range in.Table.Regs {
		if r.Autologic {
			continue
		}
		if r.Writable() {
			fmt.Fprintf(&b, "   wire [%d-1:0] %s_wr;\n", r.NBits, r.Name)
			conns = append(conns, fmt.Sprintf("      .%s_o(%s_wr)", r.Name, r.Name))
		}
		if r.Readable() {
			fmt.Fprintf(&b, "   wire [%d-1:0] %s_rd;\n", r.NBits, r.Name)
			conns = append(conns, fmt.Sprintf("      .%s_i(%s_rd)", r.Name, r.Name))
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "   %s_swreg_gen #(\n", in.Name)
	fmt.Fprintf(&b, "      .ADDR_W(`%s_SWREG_ADDR_W)\n", up)
	b.WriteString("   ) swreg_0 (\n")
	b.WriteString("`include \"iob_s_s_portmap.vs\"\n")
	b.WriteString(list(append([]string{"      .clk_i(clk_i)", "      .cke_i(cke_i)", "      .arst_i(arst_i)"}, conns...), ","))
	b.WriteString("   );\n")
	return b.String()
}

func swregLparam(in Input) string {
	up := in.Upper()
	var b strings.Builder
	fmt.Fprintf(&b, "localparam %s_SWREG_ADDR_W = %d;\n", up, in.Table.AddrW)
	for _, r := range in.Table.Regs {
		fmt.Fprintf(&b, "localparam %s_%s_ADDR = %d;\n", up, r.Name, r.Addr)
		fmt.Fprintf(&b, "localparam %s_%s_W = %d;\n", up, r.Name, r.NBits)
	}
	return b.String()
}

func confVH(in Input) string {
	up := in.Upper()
	var b strings.Builder
	for _, c := range in.Confs {
		if d := c.Attrs.String("descr"); d != "" {
			fmt.Fprintf(&b, "// %s\n", d)
		}
		fmt.Fprintf(&b, "`define %s_%s %s\n", up, c.Name, c.Attrs.String("val"))
	}
	return b.String()
}

// isParam reports whether a configuration entry is a Verilog parameter
// rather than a macro.
func isParam(typ string) bool {
	return typ == "P" || typ == "F"
}

func paramsVS(in Input) string {
	var lines []string
	for _, c := range in.Confs {
		if isParam(c.Attrs.String("type")) {
			lines = append(lines, fmt.Sprintf("   parameter %s = `%s_%s", c.Name, in.Upper(), c.Name))
		}
	}
	return list(lines, ",")
}

func instParamsVS(in Input) string {
	var lines []string
	for _, c := range in.Confs {
		if isParam(c.Attrs.String("type")) {
			lines = append(lines, fmt.Sprintf("      .%s(%s)", c.Name, c.Name))
		}
	}
	return list(lines, ",")
}

func portDirection(typ string) string {
	switch typ {
	case "I":
		return "input"
	case "O":
		return "output"
	case "IO":
		return "inout"
	}
	return "input"
}

func ioVS(in Input) string {
	var lines []string
	var comments []string
	for _, g := range in.IOs {
		for _, p := range g.Items {
			width := p.Attrs.String("n_bits")
			if width == "" {
				width = "1"
			}
			lines = append(lines, fmt.Sprintf("   %s [%s-1:0] %s", portDirection(p.Attrs.String("type")), width, p.Name))
			comments = append(comments, p.Attrs.String("descr"))
		}
	}

	var b strings.Builder
	for i, l := range lines {
		b.WriteString(l)
		if i < len(lines)-1 {
			b.WriteString(",")
		}
		if comments[i] != "" {
			fmt.Fprintf(&b, " // %s", comments[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
