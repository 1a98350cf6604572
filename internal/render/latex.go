package render

import (
	"fmt"
	"strings"
)

var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"_", `\_`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"{", `\{`,
	"}", `\}`,
)

func tex(s string) string { return texEscaper.Replace(s) }

func row(cells ...string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = tex(c)
	}
	return strings.Join(escaped, " & ") + ` \\ \hline` + "\n"
}

func confsTex(in Input) string {
	var b strings.Builder
	for _, c := range in.Confs {
		a := c.Attrs
		b.WriteString(row(c.Name, a.String("type"), a.String("min"), a.String("val"), a.String("max"), a.String("descr")))
	}
	return b.String()
}

func iosTex(in Input) string {
	var b strings.Builder
	for _, g := range in.IOs {
		fmt.Fprintf(&b, "%% %s\n", tex(g.Name))
		for _, p := range g.Items {
			a := p.Attrs
			b.WriteString(row(p.Name, portDirection(a.String("type")), a.String("n_bits"), a.String("descr")))
		}
	}
	return b.String()
}

func swregsTex(in Input) string {
	var b strings.Builder
	for _, r := range in.Table.Regs {
		b.WriteString(row(r.Name, r.Type, fmt.Sprint(r.Addr), fmt.Sprint(r.NBits), r.RstVal, r.Descr))
	}
	return b.String()
}

func blocksTex(in Input) string {
	var b strings.Builder
	for _, g := range in.BlockGroups {
		title := g.Attrs.String("descr")
		if title == "" {
			title = g.Name
		}
		fmt.Fprintf(&b, "\\subsection{%s}\n", tex(title))
		b.WriteString("\\begin{itemize}\n")
		for _, blk := range g.Items {
			fmt.Fprintf(&b, "  \\item \\textbf{%s}: %s\n", tex(blk.Name), tex(blk.Attrs.String("descr")))
		}
		b.WriteString("\\end{itemize}\n")
	}
	return b.String()
}
