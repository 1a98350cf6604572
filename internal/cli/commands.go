package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/specialistvlad/ipforge/internal/app"
	"github.com/specialistvlad/ipforge/internal/descriptor"
)

func newSetupCommand(e *env) *cobra.Command {
	var (
		watch           bool
		healthcheckPort int
	)
	cmd := &cobra.Command{
		Use:   "setup <top>",
		Short: "Build the top module and its dependencies",
		Long: `Set up the top module for hardware: create its build directory, set up every
dependency for the purpose it is needed for, copy the sources of every
contributor and generate the derived files.

With --watch, keep running and rebuild from scratch whenever a manifest or a
source file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string) error {
			a, err := e.newApp(cmd.Context(), func(c *app.Config) { c.HealthcheckPort = healthcheckPort })
			if err != nil {
				return err
			}
			defer a.Close()

			if watch {
				return a.Watch(cmd.Context(), args[0])
			}
			dir, err := a.Setup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(e.outW, dir)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild on every change until interrupted")
	cmd.Flags().IntVar(&healthcheckPort, "healthcheck-port", 0, "port of the watch-mode health check server; 0 disables it")
	return cmd
}

func newSystemCommand(e *env) *cobra.Command {
	var peripherals, out string
	cmd := &cobra.Command{
		Use:   "system <top>",
		Short: "Generate the system top-level file from a peripheral list",
		Long: `Build the top module, then instantiate its system template
(hardware/src/<top>.vt in its setup directory) with the peripherals listed in
a YAML file, and write the result into the build directory.`,
		Args: cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, args []string) error {
			a, err := e.newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.System(cmd.Context(), args[0], peripherals, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.outW, path)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&peripherals, "peripherals", "p", "", "YAML list of peripheral instances")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: <build>/hardware/src/<top>.v)")
	_ = cmd.MarkFlagRequired("peripherals")
	return cmd
}

func newListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known descriptor",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string) error {
			a, err := e.newApp(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprint(e.outW, renderList(e.outW, a.Descriptors()))
			return nil
		}),
	}
}

// renderList formats descriptors as aligned columns: name, version, flows
// and origin.
func renderList(w io.Writer, ds []*descriptor.Descriptor) string {
	r := lipgloss.NewRenderer(w)

	nameW := len("NAME")
	for _, d := range ds {
		nameW = max(nameW, len(d.Name))
	}
	header := r.NewStyle().Bold(true).Underline(true)
	name := r.NewStyle().Width(nameW + 2).Foreground(lipgloss.Color("#8BC34A"))
	version := r.NewStyle().Width(9)
	flows := r.NewStyle().Width(16)
	muted := r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		header.Width(nameW+2).Render("NAME"),
		header.Width(9).Render("VERSION"),
		header.Width(16).Render("FLOWS"),
		header.UnsetWidth().Render("SOURCE"),
	))
	b.WriteByte('\n')

	for _, d := range ds {
		fl := make([]string, 0, len(d.Flows))
		for _, f := range d.Flows {
			fl = append(fl, string(f))
		}
		src := d.Source
		if src == "" {
			src = "built-in"
		}
		v := d.Version
		if v == "" {
			v = "-"
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			name.Render(d.Name),
			version.Render(v),
			flows.Render(strings.Join(fl, ",")),
			muted.Render(src),
		))
		b.WriteByte('\n')
	}
	return b.String()
}
