package buildfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
)

// ConfigFileName is the generated build configuration at the build root.
const ConfigFileName = "config_build.mk"

// CreateBuildDir creates the build directory skeleton of the top descriptor,
// writes its build configuration and copies the generic Makefile.
func CreateBuildDir(ctx context.Context, st *descriptor.State, opts Options) error {
	logger := ctxlog.FromContext(ctx)

	if !st.IsTop {
		return descriptor.Errorf(st.Name(), "build directory can only be created by the top module")
	}
	if st.BuildDir == "" {
		return descriptor.Errorf(st.Name(), "build directory is not set")
	}

	dirs := []string{descriptor.DirHardwareSrc}
	if st.Flows().Has(descriptor.FlowSim) {
		dirs = append(dirs, descriptor.DirSimulationSrc)
	}
	if st.Flows().Has(descriptor.FlowFPGA) {
		dirs = append(dirs, descriptor.DirFPGASrc)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(st.BuildDir, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create build directory: %w", err)
		}
	}

	if err := writeBuildConfig(st); err != nil {
		return err
	}

	if opts.LibDir != "" {
		src := filepath.Join(opts.LibDir, "build.mk")
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read generic build file: %w", err)
		}
		if err := os.WriteFile(filepath.Join(st.BuildDir, "Makefile"), data, 0o644); err != nil {
			return fmt.Errorf("failed to write Makefile: %w", err)
		}
	}

	logger.Info("Created build directory.", "path", st.BuildDir, "descriptor", st.Name())
	return nil
}

func writeBuildConfig(st *descriptor.State) error {
	version := "0000"
	if st.Descriptor.Version != "" {
		v, err := descriptor.ParseVersion(st.Descriptor.Version)
		if err != nil {
			return descriptor.Errorf(st.Name(), "%v", err)
		}
		version = v.Digits()
	}
	csrIf := st.Descriptor.CSRIf
	if csrIf == "" {
		csrIf = descriptor.DefaultCSRIf
	}

	flows := make([]string, 0, len(st.Flows()))
	for _, f := range st.Flows() {
		flows = append(flows, string(f))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "NAME=%s\n", st.Name())
	fmt.Fprintf(&b, "VERSION=%s\n", version)
	fmt.Fprintf(&b, "CSR_IF=%s\n", csrIf)
	fmt.Fprintf(&b, "BUILD_DIR_NAME=%s\n", filepath.Base(st.BuildDir))
	fmt.Fprintf(&b, "FLOWS=%s\n", strings.Join(flows, " "))

	path := filepath.Join(st.BuildDir, ConfigFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
