// Package iob_utils provides the shared Verilog utility header.
package iob_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/buildfs"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/registry"
)

const (
	// Name is the descriptor name.
	Name = "iob_utils"
	// Header is the only source file the descriptor contributes.
	Header = "iob_utils.vh"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the descriptor and its source copy hook.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterDescriptor(&descriptor.Descriptor{
		Name:    Name,
		Version: "V0.10",
		Flows:   descriptor.Flows{descriptor.FlowSim},
	})
	r.RegisterBehaviour(Name, &registry.Behaviour{CopySources: CopySources})
}

// CopySources copies the header into the directory of the latest purpose.
// Once the header is set up for hardware, the copies made for earlier
// purposes are removed, except the software one.
func CopySources(ctx context.Context, st *descriptor.State) error {
	logger := ctxlog.FromContext(ctx)

	src := sourceDir(st)
	if src == "" {
		logger.Debug("No setup directory, nothing to copy.")
		return nil
	}
	purpose, err := st.SetupPurpose()
	if err != nil {
		return err
	}
	dir, err := purpose.Dir()
	if err != nil {
		return err
	}

	dst := filepath.Join(st.BuildDir, dir)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := buildfs.CopyFile(filepath.Join(src, Header), dst, buildfs.Rename{}); err != nil {
		return err
	}
	logger.Debug("Copied utility header.", "dir", dir)

	if purpose != descriptor.PurposeHardware || len(st.Purposes) < 2 {
		return nil
	}
	for _, prev := range st.Purposes[:len(st.Purposes)-1] {
		if prev == descriptor.PurposeEmbedded || prev == descriptor.PurposeHardware {
			continue
		}
		prevDir, err := prev.Dir()
		if err != nil {
			return err
		}
		stale := filepath.Join(st.BuildDir, prevDir, Header)
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", stale, err)
		}
		logger.Debug("Removed header copy superseded by hardware.", "dir", prevDir)
	}
	return nil
}

func sourceDir(st *descriptor.State) string {
	for i := len(st.Chain) - 1; i >= 0; i-- {
		if st.Chain[i].SetupDir != "" {
			return st.Chain[i].SetupDir
		}
	}
	return ""
}
