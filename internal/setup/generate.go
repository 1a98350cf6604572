package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/render"
)

// generate renders the hardware, software and documentation files of st.
func (e *Engine) generate(ctx context.Context, st *descriptor.State) error {
	logger := ctxlog.FromContext(ctx)

	v, err := version(st)
	if err != nil {
		return err
	}
	in := render.Input{
		Name:        st.Name(),
		Version:     v,
		Confs:       st.Confs.Items(),
		IOs:         st.IOs.Items(),
		BlockGroups: st.BlockGroups.Items(),
	}

	if st.Regs.Len() > 0 {
		if err := addVersionReg(st, v); err != nil {
			return err
		}
		table, err := render.BuildTable(st.Regs.Items())
		if err != nil {
			return descriptor.Errorf(st.Name(), "%v", err)
		}
		in.Table = table
	}

	var written []string
	add := func(paths []string, err error) error {
		written = append(written, paths...)
		return err
	}

	if err := add(e.renderer.Hardware(filepath.Join(st.BuildDir, descriptor.DirHardwareSrc), in)); err != nil {
		return fmt.Errorf("failed to generate hardware files of %s: %w", st.Name(), err)
	}
	if err := add(e.renderer.SimParams(filepath.Join(st.BuildDir, descriptor.DirSimulationSrc), in)); err != nil {
		return fmt.Errorf("failed to generate simulation files of %s: %w", st.Name(), err)
	}
	if st.Flows().Has(descriptor.FlowEmb) {
		if err := add(e.renderer.Software(filepath.Join(st.BuildDir, descriptor.DirSoftwareSrc), in)); err != nil {
			return fmt.Errorf("failed to generate software files of %s: %w", st.Name(), err)
		}
	}
	if st.IsTop && st.Flows().Has(descriptor.FlowDoc) {
		if err := add(e.renderer.Documentation(filepath.Join(st.BuildDir, descriptor.DirDocumentSrc), in)); err != nil {
			return fmt.Errorf("failed to generate documentation of %s: %w", st.Name(), err)
		}
	}

	logger.Debug("Generated files.", "count", len(written))
	return nil
}

// addVersionReg makes sure the general register group exists and, on the
// first setup of st, appends the VERSION register to it.
func addVersionReg(st *descriptor.State, v descriptor.Version) error {
	general, ok := st.Regs.Get(descriptor.GeneralRegGroup)
	if !ok {
		general = descriptor.Group{
			Name:  descriptor.GeneralRegGroup,
			Attrs: descriptor.Attrs{"descr": descriptor.Str("General Registers.")},
			Items: []descriptor.Entry{},
		}
	}
	if len(st.Purposes) > 1 {
		st.Regs.Merge(general)
		return nil
	}
	if _, exists := general.Item(descriptor.ReservedVersion); exists {
		return descriptor.Errorf(st.Name(), "register '%s' is reserved, please remove it", descriptor.ReservedVersion)
	}

	general.Items = append(slices.Clip(general.Items), descriptor.NewEntry(descriptor.ReservedVersion, descriptor.Attrs{
		"type":        descriptor.Str("R"),
		"n_bits":      descriptor.Num(16),
		"rst_val":     descriptor.Str(v.Digits()),
		"addr":        descriptor.Num(-1),
		"log2n_items": descriptor.Num(0),
		"autologic":   descriptor.Flag(true),
		"descr":       descriptor.Str(versionDescr),
	}))
	st.Regs.Merge(general)
	return nil
}
