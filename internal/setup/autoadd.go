package setup

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
)

const versionDescr = "Product version. This 16-bit value uses nibbles to represent decimal numbers using their binary values. " +
	"The two most significant nibbles represent the integral part of the version, and the two least significant nibbles " +
	"represent the decimal part. For example V12.34 is represented by 0x1234."

// Standard interface snippets of every register-bearing descriptor.
var ctlsInterfaces = []string{"iob_s_port", "iob_s_s_portmap"}

// autoAdd injects the settings every descriptor gets without declaring
// them: the VERSION macro, and for register-bearing descriptors the
// bus-control dependency and the standard bus port snippets.
func (e *Engine) autoAdd(ctx context.Context, st *descriptor.State, purpose descriptor.Purpose) error {
	logger := ctxlog.FromContext(ctx)

	if st.Confs.Len() > 0 {
		if _, ok := st.Confs.Get(descriptor.ReservedVersion); !ok {
			v, err := version(st)
			if err != nil {
				return err
			}
			st.Confs.Merge(descriptor.NewEntry(descriptor.ReservedVersion, descriptor.Attrs{
				"type":  descriptor.Str("M"),
				"val":   descriptor.Str("16'h" + v.Digits()),
				"min":   descriptor.Str("NA"),
				"max":   descriptor.Str("NA"),
				"descr": descriptor.Str(versionDescr),
			}))
			logger.Debug("Added VERSION macro.")
		}
	}

	if st.Regs.Len() == 0 {
		return nil
	}
	if st.Name() != CtlsDescriptor {
		if _, ok := e.registry.Descriptor(CtlsDescriptor); !ok {
			return descriptor.Errorf(st.Name(), "registers need the '%s' descriptor, which is not registered", CtlsDescriptor)
		}
		if err := e.Setup(ctx, CtlsDescriptor, purpose, false); err != nil {
			return fmt.Errorf("failed to set up %s for %s: %w", CtlsDescriptor, st.Name(), err)
		}
	}
	for _, name := range ctlsInterfaces {
		if err := e.generateInterface(ctx, st, descriptor.InterfaceRequest{Interface: name}, purpose); err != nil {
			return err
		}
	}
	return nil
}

// version returns the parsed version of st, or V0.00 when none is declared.
func version(st *descriptor.State) (descriptor.Version, error) {
	if st.Descriptor.Version == "" {
		return descriptor.Version{}, nil
	}
	v, err := descriptor.ParseVersion(st.Descriptor.Version)
	if err != nil {
		return descriptor.Version{}, descriptor.Errorf(st.Name(), "%v", err)
	}
	return v, nil
}
