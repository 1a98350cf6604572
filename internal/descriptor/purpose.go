// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import (
	"fmt"
	"slices"
)

// Purpose is the reason a descriptor is being set up. It selects the
// destination directory of the descriptor's hardware sources.
type Purpose string

const (
	PurposeHardware      Purpose = "hardware"
	PurposeSimulation    Purpose = "simulation"
	PurposeFPGA          Purpose = "fpga"
	PurposeEmbedded      Purpose = "embedded"
	PurposeDocumentation Purpose = "documentation"
)

// Canonical build directory layout.
const (
	DirHardwareSrc   = "hardware/src"
	DirSimulationSrc = "hardware/simulation/src"
	DirFPGASrc       = "hardware/fpga/src"
	DirSoftwareSrc   = "software/src"
	DirDocumentSrc   = "document/tsrc"
	DirSynthesis     = "hardware/syn"
	DirLint          = "hardware/lint"
)

var purposeDirs = map[Purpose]string{
	PurposeHardware:      DirHardwareSrc,
	PurposeSimulation:    DirSimulationSrc,
	PurposeFPGA:          DirFPGASrc,
	PurposeEmbedded:      DirSoftwareSrc,
	PurposeDocumentation: DirDocumentSrc,
}

// Purposes lists every purpose, hardware first.
var Purposes = []Purpose{
	PurposeHardware,
	PurposeSimulation,
	PurposeFPGA,
	PurposeEmbedded,
	PurposeDocumentation,
}

// ParsePurpose converts a manifest or CLI string into a Purpose.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(s)
	if _, ok := purposeDirs[p]; !ok {
		return "", fmt.Errorf("unknown purpose %q", s)
	}
	return p, nil
}

// Dir returns the build directory (relative to the build root) that receives
// sources set up for this purpose.
func (p Purpose) Dir() (string, error) {
	dir, ok := purposeDirs[p]
	if !ok {
		return "", fmt.Errorf("unknown purpose %q", string(p))
	}
	return dir, nil
}

// Absorbed reports whether a descriptor already set up for the purposes in
// history needs no further setup for p.
func (p Purpose) Absorbed(history []Purpose) bool {
	return slices.Contains(history, p) || slices.Contains(history, PurposeHardware)
}

// Flow is an optional build flow a descriptor supports on top of plain
// hardware.
type Flow string

const (
	FlowSim  Flow = "sim"
	FlowFPGA Flow = "fpga"
	FlowEmb  Flow = "emb"
	FlowDoc  Flow = "doc"
)

// Flows is the set of flows a descriptor supports.
type Flows []Flow

// Has reports whether f is in the set.
func (fs Flows) Has(f Flow) bool {
	return slices.Contains(fs, f)
}

// ParseFlow converts a manifest string into a Flow.
func ParseFlow(s string) (Flow, error) {
	switch f := Flow(s); f {
	case FlowSim, FlowFPGA, FlowEmb, FlowDoc:
		return f, nil
	}
	return "", fmt.Errorf("unknown flow %q", s)
}
