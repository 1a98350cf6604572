// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package descriptor

import "strings"

// GeneralRegGroup is the register group every register-bearing descriptor
// owns, and where the reserved VERSION register lives.
const GeneralRegGroup = "general"

// ReservedVersion is the reserved name of the version register and macro.
const ReservedVersion = "VERSION"

// State is the mutable build state of one descriptor type. The setup engine
// creates it on first use and mutates it in place for the rest of the run.
type State struct {
	Descriptor *Descriptor
	// Chain lists the contributors of this type from the most generic
	// ancestor to the descriptor itself.
	Chain []*Descriptor

	IsTop           bool
	BuildDir        string
	PreviousVersion string
	Initialized     bool

	Confs       *List[Entry]
	Regs        *List[Group]
	IOs         *List[Group]
	BlockGroups *List[Group]
	Submodules  []Dependency
	Wires       []Wire
	Instances   []Instance

	// Purposes is the setup history of the type, oldest first. The engine
	// appends to it as it records each purpose in its memo table.
	Purposes []Purpose
}

// NewState returns an empty State for d with the given contributor chain.
func NewState(d *Descriptor, chain []*Descriptor) *State {
	return &State{
		Descriptor:  d,
		Chain:       chain,
		Confs:       NewList[Entry](),
		Regs:        NewList[Group](),
		IOs:         NewList[Group](),
		BlockGroups: NewList[Group](),
	}
}

// Name returns the descriptor name.
func (s *State) Name() string { return s.Descriptor.Name }

// UpperName returns the descriptor name in upper case, as used by macros.
func (s *State) UpperName() string { return strings.ToUpper(s.Descriptor.Name) }

// Flows returns the flows supported by the descriptor.
func (s *State) Flows() Flows { return s.Descriptor.Flows }

// SetupPurpose returns the purpose of the latest setup. It is a
// configuration error to ask before the type has been set up.
func (s *State) SetupPurpose() (Purpose, error) {
	if len(s.Purposes) == 0 {
		return "", Errorf(s.Name(), "module has not been set up")
	}
	return s.Purposes[len(s.Purposes)-1], nil
}

// Ports returns every port of the descriptor's I/O groups in declaration
// order.
func (s *State) Ports() []Entry {
	var ports []Entry
	for _, g := range s.IOs.Items() {
		ports = append(ports, g.Items...)
	}
	return ports
}
