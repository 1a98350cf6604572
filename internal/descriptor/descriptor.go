// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Descriptor, the static declaration of one reusable
// hardware-module kind, and the values it refers to.
//
// A Descriptor is analogous to a class: it is declared once (in a manifest or
// by a built-in Go module) and never mutated by a build. Everything a build
// computes for the type lives in its State instead, so the same declaration
// can be loaded, validated and listed without side effects.

package descriptor

import "fmt"

// DefaultCSRIf is the control/status register interface used when a
// descriptor does not name one.
const DefaultCSRIf = "iob"

// Descriptor is the static metadata of one hardware-module kind.
type Descriptor struct {
	Name            string
	Version         string
	PreviousVersion string
	CSRIf           string
	Flows           Flows

	// SetupDir is the source root of this descriptor. Empty for pure-logic
	// descriptors that contribute no files.
	SetupDir string
	// BuildDir is honoured only on the top descriptor.
	BuildDir string
	// Extends names the parent descriptor whose sources and lists this one
	// specializes.
	Extends string

	Confs       []Entry
	Regs        []Group
	IOs         []Group
	BlockGroups []Group
	Submodules  []Dependency
	Wires       []Wire
	Instances   []Instance

	// Source is the manifest file the descriptor was declared in, or "" for
	// Go-declared descriptors.
	Source string
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	if d.Source == "" {
		return d.Name
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Source)
}

// Dependency is one entry of a descriptor's submodule list: either another
// descriptor or an inline interface-generation request, optionally pinned to
// a purpose.
type Dependency struct {
	Module    string
	Interface *InterfaceRequest
	Purpose   Purpose
}

// String implements fmt.Stringer.
func (d Dependency) String() string {
	switch {
	case d.Module != "" && d.Interface == nil:
		return d.Module
	case d.Interface != nil && d.Module == "":
		return "interface " + d.Interface.Interface
	}
	return fmt.Sprintf("dependency{module=%q interface=%v}", d.Module, d.Interface)
}

// InterfaceRequest asks for a standard interface snippet to be generated
// without a descriptor of its own.
type InterfaceRequest struct {
	Interface  string
	FilePrefix string
	PortPrefix string
	WirePrefix string
}

// Wire is an internal wire of the module, used to interconnect instances.
type Wire struct {
	Name  string
	Width string
	Descr string
}

// Param is one parameter override of an instance.
type Param struct {
	Name  string
	Value string
}

// Instance is a named use of a descriptor inside another module.
type Instance struct {
	Type        string
	Name        string
	Description string
	Params      []Param
	// Connections maps each non-reserved port of the instance type to the
	// signal expression it is wired to.
	Connections map[string]string
}

// DefaultInstanceName is used when an instance is declared without a name.
func DefaultInstanceName(typeName string) string {
	return typeName + "_0"
}
