// Package schema holds the gohcl-tagged structs that mirror the HCL manifest
// and project file formats. They are decoded by internal/hcl and translated
// into the format-agnostic config model; nothing else should use them.
package schema

import "github.com/hashicorp/hcl/v2"

// --- Descriptor Manifests ---

// Entry is any labelled block whose attributes are free-form: a conf, a reg,
// a port, a block or a wire.
type Entry struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// RegGroup represents a `reg_group` block.
type RegGroup struct {
	Name string   `hcl:"name,label"`
	Regs []*Entry `hcl:"reg,block"`
	Body hcl.Body `hcl:",remain"`
}

// IOGroup represents an `io_group` block.
type IOGroup struct {
	Name  string   `hcl:"name,label"`
	Ports []*Entry `hcl:"port,block"`
	Body  hcl.Body `hcl:",remain"`
}

// BlockGroup represents a `block_group` block used by documentation.
type BlockGroup struct {
	Name   string   `hcl:"name,label"`
	Blocks []*Entry `hcl:"block,block"`
	Body   hcl.Body `hcl:",remain"`
}

// Submodule represents a `submodule` block naming another descriptor.
type Submodule struct {
	Name    string   `hcl:"name,label"`
	Purpose string   `hcl:"purpose,optional"`
	Body    hcl.Body `hcl:",remain"`
}

// Interface represents an `interface` block: an inline interface-generation
// request.
type Interface struct {
	Name       string   `hcl:"name,label"`
	FilePrefix string   `hcl:"file_prefix,optional"`
	PortPrefix string   `hcl:"port_prefix,optional"`
	WirePrefix string   `hcl:"wire_prefix,optional"`
	Purpose    string   `hcl:"purpose,optional"`
	Body       hcl.Body `hcl:",remain"`
}

// Instance represents an `instance "<type>" "<name>"` block.
type Instance struct {
	Type        string         `hcl:"type,label"`
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Params      hcl.Expression `hcl:"params,optional"`
	Connections hcl.Expression `hcl:"connections,optional"`
}

// Descriptor represents a `descriptor` block.
type Descriptor struct {
	Name            string   `hcl:"name,label"`
	Version         string   `hcl:"version,optional"`
	PreviousVersion string   `hcl:"previous_version,optional"`
	CSRIf           string   `hcl:"csr_if,optional"`
	Flows           []string `hcl:"flows,optional"`
	SetupDir        string   `hcl:"setup_dir,optional"`
	BuildDir        string   `hcl:"build_dir,optional"`
	Extends         string   `hcl:"extends,optional"`

	Confs       []*Entry      `hcl:"conf,block"`
	RegGroups   []*RegGroup   `hcl:"reg_group,block"`
	IOGroups    []*IOGroup    `hcl:"io_group,block"`
	BlockGroups []*BlockGroup `hcl:"block_group,block"`
	Submodules  []*Submodule  `hcl:"submodule,block"`
	Interfaces  []*Interface  `hcl:"interface,block"`
	Wires       []*Entry      `hcl:"wire,block"`
	Instances   []*Instance   `hcl:"instance,block"`
}

// ManifestFile represents the top-level structure of a manifest file.
type ManifestFile struct {
	Descriptors []*Descriptor `hcl:"descriptor,block"`
	Body        hcl.Body      `hcl:",remain"`
}

// --- Project File ---

// ProjectFile represents the top-level structure of an ipforge.hcl file.
type ProjectFile struct {
	LibraryPaths []string `hcl:"library_paths,optional"`
	LibDir       string   `hcl:"lib_dir,optional"`
	BuildDir     string   `hcl:"build_dir,optional"`
	LogLevel     string   `hcl:"log_level,optional"`
	LogFormat    string   `hcl:"log_format,optional"`
	NotifyURL    string   `hcl:"notify_url,optional"`
	Exclude      []string `hcl:"exclude,optional"`
}
