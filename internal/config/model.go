package config

import "github.com/specialistvlad/ipforge/internal/descriptor"

// Model is the unified, format-agnostic representation of every manifest
// loaded for one run.
type Model struct {
	// Descriptors in the order they were found.
	Descriptors []*descriptor.Descriptor
	// Files lists the manifest files that were read.
	Files []string
}

// Project holds the settings of a project file. Zero values mean "not set",
// so command-line flags can be layered on top.
type Project struct {
	LibraryPaths []string
	LibDir       string
	BuildDir     string
	LogLevel     string
	LogFormat    string
	NotifyURL    string
	Exclude      []string

	// Source is the file the settings were read from.
	Source string
}
