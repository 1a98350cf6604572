package config

import "context"

// Loader is the interface for a format-specific manifest and project loader.
type Loader interface {
	// Load reads every manifest found under paths (files or directories) and
	// translates them into the format-agnostic model. Paths that do not exist
	// are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadProject reads one project settings file.
	LoadProject(ctx context.Context, path string) (*Project, error)
}
