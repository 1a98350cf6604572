package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ipforge/internal/config"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/fsutil"
	"github.com/specialistvlad/ipforge/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under paths and translates each `descriptor`
// block it finds. Files are processed in a stable order so a duplicate
// declaration is always reported the same way.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.ManifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, d := range root.Descriptors {
			desc, err := translateDescriptor(ctx, file, d)
			if err != nil {
				return nil, err
			}
			model.Descriptors = append(model.Descriptors, desc)
		}
		model.Files = append(model.Files, file)
	}

	logger.Debug("HCL loading complete.", "files", len(model.Files), "descriptors", len(model.Descriptors))
	return model, nil
}

// LoadProject reads one project settings file. Relative paths inside it are
// resolved against the file's directory.
func (l *Loader) LoadProject(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, diags)
	}

	var pf schema.ProjectFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &pf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project file %s: %w", path, diags)
	}

	base := filepath.Dir(path)
	p := &config.Project{
		LibDir:    resolve(base, pf.LibDir),
		BuildDir:  resolve(base, pf.BuildDir),
		LogLevel:  pf.LogLevel,
		LogFormat: pf.LogFormat,
		NotifyURL: pf.NotifyURL,
		Exclude:   pf.Exclude,
		Source:    path,
	}
	for _, lp := range pf.LibraryPaths {
		p.LibraryPaths = append(p.LibraryPaths, resolve(base, lp))
	}

	logger.Debug("Project file loaded.", "path", path, "library_paths", p.LibraryPaths)
	return p, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// findAllHCLFiles walks all given paths and returns a flat, de-duplicated
// list of .hcl files. Paths that do not exist are skipped.
func findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	return all, nil
}
