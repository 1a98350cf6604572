package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/ipforge/internal/config"
	"github.com/specialistvlad/ipforge/internal/ctxlog"
)

// ProjectFileNames are searched, in order, in the working directory when no
// project file is given explicitly.
var ProjectFileNames = []string{"ipforge.hcl", ".ipforge.hcl"}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the project file the settings were read from, if any.
	ConfigPath string

	LibraryPaths []string // manifest roots
	LibDir       string   // holds the generic build.mk
	BuildDir     string   // overrides the top descriptor's build directory
	Exclude      []string // file name patterns never copied

	LogFormat string
	LogLevel  string

	NotifyURL       string
	HealthcheckPort int
}

// NewConfig applies defaults to cfg and validates it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.LibraryPaths) == 0 {
		cfg.LibraryPaths = []string{"."}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log level %q: must be one of %s", cfg.LogLevel, strings.Join(levelNames(), ", "))
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q: must be one of %s", cfg.LogFormat, strings.Join(logFormats, ", "))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}

// ResolveConfig layers the project file under the settings given on the
// command line: a field set in flags wins over the file. The project file is
// flags.ConfigPath when set, otherwise the first of ProjectFileNames found in
// the working directory, otherwise ~/.config/ipforge/config.hcl.
func ResolveConfig(ctx context.Context, loader config.Loader, flags Config) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	path, err := findProjectFile(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("No project file found.")
		return NewConfig(flags)
	}

	project, err := loader.LoadProject(ctx, path)
	if err != nil {
		return nil, err
	}
	merged := flags
	merged.ConfigPath = path
	if len(merged.LibraryPaths) == 0 {
		merged.LibraryPaths = project.LibraryPaths
	}
	if len(merged.Exclude) == 0 {
		merged.Exclude = project.Exclude
	}
	merged.LibDir = firstSet(merged.LibDir, project.LibDir)
	merged.BuildDir = firstSet(merged.BuildDir, project.BuildDir)
	merged.LogLevel = firstSet(merged.LogLevel, project.LogLevel)
	merged.LogFormat = firstSet(merged.LogFormat, project.LogFormat)
	merged.NotifyURL = firstSet(merged.NotifyURL, project.NotifyURL)

	// Without library paths of its own, a project file's directory is the
	// library root.
	if len(merged.LibraryPaths) == 0 {
		merged.LibraryPaths = []string{filepath.Dir(path)}
	}

	logger.Debug("Project file applied.", "path", path)
	return NewConfig(merged)
}

func findProjectFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("project file: %w", err)
		}
		return explicit, nil
	}

	candidates := slices.Clone(ProjectFileNames)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ipforge", "config.hcl"))
	}
	for _, c := range candidates {
		_, err := os.Stat(c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("project file: %w", err)
		}
	}
	return "", nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
