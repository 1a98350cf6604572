package buildfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/fsutil"
)

// RemoveDuplicates deletes, from every purpose directory other than
// hardware/src, the files whose relative path also exists under
// hardware/src. It returns the removed paths, relative to buildDir.
func RemoveDuplicates(ctx context.Context, buildDir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	hwFiles, err := fsutil.RelFiles(filepath.Join(buildDir, descriptor.DirHardwareSrc))
	if err != nil {
		return nil, err
	}
	hw := make(map[string]bool, len(hwFiles))
	for _, f := range hwFiles {
		hw[f] = true
	}

	var removed []string
	for _, p := range descriptor.Purposes {
		dir, _ := p.Dir()
		if dir == descriptor.DirHardwareSrc {
			continue
		}
		files, err := fsutil.RelFiles(filepath.Join(buildDir, dir))
		if err != nil {
			return removed, err
		}
		for _, f := range files {
			if !hw[f] {
				continue
			}
			rel := filepath.Join(dir, filepath.FromSlash(f))
			if err := os.Remove(filepath.Join(buildDir, rel)); err != nil {
				return removed, fmt.Errorf("failed to remove duplicate source %s: %w", rel, err)
			}
			removed = append(removed, rel)
		}
	}

	if len(removed) > 0 {
		logger.Debug("Removed duplicate sources.", "count", len(removed))
	}
	return removed, nil
}
