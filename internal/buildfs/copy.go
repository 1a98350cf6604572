package buildfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/specialistvlad/ipforge/internal/ctxlog"
	"github.com/specialistvlad/ipforge/internal/descriptor"
	"github.com/specialistvlad/ipforge/internal/fsutil"
)

// Options carries the project settings that affect the build directory.
type Options struct {
	// LibDir holds the generic build.mk copied to the build root.
	LibDir string
	// Exclude holds base-name patterns (path.Match syntax) of files and
	// directories never copied. Patterns match the name before renaming.
	Exclude []string
}

func (o Options) excluded(name string) bool {
	for _, pattern := range o.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// CopyTree copies the tree rooted at src into dst, renaming every file with r
// and overwriting existing files. Directory names are kept as they are.
func CopyTree(src, dst string, r Rename, opts Options) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != src && opts.excluded(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return copyLink(p, target, r, opts)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		_, err = CopyFile(p, filepath.Dir(target), r)
		return err
	})
}

// copyLink copies what the symbolic link at p points to.
func copyLink(p, target string, r Rename, opts Options) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to follow link %s: %w", p, err)
	}
	switch {
	case info.IsDir():
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			return fmt.Errorf("failed to follow link %s: %w", p, err)
		}
		return CopyTree(resolved, target, r, opts)
	case info.Mode().IsRegular():
		_, err = CopyFile(p, filepath.Dir(target), r)
		return err
	}
	return nil
}

// topOnlyDirs are copied only when the descriptor is the top of the build.
var topOnlyDirs = []string{
	"hardware/simulation",
	"hardware/fpga",
	descriptor.DirSynthesis,
	descriptor.DirLint,
}

// CopySources copies the source trees of every contributor in st's chain,
// from the most generic to the most specific, into the build directory.
// Contributors without a setup directory, or whose setup directory was
// already copied, are skipped. Hardware sources go to the directory of
// purpose.
func CopySources(ctx context.Context, st *descriptor.State, purpose descriptor.Purpose, opts Options) error {
	logger := ctxlog.FromContext(ctx)

	purposeDir, err := purpose.Dir()
	if err != nil {
		return descriptor.Errorf(st.Name(), "%v", err)
	}

	seen := make(map[string]bool)
	for _, c := range st.Chain {
		if c.SetupDir == "" || seen[c.SetupDir] {
			continue
		}
		seen[c.SetupDir] = true
		rename := Rename{Old: c.Name, New: st.Name()}

		dirs := []string{descriptor.DirHardwareSrc, "software"}
		if st.IsTop {
			dirs = append(dirs, topOnlyDirs...)
		}

		for _, dir := range dirs {
			src := filepath.Join(c.SetupDir, dir)
			if !fsutil.IsDir(src) {
				continue
			}
			dst := dir
			if dir == descriptor.DirHardwareSrc {
				dst = purposeDir
			}
			logger.Debug("Copying sources.", "contributor", c.Name, "from", src, "to", dst)
			if err := CopyTree(src, filepath.Join(st.BuildDir, dst), rename, opts); err != nil {
				return fmt.Errorf("failed to copy %s sources of %s: %w", dir, c.Name, err)
			}
		}

		if st.IsTop && st.Flows().Has(descriptor.FlowDoc) {
			src := filepath.Join(c.SetupDir, "document")
			if fsutil.IsDir(src) {
				// Documentation is copied without renaming.
				if err := CopyTree(src, filepath.Join(st.BuildDir, "document"), Rename{}, opts); err != nil {
					return fmt.Errorf("failed to copy documents of %s: %w", c.Name, err)
				}
			}
		}
	}
	return nil
}
