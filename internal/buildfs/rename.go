package buildfs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Rename replaces a contributor's name with the name of the descriptor being
// built, in both its original and upper-case forms.
type Rename struct {
	Old string
	New string
}

// Identity reports whether the rename leaves text unchanged.
func (r Rename) Identity() bool {
	return r.Old == "" || r.Old == r.New
}

// Apply renames every occurrence in s.
func (r Rename) Apply(s string) string {
	if r.Identity() {
		return s
	}
	s = strings.ReplaceAll(s, r.Old, r.New)
	return strings.ReplaceAll(s, strings.ToUpper(r.Old), strings.ToUpper(r.New))
}

func (r Rename) applyBytes(b []byte) []byte {
	if r.Identity() {
		return b
	}
	b = bytes.ReplaceAll(b, []byte(r.Old), []byte(r.New))
	return bytes.ReplaceAll(b, []byte(strings.ToUpper(r.Old)), []byte(strings.ToUpper(r.New)))
}

// CopyFile copies src into dstDir under its renamed base name and returns the
// destination path. Text content is renamed too; content that is not valid
// UTF-8 is copied byte for byte. The source permission bits are kept.
func CopyFile(src, dstDir string, r Rename) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dstDir, r.Apply(filepath.Base(src)))

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}
	if !utf8.Valid(data) {
		return dst, copyRaw(src, dst, info.Mode().Perm())
	}
	data = r.applyBytes(data)

	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	// WriteFile leaves the mode of an existing file alone.
	return dst, os.Chmod(dst, info.Mode().Perm())
}

func copyRaw(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, perm)
}
