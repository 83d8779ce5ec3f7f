package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chromedock/chromedock/internal/profile"
)

// instanceDirPrefix names the dedicated per-profile user data directories
// created next to the browser data root.
const instanceDirPrefix = "Chrome_Instance_"

// InstanceDataDir returns the dedicated user data directory for a
// profile's launches. The browser enforces its process singleton per user
// data directory, so launching every profile through the shared root
// would delegate the spawn to whichever instance started first; a
// directory per profile is what lets several identities run at once.
func InstanceDataDir(prof profile.Info) string {
	root := filepath.Dir(prof.Path)
	return filepath.Join(filepath.Dir(root), instanceDirPrefix+prof.ID)
}

// PrepareInstanceDir creates the dedicated user data directory and seeds
// its Default profile from the source profile on first use. A failed seed
// copy is not fatal; the browser starts with a fresh profile instead.
func PrepareInstanceDir(prof profile.Info) error {
	dir := InstanceDataDir(prof)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create instance data directory: %w", err)
	}

	seed := filepath.Join(dir, "Default")
	if _, err := os.Stat(seed); err == nil {
		return nil
	}
	if err := copyTree(prof.Path, seed); err != nil {
		if mkErr := os.MkdirAll(seed, 0755); mkErr != nil {
			return fmt.Errorf("failed to create instance profile directory: %w", mkErr)
		}
	}
	return nil
}

// copyTree copies a directory tree of regular files. Symlinks and other
// special entries are skipped.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	// #nosec G304 - both paths are inside the scanned profile tree
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// #nosec G304
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
