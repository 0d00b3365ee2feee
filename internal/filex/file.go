// Package filex resolves and creates the directories the client keeps its
// short-lived state in.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppDirName is the per-user directory holding the flag store.
const AppDirName = "skillsync"

// EnsureDir makes sure dir exists with owner-only permissions and returns its
// absolute path. Relative paths are resolved against the working directory.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// DefaultStateDir returns (and creates) <user config dir>/skillsync.
func DefaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return EnsureDir(filepath.Join(base, AppDirName))
}
