// Package system covers host maintenance helpers: renames, process
// termination, macOS bundle patching and Wine prefix management.
package system

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/tatsh/tmu/pkg/stringutil"
)

// SlugRename renames the file or directory at path to a slug version of its
// base name and returns the new path.
func SlugRename(path string, noLower bool) (string, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", errors.Errorf("inspecting %s: %w", path, err)
	}
	target := filepath.Join(filepath.Dir(resolved),
		stringutil.Slugify(filepath.Base(resolved), noLower))
	if err := os.Rename(resolved, target); err != nil {
		return "", errors.Errorf("renaming %s: %w", path, err)
	}
	return target, nil
}
