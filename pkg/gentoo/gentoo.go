// Package gentoo automates Gentoo maintenance chores.
package gentoo

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultActiveKernelName is the name of the symlink to the active
	// kernel sources.
	DefaultActiveKernelName = "linux"
	// DefaultKernelLocation is where kernel sources are installed.
	DefaultKernelLocation = "/usr/src"
	// DefaultModulesPath is where kernel modules are installed.
	DefaultModulesPath = "/lib/modules"
)

// CleanOldKernels removes inactive kernel source trees and module
// directories, keeping whatever the active kernel symlink points at. The
// removed paths are returned.
func CleanOldKernels(logger zerolog.Logger, path, modulesPath,
	activeKernelName string) ([]string, error) {
	if path == "" {
		path = DefaultKernelLocation
	}
	if modulesPath == "" {
		modulesPath = DefaultModulesPath
	}
	if activeKernelName == "" {
		activeKernelName = DefaultActiveKernelName
	}
	loc := filepath.Join(path, activeKernelName)
	info, err := os.Lstat(loc)
	if err != nil {
		return nil, errors.Errorf("inspecting %s: %w", loc, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil, errors.Errorf("%s is not a symbolic link", loc)
	}
	target, err := os.Readlink(loc)
	if err != nil {
		return nil, errors.Errorf("reading link %s: %w", loc, err)
	}
	version := regexp.MustCompile("^"+regexp.QuoteMeta(DefaultActiveKernelName)+"-").
		ReplaceAllString(target, "")
	currentVersion := activeKernelName + "-" + version
	versionPattern := "*" + version + "*"
	var removed []string
	moduleDirs, err := os.ReadDir(modulesPath)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", modulesPath, err)
	}
	for _, entry := range moduleDirs {
		full := filepath.Join(modulesPath, entry.Name())
		logger.Debug().Str("path", full).Msg("examining")
		match, err := doublestar.Match(versionPattern, entry.Name())
		if err != nil {
			return nil, errors.Errorf("matching %s: %w", versionPattern, err)
		}
		if entry.IsDir() && !match {
			logger.Debug().Str("path", full).Msg("deleting")
			if err := os.RemoveAll(full); err != nil {
				return removed, errors.Errorf("removing %s: %w", full, err)
			}
			removed = append(removed, full)
		}
	}
	sourceDirs, err := os.ReadDir(path)
	if err != nil {
		return removed, errors.Errorf("reading %s: %w", path, err)
	}
	for _, entry := range sourceDirs {
		if !strings.HasPrefix(entry.Name(), activeKernelName+"-") {
			continue
		}
		full := filepath.Join(path, entry.Name())
		logger.Debug().Str("path", full).Msg("examining")
		if entry.IsDir() && entry.Name() != currentVersion {
			logger.Debug().Str("path", full).Msg("deleting")
			if err := os.RemoveAll(full); err != nil {
				return removed, errors.Errorf("removing %s: %w", full, err)
			}
			removed = append(removed, full)
		}
	}
	return removed, nil
}
