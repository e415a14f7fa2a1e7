package system

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
	"howett.net/plist"
)

// PatchBundleInfoPlist merges data into a macOS bundle's Info.plist.
//
//	PatchBundleInfoPlist("App.app", map[string]any{"NSHighResolutionCapable": true})
func PatchBundleInfoPlist(bundle string, data map[string]any) error {
	infoPlist := filepath.Join(bundle, "Contents", "Info.plist")
	contents, err := os.ReadFile(infoPlist)
	if err != nil {
		return errors.Errorf("reading %s: %w", infoPlist, err)
	}
	var fileData map[string]any
	if _, err := plist.Unmarshal(contents, &fileData); err != nil {
		return errors.Errorf("decoding %s: %w", infoPlist, err)
	}
	for key, value := range data {
		fileData[key] = value
	}
	out, err := plist.MarshalIndent(fileData, plist.XMLFormat, "\t")
	if err != nil {
		return errors.Errorf("encoding %s: %w", infoPlist, err)
	}
	if err := os.WriteFile(infoPlist, out, 0o644); err != nil {
		return errors.Errorf("writing %s: %w", infoPlist, err)
	}
	return nil
}
