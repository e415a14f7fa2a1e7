// Package chrome derives Chrome version information and user agent strings.
package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// VersionHistoryURL lists stable Chrome versions, newest first.
const VersionHistoryURL = "https://versionhistory.googleapis.com/v1/chrome/platforms/win/" +
	"channels/stable/versions"

// DefaultUserAgentOS is the platform portion of the generated user agent.
const DefaultUserAgentOS = "Windows NT 10.0; Win64; x64"

// profileDirs are checked in order: Chrome Beta, Chrome, Chrome Canary,
// Chromium, for every supported platform.
var profileDirs = []string{
	".config/google-chrome-beta",
	"AppData/Local/Google/Chrome Beta/User Data",
	"Library/Application Support/Google/Chrome Beta",
	".config/google-chrome",
	"AppData/Local/Google/Chrome/User Data",
	"Library/Application Support/Google/Chrome",
	".config/google-chrome-unstable",
	"AppData/Local/Google/Chrome Canary/User Data",
	"Library/Application Support/Google/Chrome Canary",
	".config/chromium",
	"AppData/Local/Google/Chromium/User Data",
	"Library/Application Support/Google/Chromium",
}

// LastMajorVersion reads the last run Chrome major version from the first
// profile directory that has a Last Version file. Returns an empty string
// when no browser profile is found.
func LastMajorVersion() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return lastMajorVersion(home)
}

func lastMajorVersion(home string) string {
	for _, dir := range profileDirs {
		raw, err := os.ReadFile(filepath.Join(home, filepath.FromSlash(dir), "Last Version"))
		if err != nil {
			continue
		}
		version, _, _ := strings.Cut(strings.TrimSpace(string(raw)), ".")
		return version
	}
	return ""
}

// LatestMajorVersion fetches the current stable Chrome major version.
func LatestMajorVersion(ctx context.Context, client *http.Client) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, VersionHistoryURL, nil)
	if err != nil {
		return "", errors.Errorf("building version history request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Errorf("fetching version history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("version history returned %s", resp.Status)
	}
	var body struct {
		Versions []struct {
			Version string `json:"version"`
		} `json:"versions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Errorf("decoding version history: %w", err)
	}
	if len(body.Versions) == 0 {
		return "", errors.New("version history returned no versions")
	}
	version, _, _ := strings.Cut(body.Versions[0].Version, ".")
	return version, nil
}

// UserAgent builds a Chrome user agent string. The local browser's version
// is preferred, falling back to the latest stable version.
func UserAgent(ctx context.Context, client *http.Client, osPart string) (string, error) {
	if osPart == "" {
		osPart = DefaultUserAgentOS
	}
	major := LastMajorVersion()
	if major == "" {
		var err error
		major, err = LatestMajorVersion(ctx, client)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) "+
		"Chrome/%s.0.0.0 Safari/537.36", osPart, major), nil
}
