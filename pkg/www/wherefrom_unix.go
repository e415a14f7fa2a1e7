//go:build linux || darwin

package www

import (
	"runtime"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
	"howett.net/plist"

	"github.com/tatsh/tmu/pkg/stringutil"
)

const (
	xattrOriginURL  = "user.xdg.origin.url"
	xattrWhereFroms = "com.apple.metadata:kMDItemWhereFroms"
)

func getxattr(path, key string) ([]byte, error) {
	size, err := unix.Getxattr(path, key, nil)
	if err != nil {
		return nil, errors.Errorf("reading attribute %s of %s: %w", key, path, err)
	}
	buf := make([]byte, size)
	n, err := unix.Getxattr(path, key, buf)
	if err != nil {
		return nil, errors.Errorf("reading attribute %s of %s: %w", key, path, err)
	}
	return buf[:n], nil
}

// WhereFrom reports the URL a downloaded file came from. On Linux this is
// the user.xdg.origin.url attribute. On macOS the kMDItemWhereFroms
// attribute holds a plist whose second entry is the containing webpage,
// returned when webpage is set.
func WhereFrom(path string, webpage bool) (string, error) {
	if runtime.GOOS == "linux" {
		value, err := getxattr(path, xattrOriginURL)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}
	value, err := getxattr(path, xattrWhereFroms)
	if err != nil {
		return "", err
	}
	decoded, err := stringutil.HexStringToBytes(string(value))
	if err != nil {
		return "", errors.Errorf("decoding attribute of %s: %w", path, err)
	}
	var froms []string
	if _, err := plist.Unmarshal(decoded, &froms); err != nil {
		return "", errors.Errorf("parsing attribute plist of %s: %w", path, err)
	}
	index := 0
	if webpage {
		index = 1
	}
	if index >= len(froms) {
		return "", errors.Errorf("no origin URL recorded for %s", path)
	}
	return froms[index], nil
}
