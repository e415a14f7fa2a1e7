//go:build !linux && !darwin

package www

import "gitlab.com/tozd/go/errors"

// WhereFrom is only implemented on Linux and macOS.
func WhereFrom(path string, webpage bool) (string, error) {
	return "", errors.New("download origins are only recorded on Linux and macOS")
}
