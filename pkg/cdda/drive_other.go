//go:build !linux

package cdda

import (
	"context"
	"time"

	"gitlab.com/tozd/go/errors"
)

// DiscID is only implemented on Linux.
func DiscID(drive string) (string, error) {
	return "", errors.New("disc ID calculation requires Linux")
}

// WaitForDisc is only implemented on Linux.
func WaitForDisc(ctx context.Context, drive string, interval time.Duration) error {
	return errors.New("drive status polling requires Linux")
}
