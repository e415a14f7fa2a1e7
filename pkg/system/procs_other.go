//go:build !linux

package system

import (
	"time"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

// KillProcessesMatching is only implemented on Linux.
func KillProcessesMatching(match func(name string) bool, sig unix.Signal,
	waitTimeout time.Duration, force bool) ([]int, error) {
	return nil, errors.New("killing processes by name is only supported on Linux")
}

// KillProcessesByName is only implemented on Linux.
func KillProcessesByName(name string, sig unix.Signal, waitTimeout time.Duration,
	force bool) ([]int, error) {
	return nil, errors.New("killing processes by name is only supported on Linux")
}

// KillGamescope is only implemented on Linux.
func KillGamescope() error {
	return errors.New("killing processes by name is only supported on Linux")
}

// KillWine is only implemented on Linux.
func KillWine() error {
	return errors.New("killing processes by name is only supported on Linux")
}
