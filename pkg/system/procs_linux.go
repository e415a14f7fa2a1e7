//go:build linux

package system

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

// processesMatching returns the PIDs of processes whose command name
// satisfies match. Kernel command names are truncated to 15 bytes.
func processesMatching(match func(name string) bool) ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, errors.Errorf("reading /proc: %w", err)
	}
	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "comm"))
		if err != nil {
			continue
		}
		if match(strings.TrimSpace(string(comm))) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// KillProcessesMatching signals every process whose command name satisfies
// match. When waitTimeout is positive, remaining processes are returned
// after the wait, and killed with SIGKILL first if force is set.
func KillProcessesMatching(match func(name string) bool, sig unix.Signal,
	waitTimeout time.Duration, force bool) ([]int, error) {
	pids, err := processesMatching(match)
	if err != nil {
		return nil, err
	}
	for _, pid := range pids {
		// The process may be gone already.
		_ = unix.Kill(pid, sig)
	}
	if waitTimeout <= 0 {
		return nil, nil
	}
	time.Sleep(waitTimeout)
	remaining, err := processesMatching(match)
	if err != nil {
		return nil, err
	}
	if force {
		for _, pid := range remaining {
			_ = unix.Kill(pid, unix.SIGKILL)
		}
	}
	return remaining, nil
}

// KillProcessesByName terminates processes by their command name.
func KillProcessesByName(name string, sig unix.Signal, waitTimeout time.Duration,
	force bool) ([]int, error) {
	return KillProcessesMatching(func(comm string) bool {
		return comm == name
	}, sig, waitTimeout, force)
}

// KillGamescope ends any gamescope processes.
func KillGamescope() error {
	_, err := KillProcessesMatching(func(comm string) bool {
		return comm == "gamescope" || comm == "gamescopereaper"
	}, unix.SIGKILL, 0, false)
	return err
}

// KillWine ends Wine processes. A process named with .exe is assumed to be a
// Wine process.
func KillWine() error {
	_, err := KillProcessesMatching(func(comm string) bool {
		switch comm {
		case "wineserver", "wine-preloader", "wine64-preloader":
			return true
		}
		return strings.HasSuffix(strings.ToLower(comm), ".exe")
	}, unix.SIGKILL, 0, false)
	return err
}
