// Package pidlock implements a single-writer guard over a data directory:
// a PID file checked for a still-live owner before acquisition, removed on
// release.
package pidlock

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrLocked is returned by Acquire when the lock file names a PID that is
// still a running process.
var ErrLocked = errors.New("pidlock: held by a running process")

// Handle is the acquired lock. Release removes the file; it is safe to call
// once, and it is the caller's responsibility to call it exactly once
// after every engine thread that could touch the data directory has
// stopped.
type Handle struct {
	path string
}

// Acquire reads the existing lock file at path, if any. If it names a PID
// that is still alive, Acquire fails with ErrLocked. Otherwise it writes
// the current process's PID to path and returns a Handle.
func Acquire(path string) (*Handle, error) {
	if existing, err := os.ReadFile(path); err == nil {
		pid, parseErr := strconv.Atoi(strings.TrimSpace(string(existing)))
		if parseErr == nil {
			alive, liveErr := process.PidExists(int32(pid))
			if liveErr == nil && alive {
				return nil, ErrLocked
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("pidlock: read %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("pidlock: write %s: %w", path, err)
	}
	return &Handle{path: path}, nil
}

// Release removes the lock file.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pidlock: remove %s: %w", h.path, err)
	}
	return nil
}
