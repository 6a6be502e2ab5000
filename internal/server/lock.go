package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

var findProcessFunc = ps.FindProcess

// ErrAlreadyRunning is returned when another live server holds the lock
var ErrAlreadyRunning = errors.New("another habitlit server is already running")

// Lock is a pidfile that keeps a single server per database directory.
type Lock struct {
	path string
}

// LockPath returns the lockfile location for a database file
func LockPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), constants.ServerLockfileName)
}

// AcquireLock writes "pid|addr" to path. A lockfile left by a process that
// is no longer running, or that is not habitlit, is replaced.
func AcquireLock(path, addr string) (*Lock, error) {
	if pid, otherAddr, err := readLockfile(path); err == nil {
		if running(pid) {
			return nil, fmt.Errorf("%w (pid %d on %s)", ErrAlreadyRunning, pid, otherAddr)
		}
		logger.Warn("Replacing stale server lockfile", "path", path, "pid", pid)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	content := fmt.Sprintf("%d|%s", os.Getpid(), addr)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile if it still belongs to this process
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, _, err := readLockfile(l.path)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func readLockfile(path string) (int, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}

	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	if len(parts) != 2 {
		return 0, "", errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", errors.New("invalid process ID in lockfile")
	}
	return pid, parts[1], nil
}

func running(pid int) bool {
	if pid == os.Getpid() {
		return false
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
