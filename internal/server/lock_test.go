package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withFindProcess(t *testing.T, fn func(int) (ps.Process, error)) {
	t.Helper()
	orig := findProcessFunc
	findProcessFunc = fn
	t.Cleanup(func() { findProcessFunc = orig })
}

func TestLockPath(t *testing.T) {
	got := LockPath(filepath.Join("/data", "habitlit.db"))
	want := filepath.Join("/data", "habitlit-serve.lock")
	if got != want {
		t.Errorf("LockPath() = %q, want %q", got, want)
	}
}

func TestAcquireLock(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		process  ps.Process
		wantErr  bool
	}{
		{"no lockfile", "", nil, false},
		{"malformed lockfile", "garbage", nil, false},
		{"stale pid", "999999|127.0.0.1:7878", nil, false},
		{"pid reused by another program", "999999|127.0.0.1:7878", &mockProcess{pid: 999999, executable: "bash"}, false},
		{"live server", "999999|127.0.0.1:7878", &mockProcess{pid: 999999, executable: "habitlit"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "serve.lock")
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0600); err != nil {
					t.Fatal(err)
				}
			}
			withFindProcess(t, func(int) (ps.Process, error) { return tt.process, nil })

			lock, err := AcquireLock(path, "127.0.0.1:7878")
			if tt.wantErr {
				if !errors.Is(err, ErrAlreadyRunning) {
					t.Errorf("AcquireLock() error = %v, want ErrAlreadyRunning", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AcquireLock() error = %v", err)
			}

			pid, addr, err := readLockfile(path)
			if err != nil || pid != os.Getpid() || addr != "127.0.0.1:7878" {
				t.Errorf("lockfile = %d %q %v, want our pid", pid, addr, err)
			}

			if err := lock.Release(); err != nil {
				t.Fatalf("Release() error = %v", err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("lockfile should be removed on release")
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.lock")
	withFindProcess(t, func(int) (ps.Process, error) { return nil, nil })

	lock, err := AcquireLock(path, "127.0.0.1:7878")
	if err != nil {
		t.Fatal(err)
	}
	// Another server took over
	if err := os.WriteFile(path, []byte("12345|127.0.0.1:9000"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("a lockfile owned by another process should be left alone")
	}
}
