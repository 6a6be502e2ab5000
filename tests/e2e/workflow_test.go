package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_LOCKFILE_TIMEOUT = 30 * time.Second
	TEST_REQUEST_TIMEOUT  = 5 * time.Second
)

// TestEndToEndWorkflow drives a built habitlit binary through the CLI and
// then the HTTP API. Set HABITLIT_BIN_DIR or build into ./bin first.
func TestEndToEndWorkflow(t *testing.T) {
	binDir := os.Getenv("HABITLIT_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join("..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "habitlit")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s; build it first", cliPath)
	}

	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "habitlit", "habitlit.db")
	cfgPath := filepath.Join(tempDir, "habitlit", "config.yaml")

	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "HABITLIT_API_KEY=") || strings.HasPrefix(e, "GOOGLE_API_KEY=") {
			continue
		}
		env = append(env, e)
	}
	env = append(env, "HOME="+tempDir)

	run := func(args ...string) string {
		t.Helper()
		return runCmd(t, cliPath, env, append([]string{"--db", dbPath, "--config", cfgPath}, args...)...)
	}

	// 1. Initialize and configure
	run("init")
	run("config", "set", "coach-provider", "offline")
	run("config", "set", "timezone", "UTC")

	// 2. Habits and moods
	run("habit", "add", "Read", "--category", "productivity")
	run("habit", "add", "Run", "--category", "health")
	run("habit", "mark", "Read")
	run("habit", "mark", "Run", "--date", "yesterday")
	run("mood", "log", "good", "--note", "solid day", "--activities", "reading,walk")

	if out := run("habit", "today"); !strings.Contains(out, "Read") {
		t.Errorf("habit today output missing Read:\n%s", out)
	}

	// 3. Analytics
	var risks []map[string]any
	if err := json.Unmarshal([]byte(run("insights", "risks", "--json")), &risks); err != nil {
		t.Fatalf("insights risks --json is not JSON: %v", err)
	}
	if len(risks) != 2 {
		t.Errorf("got %d risk assessments, want 2", len(risks))
	}

	if out := run("chat", "I keep missing my run"); out == "" {
		t.Error("chat produced no reply")
	}

	// 4. Export and snapshot
	exportPath := filepath.Join(tempDir, "export.json")
	run("data", "export", exportPath)
	run("data", "import", "--dry-run", exportPath)
	run("backup", "create")
	run("doctor")

	// 5. Serve the API
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveCmd := exec.CommandContext(ctx, cliPath, "--db", dbPath, "--config", cfgPath, "serve", "--addr", addr)
	serveCmd.Env = env
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		_ = serveCmd.Process.Signal(os.Interrupt)
		_ = serveCmd.Wait()
	}()

	waitForFile(t, filepath.Join(filepath.Dir(dbPath), "habitlit-serve.lock"), TEST_LOCKFILE_TIMEOUT)
	waitForHTTP(t, "http://"+addr+"/healthz", TEST_LOCKFILE_TIMEOUT)

	client := &http.Client{Timeout: TEST_REQUEST_TIMEOUT}
	resp, err := client.Get("http://" + addr + "/api/habits")
	if err != nil {
		t.Fatalf("GET /api/habits failed: %v", err)
	}
	defer resp.Body.Close()

	var habits []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&habits); err != nil {
		t.Fatalf("failed to decode habits: %v", err)
	}
	if len(habits) != 2 {
		t.Errorf("API returned %d habits, want 2", len(habits))
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func waitForFile(t *testing.T, path string, timeout time.Duration) {
	start := time.Now()
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for file: %s", path)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func waitForHTTP(t *testing.T, url string, timeout time.Duration) {
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return fmt.Sprintf("127.0.0.1:%d", l.Addr().(*net.TCPAddr).Port)
}
