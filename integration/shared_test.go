//go:build basic || database

// Package integration runs the ebb binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or with database containers: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var (
	buildOnce     sync.Once
	buildMutex    sync.Mutex
	sharedEbbPath string
	tempDir       string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getEbbBinary returns the path to the ebb binary, building it once if needed.
func getEbbBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "ebb-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		ebbPath := filepath.Join(tempDir, "ebb")
		buildCmd := exec.Command("go", "build", "-o", ebbPath, ".")
		buildCmd.Dir = ".." // Build from project root
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build ebb: %v\n%s", err, out))
		}

		sharedEbbPath = ebbPath
	})

	return sharedEbbPath
}

// runEbb runs the binary in dir with extra environment entries and returns stdout.
func runEbb(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getEbbBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// writeHistory writes a CSV file with one signal per day for the given number
// of days from start, alternating low and high.
func writeHistory(t *testing.T, dir string, start time.Time, days int) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("timestamp,state,local_date\n")
	for i := range days {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		state := "high"
		if i%2 == 0 {
			state = "low"
		}
		fmt.Fprintf(&buf, "%sT12:00:00Z,%s,%s\n", day, state, day)
	}
	path := filepath.Join(dir, "history.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write history: %v", err)
	}
	return path
}
