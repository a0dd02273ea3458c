package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	depotBin    string
	buildOnce   sync.Once
	buildErr    error
	buildTmpDir string
)

// ensureBinary builds the depot binary once and returns the path to it.
func ensureBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		root, err := FindProjectRoot()
		if err != nil {
			buildErr = err
			return
		}
		buildTmpDir, buildErr = os.MkdirTemp("", "depot-cli-test-*")
		if buildErr != nil {
			return
		}
		binPath := filepath.Join(buildTmpDir, "depot")
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/depot")
		cmd.Dir = root
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		buildErr = cmd.Run()
		if buildErr == nil {
			depotBin = binPath
		}
	})
	require.NoError(t, buildErr, "build depot binary")
	return depotBin
}

// workspace is one isolated depot installation.
type workspace struct {
	configDir string
	dataDir   string
}

// newWorkspace creates directories for a fresh installation and runs init.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	ws := &workspace{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
	_, stderr, code := ws.run(t, "", "init")
	require.Equal(t, 0, code, "init failed: %s", stderr)
	return ws
}

// run executes the depot binary against the workspace with stdin as input.
func (ws *workspace) run(t *testing.T, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	bin := ensureBinary(t)
	fullArgs := append([]string{"--config-dir", ws.configDir, "--data-dir", ws.dataDir}, args...)
	cmd := exec.Command(bin, fullArgs...)
	cmd.Env = append(os.Environ(), "DEPOT_MODE=", "DEPOT_LOG_LEVEL=")
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("run depot: %v", err)
		}
	}
	return stdout, stderr, exitCode
}

// mustRun runs depot and fails the test on a non-zero exit.
func (ws *workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := ws.run(t, "", args...)
	require.Equal(t, 0, code, "depot %v: %s", args, stderr)
	return stdout
}

// parseJSON decodes stdout into v.
func parseJSON(t *testing.T, stdout string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(stdout), v), "output: %s", stdout)
}
