package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/session"
)

func sampleResult() session.Result {
	gesture := "hello"
	return session.Result{
		Success:         true,
		Gesture:         &gesture,
		Confidence:      0.92,
		Translation:     "hello",
		GestureCount:    1,
		DetectionActive: false,
		AutoStopped:     true,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that echoes an ok JSON response
	scriptContent := `#!/bin/sh
cat <<'EOF'
{"ok":true,"message":"noted"}
EOF
`
	scriptPath := filepath.Join(tmpDir, "test-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "test-hook",
			Version:    "1.0.0",
			Executable: "test-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor and execute
	executor := NewExecutor(5000) // 5 second timeout
	response, err := executor.Execute(h, sampleResult())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	// Verify response
	if !response.OK {
		t.Errorf("expected ok=true, got false")
	}
	if response.Message != "noted" {
		t.Errorf("expected message 'noted', got %q", response.Message)
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that saves stdin to a file in the hook directory.
	// The relative path also proves the executor runs the hook from its own
	// directory.
	scriptContent := `#!/bin/sh
cat > received.json
echo '{"ok":true,"message":"saved"}'
`
	scriptPath := filepath.Join(tmpDir, "save-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "save-hook",
			Version:    "1.0.0",
			Executable: "save-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor and execute
	executor := NewExecutor(5000)
	response, err := executor.Execute(h, sampleResult())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.OK {
		t.Errorf("expected ok=true, got false")
	}

	// Verify the result arrived on stdin
	data, err := os.ReadFile(filepath.Join(tmpDir, "received.json"))
	if err != nil {
		t.Fatalf("failed to read saved stdin: %v", err)
	}

	var received session.Result
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("failed to unmarshal saved stdin: %v", err)
	}

	if received.Gesture == nil || *received.Gesture != "hello" {
		t.Errorf("expected gesture 'hello', got %v", received.Gesture)
	}
	if received.Confidence != 0.92 {
		t.Errorf("expected confidence 0.92, got %v", received.Confidence)
	}
	if received.Translation != "hello" {
		t.Errorf("expected translation 'hello', got %q", received.Translation)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that sleeps longer than the timeout
	scriptContent := `#!/bin/sh
sleep 10
echo '{"ok":true}'
`
	scriptPath := filepath.Join(tmpDir, "slow-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "slow-hook",
			Version:    "1.0.0",
			Executable: "slow-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor with a very short timeout (100ms)
	executor := NewExecutor(100)
	_, err = executor.Execute(h, sampleResult())

	// Should return a timeout error
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	if !strings.Contains(err.Error(), "timeout") && !strings.Contains(err.Error(), "killed") && !strings.Contains(err.Error(), "context deadline exceeded") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that returns a failure response
	scriptContent := `#!/bin/sh
echo '{"ok":false,"message":"something went wrong"}'
`
	scriptPath := filepath.Join(tmpDir, "error-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "error-hook",
			Version:    "1.0.0",
			Executable: "error-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor and execute
	executor := NewExecutor(5000)
	response, err := executor.Execute(h, sampleResult())
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	// Verify failure response
	if response.OK {
		t.Errorf("expected ok=false, got true")
	}
	if response.Message != "something went wrong" {
		t.Errorf("expected message 'something went wrong', got %q", response.Message)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that outputs invalid JSON
	scriptContent := `#!/bin/sh
echo 'not valid json'
`
	scriptPath := filepath.Join(tmpDir, "bad-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "bad-hook",
			Version:    "1.0.0",
			Executable: "bad-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor and execute
	executor := NewExecutor(5000)
	_, err = executor.Execute(h, sampleResult())

	// Should return an error for invalid JSON
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	// Create a temporary directory for the test hook
	tmpDir, err := os.MkdirTemp("", "mudra-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Create a shell script that exits with non-zero status
	scriptContent := `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`
	scriptPath := filepath.Join(tmpDir, "exit-hook.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	// Create a hook
	h := &Hook{
		Manifest: Manifest{
			Name:       "exit-hook",
			Version:    "1.0.0",
			Executable: "exit-hook.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	// Create executor and execute
	executor := NewExecutor(5000)
	_, err = executor.Execute(h, sampleResult())

	// Should return an error for non-zero exit
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
}

func TestNewExecutor(t *testing.T) {
	executor := NewExecutor(3000)
	if executor == nil {
		t.Fatal("NewExecutor() returned nil")
	}
	if executor.timeoutMs != 3000 {
		t.Errorf("expected timeoutMs=3000, got %d", executor.timeoutMs)
	}
}
