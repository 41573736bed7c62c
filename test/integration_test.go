// ABOUTME: Integration tests for coach CLI.
// ABOUTME: Builds the binary and runs a full coaching workflow against a temp store.
package test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the coach binary")
	}

	projectRoot, _ := filepath.Abs("..")
	coachBinary := filepath.Join(t.TempDir(), "coach")

	buildCmd := exec.Command("go", "build", "-o", coachBinary, "./cmd/coach")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	dataHome := t.TempDir()
	configHome := t.TempDir()

	run := func(args ...string) (string, error) {
		cmd := exec.Command(coachBinary, append([]string{"--user", "ada"}, args...)...)
		cmd.Env = append(os.Environ(),
			"XDG_DATA_HOME="+dataHome,
			"XDG_CONFIG_HOME="+configHome,
			"COACH_USER=",
		)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		output, err := cmd.Output()
		if err != nil {
			return string(output) + stderr.String(), err
		}
		return string(output), nil
	}

	output, err := run("init", "--start", "2025-01-06", "--equipment", "dumbbell")
	if err != nil {
		t.Fatalf("Failed to init: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Started coaching ada") {
		t.Errorf("Expected 'Started coaching ada' in output, got: %s", output)
	}

	output, err = run("plan")
	if err != nil {
		t.Fatalf("Failed to plan: %v\n%s", err, output)
	}
	if !strings.Contains(output, "min") {
		t.Errorf("Expected session durations in plan output, got: %s", output)
	}

	output, err = run("week", "3", "--sleep", "good", "--stress", "low", "--readiness", "strong")
	if err != nil {
		t.Fatalf("Failed to record week: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Week 1") {
		t.Errorf("Expected 'Week 1' in output, got: %s", output)
	}

	output, err = run("week", "1", "--pain", "knee", "--json")
	if err != nil {
		t.Fatalf("Failed to record week: %v\n%s", err, output)
	}
	var snap struct {
		Week        int      `json:"week"`
		SafetyNotes []string `json:"safety_notes"`
	}
	if err := json.Unmarshal([]byte(output), &snap); err != nil {
		t.Fatalf("week --json is not JSON: %v\n%s", err, output)
	}
	if snap.Week != 2 || len(snap.SafetyNotes) == 0 {
		t.Errorf("snapshot = %+v, want week 2 with safety notes", snap)
	}

	output, err = run("history")
	if err != nil {
		t.Fatalf("Failed to list history: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2025-01-13") {
		t.Errorf("Expected second week start in history, got: %s", output)
	}

	output, err = run("week", "three")
	if err == nil {
		t.Errorf("Expected failure for non-numeric sessions, got: %s", output)
	}
}
