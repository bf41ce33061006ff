package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/logging"
)

// withFlags resets the CLI flag variables for one test.
func withFlags(t *testing.T) {
	t.Helper()
	saved := []any{configPath, logLevel, logFile, localeName, assetsDir, bodyName, perspective, fps, segments, summaryMode, frameCount}
	t.Cleanup(func() {
		configPath, logLevel, logFile = saved[0].(string), saved[1].(string), saved[2].(string)
		localeName, assetsDir = saved[3].(string), saved[4].(string)
		bodyName, perspective = saved[5].(string), saved[6].(string)
		fps, segments = saved[7].(int), saved[8].(int)
		summaryMode, frameCount = saved[9].(bool), saved[10].(int)
	})

	configPath, logLevel, logFile = "", "error", ""
	localeName, assetsDir = "en-US", t.TempDir()
	bodyName, perspective = "", ""
	fps, segments = 120, 8
	summaryMode, frameCount = true, 0
}

func TestSetupStore(t *testing.T) {
	withFlags(t)
	path := filepath.Join(t.TempDir(), "view.yaml")
	if err := os.WriteFile(path, []byte("selected: sun\nviewPerspective: north-pole\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = path
	bodyName = "Mars"

	store, err := setupStore(logging.Discard())
	if err != nil {
		t.Fatalf("setupStore: %v", err)
	}
	if got := store.SelectedBody(); got != body.Mars {
		t.Errorf("selected = %v, want mars (flag beats config)", got)
	}
	if got := store.ViewPerspective(); got != body.NorthPole {
		t.Errorf("perspective = %v, want north-pole from config", got)
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		want  int
	}{
		{"summary", func() {}, 0},
		{"unknown body", func() { bodyName = "pluto" }, 1},
		{"unknown perspective", func() { perspective = "zenith" }, 1},
		{"missing config", func() { configPath = "/nonexistent/view.yaml" }, 1},
		{"headless frames", func() { summaryMode, frameCount = false, 2 }, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withFlags(t)
			tc.setup()
			if got := run(); got != tc.want {
				t.Errorf("run() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRunHeadlessLogsToFile(t *testing.T) {
	withFlags(t)
	logFile = filepath.Join(t.TempDir(), "celestial.log")
	logLevel = "info"
	summaryMode, frameCount = false, 1

	if got := run(); got != 0 {
		t.Fatalf("run() = %d, want 0", got)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "mounted 4 controllers") {
		t.Errorf("log file missing mount line:\n%s", data)
	}
}
