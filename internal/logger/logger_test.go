package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	if got := Path(); got != filepath.Join(logDir, "planner.log") {
		t.Errorf("Path() = %q, want planner.log under %s", got, logDir)
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "collection", "goals")
	Error("Test error message")
}

func TestWarnWritesToFile(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Warn("corrupt payload", "key", "tasks")
	Debug("filtered out at warn level")

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "corrupt payload") {
		t.Errorf("log file missing warn line: %q", content)
	}
	if strings.Contains(content, "filtered out") {
		t.Errorf("log file contains debug line at warn level: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     true,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	sub := With("component", "sync")
	if sub == nil {
		t.Fatal("With() returned nil after Init")
	}
	sub.Debug("Test debug message in debug mode")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if With("k", "v") != nil {
		t.Error("With() should return nil before Init")
	}
}
