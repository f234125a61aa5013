package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("nonexistent.yaml")
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.consoleEnabled() {
		t.Error("Default console = disabled, want enabled")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/rando.log" {
		t.Errorf("Default FilePath = %q, want %q", config.FilePath, "logs/rando.log")
	}
}

func TestLoadConfigFromRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rando.yaml")
	content := `seed: 12
worlds:
  - data: logic.yaml
logging:
  level: DEBUG
  console_enabled: false
  file_enabled: true
  file_path: out/gen.log
  file_max_size_mb: 20
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.consoleEnabled() {
		t.Error("console_enabled: false was not honoured")
	}
	if config.FilePath != "out/gen.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "out/gen.log")
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want %d", config.FileMaxSizeMB, 20)
	}
	if config.FileMaxBackups != 5 {
		t.Errorf("FileMaxBackups = %d, want default %d", config.FileMaxBackups, 5)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rando.yaml")
	if err := os.WriteFile(path, []byte("logging: [oops"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeWithConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := InitializeWithConsole(DefaultConfig(), &buf); err != nil {
		t.Fatalf("InitializeWithConsole failed: %v", err)
	}

	Info("attempt succeeded", "attempt", 3)
	Debug("attempt started")

	output := buf.String()
	if !strings.Contains(output, "attempt succeeded") {
		t.Errorf("Output missing INFO message: %s", output)
	}
	if !strings.Contains(output, "attempt=3") {
		t.Errorf("Output missing structured field: %s", output)
	}
	if strings.Contains(output, "attempt started") {
		t.Errorf("Output contains DEBUG message when level is INFO: %s", output)
	}

	SetLevel("DEBUG")
	defer SetLevel("INFO")
	Debug("attempt started")
	if !strings.Contains(buf.String(), "attempt started") {
		t.Error("SetLevel(DEBUG) did not enable debug output")
	}
}

func TestInitializeWithJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.ConsoleFormat = "json"
	if err := InitializeWithConsole(config, &buf); err != nil {
		t.Fatalf("InitializeWithConsole failed: %v", err)
	}

	Info("seed generated", "seed", "abc", "attempts", 4)

	output := buf.String()
	if !strings.Contains(output, `"msg":"seed generated"`) {
		t.Errorf("Output missing JSON message field: %s", output)
	}
	if !strings.Contains(output, `"attempts":4`) {
		t.Errorf("Output missing numeric JSON field: %s", output)
	}
}

func TestInitializeRejectsUnknownFormat(t *testing.T) {
	config := DefaultConfig()
	config.ConsoleFormat = "xml"
	if err := InitializeWithConsole(config, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown console format")
	}
}

func TestInitializeWithFile(t *testing.T) {
	var console bytes.Buffer
	config := DefaultConfig()
	config.FileEnabled = true
	config.FilePath = filepath.Join(t.TempDir(), "logs", "rando.log")
	config.FileFormat = "json"

	if err := InitializeWithConsole(config, &console); err != nil {
		t.Fatalf("InitializeWithConsole failed: %v", err)
	}
	Warning("generation exhausted", "attempts", 50)

	if !strings.Contains(console.String(), "generation exhausted") {
		t.Error("console handler did not receive message")
	}
	data, err := os.ReadFile(config.FilePath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"generation exhausted"`) {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestAlwaysBypassesLogLevel(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Level = "ERROR"
	if err := InitializeWithConsole(config, &buf); err != nil {
		t.Fatalf("InitializeWithConsole failed: %v", err)
	}
	defer SetLevel("INFO")

	Debug("Debug message")
	Info("Info message")
	Warning("Warning")
	Error("Error message")
	Always("Always message")

	output := buf.String()
	for _, hidden := range []string{"Debug message", "Info message", "Warning"} {
		if strings.Contains(output, hidden) {
			t.Errorf("%q appeared when level is ERROR", hidden)
		}
	}
	if !strings.Contains(output, "Error message") {
		t.Error("ERROR message missing from output")
	}
	if !strings.Contains(output, "level=ALWAYS") {
		t.Error("ALWAYS level not formatted correctly")
	}
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer
	logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Debugf("Debug: %d + %d = %d", 1, 2, 3)
	Infof("Info: %s", "test")
	Warningf("Warning: %.2f%%", 99.95)
	Errorf("Error: %v", "failed")
	Alwaysf("Always: %s %d", "count", 5)

	output := buf.String()
	for _, want := range []string{"Debug: 1 + 2 = 3", "Info: test", "Warning: 99.95%", "Error: failed", "Always: count 5"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError})

	logger = slog.New(newMultiHandler(handler1, handler2).WithAttrs([]slog.Attr{slog.Int("world", 1)}))
	Info("Multi-handler test", "field", "value")

	if !strings.Contains(buf1.String(), "world=1 field=value") {
		t.Errorf("First handler output = %q", buf1.String())
	}
	if buf2.Len() != 0 {
		t.Errorf("Second handler should filter INFO, got %q", buf2.String())
	}
}

func TestNilLogger(t *testing.T) {
	logger = nil

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logging with nil logger caused panic: %v", r)
		}
	}()

	Debug("debug")
	Info("info")
	Warning("warning")
	Error("error")
	Always("always")
}
