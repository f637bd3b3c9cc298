package logger

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Adda-Baaj/taskprobe/internal/config"
)

func TestInitWritesLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "user_tests.log")
	log, err := Init(&config.Config{LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	log.InfoObj("login attempted", "email", "a@example.com")
	log.DebugObj("hidden at info level", "k", "v")
	ErrorObj("login failed", "status", 401)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), raw)
	}

	pattern := regexp.MustCompile(`^\d{2}-\d{2} \d{2}:\d{2},\d{3} (INFO|ERROR) +\[logger_test\.go:\d+:[^\]]+\] `)
	for _, line := range lines {
		if !pattern.MatchString(line) {
			t.Fatalf("line does not match format: %q", line)
		}
	}
	if !strings.Contains(lines[0], "INFO     [") || !strings.Contains(lines[0], `"email": "a@example.com"`) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR    [") || !strings.Contains(lines[1], "login failed") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestInitRejectsNilConfig(t *testing.T) {
	if _, err := Init(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s want %s", in, got, want)
		}
	}
}
