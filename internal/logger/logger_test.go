package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/Leiracamera/clarityPMDD/internal/config"
)

func TestNewUsesJSONInProduction(t *testing.T) {
	var output bytes.Buffer
	logger := newWithWriter(&config.Config{AppEnv: "production", LogLevel: slog.LevelInfo}, &output)
	logger.Info("entry created", "entry_id", 7)

	payload := map[string]any{}
	if err := json.Unmarshal(output.Bytes(), &payload); err != nil {
		t.Fatalf("expected json log line, got %q: %v", output.String(), err)
	}
	if payload["msg"] != "entry created" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
}

func TestNewHonorsLevel(t *testing.T) {
	var output bytes.Buffer
	logger := newWithWriter(&config.Config{AppEnv: "development", LogLevel: slog.LevelWarn}, &output)
	logger.Info("hidden")
	logger.Warn("shown")

	text := output.String()
	if strings.Contains(text, "hidden") {
		t.Fatalf("info line should be filtered: %q", text)
	}
	if !strings.Contains(text, "shown") {
		t.Fatalf("warn line missing: %q", text)
	}
}
