package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PraneetTulluri/Stats-Tracker/internal/logging"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("warn", &buf)

	logger.Info("hidden")
	logger.Warn("Roster cache read failed", "user_id", "u1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "user_id=u1") {
		t.Errorf("expected key/value output, got %q", out)
	}
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("loud", &buf)

	logger.Debug("hidden")
	logger.Info("Connected to Redis")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "Connected to Redis") {
		t.Errorf("unexpected output %q", out)
	}
}
