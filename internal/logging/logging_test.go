package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewTo_NonVerboseDropsDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTo(&buf, "engine", false)

	logger.Debug().Msg("should not appear")
	if buf.Len() != 0 {
		t.Errorf("buf = %q, want empty (debug suppressed at info level)", buf.String())
	}

	logger.Info().Msg("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("buf = %q, want it to contain the info message", buf.String())
	}
}

func TestNewTo_VerboseEnablesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTo(&buf, "engine", true)

	logger.Debug().Msg("visible now")
	if !strings.Contains(buf.String(), "visible now") {
		t.Errorf("buf = %q, want it to contain the debug message", buf.String())
	}
}

func TestNewTo_TagsEveryEventWithTheModuleField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTo(&buf, "runner", false)

	logger.Info().Msg("tagged")
	if !strings.Contains(buf.String(), `"module":"runner"`) {
		t.Errorf("buf = %q, want a module=runner field", buf.String())
	}
}

func TestNew_DefaultsToInfoLevelWhenNotVerbose(t *testing.T) {
	logger := New("engine", false)
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want InfoLevel", logger.GetLevel())
	}
}

func TestNew_UsesDebugLevelWhenVerbose(t *testing.T) {
	logger := New("engine", true)
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want DebugLevel", logger.GetLevel())
	}
}
