package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and restores it on cleanup.
func captureOutput(t *testing.T, level, format string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	origOutput, origColor := output, useColor
	mu.Unlock()
	origLevel := GetLevel()
	origFormat, _ := currentFormat.Load().(string)

	InitWithWriter(buf, level, format, false)

	t.Cleanup(func() {
		InitWithWriter(origOutput, origLevel.String(), origFormat, origColor)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{"DEBUG", []string{"debug msg", "info msg", "warn msg", "error msg"}, nil},
		{"INFO", []string{"info msg", "warn msg", "error msg"}, []string{"debug msg"}},
		{"WARN", []string{"warn msg", "error msg"}, []string{"debug msg", "info msg"}},
		{"ERROR", []string{"error msg"}, []string{"debug msg", "info msg", "warn msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureOutput(t, tt.level, "text")

			Debug("debug msg")
			Info("info msg")
			Warn("warn msg")
			Error("error msg")

			out := buf.String()
			for _, s := range tt.visible {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.hidden {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	t.Run("CaseInsensitive", func(t *testing.T) {
		buf := captureOutput(t, "debug", "text")
		Debug("lower")
		assert.Contains(t, buf.String(), "lower")
		assert.Equal(t, LevelDebug, GetLevel())
	})

	t.Run("IgnoresInvalidValues", func(t *testing.T) {
		buf := captureOutput(t, "INFO", "text")
		SetLevel("LOUD")
		Debug("hidden")
		Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestTextFormat(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	Info("draft saved", KeyDraftID, "1700000000000", KeyDraftName, "My notes", KeyBytes, 42)

	line := buf.String()
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] draft saved`, line)
	assert.Contains(t, line, "draft_id=1700000000000")
	assert.Contains(t, line, `draft_name="My notes"`)
	assert.Contains(t, line, "bytes=42")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTextFormat_Groups(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")

	With(KeyStoreType, "memory").WithGroup("write").Info("done", "attempt", 1)
	assert.Contains(t, buf.String(), "store_type=memory")
	assert.Contains(t, buf.String(), "write.attempt=1")
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t, "INFO", "json")

	Warn("quota exceeded", Key("markdown-content"), ErrorKind("quota-exceeded"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "quota exceeded", entry["msg"])
	assert.Equal(t, "markdown-content", entry[KeyKey])
	assert.Equal(t, "quota-exceeded", entry[KeyErrorKind])
}

func TestContextFields(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "text")

	lc := NewLogContext("write").WithKey("markdown-drafts").WithDraft("42")
	ctx := WithContext(context.Background(), lc)

	DebugCtx(ctx, "persisting", KeyBytes, 10)

	line := buf.String()
	assert.Contains(t, line, "operation=write")
	assert.Contains(t, line, "key=markdown-drafts")
	assert.Contains(t, line, "draft_id=42")
	assert.Less(t, strings.Index(line, "operation="), strings.Index(line, "bytes="))
}

func TestContextFields_NoContext(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")
	InfoCtx(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "operation=")
}

func TestLogContext_CloneIsIndependent(t *testing.T) {
	base := NewLogContext("read")
	derived := base.WithKey("k")

	assert.Empty(t, base.Key)
	assert.Equal(t, "k", derived.Key)
	assert.Nil(t, (*LogContext)(nil).WithKey("k"))
	assert.Zero(t, (*LogContext)(nil).DurationMs())
}

func TestErrAttr(t *testing.T) {
	assert.True(t, Err(nil).Equal(slog.Attr{}))
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)

	_, ok = ParseLevel("trace")
	assert.False(t, ok)
}
