package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fulldump/biff"
)

func TestParseLevel(t *testing.T) {

	for input, expected := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		level, err := ParseLevel(input)
		biff.AssertNil(err)
		biff.AssertEqual(level, expected)
	}

	_, err := ParseLevel("verbose")
	biff.AssertNotNil(err)
}

func TestNewWithWriter(t *testing.T) {

	buf := &bytes.Buffer{}
	l := NewWithWriter(buf, slog.LevelInfo, true)

	l.Debug("hidden")
	l.Info("table created", "table", "users")

	out := buf.String()
	biff.AssertFalse(strings.Contains(out, "hidden"))
	biff.AssertTrue(strings.Contains(out, "table created"))
	biff.AssertTrue(strings.Contains(out, "table=users"))
}
