package log

import (
	"bytes"
	"github.com/cottand/tcore/types"
	"github.com/stretchr/testify/assert"
	"log/slog"
	"testing"
)

func TestSectionFiltering(t *testing.T) {
	SetLevel(slog.LevelDebug)
	EnableSections("relation", "resolve")
	t.Cleanup(func() {
		SetLevel(slog.LevelInfo)
		EnableSections("relation", "instantiate")
	})

	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	logger.Debug("bound section", "section", "relation")
	logger.With("section", "resolve").Debug("scoped section")
	logger.Debug("prefixed section", "section", "relation/builtin")
	logger.Debug("disabled section", "section", "normalize")
	logger.With("section", "normalize").Debug("disabled scoped section")
	logger.Debug("no section")
	logger.With("section", "normalize").Warn("warnings always pass")

	out := buf.String()
	assert.Contains(t, out, "bound section")
	assert.Contains(t, out, "scoped section")
	assert.Contains(t, out, "prefixed section")
	assert.NotContains(t, out, "disabled section")
	assert.NotContains(t, out, "disabled scoped section")
	assert.NotContains(t, out, "no section")
	assert.Contains(t, out, "warnings always pass")
	assert.NotContains(t, out, "time=")
}

func TestLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(slog.LevelInfo) })
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	SetLevel(slog.LevelError)
	logger.Warn("quiet")
	assert.Empty(t, buf.String())

	SetLevel(slog.LevelWarn)
	logger.Warn("loud", "type", types.Ref("Number"))
	assert.Contains(t, buf.String(), "type=Number")
}
