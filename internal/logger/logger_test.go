package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("verbose"))
}

func TestNew_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Level: "info", Writer: &buf, Prefix: "salah"})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("records loaded", "count", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "records loaded")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "salah")
}

func TestNew_WithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "salah.log")

	l, err := New(Config{Level: "warn", Writer: &buf, File: path})
	require.NoError(t, err)

	l.Warn("persist failed")
	assert.Contains(t, buf.String(), "persist failed")
	assert.FileExists(t, path)
}
