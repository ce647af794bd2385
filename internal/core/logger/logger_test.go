package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONWithRotate(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New(Options{
		Level:  "info",
		JSON:   true,
		Stdout: &buf,
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})

	l.Debug("hidden")
	l.Info("team created", zap.Int64("team_id", 7))
	cleanup()

	assert.Contains(t, buf.String(), `"msg":"team created"`)
	assert.Contains(t, buf.String(), `"team_id":7`)
	assert.NotContains(t, buf.String(), "hidden")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "team created")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "loud", Stdout: &buf})
	l.Debug("nope")
	l.Info("yes")
	cleanup()

	assert.NotContains(t, buf.String(), "nope")
	assert.Contains(t, buf.String(), "yes")
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "debug", JSON: true, Stdout: &buf})
	w := ToWriter(l, zapcore.WarnLevel)

	n, err := w.Write([]byte("slow sql\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	cleanup()

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"msg":"slow sql"`)
}
