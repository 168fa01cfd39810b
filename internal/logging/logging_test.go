package logging

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture points both loggers at buffers for the duration of a test and
// restores their real outputs afterward.
func capture(t *testing.T) (stream, file *bytes.Buffer) {
	t.Helper()
	stream = &bytes.Buffer{}
	file = &bytes.Buffer{}
	Stream.SetOutput(stream)
	File.SetOutput(file)
	t.Cleanup(func() {
		Stream.SetOutput(os.Stderr)
		File.SetOutput(io.Discard)
		SetDebug(false)
	})
	return stream, file
}

func TestInfoReachesBothDestinations(t *testing.T) {
	stream, file := capture(t)

	Info("Loading user interface")

	assert.Contains(t, stream.String(), "Loading user interface")
	assert.Contains(t, file.String(), "Loading user interface")
}

func TestDebugSuppressedByDefault(t *testing.T) {
	stream, file := capture(t)

	Debug("noisy detail")

	assert.Empty(t, stream.String())
	assert.Empty(t, file.String())
}

func TestDebugRecordedWhenEnabled(t *testing.T) {
	stream, file := capture(t)

	SetDebug(true)
	Debug("noisy detail", "path", "/tmp/x")

	assert.Contains(t, stream.String(), "noisy detail")
	assert.Contains(t, file.String(), "noisy detail")
	assert.Contains(t, file.String(), "/tmp/x")
}

func TestErrorReachesBothDestinations(t *testing.T) {
	stream, file := capture(t)

	Error("Unable to open the example notebook")

	assert.Contains(t, stream.String(), "Unable to open the example notebook")
	assert.Contains(t, file.String(), "Unable to open the example notebook")
}

func TestSetDebugAdjustsThresholds(t *testing.T) {
	capture(t)

	require.False(t, Debugging())
	assert.Equal(t, log.ErrorLevel, Download.GetLevel())

	SetDebug(true)
	assert.True(t, Debugging())
	assert.Equal(t, log.DebugLevel, Stream.GetLevel())
	assert.Equal(t, log.DebugLevel, File.GetLevel())
	assert.Equal(t, log.WarnLevel, Download.GetLevel())

	SetDebug(false)
	assert.False(t, Debugging())
	assert.Equal(t, log.InfoLevel, Stream.GetLevel())
	assert.Equal(t, log.InfoLevel, File.GetLevel())
	assert.Equal(t, log.ErrorLevel, Download.GetLevel())
}

func TestSetupWritesSessionHeaderToFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { File.SetOutput(io.Discard) })

	Setup(dir, "1.5.0")

	raw, err := os.ReadFile(dir + "/" + logFileName)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Starting neurotic 1.5.0")
}
