package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurotic/pkg/models"
)

const windowMetadata = `
first trial:
  description: the default selection
  data_file: data.json

second trial:
  description: another dataset
  data_file: data.json
`

func windowSettings(t *testing.T) models.WindowSettings {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte(windowMetadata), 0644))
	return models.WindowSettings{
		File:    path,
		Lazy:    true,
		Theme:   "light",
		UIScale: "medium",
	}
}

func TestNewWindowDefaults(t *testing.T) {
	settings := windowSettings(t)
	win, err := NewWindow(settings)
	require.NoError(t, err)

	assert.Equal(t, settings.File, win.File())
	assert.Equal(t, "first trial", win.Selection(), "empty selection means first entry")
	assert.True(t, win.Lazy())
	assert.Equal(t, "light", win.Theme())
	assert.Equal(t, "medium", win.UIScale())
}

func TestNewWindowExplicitSelection(t *testing.T) {
	settings := windowSettings(t)
	settings.InitialSelection = "second trial"
	win, err := NewWindow(settings)
	require.NoError(t, err)
	assert.Equal(t, "second trial", win.Selection())
}

func TestNewWindowRejectsUnknownSelection(t *testing.T) {
	settings := windowSettings(t)
	settings.InitialSelection = "missing trial"
	_, err := NewWindow(settings)
	assert.Error(t, err)
}

func TestNewWindowRejectsMissingFile(t *testing.T) {
	settings := windowSettings(t)
	settings.File = filepath.Join(t.TempDir(), "missing.yml")
	_, err := NewWindow(settings)
	assert.Error(t, err)
}

func TestWindowOpensOnSplash(t *testing.T) {
	win, err := NewWindow(windowSettings(t))
	require.NoError(t, err)

	assert.Equal(t, stateSplash, win.state)
	assert.Contains(t, win.View(), "behavioral ephys data")

	model, _ := win.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	win = model.(*Window)
	model, _ = win.Update(splashDoneMsg{})
	win = model.(*Window)
	assert.Equal(t, stateBrowse, win.state)
	assert.Contains(t, win.View(), "Datasets")
}

func TestWindowQuits(t *testing.T) {
	win, err := NewWindow(windowSettings(t))
	require.NoError(t, err)

	_, cmd := win.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowShowsErrorState(t *testing.T) {
	win, err := NewWindow(windowSettings(t))
	require.NoError(t, err)

	model, _ := win.Update(loadFailedMsg{err: assert.AnError})
	win = model.(*Window)
	assert.Equal(t, stateError, win.state)
	assert.Contains(t, win.View(), "Error")
}
