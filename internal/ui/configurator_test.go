package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neurotic/internal/datasets"
	"neurotic/pkg/models"
)

func fullBlock() *models.Block {
	return &models.Block{
		Name: "test recording",
		Segments: []models.Segment{
			{
				Signals:     []models.AnalogSignal{{Name: "ch0", SampleRateHz: 10, NumSamples: 100}},
				SpikeTrains: []models.SpikeTrain{{Name: "unit1", Times: []float64{0.1}}},
				Epochs:      []models.Epoch{{Label: "bout", Start: 0, Duration: 1}},
				Events:      []models.Event{{Label: "stim", Time: 0.5}},
			},
		},
	}
}

func TestConfiguratorAvailability(t *testing.T) {
	c := NewConfigurator(nil, fullBlock(), true)
	assert.Equal(t, []string{"traces", "spikes", "epochs", "events"}, c.Available())

	md := &datasets.Metadata{VideoFile: "trial.mp4"}
	c = NewConfigurator(md, fullBlock(), true)
	assert.Equal(t, []string{"traces", "spikes", "epochs", "events", "video"}, c.Available())

	empty := &models.Block{Segments: []models.Segment{{}}}
	c = NewConfigurator(nil, empty, true)
	assert.Empty(t, c.Available())
}

func TestConfiguratorShowAll(t *testing.T) {
	c := NewConfigurator(nil, fullBlock(), true)

	assert.Empty(t, c.Shown(), "panels start hidden")
	c.ShowAll()
	assert.Equal(t, c.Available(), c.Shown())

	c.HideAll()
	assert.Empty(t, c.Shown())
}

func TestConfiguratorEnableDisable(t *testing.T) {
	c := NewConfigurator(nil, fullBlock(), true)

	c.EnableViewer("spikes")
	assert.True(t, c.IsShown("spikes"))
	assert.False(t, c.IsShown("traces"))

	// unavailable panels cannot be enabled
	c.EnableViewer("video")
	assert.False(t, c.IsShown("video"))

	c.DisableViewer("spikes")
	assert.False(t, c.IsShown("spikes"))
}

func TestViewerPanels(t *testing.T) {
	c := NewConfigurator(nil, fullBlock(), false)
	c.ShowAll()

	settings := models.WindowSettings{Theme: "light", UIScale: "medium"}
	v := newViewerModel(c, NewTheme("light", "medium"), settings)
	v.setSize(80, 24)

	assert.Equal(t, []string{"traces", "spikes", "epochs", "events"}, v.tabs)
	assert.Contains(t, v.panelContent("traces"), "ch0")
	assert.Contains(t, v.panelContent("spikes"), "unit1")
	assert.Contains(t, v.panelContent("epochs"), "bout")
	assert.Contains(t, v.panelContent("events"), "stim")
	assert.NotEmpty(t, v.view())
}

func TestViewerThickTraces(t *testing.T) {
	c := NewConfigurator(nil, fullBlock(), false)
	c.ShowAll()

	thin := newViewerModel(c, NewTheme("printer", "medium"), models.WindowSettings{})
	thick := newViewerModel(c, NewTheme("printer", "medium"), models.WindowSettings{SupportIncreasedLineWidth: true})

	assert.NotEqual(t, thin.panelContent("traces"), thick.panelContent("traces"))
}
