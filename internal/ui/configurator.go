package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"neurotic/internal/datasets"
	"neurotic/internal/logging"
	"neurotic/pkg/models"
)

// viewerNames is the fixed display order of viewer panels.
var viewerNames = []string{"traces", "spikes", "epochs", "events", "video"}

// Configurator decides which viewer panels the viewer shows for a loaded
// recording. Panels with nothing to display are unavailable and stay hidden
// even after ShowAll.
type Configurator struct {
	Metadata *datasets.Metadata
	Block    *models.Block
	Lazy     bool

	available map[string]bool
	shown     map[string]bool
}

func NewConfigurator(md *datasets.Metadata, blk *models.Block, lazy bool) *Configurator {
	c := &Configurator{
		Metadata:  md,
		Block:     blk,
		Lazy:      lazy,
		available: make(map[string]bool),
		shown:     make(map[string]bool),
	}

	if blk != nil {
		for _, seg := range blk.Segments {
			if len(seg.Signals) > 0 {
				c.available["traces"] = true
			}
			if len(seg.SpikeTrains) > 0 {
				c.available["spikes"] = true
			}
			if len(seg.Epochs) > 0 {
				c.available["epochs"] = true
			}
			if len(seg.Events) > 0 {
				c.available["events"] = true
			}
		}
	}
	if md != nil && md.VideoFile != "" {
		c.available["video"] = true
	}
	return c
}

// Available lists the panels this recording can populate, in display order.
func (c *Configurator) Available() []string {
	var names []string
	for _, name := range viewerNames {
		if c.available[name] {
			names = append(names, name)
		}
	}
	return names
}

func (c *Configurator) EnableViewer(name string) {
	if c.available[name] {
		c.shown[name] = true
	}
}

func (c *Configurator) DisableViewer(name string) {
	delete(c.shown, name)
}

func (c *Configurator) IsShown(name string) bool {
	return c.shown[name]
}

// ShowAll enables every available panel.
func (c *Configurator) ShowAll() {
	for name := range c.available {
		c.shown[name] = true
	}
}

// HideAll disables every panel.
func (c *Configurator) HideAll() {
	c.shown = make(map[string]bool)
}

// Shown lists the enabled panels in display order.
func (c *Configurator) Shown() []string {
	var names []string
	for _, name := range viewerNames {
		if c.shown[name] {
			names = append(names, name)
		}
	}
	return names
}

// LaunchEphyviewer runs the viewer as its own full-screen program, blocking
// until the user quits. This is the standalone entry point used by
// QuickLaunch; inside the main window the viewer is embedded instead.
func (c *Configurator) LaunchEphyviewer(settings models.WindowSettings) error {
	theme := NewTheme(settings.Theme, settings.UIScale)
	model := newViewerProgram(newViewerModel(c, theme, settings))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer exited with an error: %w", err)
	}
	return nil
}

// QuickLaunch loads data, configures the viewer, and launches it in one
// convenient call, for use from scripts and small wrappers:
//
//	blk, _ := datasets.LoadDataset(md, nil, true)
//	c := ui.NewConfigurator(md, blk, true)
//	c.ShowAll()
//	c.LaunchEphyviewer(settings)
func QuickLaunch(md *datasets.Metadata, blk *models.Block, lazy bool, settings models.WindowSettings) error {
	blk, err := datasets.LoadDataset(md, blk, lazy)
	if err != nil {
		return err
	}
	c := NewConfigurator(md, blk, lazy)
	c.ShowAll()
	logging.Info("Launching viewer")
	return c.LaunchEphyviewer(settings)
}
