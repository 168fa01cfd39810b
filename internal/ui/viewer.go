package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"neurotic/pkg/models"
)

// viewerModel renders the enabled panels of a Configurator as tabs. It is
// embedded inside the main window and also wrapped as a standalone program
// by LaunchEphyviewer.
type viewerModel struct {
	conf     *Configurator
	theme    Theme
	settings models.WindowSettings

	tabs    []string
	active  int
	content viewport.Model

	width, height int
}

var viewerKeys = struct {
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}{
	NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next panel")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "previous panel")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func newViewerModel(conf *Configurator, theme Theme, settings models.WindowSettings) *viewerModel {
	v := &viewerModel{
		conf:     conf,
		theme:    theme,
		settings: settings,
		tabs:     conf.Shown(),
		content:  viewport.New(0, 0),
	}
	v.refreshContent()
	return v
}

func (v *viewerModel) setSize(width, height int) {
	v.width, v.height = width, height
	v.content.Width = width - 2
	v.content.Height = height - 5
	v.refreshContent()
}

func (v *viewerModel) update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, viewerKeys.NextTab):
			if len(v.tabs) > 0 {
				v.active = (v.active + 1) % len(v.tabs)
				v.refreshContent()
			}
			return nil
		case key.Matches(msg, viewerKeys.PrevTab):
			if len(v.tabs) > 0 {
				v.active = (v.active - 1 + len(v.tabs)) % len(v.tabs)
				v.refreshContent()
			}
			return nil
		}
	}
	var cmd tea.Cmd
	v.content, cmd = v.content.Update(msg)
	return cmd
}

func (v *viewerModel) refreshContent() {
	if len(v.tabs) == 0 {
		v.content.SetContent(v.theme.Muted.Render("nothing to display"))
		return
	}
	v.content.SetContent(v.panelContent(v.tabs[v.active]))
}

func (v *viewerModel) view() string {
	var header []string
	for i, tab := range v.tabs {
		if i == v.active {
			header = append(header, v.theme.Accent.Bold(true).Render("["+tab+"]"))
		} else {
			header = append(header, v.theme.Muted.Render(" "+tab+" "))
		}
	}
	title := v.theme.Title.Render(v.blockName())
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, header...)
	status := v.theme.Status.Render(v.statusLine())
	return title + "\n" + tabs + "\n" + v.content.View() + "\n" + status
}

func (v *viewerModel) blockName() string {
	if v.conf.Block != nil && v.conf.Block.Name != "" {
		return v.conf.Block.Name
	}
	return "recording"
}

func (v *viewerModel) statusLine() string {
	parts := []string{fmt.Sprintf("%.1f s", v.conf.Block.Duration())}
	if v.conf.Lazy {
		parts = append(parts, "fast loading")
	}
	if v.settings.ShowDatetime && v.conf.Block != nil && !v.conf.Block.RecDatetime.IsZero() {
		parts = append(parts, "recorded "+v.conf.Block.RecDatetime.Format("2006-01-02 15:04:05"))
	}
	return strings.Join(parts, "  |  ")
}

func (v *viewerModel) panelContent(name string) string {
	blk := v.conf.Block
	if blk == nil {
		return ""
	}
	var b strings.Builder
	switch name {
	case "traces":
		glyph := "─"
		if v.settings.SupportIncreasedLineWidth {
			glyph = "━"
		}
		for _, seg := range blk.Segments {
			for _, sig := range seg.Signals {
				b.WriteString(fmt.Sprintf("%s %s  (%s, %.6g Hz, %d samples)\n",
					v.theme.Accent.Render(strings.Repeat(glyph, 3)),
					sig.Name, sig.Units, sig.SampleRateHz, sig.NumSamples))
			}
		}
	case "spikes":
		for _, seg := range blk.Segments {
			for _, st := range seg.SpikeTrains {
				b.WriteString(fmt.Sprintf("%s  %d spikes on channel %d\n", st.Name, len(st.Times), st.Channel))
			}
		}
	case "epochs":
		for _, seg := range blk.Segments {
			for _, ep := range seg.Epochs {
				b.WriteString(fmt.Sprintf("%-20s %8.2f s  +%.2f s\n", ep.Label, ep.Start, ep.Duration))
			}
		}
	case "events":
		for _, seg := range blk.Segments {
			for _, ev := range seg.Events {
				b.WriteString(fmt.Sprintf("%-20s %8.2f s\n", ev.Label, ev.Time))
			}
		}
	case "video":
		if v.conf.Metadata != nil {
			b.WriteString("video file: " + v.conf.Metadata.LocalPath(v.conf.Metadata.VideoFile) + "\n")
			b.WriteString(v.theme.Muted.Render("playback is handled by an external player"))
		}
	}
	if b.Len() == 0 {
		return v.theme.Muted.Render("empty panel")
	}
	return b.String()
}

// viewerProgram adapts viewerModel to the tea.Model interface for standalone
// use.
type viewerProgram struct {
	inner *viewerModel
}

func newViewerProgram(inner *viewerModel) viewerProgram {
	return viewerProgram{inner: inner}
}

func (p viewerProgram) Init() tea.Cmd { return nil }

func (p viewerProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.inner.setSize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		if key.Matches(msg, viewerKeys.Quit) {
			return p, tea.Quit
		}
	}
	return p, p.inner.update(msg)
}

func (p viewerProgram) View() string { return p.inner.view() }
