// Package ui implements the terminal user interface: the splash screen, the
// main window with its dataset selector, and the viewer launched on a loaded
// recording.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"neurotic/internal/datasets"
	"neurotic/internal/logging"
	"neurotic/pkg/models"
)

const splashDuration = 1200 * time.Millisecond

type windowState int

const (
	stateSplash windowState = iota
	stateBrowse
	stateLoading
	stateViewer
	stateError
)

type keyMap struct {
	Launch key.Binding
	Quit   key.Binding
	Help   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Launch, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Launch}, {k.Help, k.Quit}}
}

var defaultKeys = keyMap{
	Launch: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

type datasetItem struct {
	name, description string
}

func (i datasetItem) Title() string       { return i.name }
func (i datasetItem) Description() string { return i.description }
func (i datasetItem) FilterValue() string { return i.name }

// Window is the main window model. It opens on a splash screen, then shows
// the dataset selector for the metadata file it was given, and hands off to
// the viewer once a dataset is loaded.
type Window struct {
	settings models.WindowSettings
	metadata *datasets.MetadataFile
	theme    Theme

	state     windowState
	selection string
	err       error

	datasetList list.Model
	loadBar     progress.Model
	helpView    help.Model
	keys        keyMap

	configurator *Configurator
	viewer       *viewerModel

	width, height int
}

// NewWindow builds the main window from resolved command line settings. The
// metadata file is parsed up front so a bad file fails before the event loop
// starts.
func NewWindow(settings models.WindowSettings) (*Window, error) {
	mf, err := datasets.LoadMetadata(settings.File)
	if err != nil {
		return nil, err
	}

	selection := settings.InitialSelection
	if selection == "" {
		selection = mf.First()
	}
	if _, err := mf.Select(selection); err != nil {
		return nil, err
	}

	theme := NewTheme(settings.Theme, settings.UIScale)

	items := make([]list.Item, 0, len(mf.Names))
	index := 0
	for i, name := range mf.Names {
		md := mf.Entries[name]
		items = append(items, datasetItem{name: name, description: md.Description})
		if name == selection {
			index = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Accent.GetForeground())
	dl := list.New(items, delegate, 0, 0)
	dl.Title = "Datasets"
	dl.SetShowStatusBar(false)
	dl.Select(index)

	w := &Window{
		settings:    settings,
		metadata:    mf,
		theme:       theme,
		state:       stateSplash,
		selection:   selection,
		datasetList: dl,
		loadBar:     progress.New(progress.WithDefaultGradient()),
		helpView:    help.New(),
		keys:        defaultKeys,
	}
	return w, nil
}

// Accessors used by the CLI layer and its tests.

func (w *Window) File() string           { return w.metadata.Path }
func (w *Window) Selection() string      { return w.selection }
func (w *Window) Lazy() bool             { return w.settings.Lazy }
func (w *Window) Theme() string          { return w.theme.Name }
func (w *Window) UIScale() string        { return w.settings.UIScale }
func (w *Window) ShowDatetime() bool     { return w.settings.ShowDatetime }
func (w *Window) DebugLogging() bool     { return w.settings.DebugLogging }
func (w *Window) SupportIncreasedLineWidth() bool {
	return w.settings.SupportIncreasedLineWidth
}

type splashDoneMsg struct{}

type datasetLoadedMsg struct {
	blk *models.Block
}

type loadFailedMsg struct {
	err error
}

func (w *Window) Init() tea.Cmd {
	return tea.Tick(splashDuration, func(time.Time) tea.Msg { return splashDoneMsg{} })
}

func (w *Window) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
		w.datasetList.SetSize(msg.Width-2*w.theme.Padding-2, msg.Height-6)
		w.loadBar.Width = msg.Width - 2*w.theme.Padding - 4
		if w.viewer != nil {
			w.viewer.setSize(msg.Width, msg.Height)
		}

	case splashDoneMsg:
		if w.state == stateSplash {
			w.state = stateBrowse
			logging.Info("Ready")
		}

	case datasetLoadedMsg:
		w.configurator = NewConfigurator(w.currentMetadata(), msg.blk, w.settings.Lazy)
		w.configurator.ShowAll()
		w.viewer = newViewerModel(w.configurator, w.theme, w.settings)
		w.viewer.setSize(w.width, w.height)
		w.state = stateViewer

	case loadFailedMsg:
		w.err = msg.err
		w.state = stateError

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, w.keys.Quit):
			return w, tea.Quit
		case key.Matches(msg, w.keys.Help):
			w.helpView.ShowAll = !w.helpView.ShowAll
		case key.Matches(msg, w.keys.Launch):
			if w.state == stateBrowse {
				if item, ok := w.datasetList.SelectedItem().(datasetItem); ok {
					w.selection = item.name
				}
				w.state = stateLoading
				return w, w.loadSelected()
			}
		}
	}

	var cmd tea.Cmd
	switch w.state {
	case stateBrowse:
		w.datasetList, cmd = w.datasetList.Update(msg)
	case stateViewer:
		if w.viewer != nil {
			cmd = w.viewer.update(msg)
		}
	}
	return w, cmd
}

func (w *Window) currentMetadata() *datasets.Metadata {
	md, _ := w.metadata.Select(w.selection)
	return md
}

func (w *Window) loadSelected() tea.Cmd {
	md := w.currentMetadata()
	lazy := w.settings.Lazy
	return func() tea.Msg {
		blk, err := datasets.LoadDataset(md, nil, lazy)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return datasetLoadedMsg{blk: blk}
	}
}

func (w *Window) View() string {
	switch w.state {
	case stateSplash:
		return w.splashView()
	case stateLoading:
		return w.theme.Border.Render(
			w.theme.Title.Render("Loading "+w.selection) + "\n\n" +
				w.loadBar.View())
	case stateViewer:
		if w.viewer != nil {
			return w.viewer.view()
		}
		return ""
	case stateError:
		return w.theme.Error.Render(fmt.Sprintf("Error: %v", w.err)) + "\n" +
			w.theme.Muted.Render("press q to quit")
	default:
		header := w.theme.Title.Render("neurotic")
		status := w.theme.Status.Render(w.statusLine())
		return header + "\n" + w.datasetList.View() + "\n" + status + "\n" + w.helpView.View(w.keys)
	}
}

func (w *Window) statusLine() string {
	line := fmt.Sprintf("file: %s", w.metadata.Path)
	if w.settings.Lazy {
		line += "  (fast loading)"
	}
	if w.settings.ShowDatetime {
		line += "  " + time.Now().Format("2006-01-02 15:04:05")
	}
	return line
}
