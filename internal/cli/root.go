// Package cli handles starting the app from the command line: flag parsing,
// logging-level configuration, and dispatch to the main window or one of the
// alternative modes.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"neurotic/internal/assets"
	"neurotic/internal/config"
	"neurotic/internal/logging"
	"neurotic/internal/ui"
	"neurotic/pkg/models"
)

const version = "1.5.0"

// LaunchOptions is everything the root command decides before launching.
type LaunchOptions struct {
	Settings              models.WindowSettings
	LaunchExampleNotebook bool
}

// NewRootCmd builds the root command. appDir overrides the per-user app
// directory; pass "" to resolve it from the home directory.
func NewRootCmd(appDir string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "neurotic [file] [dataset]",
		Short:   "Curate, visualize, annotate, and share your behavioral ephys data",
		Long:    "neurotic lets you curate, visualize, annotate, and share your behavioral ephys data.",
		Args:    cobra.MaximumNArgs(2),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ResolveLaunch(cmd, args, appDir)
			if err != nil {
				return err
			}
			if opts.LaunchExampleNotebook {
				return launchExampleNotebook(appDir)
			}

			logging.Info("Loading user interface")
			win, err := WinFromOptions(opts)
			if err != nil {
				return err
			}
			p := tea.NewProgram(win, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("user interface exited with an error: %w", err)
			}
			return nil
		},
	}
	cmd.SetVersionTemplate("neurotic {{.Version}}\n")

	f := cmd.Flags()
	f.BoolP("version", "V", false, "print the version number and exit")

	f.Bool("debug", false, "enable detailed log messages for debugging")
	f.Bool("no-debug", false, "disable detailed log messages for debugging (default)")
	cmd.MarkFlagsMutuallyExclusive("debug", "no-debug")

	f.Bool("lazy", false, "enable fast loading (default)")
	f.Bool("no-lazy", false, "disable fast loading")
	cmd.MarkFlagsMutuallyExclusive("lazy", "no-lazy")

	f.Bool("thick-traces", false, "enable support for traces with thick lines, which has a performance cost")
	f.Bool("no-thick-traces", false, "disable support for traces with thick lines (default)")
	cmd.MarkFlagsMutuallyExclusive("thick-traces", "no-thick-traces")

	f.Bool("show-datetime", false, "display the real-world date and time, which may be inaccurate depending on file type and acquisition software")
	f.Bool("no-show-datetime", false, "do not display the real-world date and time (default)")
	cmd.MarkFlagsMutuallyExclusive("show-datetime", "no-show-datetime")

	f.String("ui-scale", "", "the scale of user interface elements, such as text (default: medium)")
	f.String("theme", "", "a color theme for the user interface (default: light)")

	f.Bool("launch-example-notebook", false, "launch Jupyter with an example notebook instead of starting the standalone app (other args will be ignored)")

	cmd.AddCommand(newCacheCmd(appDir))

	return cmd
}

// resolveDir returns the app directory, creating the default one if no
// override is given.
func resolveDir(appDir string) (string, error) {
	if appDir != "" {
		if err := os.MkdirAll(appDir, 0755); err != nil {
			return "", err
		}
		return appDir, nil
	}
	return config.Dir()
}

// resolvePaired resolves one --x/--no-x flag pair: an explicit flag wins,
// otherwise the configured default applies.
func resolvePaired(f *pflag.FlagSet, on, off string, def bool) bool {
	if v, _ := f.GetBool(on); v {
		return true
	}
	if v, _ := f.GetBool(off); v {
		return false
	}
	return def
}

// ResolveLaunch turns parsed flags and positional args into launch options,
// seeding unset values from the global config file and applying the logging
// side effects of the debug setting.
func ResolveLaunch(cmd *cobra.Command, args []string, appDir string) (*LaunchOptions, error) {
	dir, err := resolveDir(appDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	notebook, _ := f.GetBool("launch-example-notebook")

	debug := resolvePaired(f, "debug", "no-debug", cfg.Defaults.Debug)
	logging.SetDebug(debug)
	if debug && !notebook {
		// only useful if Jupyter won't be launched, since the setting does
		// not carry over into the kernel started by Jupyter
		logging.Debug("Debug messages enabled")
	}

	uiScale := cfg.Defaults.UIScale
	if f.Changed("ui-scale") {
		uiScale, _ = f.GetString("ui-scale")
	}
	if !ui.ValidUIScale(uiScale) {
		return nil, fmt.Errorf("invalid ui scale %q (choose from %v)", uiScale, ui.AvailableUIScales)
	}

	theme := cfg.Defaults.Theme
	if f.Changed("theme") {
		theme, _ = f.GetString("theme")
	}
	if !ui.ValidTheme(theme) {
		return nil, fmt.Errorf("invalid theme %q (choose from %v)", theme, ui.AvailableThemes)
	}

	file := cfg.Defaults.File
	if len(args) > 0 && args[0] != "" {
		file = args[0]
	}
	// "example" always refers to the bundled example file, even when the
	// global config sets another default
	if file == "" || file == "example" {
		file, err = assets.MetadataPath(dir)
		if err != nil {
			return nil, err
		}
	}

	dataset := cfg.Defaults.Dataset
	if len(args) > 1 && args[1] != "" {
		dataset = args[1]
	}
	// "none" forces the first dataset in the file
	if dataset == "none" {
		dataset = ""
	}

	opts := &LaunchOptions{
		Settings: models.WindowSettings{
			File:                      file,
			InitialSelection:          dataset,
			Lazy:                      resolvePaired(f, "lazy", "no-lazy", cfg.Defaults.Lazy),
			Theme:                     theme,
			UIScale:                   uiScale,
			SupportIncreasedLineWidth: resolvePaired(f, "thick-traces", "no-thick-traces", cfg.Defaults.ThickTraces),
			ShowDatetime:              resolvePaired(f, "show-datetime", "no-show-datetime", cfg.Defaults.ShowDatetime),
			DebugLogging:              debug,
		},
		LaunchExampleNotebook: notebook,
	}
	return opts, nil
}

// ParseArgs parses argv (excluding the program name) against a fresh root
// command and resolves the launch options without starting the UI.
func ParseArgs(appDir string, argv []string) (*LaunchOptions, error) {
	cmd := NewRootCmd(appDir)
	if err := cmd.ParseFlags(argv); err != nil {
		return nil, err
	}
	return ResolveLaunch(cmd, cmd.Flags().Args(), appDir)
}

// WinFromOptions builds the main window from resolved launch options.
func WinFromOptions(opts *LaunchOptions) (*ui.Window, error) {
	return ui.NewWindow(opts.Settings)
}

// Execute runs the command line interface.
func Execute() {
	dir, err := config.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(dir, version)

	if err := NewRootCmd("").Execute(); err != nil {
		logging.Error(err.Error())
		os.Exit(1)
	}
}
