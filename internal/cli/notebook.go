package cli

import (
	"os"
	"os/exec"

	"neurotic/internal/assets"
	"neurotic/internal/logging"
)

// launchExampleNotebook starts a Jupyter server on the bundled example
// notebook. The notebook is materialized into the app directory first so
// Jupyter can open it by path.
func launchExampleNotebook(appDir string) error {
	dir, err := resolveDir(appDir)
	if err != nil {
		return err
	}
	path, err := assets.NotebookPath(dir)
	if err != nil {
		return err
	}

	// check whether Jupyter is installed
	if _, err := exec.Command("jupyter", "notebook", "--version").Output(); err != nil {
		logging.Error(`Unable to verify Jupyter is installed using "jupyter notebook --version". Is it installed?`)
		return nil
	}

	cmd := exec.Command("jupyter", "notebook", path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logging.Error("Unable to open the example notebook at " + path)
	}
	return nil
}
