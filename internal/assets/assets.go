// Package assets bundles the example metadata file, an example recording,
// and the example notebook into the binary, and materializes them into the
// app directory on demand so external tools can open them by path.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed example
var exampleFS embed.FS

const (
	// ExampleMetadataName is the metadata file within the example directory.
	ExampleMetadataName = "metadata.yml"

	// ExampleNotebookName is the notebook within the example directory.
	ExampleNotebookName = "example-notebook.ipynb"
)

// Materialize writes the bundled example files under dir/example, skipping
// files that already exist so user edits survive. It returns the example
// directory path.
func Materialize(dir string) (string, error) {
	exampleDir := filepath.Join(dir, "example")
	if err := os.MkdirAll(exampleDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create example directory: %w", err)
	}

	err := fs.WalkDir(exampleFS, "example", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel("example", path)
		if err != nil {
			return err
		}
		target := filepath.Join(exampleDir, rel)
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		raw, err := exampleFS.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, raw, 0644)
	})
	if err != nil {
		return "", fmt.Errorf("failed to materialize example files: %w", err)
	}
	return exampleDir, nil
}

// MetadataPath materializes the examples and returns the absolute path of
// the example metadata file.
func MetadataPath(dir string) (string, error) {
	exampleDir, err := Materialize(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(exampleDir, ExampleMetadataName), nil
}

// NotebookPath materializes the examples and returns the absolute path of
// the example notebook.
func NotebookPath(dir string) (string, error) {
	exampleDir, err := Materialize(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(exampleDir, ExampleNotebookName), nil
}
