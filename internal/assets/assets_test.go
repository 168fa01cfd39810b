package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeWritesExamples(t *testing.T) {
	dir := t.TempDir()

	exampleDir, err := Materialize(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example"), exampleDir)

	for _, name := range []string{ExampleMetadataName, ExampleNotebookName, "example-data.json"} {
		_, err := os.Stat(filepath.Join(exampleDir, name))
		assert.NoError(t, err, name)
	}
}

func TestMaterializeKeepsUserEdits(t *testing.T) {
	dir := t.TempDir()

	path, err := MetadataPath(dir)
	require.NoError(t, err)

	edited := []byte("my dataset:\n  data_file: mine.json\n")
	require.NoError(t, os.WriteFile(path, edited, 0644))

	_, err = MetadataPath(dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, raw)
}

func TestNotebookPath(t *testing.T) {
	dir := t.TempDir()
	path, err := NotebookPath(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example", ExampleNotebookName), path)
}
