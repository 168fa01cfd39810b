package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMetadata = `
zzz_sorted_last:
  description: listed first on purpose
  data_file: z.json

first entry:
  description: a dataset
  data_dir: data
  remote_data_dir: https://example.org/ephys
  data_file: trial1.json
  video_file: trial1.mp4
`

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMetadataPreservesDocumentOrder(t *testing.T) {
	mf, err := LoadMetadata(writeMetadata(t, sampleMetadata))
	require.NoError(t, err)

	assert.Equal(t, []string{"zzz_sorted_last", "first entry"}, mf.Names)
	assert.Equal(t, "zzz_sorted_last", mf.First())
}

func TestSelect(t *testing.T) {
	mf, err := LoadMetadata(writeMetadata(t, sampleMetadata))
	require.NoError(t, err)

	md, err := mf.Select("first entry")
	require.NoError(t, err)
	assert.Equal(t, "first entry", md.Name)
	assert.Equal(t, "trial1.json", md.DataFile)

	// empty selection falls back to the first entry
	md, err = mf.Select("")
	require.NoError(t, err)
	assert.Equal(t, "zzz_sorted_last", md.Name)

	_, err = mf.Select("missing")
	assert.Error(t, err)
}

func TestLocalPathResolution(t *testing.T) {
	path := writeMetadata(t, sampleMetadata)
	mf, err := LoadMetadata(path)
	require.NoError(t, err)

	md, err := mf.Select("first entry")
	require.NoError(t, err)

	base := filepath.Dir(path)
	assert.Equal(t, filepath.Join(base, "data", "trial1.json"), md.LocalPath("trial1.json"))

	// datasets without a data_dir resolve against the metadata file's dir
	md, err = mf.Select("zzz_sorted_last")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "z.json"), md.LocalPath("z.json"))

	abs := filepath.Join(base, "elsewhere.json")
	assert.Equal(t, abs, md.LocalPath(abs))
	assert.Equal(t, "", md.LocalPath(""))
}

func TestRemoteURL(t *testing.T) {
	mf, err := LoadMetadata(writeMetadata(t, sampleMetadata))
	require.NoError(t, err)

	md, err := mf.Select("first entry")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/ephys/trial1.json", md.RemoteURL("trial1.json"))

	md, err = mf.Select("zzz_sorted_last")
	require.NoError(t, err)
	assert.Equal(t, "", md.RemoteURL("z.json"), "no remote root means no URL")
}

func TestLoadMetadataRejectsBadFiles(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadMetadata(writeMetadata(t, "- just\n- a\n- list\n"))
	assert.Error(t, err)

	_, err = LoadMetadata(writeMetadata(t, ""))
	assert.Error(t, err)
}
