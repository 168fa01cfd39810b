package datasets

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurotic/internal/cache"
)

func remoteMetadata(t *testing.T, remoteRoot string) *Metadata {
	t.Helper()
	dir := t.TempDir()
	content := "trial:\n  data_file: data.json\n  remote_data_dir: " + remoteRoot + "\n"
	metadataPath := filepath.Join(dir, "metadata.yml")
	require.NoError(t, os.WriteFile(metadataPath, []byte(content), 0644))

	mf, err := LoadMetadata(metadataPath)
	require.NoError(t, err)
	md, err := mf.Select("trial")
	require.NoError(t, err)
	return md
}

func TestFetchDownloadsAndRecords(t *testing.T) {
	payload := []byte(`{"name": "remote recording"}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data.json", r.URL.Path)
		w.Write(payload)
	}))
	defer srv.Close()

	store, err := cache.New(filepath.Join(t.TempDir(), "downloads.db"))
	require.NoError(t, err)
	defer store.Close()

	md := remoteMetadata(t, srv.URL)

	var calls int
	d := &Downloader{
		Store: store,
		Progress: func(downloaded, total int64) {
			calls++
			assert.LessOrEqual(t, downloaded, total)
		},
	}
	require.NoError(t, d.FetchAll(md))

	local := md.LocalPath("data.json")
	raw, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
	assert.Greater(t, calls, 0, "progress callback never fired")

	_, err = os.Stat(local + ".part")
	assert.True(t, os.IsNotExist(err), "temp file left behind")

	recs, err := store.List(10, "", "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, srv.URL+"/data.json", recs[0].URL)
	assert.Equal(t, local, recs[0].FilePath)
	assert.Equal(t, int64(len(payload)), recs[0].Bytes)
	assert.Equal(t, "http", recs[0].Source)
	assert.Equal(t, "trial", recs[0].Dataset)
}

func TestFetchSkipsExistingFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted for an existing file")
	}))
	defer srv.Close()

	md := remoteMetadata(t, srv.URL)
	local := md.LocalPath("data.json")
	require.NoError(t, os.WriteFile(local, []byte("keep me"), 0644))

	d := &Downloader{}
	require.NoError(t, d.Fetch(md, "data.json"))

	raw, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(raw))
}

func TestFetchOverwrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	md := remoteMetadata(t, srv.URL)
	local := md.LocalPath("data.json")
	require.NoError(t, os.WriteFile(local, []byte("stale"), 0644))

	d := &Downloader{Overwrite: true}
	require.NoError(t, d.Fetch(md, "data.json"))

	raw, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(raw))
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	md := remoteMetadata(t, srv.URL)

	d := &Downloader{}
	err := d.Fetch(md, "data.json")
	assert.Error(t, err)

	_, statErr := os.Stat(md.LocalPath("data.json"))
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file")
}

func TestFetchAllSkipsLocalDatasets(t *testing.T) {
	md := remoteMetadata(t, "https://unused.example.org")
	md.RemoteDataDir = ""

	d := &Downloader{}
	assert.NoError(t, d.FetchAll(md))
}

func TestFetchRejectsUnknownScheme(t *testing.T) {
	md := remoteMetadata(t, "ftp://example.org/data")
	d := &Downloader{}
	assert.Error(t, d.Fetch(md, "data.json"))
}

func TestFetchGDriveWithoutCredentials(t *testing.T) {
	md := remoteMetadata(t, "gdrive://My Drive/lab data")
	d := &Downloader{}
	err := d.Fetch(md, "data.json")
	assert.ErrorContains(t, err, "credentials")
}
