package datasets

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"neurotic/internal/cache"
	"neurotic/internal/logging"
	"neurotic/pkg/models"
)

// ProgressFunc receives running byte counts during a download. total is -1
// when the server does not report a length.
type ProgressFunc func(downloaded, total int64)

// Downloader fetches a dataset's remote files into its local data directory.
// HTTP(S) URLs are fetched directly; gdrive:// URLs are delegated to the
// Google Drive downloader when one is configured. Completed downloads are
// recorded in the ledger when a store is attached.
type Downloader struct {
	Client    *http.Client
	Store     *cache.Store
	GDrive    *GoogleDriveDownloader
	Overwrite bool
	Progress  ProgressFunc
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return http.DefaultClient
}

// FetchAll downloads every remote file the dataset references that is not
// already present locally. Missing remote roots are not an error; the
// dataset may be entirely local.
func (d *Downloader) FetchAll(md *Metadata) error {
	if md.RemoteDataDir == "" {
		return nil
	}
	for _, rel := range []string{md.DataFile, md.VideoFile, md.AnnotationsFile} {
		if rel == "" {
			continue
		}
		if err := d.Fetch(md, rel); err != nil {
			return err
		}
	}
	return nil
}

// Fetch downloads one dataset-relative file from the dataset's remote root.
func (d *Downloader) Fetch(md *Metadata, rel string) error {
	remote := md.RemoteURL(rel)
	if remote == "" {
		return fmt.Errorf("dataset %q has no remote root for %s", md.Name, rel)
	}
	local := md.LocalPath(rel)

	if !d.Overwrite {
		if _, err := os.Stat(local); err == nil {
			logging.Download.Info("Skipping download (already exists)", "file", filepath.Base(local))
			return nil
		}
	}

	// scheme sniffing by prefix: gdrive drive names may contain spaces,
	// which net/url refuses to parse in an authority
	var (
		n   int64
		err error
	)
	source := "http"
	switch {
	case strings.HasPrefix(remote, "http://"), strings.HasPrefix(remote, "https://"):
		n, err = d.fetchHTTP(remote, local)
	case strings.HasPrefix(remote, "gdrive://"):
		source = "gdrive"
		if d.GDrive == nil {
			return fmt.Errorf("gdrive URL %s requires Google Drive credentials", remote)
		}
		n, err = d.GDrive.Download(remote, local, d.Overwrite, d.Progress)
	default:
		return fmt.Errorf("unsupported URL scheme in %s", remote)
	}
	if err != nil {
		return err
	}

	if d.Store != nil {
		rec := &models.Download{
			URL:       remote,
			FilePath:  local,
			Bytes:     n,
			Source:    source,
			Dataset:   md.Name,
			FetchedAt: time.Now(),
		}
		if err := d.Store.Save(rec); err != nil {
			// ledger failure should not undo a good download
			logging.Download.Warn("Failed to record download", "err", err)
		}
	}
	return nil
}

// fetchHTTP downloads to a ".part" temp file next to the target, then moves
// it into place, so an interrupted transfer never leaves a plausible-looking
// partial file behind.
func (d *Downloader) fetchHTTP(remote, local string) (int64, error) {
	logging.Info("Downloading " + filepath.Base(local))

	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}

	resp, err := d.client().Get(remote)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server returned %s for %s", resp.Status, remote)
	}

	temp := local + ".part"
	logging.Download.Debug("Temporarily downloading", "path", temp)

	n, err := writeWithProgress(temp, resp.Body, resp.ContentLength, d.Progress)
	if err != nil {
		os.Remove(temp)
		return 0, fmt.Errorf("download of %s failed: %w", remote, err)
	}

	if err := os.Rename(temp, local); err != nil {
		os.Remove(temp)
		return 0, fmt.Errorf("failed to move download into place: %w", err)
	}
	return n, nil
}

func writeWithProgress(path string, r io.Reader, total int64, progress ProgressFunc) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var written int64
	buf := make([]byte, 256*1024)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}
	return written, f.Sync()
}
