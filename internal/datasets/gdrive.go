package datasets

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"neurotic/internal/logging"
)

const (
	defaultDriveBaseURL = "https://www.googleapis.com/drive/v3"
	driveReadonlyScope  = "https://www.googleapis.com/auth/drive.readonly"
	gdriveChunkBytes    = 5 * 1024 * 1024
)

// GoogleDriveDownloader downloads files from Google Drive using URL-like
// paths of the form
//
//	gdrive://<drive name>/<folder 1>/<...>/<folder N>/<file name>
//
// where the drive name is "My Drive" for a personal drive or the name of a
// Shared Drive the user can access. These paths are not shareable links:
// they name files by their position in the folder tree rather than by
// pseudorandom file IDs.
//
// Drive does not require names to be unique, so a path is only usable if
// every step of the traversal matches exactly one folder or file; ambiguous
// and missing names fail with an error naming the offending step.
//
// Authorization tokens can optionally be saved to a file so the flow does
// not need to be repeated across sessions.
type GoogleDriveDownloader struct {
	CredentialsFile string
	TokenFile       string
	SaveToken       bool

	// BaseURL and HTTPClient exist so tests can point the downloader at a
	// fake Drive server; both default to the real service.
	BaseURL    string
	HTTPClient *http.Client

	// AuthCodePrompt reads the authorization code back from the user after
	// they visit the consent URL. Defaults to reading a line from stdin.
	AuthCodePrompt func(authURL string) (string, error)

	token *oauth2.Token
	conf  *oauth2.Config
}

type clientSecrets struct {
	Installed struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		AuthURI      string `json:"auth_uri"`
		TokenURI     string `json:"token_uri"`
	} `json:"installed"`
}

func (g *GoogleDriveDownloader) baseURL() string {
	if g.BaseURL != "" {
		return strings.TrimRight(g.BaseURL, "/")
	}
	return defaultDriveBaseURL
}

func (g *GoogleDriveDownloader) config() (*oauth2.Config, error) {
	if g.conf != nil {
		return g.conf, nil
	}
	raw, err := os.ReadFile(g.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("missing Google Drive API credentials file %q: %w", g.CredentialsFile, err)
	}
	var secrets clientSecrets
	if err := json.Unmarshal(raw, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	g.conf = &oauth2.Config{
		ClientID:     secrets.Installed.ClientID,
		ClientSecret: secrets.Installed.ClientSecret,
		Scopes:       []string{driveReadonlyScope},
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Endpoint: oauth2.Endpoint{
			AuthURL:  secrets.Installed.AuthURI,
			TokenURL: secrets.Installed.TokenURI,
		},
	}
	return g.conf, nil
}

// Authorize obtains tokens for reading the contents of a Drive account.
// Saved tokens are loaded from the token file when possible; expired tokens
// are refreshed; otherwise the consent flow runs, prompting the user to
// visit a URL and paste back the authorization code. New tokens are written
// back to the token file when SaveToken is set.
//
// Authorize runs automatically when needed but can be called directly to
// obtain (and possibly store) tokens without starting a download.
func (g *GoogleDriveDownloader) Authorize(ctx context.Context) error {
	if g.token.Valid() {
		return nil
	}

	if g.SaveToken && g.TokenFile != "" && g.token == nil {
		if raw, err := os.ReadFile(g.TokenFile); err == nil {
			var tok oauth2.Token
			if err := json.Unmarshal(raw, &tok); err == nil {
				g.token = &tok
			}
		}
	}

	conf, err := g.config()
	if err != nil {
		return err
	}

	if g.token != nil && !g.token.Valid() && g.token.RefreshToken != "" {
		tok, err := conf.TokenSource(ctx, g.token).Token()
		if err == nil {
			g.token = tok
			return g.storeToken()
		}
		logging.Download.Warn("Token refresh failed, rerunning authorization", "err", err)
	}

	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	prompt := g.AuthCodePrompt
	if prompt == nil {
		prompt = promptStdin
	}
	code, err := prompt(authURL)
	if err != nil {
		return fmt.Errorf("authorization flow failed: %w", err)
	}
	tok, err := conf.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	g.token = tok
	return g.storeToken()
}

func promptStdin(authURL string) (string, error) {
	fmt.Fprintf(os.Stderr, "Visit this URL to authorize access to Google Drive:\n%s\n\nEnter the authorization code: ", authURL)
	reader := bufio.NewReader(os.Stdin)
	return reader.ReadString('\n')
}

func (g *GoogleDriveDownloader) storeToken() error {
	if !g.SaveToken || g.TokenFile == "" {
		return nil
	}
	raw, err := json.Marshal(g.token)
	if err != nil {
		return err
	}
	if err := os.WriteFile(g.TokenFile, raw, 0600); err != nil {
		return fmt.Errorf("failed to save token file: %w", err)
	}
	return nil
}

// Deauthorize forgets tokens and deletes the token file, so the next
// download requires the authorization flow again.
func (g *GoogleDriveDownloader) Deauthorize() error {
	g.token = nil
	if g.TokenFile != "" {
		if err := os.Remove(g.TokenFile); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// IsAuthorized reports the current authorization state.
func (g *GoogleDriveDownloader) IsAuthorized() bool {
	return g.token.Valid()
}

func (g *GoogleDriveDownloader) service(ctx context.Context) (*http.Client, error) {
	if g.HTTPClient != nil {
		return g.HTTPClient, nil
	}
	if err := g.Authorize(ctx); err != nil {
		return nil, err
	}
	conf, err := g.config()
	if err != nil {
		return nil, err
	}
	return conf.Client(ctx, g.token), nil
}

func (g *GoogleDriveDownloader) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	client, err := g.service(ctx)
	if err != nil {
		return err
	}
	u := g.baseURL() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &driveError{Status: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type driveError struct {
	Status int
	Body   string
}

func (e *driveError) Error() string {
	return fmt.Sprintf("drive API returned status %d: %s", e.Status, e.Body)
}

// UserEmail returns the email address of the authorized account, or a
// placeholder when the service does not report one.
func (g *GoogleDriveDownloader) UserEmail(ctx context.Context) string {
	var about struct {
		User struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"user"`
	}
	if err := g.getJSON(ctx, "/about", url.Values{"fields": {"user(emailAddress)"}}, &about); err != nil || about.User.EmailAddress == "" {
		return "unknown email"
	}
	return about.User.EmailAddress
}

// Download fetches the file at gdriveURL into localFile, returning the
// number of bytes written. Existing files are kept unless overwrite is set.
func (g *GoogleDriveDownloader) Download(gdriveURL, localFile string, overwrite bool, progress ProgressFunc) (int64, error) {
	ctx := context.Background()

	if !overwrite {
		if _, err := os.Stat(localFile); err == nil {
			logging.Download.Info("Skipping download (already exists)", "file", filepath.Base(localFile))
			return 0, nil
		}
	}

	logging.Info("Downloading " + filepath.Base(localFile))

	if err := os.MkdirAll(filepath.Dir(localFile), 0755); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}

	fileID, err := g.resolveFileID(ctx, gdriveURL)
	if err != nil {
		return 0, err
	}

	// knowing the size lets progress be reported against a total
	var meta struct {
		Size string `json:"size"`
	}
	total := int64(-1)
	if err := g.getJSON(ctx, "/files/"+fileID, url.Values{
		"fields":            {"size"},
		"supportsAllDrives": {"true"},
	}, &meta); err == nil {
		if n, perr := strconv.ParseInt(meta.Size, 10, 64); perr == nil {
			total = n
		}
	}

	temp := localFile + ".part"
	logging.Download.Debug("Temporarily downloading", "path", temp)

	n, err := g.downloadChunks(ctx, fileID, temp, total, progress)
	if err != nil {
		os.Remove(temp)
		if de, ok := err.(*driveError); ok && de.Status == http.StatusNotFound {
			return 0, fmt.Errorf("file not found on server for account %q: %w", g.UserEmail(ctx), err)
		}
		return 0, err
	}

	if err := os.Rename(temp, localFile); err != nil {
		os.Remove(temp)
		return 0, fmt.Errorf("failed to move download into place: %w", err)
	}
	return n, nil
}

// downloadChunks fetches the file media in ranged chunks so progress can be
// reported between them.
func (g *GoogleDriveDownloader) downloadChunks(ctx context.Context, fileID, temp string, total int64, progress ProgressFunc) (int64, error) {
	client, err := g.service(ctx)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(temp)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	mediaURL := g.baseURL() + "/files/" + fileID + "?alt=media&supportsAllDrives=true"

	var written int64
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
		if err != nil {
			return written, err
		}
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", written, written+gdriveChunkBytes-1))

		resp, err := client.Do(req)
		if err != nil {
			return written, err
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent &&
			resp.StatusCode != http.StatusRequestedRangeNotSatisfiable {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return written, &driveError{Status: resp.StatusCode, Body: string(body)}
		}
		if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable {
			resp.Body.Close()
			break
		}

		n, err := io.Copy(f, resp.Body)
		resp.Body.Close()
		written += n
		if err != nil {
			return written, err
		}
		if progress != nil {
			progress(written, total)
		}

		// a short or empty chunk means the file is exhausted
		if n < gdriveChunkBytes {
			break
		}
		if total >= 0 && written >= total {
			break
		}
	}
	return written, f.Sync()
}

// resolveFileID turns a gdrive:// path into a Drive file ID by finding the
// drive, then resolving each path component against its parent in turn.
func (g *GoogleDriveDownloader) resolveFileID(ctx context.Context, gdriveURL string) (string, error) {
	driveName, parts, err := splitGDriveURL(gdriveURL)
	if err != nil {
		return "", err
	}

	var parentID string
	if driveName == "My Drive" {
		parentID = "root"
	} else {
		parentID, err = g.findDriveID(ctx, driveName)
		if err != nil {
			return "", err
		}
	}

	for _, name := range parts {
		parentID, err = g.childID(ctx, parentID, name)
		if err != nil {
			return "", err
		}
	}
	return parentID, nil
}

// splitGDriveURL parses gdrive://<drive>/<path...> by hand; drive names like
// "My Drive" contain spaces, which net/url rejects in an authority.
func splitGDriveURL(gdriveURL string) (drive string, parts []string, err error) {
	const scheme = "gdrive://"
	if !strings.HasPrefix(gdriveURL, scheme) {
		return "", nil, fmt.Errorf("gdrive URL must begin with %q: %s", scheme, gdriveURL)
	}
	rest := strings.TrimPrefix(gdriveURL, scheme)
	segments := strings.Split(rest, "/")
	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if unescaped, uerr := url.PathUnescape(seg); uerr == nil {
			seg = unescaped
		}
		cleaned = append(cleaned, seg)
	}
	if len(cleaned) < 2 {
		return "", nil, fmt.Errorf("gdrive URL must name a drive and a file: %s", gdriveURL)
	}
	return cleaned[0], cleaned[1:], nil
}

func (g *GoogleDriveDownloader) findDriveID(ctx context.Context, driveName string) (string, error) {
	var result struct {
		Drives []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"drives"`
	}
	if err := g.getJSON(ctx, "/drives", nil, &result); err != nil {
		return "", err
	}

	var ids []string
	for _, d := range result.Drives {
		if d.Name == driveName {
			ids = append(ids, d.ID)
		}
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("drive %q not found on server for account %q", driveName, g.UserEmail(ctx))
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("ambiguous path, multiple drives named %q exist on server for account %q", driveName, g.UserEmail(ctx))
	}
}

// childID finds the ID of the file or folder named childName directly under
// parentID, requiring the match to be unique.
func (g *GoogleDriveDownloader) childID(ctx context.Context, parentID, childName string) (string, error) {
	var result struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
	}
	q := url.Values{
		"q":                         {fmt.Sprintf(`name="%s" and "%s" in parents and trashed=false`, childName, parentID)},
		"fields":                    {"nextPageToken, files(id)"},
		"supportsAllDrives":         {"true"},
		"includeItemsFromAllDrives": {"true"},
	}
	if err := g.getJSON(ctx, "/files", q, &result); err != nil {
		return "", err
	}

	switch len(result.Files) {
	case 0:
		return "", fmt.Errorf("file or folder %q not found on server for account %q", childName, g.UserEmail(ctx))
	case 1:
		return result.Files[0].ID, nil
	default:
		return "", fmt.Errorf("ambiguous path, multiple files or folders named %q exist under their parent folder on server for account %q", childName, g.UserEmail(ctx))
	}
}
