// Package fetch downloads songbook files and the metadata CSV from the
// online repository. All retry behavior lives here; the processing core
// never retries on its own.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"time"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
	"github.com/bricedupuy/chordshow/internal/fileutil"
	"github.com/bricedupuy/chordshow/internal/logging"
)

// userAgent identifies the tool to the songbook server.
const userAgent = "chordshow/1.0"

// songLink matches href attributes pointing at songbook files in the
// repository index page.
var songLink = regexp.MustCompile(`href="([^"]+\.chordpro)"`)

// Client downloads songbook resources with bounded retries.
type Client struct {
	// BaseURL is the directory the songbook files live under, with a
	// trailing slash.
	BaseURL string

	// MetadataURL is the location of the metadata CSV.
	MetadataURL string

	// MaxRetries is the number of attempts per resource.
	MaxRetries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration

	// HTTPClient is the underlying client; its Timeout bounds each
	// request.
	HTTPClient *http.Client
}

// New returns a client for the given endpoints.
func New(baseURL, metadataURL string, timeout time.Duration, maxRetries int, retryDelay time.Duration) *Client {
	return &Client{
		BaseURL:     baseURL,
		MetadataURL: metadataURL,
		MaxRetries:  maxRetries,
		RetryDelay:  retryDelay,
		HTTPClient:  &http.Client{Timeout: timeout},
	}
}

// ListSongs fetches the repository index page and returns the songbook
// filenames it links to, in natural jem/jemk order.
func (c *Client) ListSongs(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.BaseURL)
	if err != nil {
		return nil, err
	}

	matches := songLink.FindAllStringSubmatch(string(body), -1)
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, m[1])
	}
	sort.Slice(files, func(i, j int) bool { return fileutil.Less(files[i], files[j]) })
	return files, nil
}

// DownloadSong fetches one songbook file and returns its normalized
// filename and content.
func (c *Client) DownloadSong(ctx context.Context, name string) (string, []byte, error) {
	body, err := c.get(ctx, c.BaseURL+name)
	if err != nil {
		return "", nil, err
	}
	local := fileutil.Sanitize(fileutil.Normalize(name))
	return local, body, nil
}

// DownloadMetadata fetches the metadata CSV.
func (c *Client) DownloadMetadata(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.MetadataURL)
}

// get performs one download with retries. Context cancellation stops
// the retry loop immediately.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < c.MaxRetries {
			logging.FetchRetry(url, attempt, err)
			select {
			case <-time.After(c.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, cperrors.NewFetch(url, c.MaxRetries, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
