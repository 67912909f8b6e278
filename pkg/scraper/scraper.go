// Package scraper provides functionality to fetch results pages from the web
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is sent with every request unless overridden
const DefaultUserAgent = "chase-results-scraper/1.0 (+stats-research)"

// FetchError reports a page that could not be retrieved
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("non-200 status code %d for %s", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClientOptions configures a Client
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// CacheDir, when set, keeps a copy of every fetched page and serves
	// later requests for the same page from disk.
	CacheDir string
}

// Client fetches pages over HTTP
type Client struct {
	http     *resty.Client
	cacheDir string
}

// NewClient creates a client with a bounded request timeout
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept-Language", "en-GB,en;q=0.9")
	return &Client{http: client, cacheDir: opts.CacheDir}
}

// FetchURL downloads the HTML content from a URL and returns it as a string
func (c *Client) FetchURL(ctx context.Context, url string) (string, error) {
	slog.InfoContext(ctx, "fetching url", "url", url)

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	slog.DebugContext(ctx, "http status",
		"status", res.Status(),
		"content_type", res.Header().Get("Content-Type"),
		"bytes", len(res.Body()),
	)
	if res.StatusCode() != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	return res.String(), nil
}

// FetchPage returns the page at url, reusing the cached copy called name
// when a cache directory is configured.
func (c *Client) FetchPage(ctx context.Context, url, name string) (string, error) {
	if c.cacheDir == "" {
		return c.FetchURL(ctx, url)
	}

	localFilename := filepath.Join(c.cacheDir, name)
	if content, err := os.ReadFile(localFilename); err == nil {
		slog.InfoContext(ctx, "using cached page", "path", localFilename)
		return string(content), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("error reading cached page: %w", err)
	}

	content, err := c.FetchURL(ctx, url)
	if err != nil {
		return "", err
	}
	if err := SaveContentToFile(localFilename, content); err != nil {
		slog.WarnContext(ctx, "failed to cache page", "path", localFilename, "err", err)
	} else {
		slog.DebugContext(ctx, "cached page", "path", localFilename)
	}
	return content, nil
}

// SaveContentToFile saves content to a file, creating parent directories
func SaveContentToFile(filename string, content string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
