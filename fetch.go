package omiswath

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// maxGranuleBytes caps a downloaded granule.
// OMI level-2 swaths are 5-40 MB; the cap stops a misbehaving server from
// filling the disk.
const maxGranuleBytes = 512 << 20

// Fetcher downloads granules listed by URL.
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
	Retries    uint64

	// Notify, if set, is called before each retry.
	Notify func(err error, wait time.Duration)
}

// NewFetcher returns a Fetcher with sensible defaults.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		MaxBytes:   maxGranuleBytes,
		Retries:    3,
	}
}

// IsURL reports whether a granule list entry names a remote granule.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL into dir and returns the local path. The file keeps
// the URL's base name so product detection by name still works.
// HTTP 4xx responses are not retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("granule URL %q has no file name", rawURL)
	}
	dst := filepath.Join(dir, name)

	var b backoff.BackOff = backoff.NewExponentialBackOff()
	b = backoff.WithContext(backoff.WithMaxRetries(b, f.Retries), ctx)
	notify := f.Notify
	if notify == nil {
		notify = func(error, time.Duration) {}
	}
	err = backoff.RetryNotify(func() error { return f.download(ctx, rawURL, dst) }, b, notify)
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return dst, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dst string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return backoff.Permanent(err)
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = maxGranuleBytes
	}
	// Read one byte past the limit so an oversized body is detected, not truncated.
	n, err := io.Copy(out, io.LimitReader(resp.Body, limit+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if n > limit {
		return backoff.Permanent(fmt.Errorf("granule larger than %d bytes", limit))
	}
	return nil
}
