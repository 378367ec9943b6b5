package integrity

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Checker reports whether a thumbnail reference resolves to an asset.
type Checker interface {
	Exists(ctx context.Context, ref string) (bool, error)
	Close() error
}

type fsChecker struct {
	fs   afero.Fs
	root string
}

// NewFSChecker checks references as files below root. Remote URLs are not
// the filesystem's concern and always pass.
func NewFSChecker(fs afero.Fs, root string) Checker {
	return &fsChecker{
		fs:   fs,
		root: root,
	}
}

func (c *fsChecker) Exists(_ context.Context, ref string) (bool, error) {
	if isRemote(ref) {
		return true, nil
	}
	path := filepath.Join(c.root, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
	ok, err := afero.Exists(c.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return ok, nil
}

func (c *fsChecker) Close() error {
	return nil
}

type httpChecker struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
}

// NewHTTPChecker checks references with HEAD requests against the deployed
// site at baseURL.
func NewHTTPChecker(baseURL string, requestsPerSecond int, timeout time.Duration) Checker {
	rl := ratelimit.NewUnlimited()
	if requestsPerSecond > 0 {
		rl = ratelimit.New(requestsPerSecond)
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "catalog-integrity-scanner/1.0")

	return &httpChecker{
		rl:         rl,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

func (c *httpChecker) Exists(ctx context.Context, ref string) (bool, error) {
	url := ref
	switch {
	case strings.HasPrefix(ref, "//"):
		url = "https:" + ref
	case !isRemote(ref):
		url = c.baseURL + "/" + strings.TrimPrefix(ref, "/")
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Head(url)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", url, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusGone:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("HTTP error checking %s: %d %s", url, resp.StatusCode(), resp.Status())
	}
	return true, nil
}

func (c *httpChecker) Close() error {
	return c.httpClient.Close()
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//")
}
