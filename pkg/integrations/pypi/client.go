package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pycompat/pkg/buildinfo"
	"github.com/matzehuels/pycompat/pkg/cache"
	apperrors "github.com/matzehuels/pycompat/pkg/errors"
	"github.com/matzehuels/pycompat/pkg/integrations"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// Release holds the metadata of one released version of a Python package.
//
// Classifiers is the only field the compatibility check consumes; the rest is
// decoded for logging. Zero values: all string fields empty, Classifiers nil.
// A Release is safe for concurrent reads after construction.
type Release struct {
	Name           string   `json:"name"`            // Project name as published (e.g., "Flask")
	Version        string   `json:"version"`         // Release version (e.g., "1.1.2")
	Summary        string   `json:"summary"`         // Short package description (may be empty)
	RequiresPython string   `json:"requires_python"` // PEP 345 specifier (may be empty)
	Classifiers    []string `json:"classifiers"`     // Trove classifiers (may be nil)
}

// Client provides access to the PyPI JSON API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for response caching (nil or [cache.NullCache] for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
//   - opts: passed through to [integrations.NewClient]
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts ...integrations.Option) *Client {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "pypi", cacheTTL, headers, opts...),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at a PyPI mirror. A trailing slash is ignored;
// an empty url restores [DefaultBaseURL].
func (c *Client) SetBaseURL(url string) {
	url = strings.TrimRight(url, "/")
	if url == "" {
		url = DefaultBaseURL
	}
	c.baseURL = url
}

// BaseURL returns the API root the client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchRelease retrieves the metadata of one release from PyPI.
//
// The name is normalized for the request (case-insensitive, underscores→hyphens),
// so "Flask" and "flask" share a cache entry.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - Release populated with metadata on success
//   - a coded [apperrors.Error] if name or version is unsafe in a URL path
//   - [integrations.ErrNotFound] if the project or release doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - [integrations.ErrMalformed] for JSON decoding failures
//
// The returned Release pointer is never nil if err is nil.
func (c *Client) FetchRelease(ctx context.Context, name, version string, refresh bool) (*Release, error) {
	pkg := integrations.NormalizePkgName(name)
	if err := apperrors.ValidatePackageName(pkg); err != nil {
		return nil, err
	}
	if err := apperrors.ValidateVersion(version); err != nil {
		return nil, err
	}

	var rel Release
	err := c.Cached(ctx, pkg+"=="+version, refresh, &rel, func() error {
		return c.fetch(ctx, pkg, version, &rel)
	})
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (c *Client) fetch(ctx context.Context, pkg, version string, rel *Release) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/%s/json", c.baseURL, pkg, version), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi release %s %s", err, pkg, version)
		}
		return err
	}

	*rel = Release{
		Name:           data.Info.Name,
		Version:        data.Info.Version,
		Summary:        data.Info.Summary,
		RequiresPython: data.Info.RequiresPython,
		Classifiers:    data.Info.Classifiers,
	}
	return nil
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Summary        string   `json:"summary"`
	RequiresPython string   `json:"requires_python"`
	Classifiers    []string `json:"classifiers"`
}
