package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkgaudit/pkgaudit/pkg/cache"
	"github.com/pkgaudit/pkgaudit/pkg/integrations"
)

// PackageInfo is the projection of the npm registry document used by the
// audit pipeline. Version is always the "latest" dist-tag; it defaults to
// "unknown" if the registry document carries no dist-tags.
//
// Zero values: all string fields empty, maps/slices nil.
// Safe for concurrent reads after construction.
type PackageInfo struct {
	Name            string            // package name as published
	Version         string            // latest dist-tag version, "unknown" if absent
	Versions        []string          // all known version strings
	Time            map[string]string // version -> ISO-8601 timestamp, includes "created"/"modified"
	Maintainers     []Maintainer      // maintainer list, passthrough order
	Repository      any               // object, string, or nil as published
	Dependencies    map[string]string // direct runtime dependencies, name -> range
	DevDependencies map[string]string // devDependencies, name -> range
	TarballURL      string            // dist.tarball of the latest version, may be empty
	Scripts         map[string]string // lifecycle hook name -> shell command
	Description     string
	License         string
	HomePage        string
}

// Maintainer is a single registry maintainer entry.
type Maintainer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client provides access to the npm package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL    string
	archiveCli *http.Client
}

const (
	defaultBaseURL         = "https://registry.npmjs.org"
	defaultMetadataTimeout = 30 * time.Second
	defaultArchiveTimeout  = 60 * time.Second
)

// Options configures an npm [Client] beyond its cache backend. The zero
// value of every field falls back to the package defaults, so callers
// only need to set the fields they want to override.
type Options struct {
	BaseURL         string
	MetadataTimeout time.Duration
	ArchiveTimeout  time.Duration
}

// NewClient creates an npm client with the given cache backend and the
// package's default registry URL and timeouts.
//
// Parameters:
//   - backend: cache backend for registry response caching (nil for no caching)
//   - cacheTTL: how long responses are cached (spec default: 24h)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithOptions(backend, cacheTTL, Options{})
}

// NewClientWithOptions is [NewClient] with explicit overrides for the
// registry base URL and request timeouts, typically sourced from
// [github.com/pkgaudit/pkgaudit/pkg/config.RegistryConfig].
func NewClientWithOptions(backend cache.Cache, cacheTTL time.Duration, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	metadataTimeout := opts.MetadataTimeout
	if metadataTimeout == 0 {
		metadataTimeout = defaultMetadataTimeout
	}
	archiveTimeout := opts.ArchiveTimeout
	if archiveTimeout == 0 {
		archiveTimeout = defaultArchiveTimeout
	}

	return &Client{
		Client:     integrations.NewClient(backend, metadataTimeout, cacheTTL, nil),
		baseURL:    baseURL,
		archiveCli: integrations.NewHTTPClient(archiveTimeout),
	}
}

// FetchMetadata retrieves the raw registry document for pkg, using the
// registry-cache namespace under the hood. On a fresh cache hit the HTTP
// request is skipped entirely.
//
// Returns [integrations.ErrNotFound] on HTTP 404 (no caching of 404s),
// [integrations.ErrNetwork] for transport failures, or a JSON decoding
// error.
func (c *Client) FetchMetadata(ctx context.Context, pkg string, refresh bool) (*RegistryDocument, error) {
	pkg = integrations.NormalizePkgName(pkg)
	key := cache.NewDefaultKeyer().RegistryKey("npm", pkg)

	var doc RegistryDocument
	err := c.Cached(ctx, key, refresh, &doc, func() error {
		var data RegistryDocument
		if err := c.Get(ctx, c.baseURL+"/"+integrations.URLEncode(pkg), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: npm package %s", err, pkg)
			}
			return err
		}
		doc = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ExtractPackageInfo projects a RegistryDocument down to the fields the
// audit pipeline consumes. latest_version defaults to "unknown" if the
// document carries no dist-tags entry.
func ExtractPackageInfo(doc *RegistryDocument) *PackageInfo {
	latest := doc.DistTags.Latest
	if latest == "" {
		latest = "unknown"
	}
	v := doc.Versions[latest]

	versions := make([]string, 0, len(doc.Versions))
	for ver := range doc.Versions {
		versions = append(versions, ver)
	}

	return &PackageInfo{
		Name:            doc.Name,
		Version:         latest,
		Versions:        versions,
		Time:            doc.Time,
		Maintainers:     doc.Maintainers,
		Repository:      coalesceRepository(doc.Repository, v.Repository),
		Dependencies:    v.Dependencies,
		DevDependencies: v.DevDependencies,
		TarballURL:      v.Dist.Tarball,
		Scripts:         v.Scripts,
		Description:     v.Description,
		License:         licenseOrUnknown(v.License),
		HomePage:        doc.HomePage,
	}
}

// licenseOrUnknown projects a version's license field (a bare SPDX string,
// a legacy {type, url} object, or absent) to a display string, defaulting
// to "unknown" to match the registry's own convention for missing license
// data.
func licenseOrUnknown(v any) string {
	if s := extractField(v, "type"); s != "" {
		return s
	}
	return "unknown"
}

// coalesceRepository prefers the version-level repository field, falling
// back to the document's top-level repository when the version omits it.
func coalesceRepository(docLevel, versionLevel any) any {
	if versionLevel != nil {
		return versionLevel
	}
	return docLevel
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

// RepositoryURL normalizes the Repository field of a PackageInfo to a
// plain URL string, regardless of whether the registry published it as a
// bare string or an object with a "url" key.
func (p *PackageInfo) RepositoryURL() string {
	return integrations.NormalizeRepoURL(extractField(p.Repository, "url"))
}

// RegistryDocument is the raw npm registry metadata document.
type RegistryDocument struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	HomePage    string                    `json:"homepage"`
	Repository  any                       `json:"repository"`
	Maintainers []Maintainer              `json:"maintainers"`
	DistTags    distTags                  `json:"dist-tags"`
	Versions    map[string]versionDetails `json:"versions"`
	Time        map[string]string         `json:"time"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description     string            `json:"description"`
	License         any               `json:"license"`
	Repository      any               `json:"repository"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
	Dist            distInfo          `json:"dist"`
}

type distInfo struct {
	Tarball string `json:"tarball"`
}

// DownloadArchive streams the release tarball at url to destination. An
// empty url returns false with no error, matching the spec's "empty URL
// means no archive available" behavior. Any transport failure also
// returns false with no partial file left behind; checksums are not
// verified.
func (c *Client) DownloadArchive(ctx context.Context, url, destination string) bool {
	if url == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.archiveCli.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	out, err := os.Create(destination)
	if err != nil {
		return false
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destination)
		return false
	}
	return true
}
