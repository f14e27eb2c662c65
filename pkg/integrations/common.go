package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	// This corresponds to HTTP 404 responses.
	// Callers should check with errors.Is(err, integrations.ErrNotFound).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	// This error may be wrapped with [cache.RetryableError] for 5xx status codes.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the given timeout applied to all requests.
//
// The client is safe for concurrent use by multiple goroutines.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NormalizePkgName converts a package name to its canonical form: trimmed,
// lowercased. npm package names are already case-sensitive-free at the
// registry level but audits are most useful when keyed consistently.
func NormalizePkgName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
//
// Transformations applied:
//   - git@github.com:user/repo → https://github.com/user/repo
//   - git://github.com/user/repo → https://github.com/user/repo
//   - git+https://example.com/repo.git → https://example.com/repo
//   - https://example.com/repo.git → https://example.com/repo
//
// Returns an empty string if the input is empty or contains only whitespace.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// URLEncode percent-encodes a string for use in URLs.
func URLEncode(s string) string { return url.QueryEscape(s) }
