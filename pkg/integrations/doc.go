// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// This package contains the shared HTTP client used by registry-specific
// subpackages to fetch package metadata and release artifacts:
//
//   - [npm]: npm registry (registry.npmjs.org)
//
// # Client Pattern
//
// Registry clients follow a consistent pattern:
//
//	client := npm.NewClient(cacheBackend, 24*time.Hour)
//	doc, err := client.FetchMetadata(ctx, "express", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry, with HTTP 429 reported as [RateLimitedError]
//   - Response caching via [cache.Cache]
//   - Registry-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all registry
// clients, including HTTP response caching and observability hooks.
//
// # Adding a New Registry
//
// To add support for a new package registry:
//
//  1. Create a subpackage: pkg/integrations/<registry>/
//  2. Define response structs matching the API schema
//  3. Implement a Client with FetchMetadata and DownloadArchive methods
//  4. Use [NewClient] for HTTP with caching
//
// [npm]: github.com/pkgaudit/pkgaudit/pkg/integrations/npm
// [cache.Cache]: github.com/pkgaudit/pkgaudit/pkg/cache.Cache
package integrations
