// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package metadata and release archives from the npm
// registry (https://registry.npmjs.org), the package manager for
// JavaScript and TypeScript.
//
// # Usage
//
//	client := npm.NewClient(backend, 24*time.Hour)
//
//	doc, err := client.FetchMetadata(ctx, "express", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	info := npm.ExtractPackageInfo(doc)
//
//	ok := client.DownloadArchive(ctx, info.TarballURL, scratchPath)
//
// # RegistryDocument and PackageInfo
//
// [FetchMetadata] returns the raw [RegistryDocument] as published by the
// registry. [ExtractPackageInfo] projects it down to the [PackageInfo]
// fields the audit pipeline consumes: identity, the full time map,
// maintainers, direct and dev dependencies, lifecycle scripts, and the
// latest release's tarball URL.
//
// # Caching
//
// Metadata responses are cached under the registry-cache namespace to
// reduce load on the registry. The cache TTL is set when creating the
// client. Pass refresh=true to bypass the cache. Archive downloads are
// never cached; they are written once to a caller-supplied scratch path.
//
// # Timeouts
//
// Metadata requests are bound to 30s; archive downloads are bound to 60s,
// matching the registry client's documented network budget.
package npm
