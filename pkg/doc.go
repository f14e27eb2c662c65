// Package pkg provides the core libraries for the stacktower npm
// supply-chain auditor.
//
// # Overview
//
// stacktower fetches npm registry metadata and the latest release
// archive for a package, statically inspects both for known risk
// signals, and produces a weighted risk report. The pkg directory is
// organized around the stages of that pipeline:
//
//  1. Registry access ([integrations], [integrations/npm], [cache])
//  2. Static analysis ([analyzers], [typosquat], [archive])
//  3. Scoring ([scoring])
//  4. Orchestration ([audit])
//
// # Architecture
//
// The typical data flow through stacktower:
//
//	npm registry metadata + release tarball
//	         ↓
//	    [integrations/npm] (fetch + cache)
//	         ↓
//	    [analyzers] / [typosquat] / [archive] (signal extraction)
//	         ↓
//	    [scoring] (weighted risk score + flags)
//	         ↓
//	    [audit] (orchestration + report assembly + caching)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/pkgaudit/pkgaudit/pkg/audit"
//	)
//
//	orchestrator := audit.New(nil, nil, nil)
//	report, err := orchestrator.Audit(context.Background(), "left-pad", false)
//
// # Main Packages
//
// [cache] - Pluggable key-value cache (file, bbolt, SQLite, Redis, or
// null) shared by the registry-cache and report-cache namespaces.
//
// [integrations] - Shared HTTP client plumbing: caching, retries, and
// package-name/repository-URL normalization.
//
// [integrations/npm] - npm registry client: metadata fetch and tarball
// download.
//
// [analyzers] - Metadata-level signal extraction: publish cadence,
// maintainer posture, dependency footprint, and version timelines.
//
// [typosquat] - Levenshtein-distance matching against a popular-package
// corpus.
//
// [archive] - Static inspection of a release tarball: install-hook
// scripts, network commands, eval/obfuscation patterns, and
// high-entropy strings.
//
// [scoring] - Pure scoring functions mapping analyzer/scanner signals to
// sub-scores, a weighted final score, a severity tier, and flags.
//
// [audit] - The orchestrator tying every stage together into a single
// [audit.Report], including cache lookups and error-kind mapping shared
// by the CLI and HTTP front-ends.
//
// [errors] - Structured, machine-readable error codes shared across
// front-ends.
//
// [config] - Optional TOML configuration for the registry client, cache
// backend, and HTTP server.
//
// [observability] - Optional hooks for metrics/tracing without imposing
// a hard dependency on any specific backend.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include tests that hit the live registry
//
// [cache]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/cache
// [integrations]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/integrations
// [integrations/npm]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/integrations/npm
// [analyzers]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/analyzers
// [typosquat]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/typosquat
// [archive]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/archive
// [scoring]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/scoring
// [audit]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/audit
// [errors]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/errors
// [config]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/config
// [observability]: https://pkg.go.dev/github.com/pkgaudit/pkgaudit/pkg/observability
package pkg
