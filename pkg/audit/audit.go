// Package audit coordinates the full package audit: registry metadata
// fetch, metadata analyzers, typosquat detection, archive scanning, and
// scoring, producing a finished [Report] and caching it under the
// report-cache namespace.
//
// This is the orchestrator the CLI and HTTP front-ends call into; it
// centralizes caching and error-kind mapping so both entry points behave
// identically.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pkgaudit/pkgaudit/pkg/analyzers"
	"github.com/pkgaudit/pkgaudit/pkg/archive"
	"github.com/pkgaudit/pkgaudit/pkg/cache"
	stackerrors "github.com/pkgaudit/pkgaudit/pkg/errors"
	"github.com/pkgaudit/pkgaudit/pkg/integrations"
	"github.com/pkgaudit/pkgaudit/pkg/integrations/npm"
	"github.com/pkgaudit/pkgaudit/pkg/observability"
	"github.com/pkgaudit/pkgaudit/pkg/scoring"
	"github.com/pkgaudit/pkgaudit/pkg/typosquat"
)

// Default cache TTLs for both namespaces, per the 86,400s spec default.
const (
	DefaultRegistryTTL = cache.DefaultRegistryTTL
	DefaultReportTTL   = cache.DefaultReportTTL
)

// timelineFullLimit and timelineReportLimit implement §4.7's two-stage
// truncation: up to 20 most recent versions are retained internally, but
// the report surfaces only the 10 most recent.
const (
	timelineFullLimit   = 20
	timelineReportLimit = 10
)

// Report is the final structured audit result. Field order and names are
// a stable external contract: presentation layers serialize this struct
// directly to JSON.
type Report struct {
	Package       string            `json:"package"`
	Version       string            `json:"version"`
	RiskScore     int               `json:"risk_score"`
	Severity      scoring.Severity  `json:"severity"`
	RiskBreakdown scoring.Breakdown `json:"risk_breakdown"`
	Flags         []string          `json:"flags"`
	Evidence      Evidence          `json:"evidence"`
	Timestamp     string            `json:"timestamp"`
}

// Evidence is the structured debug payload accompanying a Report.
type Evidence struct {
	Maintainers       []analyzers.Maintainer          `json:"maintainers"`
	LatestReleaseDate *time.Time                      `json:"latest_release_date"`
	ArchiveSummary    archive.Signals                 `json:"archive_summary"`
	PublishTimeline   []analyzers.VersionTimelineEntry `json:"publish_timeline"`
	Repository        any                             `json:"repository"`
	DependencyCount   int                             `json:"dependency_count"`
	TyposquatMatches  []typosquat.Match               `json:"typosquat_matches"`
	Description       string                          `json:"description"`
	License           string                          `json:"license"`
	HomePage          string                          `json:"homepage"`
}

// Orchestrator runs audits end to end. It holds no per-audit state and is
// safe for concurrent use: multiple audits may run against the same
// Orchestrator simultaneously.
type Orchestrator struct {
	registry    *npm.Client
	reportCache cache.Cache
	keyer       cache.Keyer
	logger      *log.Logger
}

// New constructs an Orchestrator using the registry client's package
// defaults. registryCache and reportCache may be nil, in which case
// caching for that namespace is disabled (NullCache). logger may be
// nil, in which case a silent logger is used.
func New(registryCache, reportCache cache.Cache, logger *log.Logger) *Orchestrator {
	return NewWithOptions(registryCache, reportCache, logger, npm.Options{}, DefaultRegistryTTL, "")
}

// NewWithOptions is [New] with explicit overrides for the registry
// client's base URL, timeouts, and cache TTL, typically sourced from
// [github.com/pkgaudit/pkgaudit/pkg/config.RegistryConfig]. tenant, when
// non-empty, scopes the report-cache keys behind a [cache.ScopedKeyer]
// prefix, so multiple tenants can share one physical backend without
// their reports colliding. Registry-cache keys are built by the npm
// client with the default keyer and are not tenant-scoped.
func NewWithOptions(registryCache, reportCache cache.Cache, logger *log.Logger, registryOpts npm.Options, registryTTL time.Duration, tenant string) *Orchestrator {
	if reportCache == nil {
		reportCache = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if registryTTL == 0 {
		registryTTL = DefaultRegistryTTL
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if tenant != "" {
		keyer = cache.NewScopedKeyer(keyer, "tenant:"+tenant+":")
	}

	return &Orchestrator{
		registry:    npm.NewClientWithOptions(registryCache, registryTTL, registryOpts),
		reportCache: reportCache,
		keyer:       keyer,
		logger:      logger,
	}
}

// Audit runs a full audit for name: report-cache lookup, registry
// metadata fetch, analyzers, typosquat detection, archive scan, and
// scoring. On success the report is written back to the report cache
// before returning.
//
// Returns a [*stackerrors.Error] with code [stackerrors.ErrCodeInvalidInput]
// for an empty name, [stackerrors.ErrCodeInvalidPackage] for a name that is
// not a valid npm package name, [stackerrors.ErrCodePackageNotFound] if the registry
// has no such package, or [stackerrors.ErrCodeNetwork]/[stackerrors.ErrCodeInternal]
// for other failures.
func (o *Orchestrator) Audit(ctx context.Context, name string, refresh bool) (*Report, error) {
	name = integrations.NormalizePkgName(name)
	if name == "" {
		return nil, stackerrors.New(stackerrors.ErrCodeInvalidInput, "package name cannot be empty")
	}
	if err := stackerrors.ValidateNpmPackageName(name); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID, "package", name)

	reportKey := o.keyer.ReportKey("npm", name, "latest")
	if !refresh {
		if data, hit, _ := o.reportCache.Get(ctx, reportKey); hit {
			var cached Report
			if err := unmarshalReport(data, &cached); err == nil {
				logger.Debug("serving cached report")
				return &cached, nil
			}
		}
	}

	logger.Debug("starting audit")

	observability.Audit().OnFetchStart(ctx, "npm", name)
	fetchStart := time.Now()

	doc, err := o.registry.FetchMetadata(ctx, name, refresh)
	observability.Audit().OnFetchComplete(ctx, "npm", name, time.Since(fetchStart), err)
	if err != nil {
		logger.Debug("metadata fetch failed", "err", err)
		return nil, mapFetchError(name, err)
	}

	info := npm.ExtractPackageInfo(doc)

	report, err := o.buildReport(ctx, name, info)
	if err != nil {
		logger.Debug("report assembly failed", "err", err)
		return nil, stackerrors.Wrap(stackerrors.ErrCodeInternal, err, "audit failed: %s", name)
	}

	if data, err := marshalReport(report); err == nil {
		_ = o.reportCache.Set(ctx, reportKey, data, DefaultReportTTL)
	}

	logger.Debug("audit complete", "risk_score", report.RiskScore, "severity", report.Severity)

	return report, nil
}

// CachedReport looks up a previously computed report for name without
// triggering a fresh audit. It is used by the HTTP front-end's cache-only
// report endpoint.
func (o *Orchestrator) CachedReport(ctx context.Context, name string) (*Report, bool) {
	name = integrations.NormalizePkgName(name)
	reportKey := o.keyer.ReportKey("npm", name, "latest")
	data, hit, err := o.reportCache.Get(ctx, reportKey)
	if err != nil || !hit {
		return nil, false
	}
	var cached Report
	if err := unmarshalReport(data, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

func (o *Orchestrator) buildReport(ctx context.Context, name string, info *npm.PackageInfo) (*Report, error) {
	now := time.Now().UTC()

	publishSignals := analyzers.AnalyzePublishActivity(info.Time, now)
	maintainerSignals := analyzers.AnalyzeMaintainers(toAnalyzerMaintainers(info.Maintainers), info.Repository)
	dependencySignals := analyzers.AnalyzeDependencies(info.Dependencies)
	typosquatSignals := typosquat.FindMatches(name)

	archiveSignals := o.scanArchive(ctx, name, info.TarballURL)

	breakdown := scoring.Breakdown{
		Publish:    scoring.PublishScore(publishSignals.ReleasesLast7d, publishSignals.IsDormantThenSudden, publishSignals.LatestAgeDays),
		Maintainer: scoring.MaintainerScore(maintainerSignals.Count, maintainerSignals.HasRecentAddition, maintainerSignals.HasGithubRepo, maintainerSignals.HasFreeEmail),
		Dependency: scoring.DependencyScore(dependencySignals.Count, dependencySignals.DeprecatedCount, dependencySignals.MissingRepoCount),
		Typosquat:  scoring.TyposquatScore(typosquatSignals.MinDistance, typosquat.IsPopular(name)),
		Archive:    scoring.ArchiveScore(archiveSignals.HasPostinstall, archiveSignals.HasNetworkCommands, archiveSignals.HasEvalFunction, archiveSignals.HasHighEntropy),
	}

	riskScore := scoring.FinalScore(breakdown)
	severity := scoring.SeverityOf(riskScore)
	flags := scoring.GenerateFlags(scoring.FlagInputs{
		Publish:    publishSignals,
		Maintainer: maintainerSignals,
		Dependency: dependencySignals,
		Typosquat:  typosquatSignals,
		Archive:    archiveSignals,
	})

	observability.Audit().OnScoreComplete(ctx, name, riskScore, string(severity), time.Since(now))

	timeline := analyzers.ParseVersionTimeline(info.Time, timelineFullLimit)
	if len(timeline) > timelineReportLimit {
		timeline = timeline[:timelineReportLimit]
	}

	return &Report{
		Package:       name,
		Version:       info.Version,
		RiskScore:     riskScore,
		Severity:      severity,
		RiskBreakdown: breakdown,
		Flags:         flags,
		Evidence: Evidence{
			Maintainers:       maintainerSignals.Maintainers,
			LatestReleaseDate: publishSignals.LatestReleaseDate,
			ArchiveSummary:    archiveSignals,
			PublishTimeline:   timeline,
			Repository:        info.Repository,
			DependencyCount:   dependencySignals.Count,
			TyposquatMatches:  typosquatSignals.Matches,
			Description:       info.Description,
			License:           info.License,
			HomePage:          info.HomePage,
		},
		Timestamp: now.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// scanArchive downloads the release tarball to a scratch file and runs
// the static scanner. Download failure degrades to empty ArchiveSignals
// rather than aborting the audit, per spec §4.7 step 7.
func (o *Orchestrator) scanArchive(ctx context.Context, name, tarballURL string) archive.Signals {
	if tarballURL == "" {
		return archive.Signals{}
	}

	scratch, err := os.CreateTemp("", "audit-archive-*.tgz")
	if err != nil {
		return archive.Signals{}
	}
	scratchPath := scratch.Name()
	scratch.Close()
	defer os.Remove(scratchPath)

	observability.Audit().OnScanStart(ctx, name)
	scanStart := time.Now()

	if !o.registry.DownloadArchive(ctx, tarballURL, scratchPath) {
		observability.Audit().OnScanComplete(ctx, name, 0, time.Since(scanStart), fmt.Errorf("archive download failed"))
		return archive.Signals{}
	}

	signals := archive.Scan(scratchPath)
	observability.Audit().OnScanComplete(ctx, name, len(signals.InstallScripts), time.Since(scanStart), nil)
	return signals
}

func toAnalyzerMaintainers(in []npm.Maintainer) []analyzers.Maintainer {
	out := make([]analyzers.Maintainer, len(in))
	for i, m := range in {
		out[i] = analyzers.Maintainer{Name: m.Name, Email: m.Email}
	}
	return out
}

func mapFetchError(name string, err error) error {
	if stackerrors.GetCode(err) != "" {
		return err
	}
	if errors.Is(err, integrations.ErrNotFound) {
		return stackerrors.Wrap(stackerrors.ErrCodePackageNotFound, err, "package not found: %s", name)
	}
	return stackerrors.Wrap(stackerrors.ErrCodeNetwork, err, "fetching metadata for %s", name)
}

func marshalReport(report *Report) ([]byte, error) {
	return json.Marshal(report)
}

func unmarshalReport(data []byte, out *Report) error {
	return json.Unmarshal(data, out)
}
