// Package scoring fuses signal bundles produced by the analyzers,
// typosquat detector, and archive scanner into sub-scores, a final
// weighted risk score, a severity label, and an ordered flag list.
//
// Every function here is a pure arithmetic projection of its inputs —
// no I/O, no package-level state.
package scoring

import (
	"fmt"

	"github.com/pkgaudit/pkgaudit/pkg/analyzers"
	"github.com/pkgaudit/pkgaudit/pkg/archive"
	"github.com/pkgaudit/pkgaudit/pkg/typosquat"
)

// Severity is the coarse three-level risk projection.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Breakdown holds the five named sub-scores, each in [0, 100].
type Breakdown struct {
	Publish    int `json:"publish"`
	Maintainer int `json:"maintainer"`
	Dependency int `json:"dependency"`
	Typosquat  int `json:"typosquat"`
	Archive    int `json:"archive"`
}

// PublishScore scores publish-cadence anomalies. Evaluated in strict
// precedence order: a burst of 5+ releases in 7 days outranks a merely
// elevated (2+) 7-day count, which outranks a dormant-then-sudden pattern
// whose latest release is at most 7 days old.
func PublishScore(releasesLast7d int, isDormantThenSudden bool, latestAgeDays int) int {
	switch {
	case releasesLast7d >= 5:
		return 90
	case releasesLast7d >= 2:
		return 65
	case isDormantThenSudden && latestAgeDays <= 7:
		return 80
	default:
		return 10
	}
}

// MaintainerScore scores maintainer posture. Capped at 100.
func MaintainerScore(count int, hasRecentAddition, hasGithubRepo, hasFreeEmail bool) int {
	score := 0
	if count == 1 {
		score += 70
	}
	if hasRecentAddition {
		score += 20
	}
	if !hasGithubRepo {
		score += 20
	}
	if hasFreeEmail {
		score += 10
	}
	return capAt100(score)
}

// DependencyScore scores the dependency surface. deprecatedCount and
// missingRepoCount are currently always zero (see [analyzers.DependencySignals])
// but are accepted here so the scorer needs no change when those signals
// are populated.
func DependencyScore(count, deprecatedCount, missingRepoCount int) int {
	var base int
	switch {
	case count > 50:
		base = 90
	case count > 20:
		base = 60
	case count > 5:
		base = 30
	default:
		base = 0
	}

	deprecatedPenalty := min(deprecatedCount*15, 100)
	missingRepoPenalty := min(missingRepoCount*10, 100)

	return capAt100(base + deprecatedPenalty + missingRepoPenalty)
}

// TyposquatScore scores a typosquat detector result. A package whose own
// name is itself popular receives the lower "popular" score even on a
// distance-1 hit — this is intentional, see the design notes on the
// popular-but-typosquat case.
func TyposquatScore(minDistance int, queryIsPopular bool) int {
	switch {
	case minDistance == 1 && !queryIsPopular:
		return 90
	case minDistance == 1 && queryIsPopular:
		return 60
	case minDistance == 2:
		return 30
	default:
		return 0
	}
}

// ArchiveScore scores static archive-scan findings. Capped at 100.
func ArchiveScore(hasPostinstall, hasNetworkCommands, hasEvalFunction, hasHighEntropy bool) int {
	score := 0
	if hasPostinstall {
		score += 60
	}
	if hasNetworkCommands {
		score += 50
	}
	if hasEvalFunction {
		score += 40
	}
	if hasHighEntropy {
		score += 50
	}
	return capAt100(score)
}

// FinalScore combines the five sub-scores into the overall weighted risk
// score using fixed weights (publish 0.25, maintainer 0.20, dependency
// 0.20, typosquat 0.15, archive 0.20), rounding half-away-from-zero.
func FinalScore(b Breakdown) int {
	weighted := float64(b.Publish)*0.25 +
		float64(b.Maintainer)*0.20 +
		float64(b.Dependency)*0.20 +
		float64(b.Typosquat)*0.15 +
		float64(b.Archive)*0.20
	return roundHalfAwayFromZero(weighted)
}

// SeverityOf projects a final score onto the three-level severity scale.
func SeverityOf(score int) Severity {
	switch {
	case score <= 30:
		return SeverityLow
	case score <= 60:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// FlagInputs bundles the signal fields flag generation needs, so callers
// don't have to pass five separate structs positionally.
type FlagInputs struct {
	Publish    analyzers.PublishSignals
	Maintainer analyzers.MaintainerSignals
	Dependency analyzers.DependencySignals
	Typosquat  typosquat.Signals
	Archive    archive.Signals
}

// GenerateFlags produces the deterministic, ordered human-readable flag
// list. Order matches the twelve numbered rules: publish anomalies,
// maintainer posture, dependency volume, typosquat match, then archive
// findings.
func GenerateFlags(in FlagInputs) []string {
	var flags []string

	if in.Publish.ReleasesLast7d >= 5 {
		flags = append(flags, "Unusual publish activity: 5+ releases in 7 days")
	}
	if in.Publish.IsDormantThenSudden {
		flags = append(flags, "Dormant package with sudden release")
	}

	if in.Maintainer.Count == 1 {
		flags = append(flags, "Single maintainer")
	}
	if in.Maintainer.HasRecentAddition {
		flags = append(flags, "Recently added maintainer")
	}
	if !in.Maintainer.HasGithubRepo {
		flags = append(flags, "Missing GitHub repository")
	}
	if in.Maintainer.HasFreeEmail {
		flags = append(flags, "Maintainer uses free email domain")
	}

	switch {
	case in.Dependency.Count > 50:
		flags = append(flags, fmt.Sprintf("High dependency count: %d", in.Dependency.Count))
	case in.Dependency.Count > 20:
		flags = append(flags, fmt.Sprintf("Moderate dependency count: %d", in.Dependency.Count))
	}

	if in.Typosquat.MinDistance <= 2 && len(in.Typosquat.Matches) > 0 {
		flags = append(flags, fmt.Sprintf("Possible typosquat of: %s", in.Typosquat.Matches[0].PopularPackage))
	}

	if in.Archive.HasPostinstall {
		flags = append(flags, "Contains postinstall/preinstall scripts")
	}
	if in.Archive.HasNetworkCommands {
		flags = append(flags, "Contains network commands (curl/wget/nc)")
	}
	if in.Archive.HasEvalFunction {
		flags = append(flags, "Contains eval() or Function() calls")
	}
	if in.Archive.HasHighEntropy {
		flags = append(flags, "Contains high-entropy/obfuscated code")
	}

	return flags
}

func capAt100(n int) int {
	if n > 100 {
		return 100
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func roundHalfAwayFromZero(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return -int(-f + 0.5)
}
