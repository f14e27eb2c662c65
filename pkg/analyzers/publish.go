// Package analyzers extracts publish-cadence, maintainer, and dependency
// signals from a registry document's metadata. Each analyzer is a pure
// function of its input; none perform I/O.
package analyzers

import (
	"sort"
	"strings"
	"time"
)

// PublishSignals summarizes a package's release cadence.
type PublishSignals struct {
	ReleasesLast7d      int        `json:"releases_last_7d"`
	ReleasesLast30d     int        `json:"releases_last_30d"`
	IsDormantThenSudden bool       `json:"is_dormant_then_sudden"`
	LatestAgeDays       int        `json:"latest_age_days"` // 999 if no datable release
	LatestReleaseDate   *time.Time `json:"latest_release_date"`
}

// reservedTimeKeys are entries in the registry "time" map that are not
// version identifiers.
var reservedTimeKeys = map[string]bool{"created": true, "modified": true}

// AnalyzePublishActivity computes PublishSignals from the registry "time"
// map (version -> ISO-8601 timestamp) relative to now. Unparseable
// timestamps are skipped silently, per the registry's loose timestamp
// guarantees.
func AnalyzePublishActivity(timeMap map[string]string, now time.Time) PublishSignals {
	var (
		releases7d, releases30d, releases365d int
		latest                                *time.Time
		totalReleases                         int
	)

	for version, raw := range timeMap {
		if reservedTimeKeys[version] {
			continue
		}
		totalReleases++

		dt, err := parseTimestamp(raw)
		if err != nil {
			continue
		}

		age := now.Sub(dt)
		if latest == nil || dt.After(*latest) {
			t := dt
			latest = &t
		}
		if age <= 7*24*time.Hour {
			releases7d++
		}
		if age <= 30*24*time.Hour {
			releases30d++
		}
		if age <= 365*24*time.Hour {
			releases365d++
		}
	}

	isDormantThenSudden := totalReleases > 1 && releases365d <= 2 && releases30d >= 1

	latestAgeDays := 999
	if latest != nil {
		latestAgeDays = int(now.Sub(*latest).Hours() / 24)
	}

	return PublishSignals{
		ReleasesLast7d:      releases7d,
		ReleasesLast30d:     releases30d,
		IsDormantThenSudden: isDormantThenSudden,
		LatestAgeDays:       latestAgeDays,
		LatestReleaseDate:   latest,
	}
}

// parseTimestamp parses a registry timestamp, which always carries a "Z"
// UTC suffix.
func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

// VersionTimelineEntry is one row of a package's release history, most
// recent first.
type VersionTimelineEntry struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

// ParseVersionTimeline builds a descending-by-date timeline from the
// registry "time" map, keeping at most the limit most recent entries.
// Entries whose timestamp fails to parse are still included (sorted
// lexicographically by raw string), matching the upstream behavior of
// sorting on the raw timestamp field rather than a parsed value.
func ParseVersionTimeline(timeMap map[string]string, limit int) []VersionTimelineEntry {
	entries := make([]VersionTimelineEntry, 0, len(timeMap))
	for version, date := range timeMap {
		if reservedTimeKeys[version] {
			continue
		}
		entries = append(entries, VersionTimelineEntry{Version: version, Date: date})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// HasGithubRepo reports whether repo (a registry repository field, either
// a bare string or an object with a "url" key) contains "github.com",
// case-insensitively.
func HasGithubRepo(repo any) bool {
	return strings.Contains(strings.ToLower(repositoryURL(repo)), "github.com")
}

func repositoryURL(repo any) string {
	switch v := repo.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["url"].(string); ok {
			return s
		}
	}
	return ""
}
