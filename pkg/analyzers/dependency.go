package analyzers

// DependencySignals summarizes a package's direct dependency surface.
// DeprecatedCount and MissingRepoCount are reserved for future enrichment:
// the registry exposes no per-dependency deprecation or repository signal
// today, so both are always zero, but are carried through the scoring
// engine unchanged.
type DependencySignals struct {
	Count             int      `json:"count"`
	Dependencies      []string `json:"dependencies"`
	DeprecatedCount   int      `json:"deprecated_count"`
	MissingRepoCount  int      `json:"missing_repo_count"`
}

// AnalyzeDependencies computes DependencySignals from the direct
// "dependencies" map of the latest version descriptor.
func AnalyzeDependencies(dependencies map[string]string) DependencySignals {
	names := make([]string, 0, len(dependencies))
	for name := range dependencies {
		names = append(names, name)
	}
	return DependencySignals{
		Count:            len(dependencies),
		Dependencies:     names,
		DeprecatedCount:  0,
		MissingRepoCount: 0,
	}
}
