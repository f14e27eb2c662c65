package analyzers

import "strings"

// Maintainer mirrors the registry's maintainer entry shape.
type Maintainer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MaintainerSignals summarizes a package's maintainer posture.
type MaintainerSignals struct {
	Count             int          `json:"count"`
	Maintainers       []Maintainer `json:"maintainers"`
	HasFreeEmail      bool         `json:"has_free_email"`
	HasGithubRepo     bool         `json:"has_github_repo"`
	HasRecentAddition bool         `json:"has_recent_addition"` // reserved, always false
}

// freeEmailDomains is the baked-in set of free email providers. Domains
// are matched case-insensitively against the portion of an address after
// the last "@".
var freeEmailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "aol.com": true, "mail.com": true,
	"protonmail.com": true, "icloud.com": true, "live.com": true,
	"msn.com": true, "yandex.com": true, "zoho.com": true,
	"gmx.com": true, "fastmail.com": true, "tutanota.com": true,
}

// IsFreeEmail reports whether email's domain (after the last "@",
// case-folded) is a known free provider. Malformed or empty addresses
// return false.
func IsFreeEmail(email string) bool {
	if email == "" {
		return false
	}
	idx := strings.LastIndex(email, "@")
	if idx < 0 {
		return false
	}
	domain := strings.ToLower(email[idx+1:])
	return freeEmailDomains[domain]
}

// AnalyzeMaintainers computes MaintainerSignals from the registry
// maintainer list and repository field.
func AnalyzeMaintainers(maintainers []Maintainer, repository any) MaintainerSignals {
	hasFreeEmail := false
	for _, m := range maintainers {
		if IsFreeEmail(m.Email) {
			hasFreeEmail = true
			break
		}
	}

	return MaintainerSignals{
		Count:             len(maintainers),
		Maintainers:       maintainers,
		HasFreeEmail:      hasFreeEmail,
		HasGithubRepo:     HasGithubRepo(repository),
		HasRecentAddition: false,
	}
}
