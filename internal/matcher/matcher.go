// Package matcher supplies a capability matcher backed by a description
// of the browser features the local runtime can actually provide. The
// negotiator tests each merged candidate against it in order and picks
// the first match.
package matcher

import (
	"strings"

	"golang.org/x/mod/semver"

	"wd-capabilities/internal/capabilities"
)

// Features describes the runtime's browser. Zero-value string fields
// mean "undeclared" and never reject a candidate on their own.
type Features struct {
	BrowserName               string `yaml:"browser_name" json:"browserName"`
	BrowserVersion            string `yaml:"browser_version" json:"browserVersion"`
	PlatformName              string `yaml:"platform_name" json:"platformName"`
	AcceptInsecureCerts       bool   `yaml:"accept_insecure_certs" json:"acceptInsecureCerts"`
	StrictFileInteractability bool   `yaml:"strict_file_interactability" json:"strictFileInteractability"`
}

// Matcher adapts Features to the negotiator's predicate type.
// A nil receiver accepts every candidate.
func (f *Features) Matcher() capabilities.Matcher {
	return f.Match
}

// Match reports whether the candidate capability set is satisfiable.
// Only the identifying capabilities take part in matching; behavior
// configuration (timeouts, pageLoadStrategy, unhandledPromptBehavior,
// extension capabilities) never vetoes a candidate.
func (f *Features) Match(set capabilities.Set) bool {
	if f == nil {
		return true
	}

	for name, value := range set {
		switch name {
		case "browserName":
			if f.BrowserName == "" {
				continue
			}
			requested, _ := value.(string)
			if !strings.EqualFold(requested, f.BrowserName) {
				return false
			}

		case "browserVersion":
			requested, _ := value.(string)
			if !versionCompatible(requested, f.BrowserVersion) {
				return false
			}

		case "platformName":
			if f.PlatformName == "" {
				continue
			}
			requested, _ := value.(string)
			if strings.EqualFold(requested, "any") {
				continue
			}
			if !strings.EqualFold(requested, f.PlatformName) {
				return false
			}

		case "acceptInsecureCerts":
			if value == true && !f.AcceptInsecureCerts {
				return false
			}

		case "strictFileInteractability":
			if value == true && !f.StrictFileInteractability {
				return false
			}
		}
	}
	return true
}

// versionCompatible checks that the requested browser version is not
// newer than the available one. Uses semver comparison when both
// versions parse as semver, plain string comparison otherwise.
func versionCompatible(requested, available string) bool {
	// Undeclared on either side accepts anything
	if requested == "" || available == "" {
		return true
	}

	rv := normalizeVersion(requested)
	av := normalizeVersion(available)
	if !semver.IsValid(rv) || !semver.IsValid(av) {
		return requested <= available
	}
	return semver.Compare(rv, av) <= 0
}

// normalizeVersion adds the "v" prefix semver parsing expects.
func normalizeVersion(v string) string {
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}
