// Package validate decides whether a selected target application
// belongs to the selected Line of Business.
package validate

import "github.com/scx-platform/releasegate/internal/manifest"

// Auxiliary holds the per-LOB configuration resolved on a valid
// pairing. Every field may be empty; absence is not an error.
type Auxiliary struct {
	EmailDL         string
	GitRepo         string
	GitUser         string
	ArtifactoryUser string
	ArtifactoryURL  string
}

// Result is the outcome of a pairing check. An invalid pairing is an
// expected branch of the contract, not an error value.
type Result struct {
	Valid     bool
	LobKey    string
	TargetApp string

	// LobName is the display name for the LOB, "" if unconfigured.
	// Set only on a valid result.
	LobName string
	Aux     Auxiliary

	// Alternatives carries the full set of valid target apps for the
	// LOB when the pairing is invalid. Empty means the LOB key itself
	// is unknown.
	Alternatives []string
}

// Validate checks that targetApp is configured under lobKey. Membership
// is exact, case-sensitive string equality with no trimming. The result
// depends only on the manifest snapshot and the pair, so repeated calls
// are idempotent.
func Validate(m *manifest.Manifest, lobKey, targetApp string) Result {
	apps := m.TargetApps(lobKey)
	for _, a := range apps {
		if a == targetApp {
			return Result{
				Valid:     true,
				LobKey:    lobKey,
				TargetApp: targetApp,
				LobName:   m.LobName(lobKey),
				Aux: Auxiliary{
					EmailDL:         m.EmailDL(lobKey),
					GitRepo:         m.GitRepo(),
					GitUser:         m.GitUser(),
					ArtifactoryUser: m.ArtifactoryUser(),
					ArtifactoryURL:  m.ArtifactoryURL(),
				},
			}
		}
	}
	return Result{
		LobKey:       lobKey,
		TargetApp:    targetApp,
		Alternatives: apps,
	}
}
