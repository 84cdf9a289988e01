package manifest

import "sort"

// Manifest is the central deployment-configuration document.
// It is treated as immutable once loaded; accessors never mutate it.
type Manifest struct {
	// AppLists maps a LOB key to its display strings. Index 0 is the
	// canonical human-readable name for the LOB.
	AppLists map[string][]string `json:"SCXML_APP_LISTS"`

	// TargetAppLists maps a LOB key to the application identifiers
	// that may be released under that LOB.
	TargetAppLists map[string][]string `json:"SCXML_TARGET_APP_LISTS"`

	// EmailConfig maps "<lobKey>_teamEmailDL" to a list of addresses.
	// Index 0 is the primary contact.
	EmailConfig map[string][]string `json:"SCXML_EMAIL_CONFIG"`

	// GitConfig and ArtifactoryConfig are flat maps of named keys to
	// single-element lists (scalars wrapped for uniform access).
	GitConfig         map[string][]string `json:"SCXML_GIT_CONFIG"`
	ArtifactoryConfig map[string][]string `json:"SCXML_JFROG_CONFIG"`
}

// normalize replaces nil maps with empty ones so lookups never have to
// nil-check. A manifest with missing top-level keys is valid.
func (m *Manifest) normalize() {
	if m.AppLists == nil {
		m.AppLists = map[string][]string{}
	}
	if m.TargetAppLists == nil {
		m.TargetAppLists = map[string][]string{}
	}
	if m.EmailConfig == nil {
		m.EmailConfig = map[string][]string{}
	}
	if m.GitConfig == nil {
		m.GitConfig = map[string][]string{}
	}
	if m.ArtifactoryConfig == nil {
		m.ArtifactoryConfig = map[string][]string{}
	}
}

// LobKeys returns the LOB keys that have a target application list,
// sorted for stable rendering.
func (m *Manifest) LobKeys() []string {
	keys := make([]string, 0, len(m.TargetAppLists))
	for k := range m.TargetAppLists {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TargetApps returns the target applications configured for lobKey,
// de-duplicated and in source order. Unknown LOB keys yield an empty
// slice, never an error.
func (m *Manifest) TargetApps(lobKey string) []string {
	apps := m.TargetAppLists[lobKey]
	out := make([]string, 0, len(apps))
	seen := make(map[string]bool, len(apps))
	for _, a := range apps {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// LobName returns the display name for lobKey, or "" if none is
// configured. Absence is a degraded render, not a failure.
func (m *Manifest) LobName(lobKey string) string {
	return firstOrEmpty(m.AppLists[lobKey])
}

// EmailDL returns the primary notification address for lobKey.
func (m *Manifest) EmailDL(lobKey string) string {
	return firstOrEmpty(m.EmailConfig[lobKey+"_teamEmailDL"])
}

// GitRepo returns the configured git repository coordinate.
func (m *Manifest) GitRepo() string {
	return firstOrEmpty(m.GitConfig["GIT_Repo"])
}

// GitUser returns the configured git user name.
func (m *Manifest) GitUser() string {
	return firstOrEmpty(m.GitConfig["GIT_userName"])
}

// ArtifactoryUser returns the configured artifactory user ID.
func (m *Manifest) ArtifactoryUser() string {
	return firstOrEmpty(m.ArtifactoryConfig["SCXML_artifactoryUserID"])
}

// ArtifactoryURL returns the artifact search base URL.
func (m *Manifest) ArtifactoryURL() string {
	return firstOrEmpty(m.ArtifactoryConfig["SCXML_searchArtifactoryBaseURL"])
}

func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}
