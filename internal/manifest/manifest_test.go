package manifest

import (
	"reflect"
	"testing"
)

func testManifest() *Manifest {
	m := &Manifest{
		AppLists: map[string][]string{
			"CL1": {"Consumer Lending", "CL Portal"},
			"HL1": {"Home Lending"},
		},
		TargetAppLists: map[string][]string{
			"CL1": {"AppX", "AppY", "AppX"},
			"HL1": {"AppZ"},
			"WM1": {},
		},
		EmailConfig: map[string][]string{
			"CL1_teamEmailDL": {"cl-team@example.com", "cl-leads@example.com"},
		},
		GitConfig: map[string][]string{
			"GIT_Repo":     {"org/deploy-configs"},
			"GIT_userName": {"svc-release"},
		},
		ArtifactoryConfig: map[string][]string{
			"SCXML_artifactoryUserID":        {"svc-artifactory"},
			"SCXML_searchArtifactoryBaseURL": {"https://artifactory.example.com/api/search"},
		},
	}
	m.normalize()
	return m
}

func TestLobKeys_Sorted(t *testing.T) {
	m := testManifest()
	got := m.LobKeys()
	want := []string{"CL1", "HL1", "WM1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LobKeys() = %v, want %v", got, want)
	}
}

func TestTargetApps_Deduplicates(t *testing.T) {
	m := testManifest()
	got := m.TargetApps("CL1")
	want := []string{"AppX", "AppY"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TargetApps(CL1) = %v, want %v", got, want)
	}
}

func TestTargetApps_UnknownLob(t *testing.T) {
	m := testManifest()
	got := m.TargetApps("Unknown")
	if len(got) != 0 {
		t.Errorf("TargetApps(Unknown) = %v, want empty", got)
	}
}

func TestTargetApps_EmptyLob(t *testing.T) {
	m := testManifest()
	if got := m.TargetApps("WM1"); len(got) != 0 {
		t.Errorf("TargetApps(WM1) = %v, want empty", got)
	}
}

func TestLobName(t *testing.T) {
	m := testManifest()
	cases := []struct {
		lob  string
		want string
	}{
		{"CL1", "Consumer Lending"},
		{"HL1", "Home Lending"},
		{"WM1", ""}, // in targetAppLists but not appLists: degrade, don't fail
		{"Unknown", ""},
	}
	for _, c := range cases {
		if got := m.LobName(c.lob); got != c.want {
			t.Errorf("LobName(%q) = %q, want %q", c.lob, got, c.want)
		}
	}
}

func TestAuxAccessors(t *testing.T) {
	m := testManifest()
	if got := m.EmailDL("CL1"); got != "cl-team@example.com" {
		t.Errorf("EmailDL(CL1) = %q", got)
	}
	if got := m.EmailDL("HL1"); got != "" {
		t.Errorf("EmailDL(HL1) = %q, want empty", got)
	}
	if got := m.GitRepo(); got != "org/deploy-configs" {
		t.Errorf("GitRepo() = %q", got)
	}
	if got := m.GitUser(); got != "svc-release" {
		t.Errorf("GitUser() = %q", got)
	}
	if got := m.ArtifactoryUser(); got != "svc-artifactory" {
		t.Errorf("ArtifactoryUser() = %q", got)
	}
	if got := m.ArtifactoryURL(); got != "https://artifactory.example.com/api/search" {
		t.Errorf("ArtifactoryURL() = %q", got)
	}
}

func TestNormalize_NilMaps(t *testing.T) {
	var m Manifest
	m.normalize()
	if m.AppLists == nil || m.TargetAppLists == nil || m.EmailConfig == nil ||
		m.GitConfig == nil || m.ArtifactoryConfig == nil {
		t.Error("normalize left a nil map")
	}
	if got := m.TargetApps("CL1"); len(got) != 0 {
		t.Errorf("TargetApps on empty manifest = %v", got)
	}
	if got := m.GitRepo(); got != "" {
		t.Errorf("GitRepo on empty manifest = %q", got)
	}
}
