package workflow

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/scx-platform/releasegate/internal/manifest"
)

func testManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(`{
		"SCXML_TARGET_APP_LISTS": {
			"CL1": ["AppX", "AppY"],
			"HL1": ["AppZ", "AppX"]
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestGenerate_LobOptions(t *testing.T) {
	w := Generate(testManifest(t), "config/manifest.json")
	got := w.On.WorkflowDispatch.Inputs.LobKey.Options
	want := []string{"CL1", "HL1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lob_key options = %v, want %v", got, want)
	}
	if w.On.WorkflowDispatch.Inputs.LobKey.Type != "choice" {
		t.Errorf("lob_key type = %q", w.On.WorkflowDispatch.Inputs.LobKey.Type)
	}
}

// The target_app options are the union across all LOBs, de-duplicated:
// AppX appears under both CL1 and HL1 but must be listed once.
func TestGenerate_TargetAppUnionDeduplicated(t *testing.T) {
	w := Generate(testManifest(t), "config/manifest.json")
	got := w.On.WorkflowDispatch.Inputs.TargetApp.Options
	want := []string{"AppX", "AppY", "AppZ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("target_app options = %v, want %v", got, want)
	}
}

func TestGenerate_ValidationStepUsesManifestPath(t *testing.T) {
	w := Generate(testManifest(t), "config/scxml-manifest.json")
	job, ok := w.Jobs["release"]
	if !ok {
		t.Fatal("no release job")
	}
	var found bool
	for _, step := range job.Steps {
		if strings.Contains(step.Run, "-check") {
			found = true
			if !strings.Contains(step.Run, "config/scxml-manifest.json") {
				t.Errorf("validation step does not reference the manifest: %q", step.Run)
			}
		}
	}
	if !found {
		t.Error("no runtime validation step in the release job")
	}
}

func TestRender_RoundTrips(t *testing.T) {
	data, err := Render(Generate(testManifest(t), "config/manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Generated by genworkflow") {
		t.Error("rendered workflow missing generated-file header")
	}

	var round Workflow
	if err := yaml.Unmarshal(data, &round); err != nil {
		t.Fatalf("rendered workflow is not valid YAML: %v", err)
	}
	if round.Name != "Release Dispatch" {
		t.Errorf("name = %q", round.Name)
	}
	if got := round.On.WorkflowDispatch.Inputs.TargetApp.Options; len(got) != 3 {
		t.Errorf("options lost in round trip: %v", got)
	}
}

func TestGenerate_EmptyManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	w := Generate(m, "config/manifest.json")
	if got := w.On.WorkflowDispatch.Inputs.LobKey.Options; len(got) != 0 {
		t.Errorf("lob_key options = %v, want empty", got)
	}
	if _, err := Render(w); err != nil {
		t.Errorf("rendering empty workflow: %v", err)
	}
}
