// Package workflow renders the CI workflow definition whose dropdown
// options are derived from the deployment manifest.
package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/scx-platform/releasegate/internal/manifest"
)

// header is prepended to every rendered workflow so nobody edits the
// generated options by hand.
const header = "# Generated by genworkflow from the deployment manifest. DO NOT EDIT.\n"

// Input is one workflow_dispatch input definition.
type Input struct {
	Description string   `yaml:"description,omitempty"`
	Required    bool     `yaml:"required"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options,omitempty"`
}

// Inputs lists the dispatch inputs in their rendered order.
type Inputs struct {
	LobKey             Input `yaml:"lob_key"`
	TargetApp          Input `yaml:"target_app"`
	ProjectName        Input `yaml:"project_name"`
	ReleaseType        Input `yaml:"release_type"`
	ReleaseDescription Input `yaml:"release_description"`
}

// Step is a single job step.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// Job is a workflow job.
type Job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

// Workflow models the subset of the CI workflow schema we emit.
type Workflow struct {
	Name string `yaml:"name"`
	On   struct {
		WorkflowDispatch struct {
			Inputs Inputs `yaml:"inputs"`
		} `yaml:"workflow_dispatch"`
	} `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Generate builds the workflow definition from a manifest snapshot.
// lob_key options are the manifest's LOB keys; target_app options are
// the flattened, de-duplicated union of target apps across all LOBs.
// manifestPath is baked into the validation step so the runtime check
// reads the same document the options came from.
func Generate(m *manifest.Manifest, manifestPath string) *Workflow {
	w := &Workflow{
		Name: "Release Dispatch",
		Jobs: map[string]Job{
			"release": {
				RunsOn: "ubuntu-latest",
				Steps: []Step{
					{
						Name: "Check out repository",
						Uses: "actions/checkout@v4",
					},
					{
						Name: "Validate LOB / target app pairing",
						Run: fmt.Sprintf(
							"go run ./cmd/genworkflow -check -manifest %s -lob \"${{ inputs.lob_key }}\" -app \"${{ inputs.target_app }}\"",
							manifestPath),
					},
					{
						Name: "Run release",
						Run:  "./scripts/release.sh",
						Env: map[string]string{
							"LOB_KEY":             "${{ inputs.lob_key }}",
							"TARGET_APP":          "${{ inputs.target_app }}",
							"PROJECT_NAME":        "${{ inputs.project_name }}",
							"RELEASE_TYPE":        "${{ inputs.release_type }}",
							"RELEASE_DESCRIPTION": "${{ inputs.release_description }}",
						},
					},
				},
			},
		},
	}

	w.On.WorkflowDispatch.Inputs = Inputs{
		LobKey: Input{
			Description: "Line of Business",
			Required:    true,
			Type:        "choice",
			Options:     m.LobKeys(),
		},
		TargetApp: Input{
			Description: "Target application",
			Required:    true,
			Type:        "choice",
			Options:     allTargetApps(m),
		},
		ProjectName: Input{
			Description: "Project name",
			Required:    true,
			Type:        "string",
		},
		ReleaseType: Input{
			Description: "Release type",
			Required:    true,
			Type:        "string",
		},
		ReleaseDescription: Input{
			Description: "Release description",
			Type:        "string",
		},
	}
	return w
}

// Render marshals the workflow to YAML with the generated-file header.
func Render(w *Workflow) ([]byte, error) {
	data, err := yaml.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("rendering workflow: %w", err)
	}
	return append([]byte(header), data...), nil
}

// allTargetApps flattens the union of target apps across LOBs,
// de-duplicated, in LOB-key order. The same literal app name under two
// LOBs appears once; the runtime validation step still enforces the
// per-LOB pairing.
func allTargetApps(m *manifest.Manifest) []string {
	var out []string
	seen := make(map[string]bool)
	for _, lob := range m.LobKeys() {
		for _, app := range m.TargetApps(lob) {
			if seen[app] {
				continue
			}
			seen[app] = true
			out = append(out, app)
		}
	}
	return out
}
