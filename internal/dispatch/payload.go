package dispatch

// Metadata is the free-form release information entered by the user.
// No structural validation is applied.
type Metadata struct {
	ProjectName string
	ReleaseType string
	Description string
}

// Inputs are the named workflow inputs understood by the CI runner.
type Inputs struct {
	LobKey             string `json:"lob_key"`
	TargetApp          string `json:"target_app"`
	ProjectName        string `json:"project_name"`
	ReleaseType        string `json:"release_type"`
	ReleaseDescription string `json:"release_description"`
}

// Request is the workflow-dispatch payload sent to the CI endpoint.
type Request struct {
	Ref    string `json:"ref"`
	Inputs Inputs `json:"inputs"`
}

// Build assembles a dispatch request from a validated selection. Pure;
// the actual submission happens in Client.Dispatch.
func Build(ref, lobKey, targetApp string, meta Metadata) Request {
	return Request{
		Ref: ref,
		Inputs: Inputs{
			LobKey:             lobKey,
			TargetApp:          targetApp,
			ProjectName:        meta.ProjectName,
			ReleaseType:        meta.ReleaseType,
			ReleaseDescription: meta.Description,
		},
	}
}
