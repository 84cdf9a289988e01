// genworkflow regenerates the CI workflow definition's dropdown options
// from the deployment manifest, and doubles as the workflow's own
// runtime pairing check so both stay behaviorally identical.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/scx-platform/releasegate/internal/manifest"
	"github.com/scx-platform/releasegate/internal/validate"
	"github.com/scx-platform/releasegate/internal/workflow"
)

const defaultManifestPath = "config/scxml-manifest.json"

func main() {
	manifestPath := flag.String("manifest", defaultManifestPath, "Path to the deployment manifest JSON")
	out := flag.String("out", ".github/workflows/release-dispatch.yaml", "Output path, or - for stdout")
	check := flag.Bool("check", false, "Validate a LOB / target app pairing instead of generating")
	lob := flag.String("lob", "", "LOB key (with -check)")
	app := flag.String("app", "", "Target application (with -check)")
	flag.Parse()

	if err := run(*manifestPath, *out, *check, *lob, *app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, out string, check bool, lob, app string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", manifestPath, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	if check {
		if lob == "" || app == "" {
			return fmt.Errorf("-check requires -lob and -app")
		}
		res := validate.Validate(m, lob, app)
		if !res.Valid {
			if len(res.Alternatives) == 0 {
				return fmt.Errorf("unknown LOB %q", lob)
			}
			return fmt.Errorf("%q is not configured under LOB %q (valid: %v)", app, lob, res.Alternatives)
		}
		fmt.Printf("OK: %s belongs to %s\n", app, lob)
		return nil
	}

	rendered, err := workflow.Render(workflow.Generate(m, manifestPath))
	if err != nil {
		return err
	}
	if out == "-" {
		os.Stdout.Write(rendered)
		return nil
	}
	if err := os.WriteFile(out, rendered, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %s (%d LOBs)\n", out, len(m.LobKeys()))
	return nil
}
