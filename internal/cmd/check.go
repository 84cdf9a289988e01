package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/scx-platform/releasegate/internal/manifest"
	"github.com/scx-platform/releasegate/internal/validate"
)

// Check runs a non-interactive pairing validation. A valid pair prints
// the resolved LOB configuration; an invalid pair prints the valid
// alternatives and returns an error so the caller exits non-zero.
func Check(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	source := fs.String("manifest", "", "Manifest URL or local path (required)")
	lob := fs.String("lob", "", "LOB key (required)")
	app := fs.String("app", "", "Target application (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" || *lob == "" || *app == "" {
		return fmt.Errorf("usage: releasegate check -manifest <url|path> -lob <key> -app <name>")
	}

	m, err := manifest.Load(context.Background(), *source)
	if err != nil {
		return err
	}

	res := validate.Validate(m, *lob, *app)
	if !res.Valid {
		fmt.Fprintln(stderr, invalidPairingMessage(res.LobKey, res.TargetApp, res.Alternatives))
		return fmt.Errorf("invalid pairing: %s / %s", res.LobKey, res.TargetApp)
	}

	fmt.Fprintf(stdout, "OK: %s belongs to %s", res.TargetApp, res.LobKey)
	if res.LobName != "" {
		fmt.Fprintf(stdout, " (%s)", res.LobName)
	}
	fmt.Fprintln(stdout)
	if res.Aux.EmailDL != "" {
		fmt.Fprintf(stdout, "  email DL:    %s\n", res.Aux.EmailDL)
	}
	if res.Aux.GitRepo != "" {
		fmt.Fprintf(stdout, "  git repo:    %s (user %s)\n", res.Aux.GitRepo, res.Aux.GitUser)
	}
	if res.Aux.ArtifactoryURL != "" {
		fmt.Fprintf(stdout, "  artifactory: %s (user %s)\n", res.Aux.ArtifactoryURL, res.Aux.ArtifactoryUser)
	}
	return nil
}
