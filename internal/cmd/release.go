package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/scx-platform/releasegate/internal/config"
	"github.com/scx-platform/releasegate/internal/dispatch"
	"github.com/scx-platform/releasegate/internal/manifest"
	"github.com/scx-platform/releasegate/internal/session"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	okStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Release runs the release subcommand: the selection wizard followed by
// the workflow dispatch.
func Release(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("release", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", ".", "Project directory (default: current directory)")
	lobFlag := fs.String("lob", "", "Preselect the LOB key (skips the LOB prompt)")
	appFlag := fs.String("app", "", "Preselect the target application")
	if err := fs.Parse(args); err != nil {
		return err
	}

	projectDir, err := filepath.Abs(*dir)
	if err != nil {
		return fmt.Errorf("resolving project dir: %w", err)
	}

	cfg, err := config.LoadClientConfig(projectDir)
	if err != nil {
		return err
	}
	token, err := cfg.Token()
	if err != nil {
		return err
	}

	ctx := context.Background()
	fmt.Fprintf(stdout, "[releasegate] Loading manifest from %s\n", cfg.Manifest)
	m, err := manifest.Load(ctx, cfg.Manifest)
	if err != nil {
		return err
	}

	lobKeys := m.LobKeys()
	if len(lobKeys) == 0 {
		return fmt.Errorf("manifest has no target application lists")
	}

	sess := session.New(m)

	// --- Step 1: LOB ---
	lobKey := *lobFlag
	if lobKey == "" {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Line of Business").
				Options(buildLobOptions(m)...).
				Value(&lobKey),
		)).Run(); err != nil {
			return err
		}
	}
	if err := sess.SelectLob(lobKey); err != nil {
		return err
	}

	// --- Step 2: target application, restricted to the chosen LOB ---
	targetApp := *appFlag
	if targetApp == "" {
		apps := m.TargetApps(lobKey)
		if len(apps) == 0 {
			return fmt.Errorf("no target applications configured for LOB %q", lobKey)
		}
		if err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Target application (%s)", lobKey)).
				Options(buildAppOptions(apps)...).
				Value(&targetApp),
		)).Run(); err != nil {
			return err
		}
	}
	if err := sess.SelectTargetApp(targetApp); err != nil {
		return err
	}

	// --- Step 3: release metadata (free-form, not validated) ---
	var meta dispatch.Metadata
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Project name").
			Value(&meta.ProjectName),
		huh.NewInput().
			Title("Release type").
			Placeholder("minor / patch / hotfix").
			Value(&meta.ReleaseType),
		huh.NewText().
			Title("Release description").
			Value(&meta.Description),
	)).Run(); err != nil {
		return err
	}
	if err := sess.SetMetadata(meta); err != nil {
		return err
	}

	// --- Step 4: confirm and submit ---
	summary := fmt.Sprintf("LOB:         %s (%s)\nApplication: %s\nRef:         %s\nEndpoint:    %s",
		lobKey, m.LobName(lobKey), targetApp, cfg.Ref, cfg.Dispatch)
	fmt.Fprintln(stdout, summaryStyle.Render(summary))

	var proceed bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Dispatch this release?").
			Value(&proceed),
	)).Run(); err != nil {
		return err
	}
	if !proceed {
		fmt.Fprintln(stdout, "Aborted.")
		return nil
	}

	// Re-validation on submit guards against stale or tampered input.
	res, err := sess.Submit()
	if err != nil {
		return err
	}
	if !res.Valid {
		fmt.Fprintln(stderr, errStyle.Render(invalidPairingMessage(res.LobKey, res.TargetApp, res.Alternatives)))
		return fmt.Errorf("%q is not a valid target application for LOB %q", res.TargetApp, res.LobKey)
	}

	payload := dispatch.Build(cfg.Ref, res.LobKey, res.TargetApp, meta)
	client := dispatch.NewClient(cfg.Dispatch, token)

	fmt.Fprintf(stdout, "[releasegate] Dispatching %s / %s → %s\n", res.LobKey, res.TargetApp, cfg.Dispatch)
	if err := client.Dispatch(ctx, payload); err != nil {
		return err
	}
	sess.Finish()

	fmt.Fprintln(stdout, okStyle.Render("Release dispatched."))
	if res.Aux.EmailDL != "" {
		fmt.Fprintf(stdout, "Notifications: %s\n", res.Aux.EmailDL)
	}
	if res.Aux.GitRepo != "" {
		fmt.Fprintf(stdout, "Repository:    %s\n", res.Aux.GitRepo)
	}
	return nil
}

func invalidPairingMessage(lobKey, app string, alternatives []string) string {
	if len(alternatives) == 0 {
		return fmt.Sprintf("Unknown LOB %q — no target applications are configured for it.", lobKey)
	}
	return fmt.Sprintf("%q is not configured under LOB %q.\nValid choices: %s",
		app, lobKey, strings.Join(alternatives, ", "))
}

func buildLobOptions(m *manifest.Manifest) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, k := range m.LobKeys() {
		label := k
		if name := m.LobName(k); name != "" {
			label = fmt.Sprintf("%s (%s)", k, name)
		}
		opts = append(opts, huh.NewOption(label, k))
	}
	return opts
}

func buildAppOptions(apps []string) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, a := range apps {
		opts = append(opts, huh.NewOption(a, a))
	}
	return opts
}
