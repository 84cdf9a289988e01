package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/scx-platform/releasegate/internal/config"
)

// Init runs the interactive init wizard.
func Init(args []string) error {
	dir := "."
	reinit := false
	for _, a := range args {
		if a == "--reinit" || a == "-r" {
			reinit = true
		} else {
			dir = a
		}
	}

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	gateDir := filepath.Join(projectDir, ".releasegate")
	configPath := filepath.Join(gateDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !reinit {
		fmt.Println("A .releasegate/config.yaml already exists. Run with --reinit to overwrite.")
		return nil
	}

	fmt.Println("Welcome to releasegate init. Let's set up your dispatch configuration.")
	fmt.Println()

	cfg := config.ClientConfig{Ref: "main", TokenEnv: "RELEASEGATE_TOKEN"}

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Manifest source").
				Description("URL or local path of the deployment manifest JSON.").
				Value(&cfg.Manifest).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("manifest source cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Workflow-dispatch endpoint").
				Description("e.g. https://api.github.com/repos/org/repo/actions/workflows/release.yaml/dispatches").
				Value(&cfg.Dispatch).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().
				Title("Branch ref").
				Value(&cfg.Ref),
			huh.NewInput().
				Title("Token env var").
				Description("Environment variable the bearer token is read from.").
				Value(&cfg.TokenEnv),
		),
	).Run(); err != nil {
		return err
	}

	if err := os.MkdirAll(gateDir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Wrote %s\n", configPath)
	fmt.Printf("Set the dispatch token via: export %s=<token>\n", cfg.TokenEnv)
	return nil
}
