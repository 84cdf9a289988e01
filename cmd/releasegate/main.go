package main

import (
	"fmt"
	"os"

	"github.com/scx-platform/releasegate/internal/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "release":
		if err := cmd.Release(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := cmd.Check(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "init":
		if err := cmd.Init(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: releasegate <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  init [--reinit]                            Initialize (or reinitialize) .releasegate/ configuration")
	fmt.Fprintln(os.Stderr, "  release [--lob <key>] [--app <name>]       Pick a LOB and target app, then dispatch the release workflow")
	fmt.Fprintln(os.Stderr, "  check -manifest <src> -lob <k> -app <a>    Validate a LOB / target app pairing (exit 1 if invalid)")
}
