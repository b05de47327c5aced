package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nate/internal/cache"
	"nate/internal/diag"
	"nate/internal/diagfmt"
	"nate/internal/project"
)

// loadedProject is a discovered nate.toml with its effective settings.
type loadedProject struct {
	Manifest *project.Manifest
	Settings project.Settings
}

// loadProject finds nate.toml at or above dir, loads .env from the project
// root and resolves settings with flags taking precedence.
func loadProject(cmd *cobra.Command, dir string) (*loadedProject, error) {
	if dir == "" {
		dir = "."
	}
	m, err := project.Discover(dir)
	if err != nil {
		return nil, err
	}
	if err := project.LoadEnv(m.Root); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var o project.Overrides
	o.CacheDir, err = cmd.Root().PersistentFlags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil {
		if o.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	settings, err := project.Resolve(m, o)
	if err != nil {
		return nil, err
	}
	return &loadedProject{Manifest: m, Settings: settings}, nil
}

func (p *loadedProject) openStore() (*cache.Store, error) {
	return cache.Open(p.Settings.CacheDir)
}

func colorEnabled(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0
	}
	return n
}

// reportError prints err as pretty diagnostics on stderr and returns it.
func reportError(cmd *cobra.Command, baseDir string, err error) error {
	if err == nil {
		return nil
	}
	bag := diag.NewBag(maxDiagnostics(cmd))
	bag.AddError(err)
	printBag(cmd, baseDir, bag)
	return err
}

func printBag(cmd *cobra.Command, baseDir string, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, nil, diagfmt.PrettyOpts{
		Color:     colorEnabled(cmd, os.Stderr),
		Context:   1,
		PathMode:  diagfmt.PathModeRelative,
		BaseDir:   baseDir,
		ShowNotes: true,
	})
}
