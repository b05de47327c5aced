package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove the artifact cache",
	Long:  "Remove the content-addressed cache directory used by natec generate. Generated files inside packages are kept.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	proj, err := loadProject(cmd, dir)
	if err != nil {
		return reportError(cmd, "", err)
	}
	store, err := proj.openStore()
	if err != nil {
		return reportError(cmd, proj.Manifest.Root, err)
	}
	if err := store.Clean(); err != nil {
		return reportError(cmd, proj.Manifest.Root, err)
	}
	if !quiet(cmd) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", formatPathForOutput(proj.Manifest.Root, store.Dir()))
	}
	return nil
}
