package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nate/internal/pipeline"
	"nate/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Report generated files that are out of date",
	Long: `Check compares the dependency markers recorded in every generated file
with the current template contents. It exits with a non-zero status when any
output is missing or stale.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	proj, err := loadProject(cmd, dir)
	if err != nil {
		return reportError(cmd, "", err)
	}
	root := proj.Manifest.Root
	decls, err := proj.Manifest.Decls()
	if err != nil {
		return reportError(cmd, root, err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "check")
	defer span.End("")

	results, err := pipeline.Check(ctx, decls, root, nil)
	if err != nil {
		return reportError(cmd, root, err)
	}

	stale := 0
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Stale {
			stale++
		}
		if quiet(cmd) {
			continue
		}
		status := "ok"
		if r.Stale {
			status = "stale"
		}
		line := fmt.Sprintf("%-5s %s (%s)", status, formatPathForOutput(root, r.Decl.Output), r.Decl.Gen.Type)
		if r.Stale {
			line += ": " + r.Reason
		}
		fmt.Fprintln(out, line)
	}
	if stale == 0 {
		return nil
	}
	if err := reportError(cmd, root, pipeline.StaleError(results)); err != nil {
		return fmt.Errorf("%d of %d outputs are stale; run natec generate", stale, len(results))
	}
	return nil
}
