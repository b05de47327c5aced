package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"nate/internal/pipeline"
	"nate/internal/project"
	"nate/internal/source"
	"nate/internal/trace"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [dir]",
	Short: "Generate Go code for every template in nate.toml",
	Long: `Generate compiles each [[template]] declared in nate.toml into Go source,
stores the result in the content-addressed cache and writes it next to the
declaring package. Unchanged outputs are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("jobs", 0, "concurrent compilations (0 = NATE_JOBS, nate.toml or GOMAXPROCS)")
	generateCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	generateCmd.Flags().Bool("no-embed", false, "only fill the cache, do not write into packages")
	generateCmd.Flags().StringSlice("type", nil, "only generate the given declared types")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	noEmbed, err := cmd.Flags().GetBool("no-embed")
	if err != nil {
		return err
	}
	only, err := cmd.Flags().GetStringSlice("type")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

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
	decls, err = filterDecls(decls, only)
	if err != nil {
		return err
	}
	store, err := proj.openStore()
	if err != nil {
		return reportError(cmd, root, err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "generate")
	defer span.End("")

	req := pipeline.Request{
		Decls:          decls,
		Store:          store,
		Jobs:           proj.Settings.Jobs,
		NoEmbed:        noEmbed,
		MaxDiagnostics: maxDiagnostics(cmd),
	}

	var res *pipeline.Result
	if shouldUseTUI(uiModeValue) && !quiet(cmd) {
		names := make([]string, len(decls))
		for i := range decls {
			names[i] = decls[i].Name()
		}
		res, err = runGenerateWithUI(ctx, "generating "+projectTitle(proj.Manifest), names, req)
	} else {
		res, err = pipeline.Generate(ctx, req)
	}

	if res != nil {
		printBag(cmd, root, res.Bag)
		if !quiet(cmd) {
			printGenerateSummary(cmd.OutOrStdout(), root, res, noEmbed)
		}
		if showTimings {
			printStageTimings(cmd.ErrOrStderr(), res.Timings)
		}
	}
	return err
}

func filterDecls(decls []project.Decl, only []string) ([]project.Decl, error) {
	if len(only) == 0 {
		return decls, nil
	}
	out := make([]project.Decl, 0, len(only))
	for _, d := range decls {
		if slices.Contains(only, d.Gen.Type) {
			out = append(out, d)
		}
	}
	for _, name := range only {
		if !slices.ContainsFunc(out, func(d project.Decl) bool { return d.Gen.Type == name }) {
			return nil, fmt.Errorf("no [[template]] declares type %q", name)
		}
	}
	return out, nil
}

func projectTitle(m *project.Manifest) string {
	if name := strings.TrimSpace(m.Project.Name); name != "" {
		return name
	}
	return source.BaseName(m.Root)
}

func printGenerateSummary(out io.Writer, root string, res *pipeline.Result, noEmbed bool) {
	done := 0
	for _, t := range res.Templates {
		if t == nil {
			continue
		}
		done++
		verb := "unchanged"
		switch {
		case noEmbed:
			verb = "cached"
		case t.Changed:
			verb = "wrote"
		}
		target := t.Decl.Output
		if noEmbed {
			target = t.Artifact.Path
		}
		fmt.Fprintf(out, "%-9s %s (%s, %s)\n", verb, formatPathForOutput(root, target), t.Decl.Gen.Type, t.Artifact.Key.Hex()[:12])
	}
	if failed := res.Failed(); failed > 0 {
		fmt.Fprintf(out, "generated %d of %d templates, %d failed\n", done, len(res.Templates), failed)
		return
	}
	fmt.Fprintf(out, "generated %d templates\n", done)
}

func formatPathForOutput(base, target string) string {
	if base == "" {
		return source.DisplayPath(target)
	}
	rel, err := source.RelativePath(target, base)
	if err != nil {
		return target
	}
	return rel
}
