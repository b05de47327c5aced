package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nate/internal/diag"
	"nate/internal/srcmap"
)

var remapCmd = &cobra.Command{
	Use:   "remap [file]",
	Short: "Point Go compiler errors in generated files back at templates",
	Long: `Remap reads go build or go vet output (stdin by default) and rewrites
every "file.go:line:col: msg" line that points into a natec-generated file so
that it names the template position instead:

  go build ./... 2>&1 | natec remap`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemap,
}

func init() {
	remapCmd.Flags().String("dir", "", "directory compiler paths are relative to (default: working directory)")
}

func runRemap(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		// #nosec G304 -- path is provided by the user
		f, err := os.Open(args[0])
		if err != nil {
			return diag.NewIoError(diag.OpOpen, args[0], err)
		}
		defer f.Close()
		in = f
	}

	open := func(path string) ([]byte, error) {
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		// #nosec G304 -- paths come from compiler output
		return os.ReadFile(path)
	}
	return srcmap.Remap(in, cmd.OutOrStdout(), open)
}
