package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nate/internal/diagfmt"
	"nate/internal/driver"
	"nate/internal/project"
	"nate/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Dump the blocks of a template file",
	Long: `Tokenize splits a template into literal, code, comment, include and data
blocks and prints them. With --expand, includes are spliced in place together
with the scope blocks the generator adds around each file.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("strip", "none", "whitespace strip mode (none|tail|trim|eager)")
	tokenizeCmd.Flags().Bool("expand", false, "splice includes")
	tokenizeCmd.Flags().String("root", "", "directory for non-relative include paths (default: nate.toml root or the file's directory)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	stripValue, err := cmd.Flags().GetString("strip")
	if err != nil {
		return fmt.Errorf("failed to get strip flag: %w", err)
	}
	strip, err := source.ParseStripMode(stripValue)
	if err != nil {
		return err
	}
	expand, err := cmd.Flags().GetBool("expand")
	if err != nil {
		return fmt.Errorf("failed to get expand flag: %w", err)
	}
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return fmt.Errorf("failed to get root flag: %w", err)
	}
	if root == "" {
		found, ok, err := project.FindProjectRoot(filepath.Dir(filePath))
		if err != nil {
			return err
		}
		if ok {
			root = found
		}
	}

	result, err := driver.Tokenize(filePath, driver.TokenizeOptions{
		Strip:          strip,
		Root:           root,
		Expand:         expand,
		MaxDiagnostics: maxDiagnostics(cmd),
	})
	if err != nil {
		return reportError(cmd, root, fmt.Errorf("tokenization failed: %w", err))
	}
	printBag(cmd, root, result.Bag)

	switch format {
	case "json":
		return diagfmt.FormatBlocksJSON(cmd.OutOrStdout(), result.Blocks)
	default:
		return diagfmt.FormatBlocksPretty(cmd.OutOrStdout(), result.Blocks)
	}
}
