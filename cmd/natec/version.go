package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nate/internal/codegen"
	"nate/internal/version"
)

const versionTagline = "templates that compile"

// versionPayload is the --format json shape. Build fields are only filled
// when requested.
type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	Runtime    string `json:"runtime"`
	GoVersion  string `json:"go"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

var versionFlags struct {
	format  string
	hash    bool
	message bool
	date    bool
	full    bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show natec build information",
	Long: `Version prints the natec release together with the runtime package that
generated code imports.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionFlags.hash, "hash", false, "include git commit hash")
	f.BoolVar(&versionFlags.message, "message", false, "include git commit message")
	f.BoolVar(&versionFlags.date, "date", false, "include build timestamp")
	f.BoolVar(&versionFlags.full, "full", false, "include every recorded build field")
	f.StringVar(&versionFlags.format, "format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	p := buildVersionPayload(version.Current())
	out := cmd.OutOrStdout()
	switch strings.ToLower(versionFlags.format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "pretty":
		printVersion(out, p)
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFlags.format)
}

func buildVersionPayload(info version.Info) versionPayload {
	p := versionPayload{
		Tool:      "natec",
		Version:   valueOr(info.Version, "dev"),
		Tagline:   versionTagline,
		Runtime:   codegen.DefaultRuntime,
		GoVersion: runtime.Version(),
	}
	if versionFlags.hash || versionFlags.full {
		p.GitCommit = valueOr(info.GitCommit, "unknown")
	}
	if versionFlags.message || versionFlags.full {
		p.GitMessage = valueOr(info.GitMessage, "unknown")
	}
	if versionFlags.date || versionFlags.full {
		p.BuildDate = valueOr(info.BuildDate, "unknown")
	}
	return p
}

func printVersion(out io.Writer, p versionPayload) {
	// цветная версия только в pretty-режиме
	fmt.Fprintf(out, "natec %s: %s\n", valueOr(version.Version, "dev"), p.Tagline)
	fmt.Fprintf(out, "runtime: %s (%s)\n", p.Runtime, p.GoVersion)
	for _, field := range []struct{ label, value string }{
		{"commit", p.GitCommit},
		{"message", p.GitMessage},
		{"built", p.BuildDate},
	} {
		if field.value != "" {
			fmt.Fprintf(out, "%-8s %s\n", field.label+":", field.value)
		}
	}
}

func valueOr(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
