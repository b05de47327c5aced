package version

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
)

// Version information for the natec CLI.
// These variables can be overridden at build time via -ldflags.
var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

// Info is the machine-readable form of the build metadata.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

// Current returns the build metadata with color codes stripped from the version.
func Current() Info {
	return Info{
		Version:    Plain(),
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
	}
}

// Plain returns Version without ANSI escape sequences.
func Plain() string {
	return ansi.Strip(Version)
}
