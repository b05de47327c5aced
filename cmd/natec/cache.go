package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"nate/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache [dir]",
	Short: "List cached artifacts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCache,
}

func init() {
	cacheCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type cacheEntryJSON struct {
	Key      string      `json:"key"`
	Path     string      `json:"path"`
	Type     string      `json:"type"`
	Template string      `json:"template"`
	Output   string      `json:"output,omitempty"`
	Size     int64       `json:"size"`
	Deps     []cache.Dep `json:"deps,omitempty"`
	Created  time.Time   `json:"created"`
}

type cacheListingJSON struct {
	Dir     string           `json:"dir"`
	Entries []cacheEntryJSON `json:"entries"`
	Count   int              `json:"count"`
}

func runCache(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	dir := "."
	if len(args) > 0 {
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
	entries, err := store.List()
	if err != nil {
		return reportError(cmd, proj.Manifest.Root, err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		listing := cacheListingJSON{Dir: store.Dir(), Entries: make([]cacheEntryJSON, 0, len(entries)), Count: len(entries)}
		for _, e := range entries {
			listing.Entries = append(listing.Entries, cacheEntryJSON{
				Key:      e.Key.Hex(),
				Path:     e.Path,
				Type:     e.Meta.Type,
				Template: e.Meta.Template,
				Output:   e.Meta.Output,
				Size:     e.Meta.Size,
				Deps:     e.Meta.Deps,
				Created:  e.Meta.Created,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	fmt.Fprintf(out, "cache: %s\n", store.Dir())
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-24s %-32s %8d B  %s\n",
			e.Key.Hex()[:16], e.Meta.Type, e.Meta.Template, e.Meta.Size, e.Meta.Created.Local().Format(time.DateTime))
	}
	fmt.Fprintf(out, "%d artifacts\n", len(entries))
	return nil
}
