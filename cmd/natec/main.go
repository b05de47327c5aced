// Package main implements natec, the nate template compiler CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nate/internal/trace"
	"nate/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "natec",
	Short: "nate template compiler",
	Long: `natec compiles text templates into Go source. Every [[template]] in
nate.toml becomes a generated file with RenderInto, String and WriteTo
methods on the declared type.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: beforeCommand,
}

// активный трассировщик и его очистка, живут до конца команды
var (
	activeTracer trace.Tracer = trace.Nop
	traceCleanup              = func() {}
)

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("cache-dir", "", "artifact cache directory (overrides NATE_CACHE_DIR and nate.toml)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
}

// main executes the root command. If it returns an error, the trace ring
// (when enabled) is dumped and the process exits with status code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		dumpTraceRing(os.Stderr)
	}
	traceCleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func beforeCommand(cmd *cobra.Command, _ []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
