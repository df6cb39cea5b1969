package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, e.Format())
		} else {
			errorMsg(os.Stderr, "%s", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Render virtual tree scenarios through the reconciler",
		Long: `reconcile drives the virtual DOM reconciler from scenario files.

A scenario is a YAML list of trees. Each step is diffed against the
previous one and the resulting host mutations are applied to an
in-memory document. Features include:

  • Op log of every host mutation per step
  • HTML snapshots to a directory or S3
  • Live mirroring of the document over WebSocket
  • Prometheus metrics and OpenTelemetry spans
  • Strategy benchmarks with latency percentiles`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: reconcile.{json,toml,yaml} in the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		renderCmd(&g),
		serveCmd(&g),
		benchCmd(&g),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and applies flag overrides.
func (g *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger from cfg. Validate has already checked the
// level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.Log.SlogLevel()
	return logging.New(w, level, cfg.Log.Format)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
