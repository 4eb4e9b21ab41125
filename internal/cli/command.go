package cli

import (
	"context"
	"errors"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/idelchi/sysinfo/internal/sysinfo"
	"github.com/idelchi/sysinfo/internal/visualize"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Options holds the scan options plus the settings that only concern the CLI.
type Options struct {
	sysinfo.Options

	// OutputDir is where the report is written (empty = scanned root).
	OutputDir string
	// Visualizer overrides the visualizer command line.
	Visualizer string
	// NoVisualize disables the visualization step.
	NoVisualize bool
	// SQLite is an optional database path the scan is also recorded in.
	SQLite string
	// Summary prints a summary table to stdout.
	Summary bool
	// TopN is the number of rows per summary table.
	TopN int
	// DebugMode enables debug output on stderr.
	DebugMode bool
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var options Options

	cmd := &cobra.Command{
		Use:   "sysinfo [path]",
		Short: "Scan a directory tree and write a metadata report",
		Long: heredoc.Doc(`
			sysinfo scans a directory tree and reports size, file type and ownership statistics.

			Every entry below the path (files, directories and symlinks, including the
			root itself) is classified by its own metadata. Symlinks are never followed.
			Unreadable entries are skipped.

			The report is written as sysinfo_report.json inside the scanned directory,
			or inside --output-dir if given. Afterwards the visualizer is run with the
			report path as its last argument; it defaults to

			  python3 scripts/generate_visuals.py

			with the script looked up next to the sysinfo executable, then in the
			working directory. The step is skipped when the script is not found. It
			can be changed with --visualizer or the SYSINFO_VISUALIZER environment
			variable. A failing visualizer only produces a warning.
		`),
		Example: heredoc.Doc(`
			sysinfo
			sysinfo /var/log --summary
			sysinfo ~/src -o /tmp --no-visualize --sqlite ~/.cache/sysinfo/scans.db
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Workers < 0 || options.WalkWorkers < 0 {
				return errors.New("worker counts cannot be negative")
			}

			if options.TopN < 0 {
				return errors.New("top cannot be negative")
			}

			if len(args) == 0 {
				options.Path = "."
			} else {
				options.Path = args[0]
			}

			return logic(cmd, options)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntVarP(&options.Workers, "workers", "w", 0, "Number of classification workers (0=auto)")
	flags.IntVar(&options.WalkWorkers, "walk-workers", 0, "Number of directory readers used by the walk (0=auto)")
	flags.StringVarP(&options.OutputDir, "output-dir", "o", "", "Directory to write the report to (default: scanned path)")
	flags.StringVar(
		&options.Visualizer,
		"visualizer",
		"",
		"Visualizer command line, report path is appended (default: $"+visualize.EnvCommand+" or python script)",
	)
	flags.BoolVar(&options.NoVisualize, "no-visualize", false, "Skip the visualization step")
	flags.StringVar(&options.SQLite, "sqlite", "", "Also record the scan in this sqlite database")
	flags.BoolVarP(&options.Summary, "summary", "s", false, "Print a summary table")
	flags.IntVarP(&options.TopN, "top", "t", 10, "Number of rows per summary table")
	flags.BoolVar(&options.DebugMode, "debug", false, "Enable debug output")

	return cmd
}

// Execute runs the CLI.
func (c CLI) Execute(ctx context.Context) error {
	return fang.Execute(ctx, c.Command(), fang.WithVersion(c.version))
}
