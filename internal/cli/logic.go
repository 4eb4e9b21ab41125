package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/sysinfo/internal/report"
	"github.com/idelchi/sysinfo/internal/sysinfo"
	"github.com/idelchi/sysinfo/internal/visualize"
)

func logic(cmd *cobra.Command, options Options) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	enableProgress := !options.DebugMode && stderr == os.Stderr && isatty.IsTerminal(os.Stderr.Fd())

	if options.DebugMode {
		options.Debug = stderr
	}

	var progressHook func(sysinfo.Progress)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(p sysinfo.Progress) {
			msg := fmt.Sprintf("Scanning… %d entries, %d classified, %s",
				p.Entries, p.Classified, humanize.IBytes(uint64(p.Bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	rep, stats, err := sysinfo.Run(ctx, options.Options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	if options.DebugMode {
		if err := rep.Check(); err != nil {
			warnf(cmd, "report invariants: %v", err)
		}
	}

	outDir := options.OutputDir
	if outDir == "" {
		outDir = options.Path
	}

	reportPath := report.Path(outDir)

	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Fprintf(stdout, "Report written to %s\n", reportPath)

	if options.SQLite != "" {
		scanID, err := report.SaveSQLite(ctx, options.SQLite, options.Path, rep)
		if err != nil {
			return fmt.Errorf("recording scan: %w", err)
		}

		fmt.Fprintf(stdout, "Scan %s recorded in %s\n", scanID, options.SQLite)
	}

	if options.Summary {
		if err := PrintSummary(rep, stats, options.TopN, stdout); err != nil {
			return err
		}
	}

	if !options.NoVisualize {
		runVisualizer(cmd, options, reportPath)
	}

	return nil
}

// runVisualizer runs the visualization step. Failures are reported as warnings only.
// A default script that is not installed skips the step.
func runVisualizer(cmd *cobra.Command, options Options, reportPath string) {
	command, err := visualize.Command(options.Visualizer)
	if errors.Is(err, visualize.ErrScriptNotFound) {
		if options.DebugMode {
			fmt.Fprintf(cmd.ErrOrStderr(), "[debug]: skipping visualization: %v\n", err)
		}

		return
	}

	if err != nil {
		warnf(cmd, "visualizer unavailable: %v", err)

		return
	}

	if len(command) == 0 {
		return
	}

	err = visualize.Run(cmd.Context(), command, reportPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err == nil {
		return
	}

	var exitErr *visualize.ExitError
	if errors.As(err, &exitErr) {
		warnf(cmd, "visualizer exited with status %d", exitErr.Code)

		return
	}

	warnf(cmd, "%v", err)
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
