// Package visualize runs the external visualization step on a written report.
package visualize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvCommand overrides the default visualizer command line.
const EnvCommand = "SYSINFO_VISUALIZER"

// DefaultScript is the visualization script run by the default command.
//
//nolint:gochecknoglobals // Config constant
var DefaultScript = filepath.Join("scripts", "generate_visuals.py")

var (
	// ErrNoCommand is returned by Run when the command line is empty.
	ErrNoCommand = errors.New("no visualizer command configured")
	// ErrScriptNotFound means the default script is not installed next to the
	// executable nor present in the working directory.
	ErrScriptNotFound = errors.New("visualization script not found")
)

// ExitError reports a visualizer that ran but exited with a non-zero status.
type ExitError struct {
	// Command is the command that was run.
	Command string
	// Code is the process exit status.
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("visualizer %q exited with status %d", e.Command, e.Code)
}

// Interpreter returns the python interpreter name for the current platform.
func Interpreter() string {
	if runtime.GOOS == "windows" {
		return "python"
	}

	return "python3"
}

// ScriptDirs returns the directories searched for DefaultScript: the directory
// of the running executable (symlinks resolved), then the working directory.
func ScriptDirs() []string {
	var dirs []string

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}

		dirs = append(dirs, filepath.Dir(exe))
	}

	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}

	return dirs
}

// LocateScript returns the absolute path of the first DefaultScript found below dirs.
func LocateScript(dirs []string) (string, error) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultScript)

		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", candidate, err)
		}

		return abs, nil
	}

	return "", fmt.Errorf("%w: %s in %s", ErrScriptNotFound, DefaultScript, strings.Join(dirs, ", "))
}

// Command resolves the visualizer command line. An explicit value wins over the
// EnvCommand environment variable, which wins over the default python script.
// The default is only available when LocateScript finds the script in ScriptDirs.
func Command(explicit string) ([]string, error) {
	if explicit != "" {
		return strings.Fields(explicit), nil
	}

	if env, ok := os.LookupEnv(EnvCommand); ok {
		return strings.Fields(env), nil
	}

	script, err := LocateScript(ScriptDirs())
	if err != nil {
		return nil, err
	}

	python, err := exec.LookPath(Interpreter())
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", Interpreter(), err)
	}

	return []string{python, script}, nil
}

// Run executes command with reportPath appended as its last argument and waits
// for it to finish. Output of the process goes to stdout and stderr.
func Run(ctx context.Context, command []string, reportPath string, stdout, stderr io.Writer) error {
	if len(command) == 0 {
		return ErrNoCommand
	}

	args := append(append([]string{}, command[1:]...), reportPath)

	cmd := exec.CommandContext(ctx, command[0], args...) //nolint:gosec // Command is user configured
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: strings.Join(command, " "), Code: exitErr.ExitCode()}
		}

		return fmt.Errorf("running visualizer %q: %w", command[0], err)
	}

	return nil
}
