// Command sysinfo scans a directory tree and writes a metadata report.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/idelchi/sysinfo/internal/cli"
)

// version is set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Set at build time
var version = ""

func buildVersion() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(buildVersion()).Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
