package internal

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// RunCLI handles a one-shot command-line invocation: -t dispatches a
// named event (install, typically) under a synthesized request. Returns
// the process exit code, 1 when no action was specified.
func (a *App) RunCLI(args []string, out io.Writer) int {
	fs := pflag.NewFlagSet("anvil", pflag.ContinueOnError)
	fs.SetOutput(out)

	help := fs.BoolP("help", "h", false, "print usage and exit")
	version := fs.BoolP("version", "V", false, "print version and exit")
	trigger := fs.StringP("trigger", "t", "", "dispatch a named event and exit")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	switch {
	case *help:
		fs.PrintDefaults()
		return 0
	case *version:
		fmt.Fprintln(out, Version)
		return 0
	case *trigger != "":
		if !a.Trigger(context.Background(), *trigger) {
			fmt.Fprintf(out, "event %q failed\n", *trigger)
			return 1
		}
		return 0
	}

	fs.PrintDefaults()
	return 1
}
