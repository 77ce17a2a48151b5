package anvil

import (
	"io"

	"github.com/dmitrymomot/anvil/internal"
)

// Version is stamped at build time via -ldflags on
// internal.Version.
var Version = internal.Version

// Run builds an app from the options and serves it on addr. For
// anything beyond a throwaway server, construct the App with New so
// routes can be registered first.
func Run(addr string, opts ...Option) error {
	return New(opts...).Run(addr)
}

// RunCLI builds an app and handles a one-shot command-line invocation
// (-h, -V, -t <event>). Returns the process exit code.
func RunCLI(args []string, out io.Writer, opts ...Option) int {
	return New(opts...).RunCLI(args, out)
}
