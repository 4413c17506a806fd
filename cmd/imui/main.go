package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/pkg/imui"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦┌┬┐┬ ┬┬
  ║││││ ││
  ╩┴ ┴└─┘┴
`

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitViolation = 2
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "imui",
		Short: "Immediate-mode UI over a retained widget tree",
		Long: `imui runs immediate-mode UI programs on top of a retained widget tree.

A program redeclares its whole UI from application state on every pass;
the session reconciles each declaration against the existing widgets by
sibling ID, creating, updating, reordering and destroying as needed.

  • Bundled demos: counter, todo, converter
  • YAML event scripts for headless runs
  • HTTP and websocket inspector with Prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || os.Getenv("NO_COLOR") != "" {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored error output")
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(
		runCmd(),
		demosCmd(),
		configCmd(),
		versionCmd(),
	)
	return rootCmd
}

// execute runs the CLI and returns the process exit code. A reconciliation
// violation raised by a demo exits with exitViolation.
func execute(args []string, stdout, stderr io.Writer) int {
	return guard(stderr, func() int {
		rootCmd := newRootCmd(stdout, stderr)
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			errors.Fprint(stderr, err)
			return exitError
		}
		return exitOK
	})
}

// guard runs fn, turning a violation panic into a printed error and
// exitViolation. Other panics are not recovered.
func guard(stderr io.Writer, fn func() int) (code int) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := imui.IsViolation(r)
			if !ok {
				panic(r)
			}
			errors.Fprint(stderr, err)
			code = exitViolation
		}
	}()
	return fn()
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
