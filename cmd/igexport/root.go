package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"igexport/pkg/auth"
	errs "igexport/pkg/errors"
	"igexport/pkg/models"
)

var (
	// Version information
	version   = models.ScraperVersion
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions carries global flags and the process streams
type rootOptions struct {
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	credentials func() (*auth.Manager, error)
}

func defaultRootOptions() *rootOptions {
	return &rootOptions{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		credentials: auth.NewDefaultManager,
	}
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := defaultRootOptions()
	return run(ctx, opts, os.Args[1:])
}

func run(ctx context.Context, opts *rootOptions, args []string) int {
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetIn(opts.stdin)
	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(opts.stderr, "Error: "+errs.UserMessage(err))
		return 1
	}
	return 0
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	scrape := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "igexport [username]",
		Short: "Export an Instagram profile and its posts as JSON",
		Long: `igexport retrieves the public profile of an Instagram account and its full
post history, and writes them as a single JSON document.

The export goes to stdout unless --output is given. Status, progress and logs
are written to stderr.

A session cookie makes the requests look like a signed-in browser. Provide it
with --session-id, IGSCRAPER_SESSION_ID, or store one with 'igexport auth set'.`,
		Example: `  igexport natgeo > natgeo.json
  igexport scrape natgeo -o natgeo.json --max-posts 100`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runScrape(cmd.Context(), opts, scrape, args[0])
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: .igexport.yaml or ~/.config/igexport/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status output and the progress bar")

	// bare `igexport <username>` accepts the scrape flags too
	scrape.bindFlags(cmd)

	cmd.SetVersionTemplate(`igexport {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newScrapeCmd(opts))
	cmd.AddCommand(newAuthCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// isTerminal reports whether stream is an interactive terminal
func isTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
