package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"igexport/pkg/auth"
	"igexport/pkg/config"
	errs "igexport/pkg/errors"
	"igexport/pkg/logger"
	"igexport/pkg/scraper"
	"igexport/pkg/storage"
	"igexport/pkg/ui"
)

// scrapeOptions holds the flags of a single export
type scrapeOptions struct {
	output    string
	maxPosts  int
	sessionID string
	account   string
	baseURL   string
	notify    bool
}

func (o *scrapeOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the export to this file (default: stdout)")
	cmd.Flags().IntVarP(&o.maxPosts, "max-posts", "m", 0, "stop after this many posts (0 = all)")
	cmd.Flags().StringVar(&o.sessionID, "session-id", "", "sessionid cookie value")
	cmd.Flags().StringVarP(&o.account, "account", "a", "", "use a stored account (see 'igexport auth list')")
	cmd.Flags().BoolVar(&o.notify, "notify", false, "send a desktop notification when the export ends")
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "Instagram base URL")
	_ = cmd.Flags().MarkHidden("base-url")
}

// flagMap lists only the flags that were set
func (o *scrapeOptions) flagMap(ro *rootOptions) map[string]interface{} {
	flags := make(map[string]interface{})
	if o.sessionID != "" {
		flags["session-id"] = o.sessionID
	}
	if o.account != "" {
		flags["account"] = o.account
	}
	if o.output != "" {
		flags["output"] = o.output
	}
	if o.baseURL != "" {
		flags["base-url"] = o.baseURL
	}
	if ro.logLevel != "" {
		flags["log-level"] = ro.logLevel
	}
	return flags
}

func newScrapeCmd(ro *rootOptions) *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape <username>",
		Short: "Export a profile and its posts",
		Long: `Export the profile and post history of an Instagram account.

The username may be given as "name", "@name" or a profile URL. Private
profiles export the profile with an empty post list.`,
		Example: `  # Pretty JSON on stdout
  igexport scrape natgeo

  # First 50 posts into a file, using a stored account
  igexport scrape natgeo -o natgeo.json -m 50 --account main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), ro, opts, args[0])
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

func runScrape(ctx context.Context, ro *rootOptions, opts *scrapeOptions, username string) error {
	if opts.maxPosts < 0 {
		return fmt.Errorf("--max-posts must not be negative")
	}

	cfg, err := config.Load(ro.configFile, opts.flagMap(ro))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("igexport starting")

	printer := ui.NewPrinter(ro.stderr, !ro.noColor && !cfg.Logging.NoColor && isTerminal(ro.stderr))

	sessionID, err := resolveSession(ro, cfg, log)
	if err != nil {
		return err
	}

	var progress scraper.ProgressReporter
	if !ro.quiet && isTerminal(ro.stderr) {
		progress = ui.NewPageProgress(ro.stderr)
	}

	var notifier *ui.Notifier
	if opts.notify {
		notifier = ui.NewNotifier(ro.stderr, !ro.noColor)
	}

	started := time.Now()
	s := scraper.NewFromConfig(cfg, log)
	result, err := s.Run(ctx, username, scraper.RunOptions{
		SessionID: sessionID,
		MaxPosts:  opts.maxPosts,
		Progress:  progress,
	})
	if err != nil {
		log.WithError(err).WithField("username", username).Error("Export failed")
		if notifier != nil {
			notifier.NotifyError("igexport", errs.UserMessage(err))
		}
		return err
	}

	writer := storage.NewResultWriter(cfg.Output.File, cfg.Output.Indent).WithOutput(ro.stdout)
	if err := writer.Write(result); err != nil {
		return err
	}

	if !ro.quiet {
		printer.PrintExportSummary(result, writer.Path(), time.Since(started))
	}
	if notifier != nil {
		notifier.NotifySuccess("igexport", fmt.Sprintf("exported %d posts from @%s",
			result.ScrapeMetadata.TotalPostsFetched, result.ScrapeMetadata.TargetUsername))
	}
	return nil
}

// resolveSession picks the session cookie: flag or environment first, then
// the named stored account, then the default stored account. Without any,
// the export runs anonymously.
func resolveSession(ro *rootOptions, cfg *config.Config, log logger.Logger) (string, error) {
	if cfg.Instagram.SessionID != "" {
		return cfg.Instagram.SessionID, nil
	}

	manager, err := ro.credentials()
	if err != nil {
		if cfg.Instagram.Account != "" {
			return "", fmt.Errorf("failed to open credential store: %w", err)
		}
		log.WithError(err).Warn("Credential store unavailable")
		return "", nil
	}

	sessionID, err := manager.SessionFor(cfg.Instagram.Account)
	switch {
	case err == nil:
		log.WithField("account", cfg.Instagram.Account).Debug("Using stored session")
		return sessionID, nil
	case cfg.Instagram.Account != "":
		return "", fmt.Errorf("account %q: %w", cfg.Instagram.Account, err)
	case errors.Is(err, auth.ErrCredentialsNotFound):
		log.Warn("No session cookie configured; requests are anonymous")
		return "", nil
	default:
		return "", err
	}
}
