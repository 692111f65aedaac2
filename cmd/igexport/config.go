package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"igexport/pkg/auth"
	"igexport/pkg/config"
	"igexport/pkg/ui"
)

func newConfigCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Long: `Manage the igexport configuration file.

Settings are merged in this order, later ones winning:
  1. built-in defaults
  2. the YAML file (--config, .igexport.yaml, ~/.config/igexport/config.yaml)
  3. .env files and IGSCRAPER_* environment variables
  4. command line flags`,
	}

	cmd.AddCommand(newConfigInitCmd(ro))
	cmd.AddCommand(newConfigShowCmd(ro))
	cmd.AddCommand(newConfigValidateCmd(ro))
	return cmd
}

func newConfigInitCmd(ro *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ro.configFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}

			printer := ui.NewPrinter(ro.stderr, !ro.noColor && isTerminal(ro.stderr))
			printer.PrintSuccess("Configuration file created: " + path)
			fmt.Fprintln(ro.stderr, "\nNext steps:")
			fmt.Fprintln(ro.stderr, "1. Store a session cookie with 'igexport auth set'")
			fmt.Fprintln(ro.stderr, "2. Check the file with 'igexport config validate'")
			fmt.Fprintln(ro.stderr, "3. Export a profile with 'igexport scrape <username>'")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ro.configFile, nil)
			if err != nil {
				return err
			}

			display := *cfg
			if display.Instagram.SessionID != "" {
				display.Instagram.SessionID = auth.MaskSecret(display.Instagram.SessionID)
			}

			data, err := yaml.Marshal(&display)
			if err != nil {
				return fmt.Errorf("failed to format configuration: %w", err)
			}
			_, err = ro.stdout.Write(data)
			return err
		},
	}
}

func newConfigValidateCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ro.configFile
			if path == "" {
				path = config.FindConfigFile()
			}

			cfg, err := config.Load(path, nil)
			if err != nil {
				return err
			}

			printer := ui.NewPrinter(ro.stderr, !ro.noColor && isTerminal(ro.stderr))
			if path != "" {
				printer.PrintInfo("File", path)
			} else {
				printer.PrintInfo("File", "(none, defaults and environment only)")
			}
			if cfg.Instagram.SessionID == "" && cfg.Instagram.Account == "" {
				printer.PrintWarning("No session cookie configured; a stored account or anonymous requests will be used")
			}

			printer.PrintInfo("Base URL", cfg.Instagram.BaseURL)
			printer.PrintInfo("Pacing", fmt.Sprintf("%s to %s between requests", cfg.RateLimit.MinDelay, cfg.RateLimit.MaxDelay))
			printer.PrintInfo("Retries", fmt.Sprintf("%d (backoff base %s)", cfg.RateLimit.MaxRetries, cfg.RateLimit.BackoffBase))
			printer.PrintSuccess("Configuration is valid")
			return nil
		},
	}
}
