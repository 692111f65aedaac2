package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"igexport/pkg/auth"
	"igexport/pkg/ui"
)

func newAuthCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored session cookies",
		Long: `Manage named Instagram session cookies.

igexport never asks for a password. It reuses the sessionid cookie of a
browser where you are signed in. Cookies are stored in:
  - the system keychain (when available)
  - an encrypted file under the user config directory
and IGSCRAPER_SESSION_ID is read as an "env" account.

Never share a session cookie!`,
	}

	cmd.AddCommand(newAuthSetCmd(ro))
	cmd.AddCommand(newAuthRemoveCmd(ro))
	cmd.AddCommand(newAuthListCmd(ro))
	cmd.AddCommand(&cobra.Command{
		Use:   "guide",
		Short: "Explain how to copy the sessionid cookie",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			auth.WriteSessionCookieGuide(ro.stdout)
		},
	})

	return cmd
}

func newAuthSetCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set [name]",
		Short: "Store a session cookie under a name",
		Long: `Store a sessionid cookie under a name ("default" when omitted).

On a terminal the value is read without echo. Otherwise the first line of
stdin is used, so the value can be piped in.`,
		Example: `  igexport auth set main
  pbpaste | igexport auth set work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "default"
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			}

			manager, err := ro.credentials()
			if err != nil {
				return fmt.Errorf("failed to initialize credential manager: %w", err)
			}

			printer := ui.NewPrinter(ro.stderr, !ro.noColor && isTerminal(ro.stderr))
			if isTerminal(ro.stdin) {
				fmt.Fprintf(ro.stderr, "sessionid cookie for %q (hidden): ", name)
			}
			sessionID, err := readSecret(ro.stdin)
			if isTerminal(ro.stdin) {
				fmt.Fprintln(ro.stderr)
			}
			if err != nil {
				return fmt.Errorf("failed to read session cookie: %w", err)
			}
			if err := validateSessionCookie(sessionID); err != nil {
				return err
			}
			if !strings.Contains(sessionID, "%3A") && !strings.Contains(sessionID, ":") {
				printer.PrintWarning("That value does not look like a sessionid cookie; storing it anyway")
			}

			if err := manager.Store(&auth.Account{Name: name, SessionID: sessionID}); err != nil {
				return err
			}

			printer.PrintSuccess(fmt.Sprintf("Session stored for account %q", name))
			fmt.Fprintf(ro.stderr, "Use it with: igexport scrape <username> --account %s\n", name)
			return nil
		},
	}
}

func newAuthRemoveCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored session cookie",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ro.credentials()
			if err != nil {
				return fmt.Errorf("failed to initialize credential manager: %w", err)
			}
			if err := manager.Delete(args[0]); err != nil {
				return err
			}
			ui.NewPrinter(ro.stderr, !ro.noColor && isTerminal(ro.stderr)).PrintSuccess("Account removed: " + args[0])
			return nil
		},
	}
}

func newAuthListCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts with masked cookies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ro.credentials()
			if err != nil {
				return fmt.Errorf("failed to initialize credential manager: %w", err)
			}

			accounts, err := manager.List()
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Fprintln(ro.stderr, "No stored accounts. Add one with 'igexport auth set'.")
				return nil
			}

			w := tabwriter.NewWriter(ro.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSESSION\tUPDATED")
			for _, account := range accounts {
				masked := auth.SanitizeAccount(account)
				updated := "-"
				if !account.LastModified.IsZero() {
					updated = account.LastModified.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", masked.Name, masked.SessionID, updated)
			}
			return w.Flush()
		},
	}
}

// readSecret reads a hidden line from a terminal, or the first line of any
// other reader
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func validateSessionCookie(value string) error {
	switch {
	case value == "":
		return errors.New("session cookie is empty")
	case strings.ContainsAny(value, " ;\t"):
		return errors.New("paste only the sessionid value, not the whole Cookie header")
	case strings.HasPrefix(value, "sessionid="):
		return errors.New("paste only the value after 'sessionid='")
	}
	return nil
}
