package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"igexport/pkg/models"
)

// Banner is printed at the start of an interactive run
const Banner = `
  ┌─┐┌─┐  ┌─┐─┐ ┬┌─┐┌─┐┬─┐┌┬┐
  ││ │ ┬  ├┤ ┌┴┬┘├─┘│ │├┬┘ │
  ┴└─┘└─┘  └─┘┴ └─┴  └─┘┴└─ ┴   profile and post export
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

func plain(text string) string { return text }

// Printer writes human-facing status lines. It defaults to stderr so that
// stdout carries only the JSON export.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer on out
func NewPrinter(out io.Writer, color bool) *Printer {
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(fn func(string) string) func(string) string {
	if !p.color {
		return plain
	}
	return fn
}

// PrintBanner prints the banner
func (p *Printer) PrintBanner() {
	fmt.Fprint(p.out, p.paint(Cyan)(Banner))
}

// PrintError prints an error message in red
func (p *Printer) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg += ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(p.out, p.paint(Red)(msg))
}

// PrintSuccess prints a success message in green
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.out, p.paint(Green)(msg))
}

// PrintInfo prints a label and value
func (p *Printer) PrintInfo(label string, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan)(label), p.paint(Yellow)(value))
}

// PrintWarning prints a warning message in yellow
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintln(p.out, p.paint(Yellow)(msg))
}

// PrintProfile summarizes a fetched profile
func (p *Printer) PrintProfile(profile *models.Profile) {
	if profile == nil {
		return
	}
	name := "@" + profile.Username
	if profile.IsVerified {
		name += " ✓"
	}
	p.PrintInfo("Profile", name)
	if profile.FullName != "" {
		p.PrintInfo("Name", profile.FullName)
	}
	p.PrintInfo("Followers", fmt.Sprintf("%d", profile.FollowerCount))
	p.PrintInfo("Posts", fmt.Sprintf("%d", profile.MediaCount))
	if profile.IsPrivate {
		p.PrintWarning("Profile is private; no posts exported")
	}
}

// PrintExportSummary reports the finished export
func (p *Printer) PrintExportSummary(result *models.ScrapeResult, destination string, elapsed time.Duration) {
	if result == nil {
		return
	}
	p.PrintProfile(result.Profile)

	n := result.ScrapeMetadata.TotalPostsFetched
	line := fmt.Sprintf("✓ Exported %d posts from @%s in %s", n, result.ScrapeMetadata.TargetUsername, FormatDuration(elapsed))
	if minutes := elapsed.Minutes(); minutes > 0 && n > 0 {
		line += fmt.Sprintf(" (%.1f posts/min)", float64(n)/minutes)
	}
	p.PrintSuccess(line)

	if destination != "" {
		p.PrintInfo("Saved to", destination)
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
