package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleScriptString(message), appleScriptString(title))
	return exec.Command("osascript", "-e", script).Run()
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Notifier announces the end of long exports on the console and, when the
// platform supports it, the desktop
type Notifier struct {
	sender  NotificationSender
	printer *Printer
}

// NewNotifier picks the sender for the current platform
func NewNotifier(out io.Writer, color bool) *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}

	return NewNotifierWithSender(sender, out, color)
}

// NewNotifierWithSender uses an explicit sender; nil disables desktop delivery
func NewNotifierWithSender(sender NotificationSender, out io.Writer, color bool) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	return &Notifier{sender: sender, printer: NewPrinter(out, color)}
}

// NotifySuccess reports a finished export
func (n *Notifier) NotifySuccess(title, message string) {
	n.printer.PrintSuccess(title + ": " + message)
	n.send(title, message)
}

// NotifyError reports a failed export
func (n *Notifier) NotifyError(title, message string) {
	n.printer.PrintError(title + ": " + message)
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender != nil {
		// desktop delivery is best effort
		_ = n.sender.Send(title, message)
	}
}
