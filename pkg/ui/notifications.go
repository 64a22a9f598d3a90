package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

const appName = "behancedl"

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name="+appName, title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender sends notifications on Windows through a balloon tip
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		Add-Type -AssemblyName System.Windows.Forms
		$n = New-Object System.Windows.Forms.NotifyIcon
		$n.Icon = [System.Drawing.SystemIcons]::Information
		$n.Visible = $true
		$n.ShowBalloonTip(5000, '%s', '%s', 'Info')
		Start-Sleep -Seconds 5
		$n.Dispose()
	`, title, message)
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// Notifier reports the end of a run on the console and, when enabled, on
// the desktop
type Notifier struct {
	sender NotificationSender
}

// NewNotifier creates a Notifier. With desktop false, or on an unsupported
// platform, messages only go to the console.
func NewNotifier(desktop bool) *Notifier {
	if !desktop {
		return &Notifier{}
	}
	return &Notifier{sender: platformSender()}
}

// NewNotifierWithSender creates a Notifier using sender for desktop delivery
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

func platformSender() NotificationSender {
	switch runtime.GOOS {
	case "linux":
		return &LinuxNotificationSender{}
	case "darwin":
		return &MacOSNotificationSender{}
	case "windows":
		return &WindowsNotificationSender{}
	default:
		return nil
	}
}

// SendSuccess reports a finished run
func (n *Notifier) SendSuccess(title, message string) {
	if !IsQuietMode() {
		fmt.Fprintf(Output, "\n%s: %s\n", Green(title), message)
	}
	n.send(title, message)
}

// SendError reports a failed run
func (n *Notifier) SendError(title, message string) {
	fmt.Fprintf(Output, "\n%s: %s\n", Red(title), Red(message))
	n.send(title, message)
}

func (n *Notifier) send(title, message string) {
	if n.sender != nil {
		// Desktop notifications are best effort.
		_ = n.sender.Send(title, message)
	}
}
