// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify delivers fire-and-forget desktop notifications when a bot
// reply arrives.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatbuddy/internal/config"
)

// DefaultTitle and DefaultBody are the reply notification text.
const (
	DefaultTitle = "ChatBuddy Pro"
	DefaultBody  = "New message received"
)

// notifyTimeout bounds a single notification command.
const notifyTimeout = 3 * time.Second

// Notifier shows one notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
	Name() string
}

// =============================================================================
// BACKENDS
// =============================================================================

// DesktopNotifier runs a platform notification command.
type DesktopNotifier struct {
	command string
	args    func(title, body string) []string
	run     func(ctx context.Context, name string, args ...string) error
}

// Name implements Notifier.
func (d *DesktopNotifier) Name() string { return "desktop:" + d.command }

// Notify implements Notifier.
func (d *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := d.run(ctx, d.command, d.args(title, body)...); err != nil {
		return fmt.Errorf("%s: %w", d.command, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func notifySendArgs(title, body string) []string {
	return []string{"-t", "3000", title, body}
}

func osascriptArgs(title, body string) []string {
	quote := func(s string) string {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return []string{"-e", "display notification " + quote(body) + " with title " + quote(title)}
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	w io.Writer
}

// NewBellNotifier writes the bell to w, or stderr when w is nil.
func NewBellNotifier(w io.Writer) *BellNotifier {
	if w == nil {
		w = os.Stderr
	}
	return &BellNotifier{w: w}
}

// Name implements Notifier.
func (b *BellNotifier) Name() string { return "bell" }

// Notify implements Notifier.
func (b *BellNotifier) Notify(context.Context, string, string) error {
	_, err := io.WriteString(b.w, "\a")
	return err
}

// Noop discards notifications.
type Noop struct{}

// Name implements Notifier.
func (Noop) Name() string { return "none" }

// Notify implements Notifier.
func (Noop) Notify(context.Context, string, string) error { return nil }

// =============================================================================
// DETECTION
// =============================================================================

var lookPath = exec.LookPath

// desktopFor returns the desktop backend available on this platform.
func desktopFor(goos string) (*DesktopNotifier, bool) {
	var d *DesktopNotifier
	switch goos {
	case "darwin":
		d = &DesktopNotifier{command: "osascript", args: osascriptArgs}
	default:
		d = &DesktopNotifier{command: "notify-send", args: notifySendArgs}
	}
	if _, err := lookPath(d.command); err != nil {
		return nil, false
	}
	d.run = runCommand
	return d, true
}

// Detect picks the backend once at startup. "auto" prefers a desktop
// command and falls back to the bell.
func Detect(backend string, logger logrus.FieldLogger) Notifier {
	switch backend {
	case config.NotifyNone:
		return Noop{}
	case config.NotifyBell:
		return NewBellNotifier(nil)
	}

	if d, ok := desktopFor(runtime.GOOS); ok {
		return d
	}
	if backend == config.NotifyDesktop {
		logger.WithField("backend", backend).Warn("No desktop notification command found; notifications disabled")
		return Noop{}
	}
	return NewBellNotifier(nil)
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher sends notifications in the background, rate limited, and only
// while enabled. Failures are logged and swallowed.
type Dispatcher struct {
	backend Notifier
	limiter *rate.Limiter
	logger  logrus.FieldLogger
	enabled atomic.Bool
	wg      sync.WaitGroup
}

// NewDispatcher wraps backend. At most one notification is sent per
// interval.
func NewDispatcher(backend Notifier, enabled bool, interval time.Duration, logger logrus.FieldLogger) *Dispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	d := &Dispatcher{
		backend: backend,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
	d.enabled.Store(enabled)
	return d
}

// SetEnabled toggles delivery.
func (d *Dispatcher) SetEnabled(on bool) { d.enabled.Store(on) }

// Enabled reports whether delivery is on.
func (d *Dispatcher) Enabled() bool { return d.enabled.Load() }

// Backend returns the active backend name.
func (d *Dispatcher) Backend() string { return d.backend.Name() }

// Send queues a notification and returns whether it was dispatched.
// It never blocks on the backend.
func (d *Dispatcher) Send(title, body string) bool {
	if !d.enabled.Load() || !d.limiter.Allow() {
		return false
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.backend.Notify(context.Background(), title, body); err != nil {
			d.logger.WithFields(logrus.Fields{
				"backend": d.backend.Name(),
				"error":   err,
			}).Debug("Notification failed")
		}
	}()
	return true
}

// Wait blocks until in-flight notifications finish.
func (d *Dispatcher) Wait() { d.wg.Wait() }
