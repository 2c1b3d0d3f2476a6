// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// DefaultAutoSaveInterval matches the history auto-save cadence.
const DefaultAutoSaveInterval = 30 * time.Second

// =============================================================================
// AUTO-SAVE
// =============================================================================

// AutoSaver calls a save function periodically while there are unsaved
// changes. It can run on its own gocron schedule (Start) or be driven by
// the TUI tick loop (HandleTick).
type AutoSaver struct {
	mu sync.Mutex

	enabled  bool
	interval time.Duration
	dirty    bool
	lastSave time.Time

	save   func() error
	logger logrus.FieldLogger

	scheduler gocron.Scheduler
}

// NewAutoSaver creates an enabled saver. interval <= 0 uses the default.
func NewAutoSaver(interval time.Duration, save func() error, logger logrus.FieldLogger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &AutoSaver{
		enabled:  true,
		interval: interval,
		lastSave: time.Now(),
		save:     save,
		logger:   logger,
	}
}

// MarkDirty indicates the session has unsaved changes.
func (a *AutoSaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = true
}

// MarkClean indicates the session has been saved.
func (a *AutoSaver) MarkClean() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = false
	a.lastSave = time.Now()
}

// IsDirty returns whether the session has unsaved changes.
func (a *AutoSaver) IsDirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// SetEnabled turns auto-save on or off without stopping the schedule.
func (a *AutoSaver) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// Enabled reports whether auto-save is on.
func (a *AutoSaver) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Interval returns the save cadence.
func (a *AutoSaver) Interval() time.Duration {
	return a.interval
}

// ShouldAutoSave returns true if a save is due at now.
func (a *AutoSaver) ShouldAutoSave(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled || !a.dirty {
		return false
	}
	return now.Sub(a.lastSave) >= a.interval
}

// SaveIfDirty runs the save function when enabled with pending changes.
// It reports whether a save was attempted. A failed save leaves the
// session dirty so the next round retries.
func (a *AutoSaver) SaveIfDirty() (bool, error) {
	a.mu.Lock()
	should := a.enabled && a.dirty && a.save != nil
	save := a.save
	a.mu.Unlock()

	if !should {
		return false, nil
	}
	if err := save(); err != nil {
		return true, err
	}
	a.MarkClean()
	return true, nil
}

// Start runs SaveIfDirty every interval on a background scheduler.
func (a *AutoSaver) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return errors.New("auto-save already started")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(a.interval),
		gocron.NewTask(func() {
			saved, err := a.SaveIfDirty()
			if err != nil {
				a.logger.WithError(err).Warn("Auto-save failed")
				return
			}
			if saved {
				a.logger.Debug("Auto-saved conversation")
			}
		}),
		gocron.WithName("auto-save"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule auto-save: %w", err)
	}

	scheduler.Start()
	a.scheduler = scheduler
	return nil
}

// Stop shuts down the scheduler started by Start. Safe to call when not
// started.
func (a *AutoSaver) Stop() error {
	a.mu.Lock()
	scheduler := a.scheduler
	a.scheduler = nil
	a.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	return scheduler.Shutdown()
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// AutoSaveMsg indicates auto-save should occur.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks once a second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick emits AutoSaveMsg when a save is due and schedules the next
// tick. The model performs the save itself so it happens on the UI loop.
func (a *AutoSaver) HandleTick(now time.Time) tea.Cmd {
	if a.ShouldAutoSave(now) {
		return tea.Batch(
			func() tea.Msg { return AutoSaveMsg{} },
			TickCmd(),
		)
	}
	return TickCmd()
}
