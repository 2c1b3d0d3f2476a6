// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbuddy/internal/logging"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Notify(_ context.Context, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, title+"|"+body)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func withLookPath(t *testing.T, found bool) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if found {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestDetect(t *testing.T) {
	logger := logging.Discard()

	withLookPath(t, true)
	assert.Equal(t, "none", Detect("none", logger).Name())
	assert.Equal(t, "bell", Detect("bell", logger).Name())
	assert.Contains(t, Detect("auto", logger).Name(), "desktop:")
	assert.Contains(t, Detect("desktop", logger).Name(), "desktop:")

	withLookPath(t, false)
	assert.Equal(t, "bell", Detect("auto", logger).Name())
	assert.Equal(t, "none", Detect("desktop", logger).Name())
}

func TestDesktopFor_Platforms(t *testing.T) {
	withLookPath(t, true)

	d, ok := desktopFor("darwin")
	require.True(t, ok)
	assert.Equal(t, "osascript", d.command)

	d, ok = desktopFor("linux")
	require.True(t, ok)
	assert.Equal(t, "notify-send", d.command)
}

func TestDesktopNotifier_Args(t *testing.T) {
	var gotName string
	var gotArgs []string
	d := &DesktopNotifier{
		command: "osascript",
		args:    osascriptArgs,
		run: func(_ context.Context, name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		},
	}
	require.NoError(t, d.Notify(context.Background(), `Chat "Pro"`, "hi"))
	assert.Equal(t, "osascript", gotName)
	assert.Equal(t, []string{"-e", `display notification "hi" with title "Chat \"Pro\""`}, gotArgs)

	assert.Equal(t, []string{"-t", "3000", "T", "B"}, notifySendArgs("T", "B"))
}

func TestDesktopNotifier_WrapsError(t *testing.T) {
	d := &DesktopNotifier{
		command: "notify-send",
		args:    notifySendArgs,
		run: func(context.Context, string, ...string) error {
			return errors.New("boom")
		},
	}
	err := d.Notify(context.Background(), "t", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify-send: boom")
}

func TestBellNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBellNotifier(&buf).Notify(context.Background(), "t", "b"))
	assert.Equal(t, "\a", buf.String())
}

func TestDispatcher_RateLimitAndToggle(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, true, time.Hour, logging.Discard())

	assert.True(t, d.Send(DefaultTitle, DefaultBody))
	assert.False(t, d.Send(DefaultTitle, DefaultBody), "second send inside the interval is dropped")
	d.Wait()
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "recorder", d.Backend())

	d.SetEnabled(false)
	assert.False(t, d.Enabled())
	assert.False(t, d.Send("t", "b"))
}

func TestDispatcher_SwallowsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("no display")}
	d := NewDispatcher(rec, true, time.Millisecond, logging.Discard())
	assert.True(t, d.Send("t", "b"))
	d.Wait()
	assert.Equal(t, 1, rec.count())
}
