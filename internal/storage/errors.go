// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a history record doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// ErrNoMessages is returned when asked to persist an empty conversation.
var ErrNoMessages = &StoreError{Message: "no messages to save"}

// ErrNotSnapshot is returned when a file is not a chatbuddy session.
var ErrNotSnapshot = &StoreError{Message: "not a chatbuddy session file"}

// ErrCorruptHistory marks a history file that could not be decoded.
var ErrCorruptHistory = &StoreError{Message: "history file is corrupt"}

// CorruptSuffix is appended to a history file that was set aside.
const CorruptSuffix = ".corrupt"

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing storage errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
