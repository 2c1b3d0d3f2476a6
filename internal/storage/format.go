// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jeranaias/chatbuddy/internal/util"
)

// NoHistoryText is shown when the history log is empty.
const NoHistoryText = "No chat history available."

// FormatHistory renders the newest limit records in the chat history view
// format, numbered from 1.
func FormatHistory(records []Record, limit int) string {
	if len(records) == 0 {
		return NoHistoryText
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	var sb strings.Builder
	for i, r := range records {
		date := ""
		if !r.Timestamp.IsZero() {
			date = r.Timestamp.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "%d. Session %s (%s)\n", i+1, r.SessionID, date)
		fmt.Fprintf(&sb, "   Messages: %d\n", r.MessageCount)
		fmt.Fprintf(&sb, "   %s\n", strings.Repeat("-", 40))
	}
	return sb.String()
}

// FormatListing renders records as aligned columns for the history
// command: session ID, relative save time, message count and a preview of
// the first user message cut to fit width.
func FormatListing(records []Record, now time.Time, width int) string {
	if len(records) == 0 {
		return NoHistoryText + "\n"
	}

	const (
		idCol    = 17
		whenCol  = 16
		countCol = 6
	)
	previewCol := width - idCol - whenCol - countCol - 3
	if previewCol < 10 {
		previewCol = 10
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("SESSION", idCol) + " ")
	sb.WriteString(util.PadRight("SAVED", whenCol) + " ")
	sb.WriteString(util.PadRight("MSGS", countCol) + " ")
	sb.WriteString("PREVIEW\n")

	for _, r := range records {
		when := "unknown"
		if !r.Timestamp.IsZero() {
			when = humanize.RelTime(r.Timestamp.Time, now, "ago", "from now")
		}
		preview := util.TruncateWidth(util.SingleLine(r.Preview()), previewCol)

		sb.WriteString(util.PadRight(util.TruncateWidth(r.SessionID, idCol), idCol) + " ")
		sb.WriteString(util.PadRight(when, whenCol) + " ")
		sb.WriteString(util.PadRight(humanize.Comma(int64(r.MessageCount)), countCol) + " ")
		sb.WriteString(preview + "\n")
	}
	return sb.String()
}
