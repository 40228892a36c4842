package main

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// statusLabel renders a lifecycle status for table display.
func statusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return "-"
	}
	return titleCaser.String(status)
}

// formatTime renders timestamps in local time for display.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// shortID trims long identifiers for list views.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

// truncate limits free text to n runes for table cells.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

func emptyDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
