package main

import (
	"testing"
	"time"
)

func TestStatusLabel(t *testing.T) {
	if got := statusLabel("pending"); got != "Pending" {
		t.Fatalf("statusLabel(pending) = %q", got)
	}
	if got := statusLabel(""); got != "-" {
		t.Fatalf("statusLabel(empty) = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("shortID(abc) = %q", got)
	}
	long := "0123456789abcdef"
	if got := shortID(long); got != "0123456789ab" {
		t.Fatalf("shortID(long) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	if got := truncate("a longer message", 8); got != "a longe…" {
		t.Fatalf("truncate(long) = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(time.Time{}); got != "-" {
		t.Fatalf("formatTime(zero) = %q", got)
	}
	if got := formatTime(time.Now()); got == "-" {
		t.Fatal("expected formatted time")
	}
}
