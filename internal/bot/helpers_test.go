package bot

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{28 * 24 * time.Hour, "28d"},
		{2 * time.Hour, "2h"},
		{10 * time.Minute, "10m"},
		{90 * time.Second, "90s"},
		{25 * time.Hour, "25h"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Fatalf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := truncate("a very long sentence", 10); got != "a very ..." {
		t.Fatalf("unexpected: %q", got)
	}
	if got := truncate("héllo wörld", 8); len([]rune(got)) != 8 {
		t.Fatalf("rune-aware truncation failed: %q", got)
	}
}

func TestDeleteWindowDays(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{12 * time.Hour, 1},
		{24 * time.Hour, 1},
		{25 * time.Hour, 2},
		{30 * 24 * time.Hour, 7},
	}
	for _, tc := range cases {
		if got := deleteWindowDays(tc.d, 7); got != tc.want {
			t.Fatalf("deleteWindowDays(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestClampCount(t *testing.T) {
	if got := clampCount(500, 100); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := clampCount(0, 100); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := clampCount(42, 100); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestActionTitle(t *testing.T) {
	if got := actionTitle("role_add"); got != "Role add" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := actionTitle("ban"); got != "Ban" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestSelectLines(t *testing.T) {
	content := "one\ntwo\nthree\nfour\nfive"

	got, clipped := selectLines(content, 2, 4, 20)
	if got != "two\nthree\nfour" || clipped {
		t.Fatalf("unexpected range result: %q clipped=%v", got, clipped)
	}

	got, clipped = selectLines(content, 0, 0, 2)
	if got != "one\ntwo" || !clipped {
		t.Fatalf("unexpected head result: %q clipped=%v", got, clipped)
	}

	got, clipped = selectLines(content, 10, 12, 20)
	if got != "" || !clipped {
		t.Fatalf("out-of-range start should clip to empty, got %q", got)
	}

	got, _ = selectLines(content, 4, 99, 20)
	if got != "four\nfive" {
		t.Fatalf("end past EOF should clamp, got %q", got)
	}
}
