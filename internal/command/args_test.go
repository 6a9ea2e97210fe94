package command

import (
	"errors"
	"testing"
	"time"
)

func TestResolveReplyBeatsMention(t *testing.T) {
	hints := Hints{RepliedAuthorID: "111", LeadingMentionID: "222"}
	args, err := Resolve([]string{"<@222>", "5m", "spam"}, hints, Spec{
		Token:       TokenDuration,
		MaxDuration: 28 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "111" {
		t.Fatalf("expected reply target 111, got %q", args.TargetID)
	}
	// The reply consumed nothing, so the mention token stays in the reason.
	if args.Reason != "<@222> spam" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
	if args.Duration != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", args.Duration)
	}
}

func TestResolveLeadingMention(t *testing.T) {
	hints := Hints{LeadingMentionID: "222"}
	args, err := Resolve([]string{"<@!222>", "being", "rude"}, hints, Spec{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "222" {
		t.Fatalf("expected target 222, got %q", args.TargetID)
	}
	if args.Reason != "being rude" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
}

func TestResolveBareID(t *testing.T) {
	args, err := Resolve([]string{"123456789012345678", "ban", "evasion"}, Hints{}, Spec{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "123456789012345678" {
		t.Fatalf("expected bare ID target, got %q", args.TargetID)
	}
	if args.Reason != "ban evasion" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
}

func TestResolveNoTarget(t *testing.T) {
	_, err := Resolve([]string{"no", "user", "here"}, Hints{}, Spec{})
	if !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
}

func TestResolveTargetOptional(t *testing.T) {
	args, err := Resolve([]string{"25"}, Hints{}, Spec{
		Token:          TokenCount,
		TokenRequired:  true,
		TargetOptional: true,
		MaxCount:       100,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "" {
		t.Fatalf("expected no target, got %q", args.TargetID)
	}
	if args.Count != 25 {
		t.Fatalf("expected count 25, got %d", args.Count)
	}
}

func TestResolveTargetAfterCount(t *testing.T) {
	spec := Spec{
		Token:          TokenCount,
		TokenRequired:  true,
		TargetOptional: true,
		MaxCount:       100,
		DefaultReason:  "No reason provided",
	}

	// Count-first order, the one the help text documents.
	args, err := Resolve([]string{"25", "<@123456789012345678>"}, Hints{}, spec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "123456789012345678" {
		t.Fatalf("expected trailing mention as target, got %q", args.TargetID)
	}
	if args.Count != 25 {
		t.Fatalf("expected count 25, got %d", args.Count)
	}
	if args.Reason != "No reason provided" {
		t.Fatalf("mention leaked into reason: %q", args.Reason)
	}

	// Target-first order still resolves identically.
	args, err = Resolve([]string{"<@123456789012345678>", "25"}, Hints{LeadingMentionID: "123456789012345678"}, spec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "123456789012345678" || args.Count != 25 {
		t.Fatalf("unexpected result: %+v", args)
	}

	// A trailing bare ID works too.
	args, err = Resolve([]string{"10", "123456789012345678"}, Hints{}, spec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.TargetID != "123456789012345678" || args.Count != 10 {
		t.Fatalf("unexpected result: %+v", args)
	}
}

func TestResolveDurationClamped(t *testing.T) {
	max := 28 * 24 * time.Hour
	args, err := Resolve([]string{"<@123456789012345678>", "999d", "raid"}, Hints{LeadingMentionID: "123456789012345678"}, Spec{
		Token:         TokenDuration,
		TokenRequired: true,
		MaxDuration:   max,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.Duration != max {
		t.Fatalf("expected clamp to %v, got %v", max, args.Duration)
	}
	if args.Reason != "raid" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
}

func TestResolveDurationAnywhere(t *testing.T) {
	args, err := Resolve([]string{"123456789012345678", "spam", "in", "general", "10m"}, Hints{}, Spec{
		Token:         TokenDuration,
		TokenRequired: true,
		MaxDuration:   28 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.Duration != 10*time.Minute {
		t.Fatalf("expected 10m, got %v", args.Duration)
	}
	if args.Reason != "spam in general" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
}

func TestResolveMissingRequiredDuration(t *testing.T) {
	_, err := Resolve([]string{"123456789012345678", "spam"}, Hints{}, Spec{
		Token:         TokenDuration,
		TokenRequired: true,
	})
	if !errors.Is(err, ErrNoDurationToken) {
		t.Fatalf("expected ErrNoDurationToken, got %v", err)
	}
}

func TestResolveMissingRequiredCount(t *testing.T) {
	_, err := Resolve(nil, Hints{}, Spec{
		Token:          TokenCount,
		TokenRequired:  true,
		TargetOptional: true,
	})
	if !errors.Is(err, ErrNoCountToken) {
		t.Fatalf("expected ErrNoCountToken, got %v", err)
	}
}

func TestResolveDefaultReason(t *testing.T) {
	args, err := Resolve([]string{"123456789012345678"}, Hints{}, Spec{DefaultReason: "No reason provided"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.Reason != "No reason provided" {
		t.Fatalf("unexpected reason %q", args.Reason)
	}
}

func TestResolveCountClamped(t *testing.T) {
	args, err := Resolve([]string{"100000"}, Hints{}, Spec{
		Token:          TokenCount,
		TokenRequired:  true,
		TargetOptional: true,
		MaxCount:       100,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if args.Count != 100 {
		t.Fatalf("expected clamp to 100, got %d", args.Count)
	}
}

func TestMentionID(t *testing.T) {
	cases := []struct {
		token string
		id    string
		ok    bool
	}{
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{"123456789012345678", "", false},
		{"<@abc>", "", false},
	}
	for _, tc := range cases {
		id, ok := MentionID(tc.token)
		if id != tc.id || ok != tc.ok {
			t.Fatalf("MentionID(%q) = %q, %v; want %q, %v", tc.token, id, ok, tc.id, tc.ok)
		}
	}
}

func TestParseDurationToken(t *testing.T) {
	cases := []struct {
		token string
		want  time.Duration
		ok    bool
	}{
		{"30s", 30 * time.Second, true},
		{"5min", 5 * time.Minute, true},
		{"2hr", 2 * time.Hour, true},
		{"7days", 7 * 24 * time.Hour, true},
		{"10M", 10 * time.Minute, true},
		{"90d", 28 * 24 * time.Hour, true},
		{"fast", 0, false},
		{"10", 0, false},
	}
	max := 28 * 24 * time.Hour
	for _, tc := range cases {
		got, ok := ParseDurationToken(tc.token, max)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseDurationToken(%q) = %v, %v; want %v, %v", tc.token, got, ok, tc.want, tc.ok)
		}
	}
}
