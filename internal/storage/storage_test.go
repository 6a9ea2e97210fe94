package storage

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestUpsertGuildSettings(t *testing.T) {
	store := newTestStore(t)

	settings := GuildSettings{
		GuildID:        "g1",
		CommandPrefix:  "!",
		LogChannel:     "c1",
		AutoroleID:     "r1",
		PreviewEnabled: true,
	}

	if err := store.UpsertGuildSettings(context.Background(), settings); err != nil {
		t.Fatalf("upsert guild settings: %v", err)
	}

	settings.LogChannel = "c2"
	settings.PreviewEnabled = false
	if err := store.UpsertGuildSettings(context.Background(), settings); err != nil {
		t.Fatalf("update guild settings: %v", err)
	}

	got, err := store.GetGuildSettings(context.Background(), "g1", GuildSettings{CommandPrefix: "?"})
	if err != nil {
		t.Fatalf("get guild settings: %v", err)
	}
	if got.LogChannel != "c2" {
		t.Fatalf("expected channel c2, got %q", got.LogChannel)
	}
	if got.PreviewEnabled {
		t.Fatalf("expected previews off after update")
	}
	if got.CommandPrefix != "!" {
		t.Fatalf("expected stored prefix, got %q", got.CommandPrefix)
	}
}

func TestGetGuildSettingsDefaults(t *testing.T) {
	store := newTestStore(t)

	defaults := GuildSettings{CommandPrefix: "!", PreviewEnabled: true}
	got, err := store.GetGuildSettings(context.Background(), "missing", defaults)
	if err != nil {
		t.Fatalf("get guild settings: %v", err)
	}
	if got.GuildID != "missing" {
		t.Fatalf("expected guild ID filled in, got %q", got.GuildID)
	}
	if got.CommandPrefix != "!" || !got.PreviewEnabled {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestModActionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	actions := []ModAction{
		{GuildID: "g1", UserID: "u1", ModeratorID: "m1", Action: "ban", Reason: "spam", CreatedAt: now.Add(-2 * time.Hour)},
		{GuildID: "g1", UserID: "u2", ModeratorID: "m1", Action: "timeout", Reason: "flood", DurationSeconds: 600, CreatedAt: now.Add(-time.Hour)},
		{GuildID: "g2", UserID: "u3", ModeratorID: "m2", Action: "kick", CreatedAt: now},
	}
	for _, action := range actions {
		if err := store.AddModAction(ctx, action); err != nil {
			t.Fatalf("add mod action: %v", err)
		}
	}

	listed, err := store.ListModActions(ctx, "g1", 0)
	if err != nil {
		t.Fatalf("list mod actions: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 actions for g1, got %d", len(listed))
	}
	// Newest first.
	if listed[0].Action != "timeout" || listed[1].Action != "ban" {
		t.Fatalf("unexpected order: %s, %s", listed[0].Action, listed[1].Action)
	}
	if listed[0].DurationSeconds != 600 {
		t.Fatalf("expected duration 600, got %d", listed[0].DurationSeconds)
	}
}

func TestCountModActions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	recent := []ModAction{
		{GuildID: "g1", UserID: "u1", ModeratorID: "m1", Action: "ban", CreatedAt: now},
		{GuildID: "g1", UserID: "u2", ModeratorID: "m1", Action: "ban", CreatedAt: now},
		{GuildID: "g2", UserID: "u3", ModeratorID: "m2", Action: "kick", CreatedAt: now},
	}
	old := ModAction{GuildID: "g1", UserID: "u4", ModeratorID: "m1", Action: "ban", CreatedAt: now.Add(-30 * 24 * time.Hour)}

	for _, action := range append(recent, old) {
		if err := store.AddModAction(ctx, action); err != nil {
			t.Fatalf("add mod action: %v", err)
		}
	}

	counts, err := store.CountModActions(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("count mod actions: %v", err)
	}
	if counts["ban"] != 2 || counts["kick"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestCleanupModActions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if err := store.AddModAction(ctx, ModAction{GuildID: "g1", UserID: "u1", ModeratorID: "m1", Action: "ban", CreatedAt: now.Add(-60 * 24 * time.Hour)}); err != nil {
		t.Fatalf("add old action: %v", err)
	}
	if err := store.AddModAction(ctx, ModAction{GuildID: "g1", UserID: "u2", ModeratorID: "m1", Action: "kick", CreatedAt: now}); err != nil {
		t.Fatalf("add recent action: %v", err)
	}

	deleted, err := store.CleanupModActions(ctx, 30)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	listed, err := store.ListModActions(ctx, "g1", 0)
	if err != nil {
		t.Fatalf("list mod actions: %v", err)
	}
	if len(listed) != 1 || listed[0].Action != "kick" {
		t.Fatalf("expected only the recent action, got %+v", listed)
	}
}
