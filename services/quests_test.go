package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var questPayload = json.RawMessage(`{"questlines":[{"stat":"strength","quests":[{"title":"Push-up ladder"}]}]}`)

func TestGetQuestsCachesWithinWindow(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	gen := &fakeGenerator{payload: questPayload}
	svc := NewQuestService(store, gen)

	t0 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.now = fixedNow(t0)

	first, err := svc.GetQuests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetQuests: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}

	svc.now = fixedNow(t0.Add(23 * time.Hour))
	second, err := svc.GetQuests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetQuests (cached): %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generator called on cache hit: calls = %d", gen.calls)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("cached content differs: %s vs %s", first, second)
	}
}

func TestGetQuestsRegeneratesAfterWindow(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	gen := &fakeGenerator{payload: questPayload}
	svc := NewQuestService(store, gen)

	t0 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.now = fixedNow(t0)
	if _, err := svc.GetQuests(context.Background(), "u1"); err != nil {
		t.Fatalf("GetQuests: %v", err)
	}

	svc.now = fixedNow(t0.Add(25 * time.Hour))
	if _, err := svc.GetQuests(context.Background(), "u1"); err != nil {
		t.Fatalf("GetQuests (expired): %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.calls)
	}

	user := store.mustGet("u1")
	if user.QuestCacheUpdatedAt == nil || !user.QuestCacheUpdatedAt.Equal(t0.Add(25*time.Hour)) {
		t.Fatalf("cache timestamp = %v, want regeneration time", user.QuestCacheUpdatedAt)
	}
}

func TestGetQuestsProfileEditForcesRegeneration(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	gen := &fakeGenerator{payload: questPayload}
	svc := NewQuestService(store, gen)

	t0 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.now = fixedNow(t0)
	if _, err := svc.GetQuests(context.Background(), "u1"); err != nil {
		t.Fatalf("GetQuests: %v", err)
	}

	// A profile edit is the invalidation event: quest content is generated
	// against the profile, so the next fetch must not serve the old payload.
	bio := "Aspiring hunter"
	if err := NewProfileService(store).UpdateProfile(context.Background(), "u1", ProfilePatch{Bio: &bio}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	user := store.mustGet("u1")
	if len(user.QuestCache) != 0 || user.QuestCacheUpdatedAt != nil {
		t.Fatalf("cache not fully cleared: payload=%d bytes, ts=%v", len(user.QuestCache), user.QuestCacheUpdatedAt)
	}

	// Well inside the freshness window, yet it must regenerate.
	svc.now = fixedNow(t0.Add(1 * time.Hour))
	if _, err := svc.GetQuests(context.Background(), "u1"); err != nil {
		t.Fatalf("GetQuests after invalidation: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.calls)
	}
}

func TestGetQuestsGeneratorFailureLeavesCache(t *testing.T) {
	user := newTestUser("u1")
	stale := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	user.SetQuestCache(questPayload, stale)
	store := newFakeUserStore(user)

	gen := &fakeGenerator{err: errBoom}
	svc := NewQuestService(store, gen)
	svc.now = fixedNow(stale.Add(48 * time.Hour))

	_, err := svc.GetQuests(context.Background(), "u1")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if store.saves != 0 {
		t.Fatalf("failed generation saved %d times", store.saves)
	}
	got := store.mustGet("u1")
	if !bytes.Equal(got.QuestCache, questPayload) || got.QuestCacheUpdatedAt == nil {
		t.Fatal("stale cache was mutated by a failed generation")
	}
}

func TestGetQuestsRejectsEmptyContent(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	svc := NewQuestService(store, &fakeGenerator{payload: json.RawMessage("")})
	svc.now = fixedNow(time.Now())

	if _, err := svc.GetQuests(context.Background(), "u1"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGetQuestsUnknownUser(t *testing.T) {
	svc := NewQuestService(newFakeUserStore(), &fakeGenerator{payload: questPayload})
	if _, err := svc.GetQuests(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
