package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hunter-system/models"
)

func fullResponses() map[string]models.SetupAnswer {
	out := make(map[string]models.SetupAnswer)
	for _, stat := range models.CanonicalStats {
		out[stat] = models.SetupAnswer{
			Question: SetupQuestions[stat],
			Answer:   "a detailed answer about " + stat,
		}
	}
	return out
}

func TestCompleteSetupMissingResponse(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	svc := NewSetupService(store, &fakeScorer{configured: true})

	responses := fullResponses()
	responses[models.StatIntelligence] = models.SetupAnswer{Question: "q", Answer: "  "}

	_, err := svc.CompleteSetup(context.Background(), "u1", responses)
	var missing *MissingResponseError
	if !errors.As(err, &missing) || missing.Stat != models.StatIntelligence {
		t.Fatalf("err = %v, want MissingResponseError(intelligence)", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("MissingResponseError should unwrap to ErrValidation")
	}
	if len(store.setupResponses) != 0 {
		t.Fatal("audit record created for rejected setup")
	}
	if got := store.mustGet("u1"); got.Stats != models.DefaultStats() || got.SetupCompleted {
		t.Fatalf("rejected setup mutated user: %+v", got)
	}
}

func TestCompleteSetupAlreadyCompleted(t *testing.T) {
	user := newTestUser("u1")
	user.SetupCompleted = true
	user.Stats.Strength = 8
	store := newFakeUserStore(user)
	svc := NewSetupService(store, &fakeScorer{configured: true, scores: map[string]int{"strength": 2}})

	_, err := svc.CompleteSetup(context.Background(), "u1", fullResponses())
	if !errors.Is(err, ErrSetupAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrSetupAlreadyCompleted", err)
	}
	if store.mustGet("u1").Stats.Strength != 8 {
		t.Fatal("second setup altered stats")
	}
}

func TestCompleteSetupAppliesScores(t *testing.T) {
	user := newTestUser("u1")
	user.SetQuestCache([]byte(`{"questlines":[]}`), time.Now())
	store := newFakeUserStore(user)
	scorer := &fakeScorer{configured: true, scores: map[string]int{
		"strength": 4, "vitality": 6, "agility": 3, "intelligence": 8, "perception": 5,
	}}
	svc := NewSetupService(store, scorer)

	result, err := svc.CompleteSetup(context.Background(), "u1", fullResponses())
	if err != nil {
		t.Fatalf("CompleteSetup: %v", err)
	}

	want := models.Stats{Strength: 4, Vitality: 6, Agility: 3, Intelligence: 8, Perception: 5}
	if result.Stats != want {
		t.Fatalf("stats = %+v, want %+v", result.Stats, want)
	}

	got := store.mustGet("u1")
	if !got.SetupCompleted {
		t.Error("setup gate not flipped")
	}
	if len(got.QuestCache) != 0 || got.QuestCacheUpdatedAt != nil {
		t.Error("quest cache survived setup completion")
	}
	if len(store.setupResponses) != 1 || store.setupResponses[0].UserID != "u1" {
		t.Errorf("audit records = %+v", store.setupResponses)
	}
	if result.Message == "" {
		t.Error("empty summary message")
	}
}

func TestCompleteSetupFailedSaveLeavesNoAuditRow(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	svc := NewSetupService(store, &fakeScorer{configured: true, scores: map[string]int{
		"strength": 4, "vitality": 6, "agility": 3, "intelligence": 8, "perception": 5,
	}})

	store.saveErr = errBoom
	if _, err := svc.CompleteSetup(context.Background(), "u1", fullResponses()); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want save failure", err)
	}
	if len(store.setupResponses) != 0 {
		t.Fatalf("failed setup left %d audit rows", len(store.setupResponses))
	}
	if store.mustGet("u1").SetupCompleted {
		t.Fatal("failed setup flipped the gate")
	}

	// The gate is still open, so a retry must succeed and write exactly
	// one audit row.
	store.saveErr = nil
	if _, err := svc.CompleteSetup(context.Background(), "u1", fullResponses()); err != nil {
		t.Fatalf("retry after failed save: %v", err)
	}
	if len(store.setupResponses) != 1 {
		t.Fatalf("audit rows after retry = %d, want 1", len(store.setupResponses))
	}
	if !store.mustGet("u1").SetupCompleted {
		t.Fatal("retry did not complete setup")
	}
}

func TestCompleteSetupScorerFailureFallsBackToDefaults(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	svc := NewSetupService(store, &fakeScorer{configured: true, err: errBoom})

	result, err := svc.CompleteSetup(context.Background(), "u1", fullResponses())
	if err != nil {
		t.Fatalf("setup must not fail when the scorer is down: %v", err)
	}
	want := models.Stats{Strength: 5, Vitality: 5, Agility: 5, Intelligence: 5, Perception: 5}
	if result.Stats != want {
		t.Fatalf("stats = %+v, want all 5s", result.Stats)
	}
}

func TestCompleteSetupClampsOutOfRangeScores(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	svc := NewSetupService(store, &fakeScorer{configured: true, scores: map[string]int{
		"strength": 17, "vitality": 0, "agility": 7,
		// intelligence and perception missing entirely
	}})

	result, err := svc.CompleteSetup(context.Background(), "u1", fullResponses())
	if err != nil {
		t.Fatalf("CompleteSetup: %v", err)
	}
	want := models.Stats{Strength: 5, Vitality: 5, Agility: 7, Intelligence: 5, Perception: 5}
	if result.Stats != want {
		t.Fatalf("stats = %+v, want %+v", result.Stats, want)
	}
}

func TestCompleteSetupUnconfiguredScorerRandomizes(t *testing.T) {
	store := newFakeUserStore(newTestUser("u1"))
	scorer := &fakeScorer{configured: false}
	svc := NewSetupService(store, scorer)
	svc.randIntn = func(n int) int { return 2 } // roll 2 of [0,5) → score 5

	result, err := svc.CompleteSetup(context.Background(), "u1", fullResponses())
	if err != nil {
		t.Fatalf("CompleteSetup: %v", err)
	}
	if scorer.calls != 0 {
		t.Fatal("unconfigured scorer was still called")
	}
	for _, stat := range models.CanonicalStats {
		v, _ := result.Stats.Value(stat)
		if v != 5 {
			t.Fatalf("%s = %d, want 5 with pinned roll", stat, v)
		}
		if v < 3 || v > 7 {
			t.Fatalf("%s = %d, outside the 3–7 fallback range", stat, v)
		}
	}
}

func TestResetSetup(t *testing.T) {
	user := newTestUser("u1")
	user.SetupCompleted = true
	user.Stats = models.Stats{Strength: 7, Vitality: 6, Agility: 5, Intelligence: 8, Perception: 4}
	user.SetQuestCache([]byte(`{}`), time.Now())
	store := newFakeUserStore(user)
	svc := NewSetupService(store, &fakeScorer{configured: true})

	if err := svc.ResetSetup(context.Background(), "u1"); err != nil {
		t.Fatalf("ResetSetup: %v", err)
	}
	got := store.mustGet("u1")
	if got.SetupCompleted {
		t.Error("gate still flipped")
	}
	if got.Stats != models.DefaultStats() {
		t.Errorf("stats = %+v, want defaults", got.Stats)
	}
	if len(got.QuestCache) != 0 || got.QuestCacheUpdatedAt != nil {
		t.Error("quest cache survived reset")
	}
}
