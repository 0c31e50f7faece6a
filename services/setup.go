package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"hunter-system/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SetupQuestions are the curated assessment prompts, one per stat.
var SetupQuestions = map[string]string{
	models.StatStrength:     "Tell us about your physical capabilities: How much can you lift? What's your exercise routine? Can you carry heavy objects, do push-ups, or perform manual labor? Share specific examples of your physical strength and endurance activities.",
	models.StatVitality:     "Describe your energy and health: How many hours do you sleep? How often do you get sick? Can you work/study for long hours without fatigue? What's your stress tolerance and recovery ability? Include your diet and wellness habits.",
	models.StatAgility:      "Share your movement abilities: Can you catch falling objects quickly? How's your balance and coordination? Do you dance, play sports, or do activities requiring quick reflexes? Describe your flexibility and reaction speed.",
	models.StatIntelligence: "Tell us about your mental abilities: How quickly do you learn new concepts? Can you solve complex problems or puzzles? What's your education level? How do you approach learning new skills or technologies?",
	models.StatPerception:   "Describe your awareness skills: Do you notice small details others miss? Can you read people's emotions well? How good is your intuition? Do you spot changes in your environment quickly? Share examples of your observational abilities.",
}

const defaultAssessmentScore = 5

// AssessmentScorer turns free-text questionnaire answers into 1–10 stat
// scores. Configured reports whether a credential is present at all; the
// fallback policy differs between "no scorer configured" and "scorer failed".
type AssessmentScorer interface {
	Score(ctx context.Context, responses map[string]models.SetupAnswer) (map[string]int, error)
	Configured() bool
}

// SetupService runs the one-time stat assessment gate.
type SetupService struct {
	Store  UserStore
	Scorer AssessmentScorer

	randIntn func(int) int
}

func NewSetupService(store UserStore, scorer AssessmentScorer) *SetupService {
	return &SetupService{Store: store, Scorer: scorer, randIntn: rand.Intn}
}

// SetupResult reports the assigned stats plus a rendered summary message.
type SetupResult struct {
	Stats   models.Stats `json:"stats"`
	Message string       `json:"message"`
}

// CompleteSetup scores the questionnaire and seeds the user's stats. Setup
// never fails because the AI is down: scoring degrades to fallback values
// instead. The raw responses are persisted once for audit; the gate flips
// SetupCompleted and clears the quest cache so the first quest fetch
// generates against the assessed stats.
func (s *SetupService) CompleteSetup(ctx context.Context, userID string, responses map[string]models.SetupAnswer) (*SetupResult, error) {
	for _, stat := range models.CanonicalStats {
		r, ok := responses[stat]
		if !ok || strings.TrimSpace(r.Answer) == "" {
			return nil, &MissingResponseError{Stat: stat}
		}
	}

	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SetupCompleted {
		return nil, ErrSetupAlreadyCompleted
	}

	scores := s.scoreResponses(ctx, responses)

	for _, stat := range models.CanonicalStats {
		user.Stats.SetValue(stat, scores[stat])
	}
	user.SetupCompleted = true
	user.ClearQuestCache()

	// The audit row and the user document commit together. A failed save
	// must not leave an orphaned response row behind, or the retry would
	// write a second one for the same user.
	err = s.Store.Transaction(ctx, func(store UserStore) error {
		if err := store.CreateSetupResponse(ctx, &models.SetupResponse{
			UserID:    userID,
			Responses: responses,
		}); err != nil {
			return err
		}
		return store.SaveUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧭 Setup completed for %s: %+v", userID, user.Stats)
	return &SetupResult{
		Stats:   user.Stats,
		Message: setupMessage(user.Stats),
	}, nil
}

// scoreResponses resolves the fallback policy: without a configured scorer,
// each stat rolls a random 3–7 to retain variety; with a scorer, a failed
// call or an out-of-range score falls back to 5 per stat. Either way the
// result stays inside 1–10.
func (s *SetupService) scoreResponses(ctx context.Context, responses map[string]models.SetupAnswer) map[string]int {
	scores := make(map[string]int, len(models.CanonicalStats))

	if s.Scorer == nil || !s.Scorer.Configured() {
		for _, stat := range models.CanonicalStats {
			scores[stat] = s.randIntn(5) + 3
		}
		return scores
	}

	raw, err := s.Scorer.Score(ctx, responses)
	if err != nil {
		log.Printf("⚠️ Assessment scoring failed, using defaults: %v", err)
		raw = nil
	}
	for _, stat := range models.CanonicalStats {
		score, ok := raw[stat]
		if !ok || score < 1 || score > 10 {
			score = defaultAssessmentScore
		}
		scores[stat] = score
	}
	return scores
}

// ResetSetup reverts the gate so the questionnaire can run again. Kept for
// development and support tooling.
func (s *SetupService) ResetSetup(ctx context.Context, userID string) error {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	user.SetupCompleted = false
	user.Stats = models.DefaultStats()
	user.ClearQuestCache()
	return s.Store.SaveUser(ctx, user)
}

func setupMessage(stats models.Stats) string {
	titler := cases.Title(language.English)
	lines := make([]string, 0, len(models.CanonicalStats))
	for _, stat := range models.CanonicalStats {
		v, _ := stats.Value(stat)
		lines = append(lines, fmt.Sprintf("%s: %d", titler.String(stat), v))
	}
	return fmt.Sprintf("Assessment complete! Your starting stats have been assigned:\n\n%s\n\nYour journey as a Hunter begins now!",
		strings.Join(lines, "\n"))
}
