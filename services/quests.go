package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hunter-system/models"
)

// QuestCacheTTL is the freshness window for generated quest content. Within
// it, quest fetches return the cached payload verbatim and make no generator
// calls.
const QuestCacheTTL = 24 * time.Hour

// QuestGenerator is the AI collaborator that produces quest content for a
// user. The payload is opaque to this service: it is stored and forwarded
// unparsed beyond a non-emptiness check.
type QuestGenerator interface {
	Generate(ctx context.Context, stats models.Stats, focusLogs []models.FocusLog,
		completed []models.CompletedQuest, profile models.Profile) (json.RawMessage, error)
}

type QuestService struct {
	Store UserStore
	Gen   QuestGenerator

	now func() time.Time
}

func NewQuestService(store UserStore, gen QuestGenerator) *QuestService {
	return &QuestService{Store: store, Gen: gen, now: time.Now}
}

// GetQuests returns the user's quest content, serving the cache while it is
// fresh and regenerating otherwise. Generation failures surface to the caller
// and leave the cache untouched, so a stale payload stays available for a
// later retry.
func (s *QuestService) GetQuests(ctx context.Context, userID string) (json.RawMessage, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if user.QuestCacheFresh(now, QuestCacheTTL) {
		return user.QuestCache, nil
	}

	payload, err := s.Gen.Generate(ctx, user.Stats, user.FocusLogs, user.CompletedQuests, user.Profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: generator returned empty content", ErrUpstreamUnavailable)
	}

	user.SetQuestCache(payload, now)
	if err := s.Store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("🗺️ Quests regenerated for %s", userID)
	return payload, nil
}
