package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"hunter-system/models"
)

// RewardService turns quest-completion events into XP, stat, passive, title
// and badge grants on the user document.
type RewardService struct {
	Store UserStore

	now func() time.Time
}

func NewRewardService(store UserStore) *RewardService {
	return &RewardService{Store: store, now: time.Now}
}

// QuestCompletion is the incoming completion event.
type QuestCompletion struct {
	QuestTitle       string            `json:"questTitle"`
	QuestDescription string            `json:"questDescription"`
	Rewards          []models.Reward   `json:"rewards"`
	StatGains        []models.StatGain `json:"statGains"`
}

// CompletionResult is the full post-completion snapshot, returned so the
// caller can render without a second fetch.
type CompletionResult struct {
	Stats           models.Stats            `json:"stats"`
	XP              int                     `json:"xp"`
	Level           int                     `json:"level"`
	CompletedQuests []models.CompletedQuest `json:"completed_quests"`
	Passives        []models.Achievement    `json:"passives"`
	Titles          []models.Achievement    `json:"titles"`
	Badges          []models.Badge          `json:"badges"`
}

// CompleteQuest applies a completion event in three ordered steps: stat gains,
// rewards in list order, then the completion-log entry. All validation happens
// before the first mutation and the document is saved once, so a rejected
// event leaves no partial state.
//
// Completion is deliberately not idempotent per quest title: submitting the
// same quest twice grants its rewards twice. Only passive/title/badge grants
// dedupe, by their own titles.
func (s *RewardService) CompleteQuest(ctx context.Context, userID string, ev QuestCompletion) (*CompletionResult, error) {
	if ev.QuestTitle == "" {
		return nil, fmt.Errorf("%w: questTitle is required", ErrValidation)
	}
	xpDeltas, err := parseXPRewards(ev.Rewards)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	for _, gain := range ev.StatGains {
		ApplyStatDelta(user, gain.Stat, gain.Amount, now)
	}

	for i, reward := range ev.Rewards {
		switch models.ParseRewardKind(reward.Type) {
		case models.RewardKindXP:
			ApplyXP(user, xpDeltas[i])
		case models.RewardKindPassive:
			user.Passives = grantAchievement(user.Passives, reward.Value, now)
		case models.RewardKindTitle:
			user.Titles = grantAchievement(user.Titles, reward.Value, now)
		case models.RewardKindBadge:
			user.Badges = grantBadge(user.Badges, reward.Value, now)
		case models.RewardKindStat:
			// Stat changes arrive through statGains; the reward entry is
			// display-only.
		default:
			// Unknown reward types from generated content are skipped,
			// not rejected.
		}
	}

	snapshot := make([]models.RewardSnapshot, 0, len(ev.Rewards))
	for _, r := range ev.Rewards {
		snapshot = append(snapshot, models.RewardSnapshot{Type: r.Type, Value: r.Value})
	}
	user.CompletedQuests = append([]models.CompletedQuest{{
		QuestTitle:       ev.QuestTitle,
		QuestDescription: ev.QuestDescription,
		CompletedAt:      now,
		Rewards:          snapshot,
	}}, user.CompletedQuests...)

	if err := s.Store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("⚔️ Quest completed: %s → %q (xp=%d lvl=%d)", userID, ev.QuestTitle, user.XP, user.Level)

	return &CompletionResult{
		Stats:           user.Stats,
		XP:              user.XP,
		Level:           user.Level,
		CompletedQuests: user.CompletedQuests,
		Passives:        user.Passives,
		Titles:          user.Titles,
		Badges:          user.Badges,
	}, nil
}

// RecordFocus appends a focus-history entry. The stat is not validated
// against the canonical set: it only ever feeds the generation prompt.
func (s *RewardService) RecordFocus(ctx context.Context, userID, stat, questTitle string) error {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	user.FocusLogs = append(user.FocusLogs, models.FocusLog{
		Stat:       stat,
		QuestTitle: questTitle,
		ChosenAt:   s.now(),
	})
	return s.Store.SaveUser(ctx, user)
}

// parseXPRewards pre-parses every XP reward so a malformed value rejects the
// whole event before any mutation. Values must be positive integers; the
// system does not define negative XP.
func parseXPRewards(rewards []models.Reward) (map[int]int, error) {
	deltas := make(map[int]int)
	for i, r := range rewards {
		if models.ParseRewardKind(r.Type) != models.RewardKindXP {
			continue
		}
		n, err := strconv.Atoi(r.Value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: XP reward value %q is not a non-negative integer", ErrValidation, r.Value)
		}
		deltas[i] = n
	}
	return deltas, nil
}

func grantAchievement(list []models.Achievement, title string, now time.Time) []models.Achievement {
	for _, a := range list {
		if a.Title == title {
			return list
		}
	}
	return append(list, models.Achievement{
		Title:       title,
		Description: title,
		AwardedAt:   now,
	})
}

func grantBadge(list []models.Badge, title string, now time.Time) []models.Badge {
	for _, b := range list {
		if b.Title == title {
			return list
		}
	}
	return append(list, models.Badge{
		Title:       title,
		Description: title,
		Icon:        models.DefaultBadgeIcon,
		Color:       models.DefaultBadgeColor,
		AwardedAt:   now,
	})
}
