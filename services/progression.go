package services

import (
	"context"
	"log"
	"time"

	"hunter-system/models"
)

// XP curve: fixed table for the first levels, formula beyond. The cost of
// level n is the XP needed to go from n-1 to n.
func XPRequiredForLevel(level int) int {
	switch level {
	case 1:
		return 100
	case 2:
		return 300
	case 3:
		return 600
	case 4:
		return 1000
	}
	return level*300 + (level-4)*200
}

// NextLevelXPRequired is the cost of the level after the user's current one,
// used for UI progress bars. Always computed from the current level.
func NextLevelXPRequired(user *models.User) int {
	return XPRequiredForLevel(user.Level + 1)
}

// ApplyXP adds delta to the user's XP and consumes it into level-ups until the
// remainder is below the next level's cost. The curve grows without bound, so
// the loop terminates for any finite delta. Leaves 0 <= xp < cost(level+1).
func ApplyXP(user *models.User, delta int) {
	if user.Level < 1 {
		user.Level = 1
	}
	user.XP += delta
	for user.XP >= XPRequiredForLevel(user.Level+1) {
		user.XP -= XPRequiredForLevel(user.Level + 1)
		user.Level++
	}
}

// ApplyStatDelta adds amount to the named stat and prepends a log entry.
// Non-canonical names are a silent no-op: quest stat gains come from
// generated content and unknown names are ignored rather than rejected.
func ApplyStatDelta(user *models.User, stat string, amount int, now time.Time) {
	old, ok := user.Stats.Value(stat)
	if !ok {
		return
	}
	user.Stats.SetValue(stat, old+amount)
	logStatChange(user, stat, old, old+amount, now)
}

// SetStat overwrites the named stat, ignoring the previous value except for
// logging. Manual edits are restricted to the canonical stat names.
func SetStat(user *models.User, stat string, value int, now time.Time) error {
	old, ok := user.Stats.Value(stat)
	if !ok {
		return ErrInvalidStat
	}
	user.Stats.SetValue(stat, value)
	logStatChange(user, stat, old, value, now)
	return nil
}

// logStatChange prepends: insertion order is the record of truth, newest
// first, even under clock skew.
func logStatChange(user *models.User, stat string, oldValue, newValue int, at time.Time) {
	user.StatLogs = append([]models.StatLog{{
		Stat:      stat,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedAt: at,
	}}, user.StatLogs...)
}

type ProgressionService struct {
	Store UserStore
}

func NewProgressionService(store UserStore) *ProgressionService {
	return &ProgressionService{Store: store}
}

// GetStats returns the user's stats and change log.
func (s *ProgressionService) GetStats(ctx context.Context, userID string) (models.Stats, []models.StatLog, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return models.Stats{}, nil, err
	}
	return user.Stats, user.StatLogs, nil
}

// UpdateStat is the manual-edit path: absolute value, canonical stats only.
func (s *ProgressionService) UpdateStat(ctx context.Context, userID, stat string, value int) (*models.User, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := SetStat(user, stat, value, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("📊 Stat updated: %s → %s=%d", userID, stat, value)
	return user, nil
}
