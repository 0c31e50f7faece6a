package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Canonical stat names. Every stat-mutating operation validates against these
// except the focus log, which feeds a natural-language prompt and accepts
// anything.
const (
	StatStrength     = "strength"
	StatVitality     = "vitality"
	StatAgility      = "agility"
	StatIntelligence = "intelligence"
	StatPerception   = "perception"
)

var CanonicalStats = []string{
	StatStrength,
	StatVitality,
	StatAgility,
	StatIntelligence,
	StatPerception,
}

// Stats holds the five hunter attributes. New users start at 1 across the
// board; the setup assessment overwrites all five at once.
type Stats struct {
	Strength     int `json:"strength"`
	Vitality     int `json:"vitality"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Perception   int `json:"perception"`
}

func DefaultStats() Stats {
	return Stats{Strength: 1, Vitality: 1, Agility: 1, Intelligence: 1, Perception: 1}
}

// Value returns the named stat and whether the name is canonical.
func (s *Stats) Value(name string) (int, bool) {
	switch name {
	case StatStrength:
		return s.Strength, true
	case StatVitality:
		return s.Vitality, true
	case StatAgility:
		return s.Agility, true
	case StatIntelligence:
		return s.Intelligence, true
	case StatPerception:
		return s.Perception, true
	}
	return 0, false
}

// SetValue overwrites the named stat. Returns false for non-canonical names.
func (s *Stats) SetValue(name string, v int) bool {
	switch name {
	case StatStrength:
		s.Strength = v
	case StatVitality:
		s.Vitality = v
	case StatAgility:
		s.Agility = v
	case StatIntelligence:
		s.Intelligence = v
	case StatPerception:
		s.Perception = v
	default:
		return false
	}
	return true
}

// StatLog records a single stat change, newest entries first.
type StatLog struct {
	Stat      string    `json:"stat"`
	OldValue  int       `json:"old_value"`
	NewValue  int       `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// Achievement is a deduplicated-by-title grant. Passives and titles share the
// shape.
type Achievement struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	UnlockCondition string    `json:"unlock_condition,omitempty"`
	AwardedAt       time.Time `json:"awarded_at"`
}

// Badge is a deduplicated-by-title grant with display metadata. Grants made
// through quest rewards use the default icon/color; the first award wins.
type Badge struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	AwardedAt   time.Time `json:"awarded_at"`
}

const (
	DefaultBadgeIcon  = "🏅"
	DefaultBadgeColor = "#FFD700"
)

// RewardSnapshot is the reward as recorded on a completed quest, kept verbatim
// so history renders exactly what was granted.
type RewardSnapshot struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CompletedQuest is one entry of the append-only completion log, newest first.
type CompletedQuest struct {
	QuestTitle       string           `json:"quest_title"`
	QuestDescription string           `json:"quest_description"`
	CompletedAt      time.Time        `json:"completed_at"`
	Rewards          []RewardSnapshot `json:"rewards"`
}

// FocusLog records which stat the user chose to prioritize after a quest.
// Feeds future generation prompts only, so the stat is not validated.
type FocusLog struct {
	Stat       string    `json:"stat"`
	QuestTitle string    `json:"quest_title"`
	ChosenAt   time.Time `json:"chosen_at"`
}

// Profile is the user-editable presentation data. Any edit invalidates the
// quest cache so the next fetch regenerates against the new profile.
type Profile struct {
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Goals       string `json:"goals,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// User is the whole progress document: one row per user, ordered
// sub-collections stored as jsonb. Loaded and saved as a unit so a failed
// operation never leaves it half-updated.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Stats Stats `gorm:"serializer:json;type:jsonb" json:"stats"`
	XP    int   `gorm:"default:0" json:"xp"`
	Level int   `gorm:"default:1" json:"level"`

	StatLogs        []StatLog        `gorm:"serializer:json;type:jsonb" json:"stat_logs"`
	Passives        []Achievement    `gorm:"serializer:json;type:jsonb" json:"passives"`
	Titles          []Achievement    `gorm:"serializer:json;type:jsonb" json:"titles"`
	Badges          []Badge          `gorm:"serializer:json;type:jsonb" json:"badges"`
	CompletedQuests []CompletedQuest `gorm:"serializer:json;type:jsonb" json:"completed_quests"`
	FocusLogs       []FocusLog       `gorm:"serializer:json;type:jsonb" json:"focus_logs"`

	Profile    Profile         `gorm:"serializer:json;type:jsonb" json:"profile"`
	Milestones json.RawMessage `gorm:"type:jsonb" json:"milestones,omitempty"`

	// QuestCache and QuestCacheUpdatedAt are set and cleared together. The
	// timestamp lives in its own column so the pruner can sweep stale caches
	// with a plain SQL update.
	QuestCache          json.RawMessage `gorm:"type:jsonb" json:"quest_cache,omitempty"`
	QuestCacheUpdatedAt *time.Time      `json:"quest_cache_updated_at,omitempty"`

	SetupCompleted bool `gorm:"default:false" json:"setup_completed"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// SetQuestCache stores freshly generated content and stamps it.
func (u *User) SetQuestCache(payload json.RawMessage, at time.Time) {
	u.QuestCache = payload
	u.QuestCacheUpdatedAt = &at
}

// ClearQuestCache drops the cached content and its timestamp, forcing the next
// quest fetch to regenerate regardless of the freshness window.
func (u *User) ClearQuestCache() {
	u.QuestCache = nil
	u.QuestCacheUpdatedAt = nil
}

// QuestCacheFresh reports whether cached content exists and is younger than
// ttl at the given instant.
func (u *User) QuestCacheFresh(now time.Time, ttl time.Duration) bool {
	if len(u.QuestCache) == 0 || u.QuestCacheUpdatedAt == nil {
		return false
	}
	return now.Sub(*u.QuestCacheUpdatedAt) < ttl
}
