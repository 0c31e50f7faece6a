package models

// RewardKind is the closed set of reward types a quest can grant. Generated
// content occasionally invents new type strings; those parse to
// RewardKindUnknown and are skipped rather than rejected.
type RewardKind string

const (
	RewardKindXP      RewardKind = "XP"
	RewardKindStat    RewardKind = "Stat"
	RewardKindPassive RewardKind = "Passive"
	RewardKindTitle   RewardKind = "Title"
	RewardKindBadge   RewardKind = "Badge"
	RewardKindUnknown RewardKind = "Unknown"
)

// ParseRewardKind maps a wire type string onto the closed enum.
func ParseRewardKind(s string) RewardKind {
	switch RewardKind(s) {
	case RewardKindXP, RewardKindStat, RewardKindPassive, RewardKindTitle, RewardKindBadge:
		return RewardKind(s)
	}
	return RewardKindUnknown
}

// Reward is the wire shape of a single quest reward.
type Reward struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StatGain is the wire shape of a direct stat increase attached to a quest.
type StatGain struct {
	Stat   string `json:"stat"`
	Amount int    `json:"amount"`
}
