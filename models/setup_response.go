package models

import "time"

// SetupAnswer is one question/answer pair from the assessment questionnaire.
type SetupAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SetupResponse is the write-once audit record of a user's assessment
// answers. One row per user; setup is a one-time gate, so rows are never
// updated.
type SetupResponse struct {
	ID        string                 `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string                 `gorm:"index;not null" json:"user_id"`
	Responses map[string]SetupAnswer `gorm:"serializer:json;type:jsonb" json:"responses"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
}
