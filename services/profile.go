package services

import (
	"context"
	"encoding/json"
	"log"

	"hunter-system/models"
)

// ProfileService owns the user-facing profile surface. Every successful
// profile mutation clears the quest cache: generation prompts embed the
// profile, so stale content must not survive an edit.
type ProfileService struct {
	Store UserStore
}

func NewProfileService(store UserStore) *ProfileService {
	return &ProfileService{Store: store}
}

// ProfileView is the aggregated read model for the profile screen.
type ProfileView struct {
	Profile             models.Profile       `json:"profile"`
	Badges              []models.Badge       `json:"badges"`
	XP                  int                  `json:"xp"`
	Level               int                  `json:"level"`
	NextLevelXPRequired int                  `json:"next_level_xp_required"`
	Passives            []models.Achievement `json:"passives"`
	Titles              []models.Achievement `json:"titles"`
	SetupCompleted      bool                 `json:"setup_completed"`
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Profile:             user.Profile,
		Badges:              user.Badges,
		XP:                  user.XP,
		Level:               user.Level,
		NextLevelXPRequired: NextLevelXPRequired(user),
		Passives:            user.Passives,
		Titles:              user.Titles,
		SetupCompleted:      user.SetupCompleted,
	}, nil
}

// ProfilePatch carries partial profile edits; nil fields are left untouched.
type ProfilePatch struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Goals       *string `json:"goals"`
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) error {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	if patch.DisplayName != nil {
		user.Profile.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		user.Profile.Bio = *patch.Bio
	}
	if patch.Goals != nil {
		user.Profile.Goals = *patch.Goals
	}
	user.ClearQuestCache()
	if err := s.Store.SaveUser(ctx, user); err != nil {
		return err
	}
	log.Printf("📝 Profile updated for %s, quest cache invalidated", userID)
	return nil
}

// SetAvatarURL stores an uploaded avatar's public URL. Counts as a profile
// edit, so the cache goes too.
func (s *ProfileService) SetAvatarURL(ctx context.Context, userID, url string) error {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Profile.AvatarURL = url
	user.ClearQuestCache()
	return s.Store.SaveUser(ctx, user)
}

func (s *ProfileService) GetBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Badges, nil
}

// Milestones are an opaque UI-owned blob; the service stores and returns
// them unparsed.
func (s *ProfileService) GetMilestones(ctx context.Context, userID string) (json.RawMessage, error) {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Milestones, nil
}

func (s *ProfileService) SetMilestones(ctx context.Context, userID string, milestones json.RawMessage) error {
	user, err := s.Store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Milestones = milestones
	return s.Store.SaveUser(ctx, user)
}
