package services

import (
	"context"
	"errors"

	"hunter-system/models"

	"gorm.io/gorm"
)

// UserStore is the persistence collaborator: load-by-id and
// save-whole-document semantics for the user progress record. Each mutating
// operation loads the document, mutates it in memory and saves it once, so a
// failure part-way through never persists a half-updated ledger.
type UserStore interface {
	LoadUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	CreateSetupResponse(ctx context.Context, resp *models.SetupResponse) error

	// Transaction runs fn against a store whose writes commit together or
	// not at all. Operations that touch more than one row (setup: audit row
	// plus user document) go through here.
	Transaction(ctx context.Context, fn func(UserStore) error) error
}

// GormUserStore backs UserStore with Postgres.
type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) LoadUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) SaveUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Save(user).Error
}

func (s *GormUserStore) CreateSetupResponse(ctx context.Context, resp *models.SetupResponse) error {
	return s.DB.WithContext(ctx).Create(resp).Error
}

func (s *GormUserStore) Transaction(ctx context.Context, fn func(UserStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormUserStore{DB: tx})
	})
}
