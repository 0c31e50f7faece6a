package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hunter-system/models"
)

// fakeUserStore keeps documents in memory and hands out deep copies, so a
// mutation that never reaches SaveUser stays invisible — same isolation the
// real store gives via load-then-save-whole-document.
type fakeUserStore struct {
	users          map[string]*models.User
	setupResponses []*models.SetupResponse
	saves          int
	saveErr        error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = cloneUser(u)
	}
	return s
}

func (s *fakeUserStore) LoadUser(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *fakeUserStore) SaveUser(_ context.Context, user *models.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *fakeUserStore) CreateSetupResponse(_ context.Context, resp *models.SetupResponse) error {
	s.setupResponses = append(s.setupResponses, resp)
	return nil
}

// Transaction snapshots the store and restores it when fn fails, mimicking
// rollback.
func (s *fakeUserStore) Transaction(_ context.Context, fn func(UserStore) error) error {
	usersSnap := make(map[string]*models.User, len(s.users))
	for id, u := range s.users {
		usersSnap[id] = cloneUser(u)
	}
	respSnap := append([]*models.SetupResponse(nil), s.setupResponses...)
	savesSnap := s.saves

	if err := fn(s); err != nil {
		s.users = usersSnap
		s.setupResponses = respSnap
		s.saves = savesSnap
		return err
	}
	return nil
}

func (s *fakeUserStore) mustGet(id string) *models.User {
	u, ok := s.users[id]
	if !ok {
		panic("fakeUserStore: no user " + id)
	}
	return u
}

func cloneUser(u *models.User) *models.User {
	data, err := json.Marshal(u)
	if err != nil {
		panic(err)
	}
	var out models.User
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	out.PasswordHash = u.PasswordHash
	return &out
}

func newTestUser(id string) *models.User {
	return &models.User{
		ID:           id,
		Email:        id + "@test.local",
		PasswordHash: "x",
		Stats:        models.DefaultStats(),
		Level:        1,
	}
}

type fakeGenerator struct {
	payload json.RawMessage
	err     error
	calls   int
}

func (g *fakeGenerator) Generate(context.Context, models.Stats, []models.FocusLog,
	[]models.CompletedQuest, models.Profile) (json.RawMessage, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.payload, nil
}

type fakeScorer struct {
	scores     map[string]int
	err        error
	configured bool
	calls      int
}

func (s *fakeScorer) Score(context.Context, map[string]models.SetupAnswer) (map[string]int, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

func (s *fakeScorer) Configured() bool { return s.configured }

// fixedNow pins a service clock for deterministic freshness checks.
func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var errBoom = fmt.Errorf("boom")
