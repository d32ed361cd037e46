package api

import (
	"context"
	"sync"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

// memStore backs the real application and messaging services in router tests.
type memStore struct {
	mu       sync.Mutex
	apps     map[string]models.Application
	order    []string
	accounts map[string]models.Account
	messages []models.Message
}

func newMemStore(accounts ...models.Account) *memStore {
	s := &memStore{apps: map[string]models.Application{}, accounts: map[string]models.Account{}}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *memStore) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app.Clone()
	s.order = append(s.order, app.ID)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, errors.NewNotFoundError("application", id)
	}
	out := app.Clone()
	return &out, nil
}

func (s *memStore) list(keep func(models.Application) bool) []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Application{}
	for _, id := range s.order {
		if app, ok := s.apps[id]; ok && keep(app) {
			out = append(out, app.Clone())
		}
	}
	return out
}

func (s *memStore) ListByOffice(_ context.Context, office models.Office) ([]models.Application, error) {
	return s.list(func(a models.Application) bool { return a.TargetOffice() == office }), nil
}

func (s *memStore) ListByOffices(_ context.Context, offices []models.Office) ([]models.Application, error) {
	return s.list(func(a models.Application) bool {
		for _, o := range offices {
			if a.TargetOffice() == o {
				return true
			}
		}
		return false
	}), nil
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]models.Application, error) {
	return s.list(func(a models.Application) bool { return a.UserID == userID }), nil
}

func (s *memStore) UpdateTransition(_ context.Context, next *models.Application, expected models.ApplicationStatus, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.apps[next.ID]; !ok || cur.Status != expected {
		return errors.NewConflictError("status changed")
	}
	s.apps[next.ID] = next.Clone()
	return nil
}

func (s *memStore) Delete(_ context.Context, id, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return errors.NewNotFoundError("application", id)
	}
	delete(s.apps, id)
	return nil
}

func (s *memStore) GetAccount(_ context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, errors.NewNotFoundError("account", id)
	}
	return &a, nil
}

func (s *memStore) staff(keep func(models.Account) bool) []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Account{}
	for _, a := range s.accounts {
		if a.UserType == models.UserTypeOfficial && keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) ListStaff(_ context.Context) ([]models.Account, error) {
	return s.staff(func(models.Account) bool { return true }), nil
}

func (s *memStore) ListOfficials(_ context.Context, levels []models.OfficeLevel) ([]models.Account, error) {
	return s.staff(func(a models.Account) bool {
		if a.IsMonitor {
			return false
		}
		for _, l := range levels {
			if a.OfficeLevel == l {
				return true
			}
		}
		return false
	}), nil
}

func (s *memStore) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *memStore) GetMessage(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, errors.NewNotFoundError("message", id)
}

func (s *memStore) filterMessages(keep func(models.Message) bool) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Message{}
	for _, m := range s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) ListReceived(_ context.Context, recipientID string) ([]models.Message, error) {
	return s.filterMessages(func(m models.Message) bool { return m.RecipientID == recipientID }), nil
}

func (s *memStore) ListSent(_ context.Context, senderID string) ([]models.Message, error) {
	return s.filterMessages(func(m models.Message) bool { return m.SenderID == senderID }), nil
}

func (s *memStore) MarkMessageRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Read = true
			return nil
		}
	}
	return errors.NewNotFoundError("message", id)
}
