package gatekit_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements gatekit.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// memStore is a map-backed PrincipalStore. Lookups behave like the real
// repository: unknown keys return a not-found category error.
type memStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*gatekit.Principal

	// failWith, when set, is returned from every lookup.
	failWith error
}

func newMemStore(principals ...*gatekit.Principal) *memStore {
	s := &memStore{byID: map[uuid.UUID]*gatekit.Principal{}}
	for _, p := range principals {
		s.byID[p.ID] = p
	}
	return s
}

func (s *memStore) GetByIdentifier(ctx context.Context, identifier string) (*gatekit.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, p := range s.byID {
		if p.Email == identifier {
			return p, nil
		}
	}
	return nil, errors.New("record not found", errors.CategoryNotFound)
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*gatekit.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, errors.New("record not found", errors.CategoryNotFound)
}

func (s *memStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func newTestPrincipal(email, password string, admin bool) *gatekit.Principal {
	hash, err := gatekit.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return &gatekit.Principal{
		ID:           uuid.New(),
		Email:        email,
		Name:         email,
		PasswordHash: hash,
		Admin:        admin,
	}
}

var _ gatekit.PrincipalStore = (*memStore)(nil)
