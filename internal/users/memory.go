package users

import (
	"context"
	"sync"
	"time"

	"leafcare.org/internal/ids"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store for tests and DSN-less development boots.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byName  map[string]string
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*User),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
	}
}

func (m *Memory) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return ErrDuplicate
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	clone := *u
	m.byID[u.ID] = &clone
	m.byName[u.Username] = u.ID
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *m.byID[id]
	return &clone, nil
}
