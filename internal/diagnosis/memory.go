package diagnosis

import (
	"context"
	"sort"
	"sync"
	"time"

	"leafcare.org/internal/ids"
)

var _ Store = (*Memory)(nil)

// Memory is an in-memory Store for tests and DSN-less development boots.
type Memory struct {
	mu      sync.RWMutex
	records []Diagnosis
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(_ context.Context, d *Diagnosis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == "" {
		d.ID = ids.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	m.records = append(m.records, *d)
	return nil
}

func (m *Memory) ListByUser(_ context.Context, userID string) ([]Diagnosis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []Diagnosis{}
	for _, d := range m.records {
		if d.UserID == userID {
			res = append(res, d)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}
