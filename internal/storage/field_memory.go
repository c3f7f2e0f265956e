package storage

import (
	"context"
	"sync"

	"github.com/eventlive/eventlive-backend/internal/models"
)

// MemoryFieldStore keeps field data in process memory. Status values never
// expire.
type MemoryFieldStore struct {
	mu        sync.RWMutex
	statuses  map[string]string
	faqs      []models.FaqRecord
	locations map[string][]models.LocationPoint
}

func NewMemoryFieldStore() *MemoryFieldStore {
	return &MemoryFieldStore{
		statuses:  make(map[string]string),
		locations: make(map[string][]models.LocationPoint),
	}
}

func (m *MemoryFieldStore) SetStatus(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[key] = value
	return nil
}

func (m *MemoryFieldStore) GetStatus(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.statuses[key]
	return v, ok, nil
}

func (m *MemoryFieldStore) AddFAQ(_ context.Context, rec models.FaqRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faqs = append(m.faqs, rec)
	return nil
}

func (m *MemoryFieldStore) ListFAQs(_ context.Context) ([]models.FaqRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.FaqRecord, len(m.faqs))
	copy(out, m.faqs)
	return out, nil
}

func (m *MemoryFieldStore) AddLocation(_ context.Context, category string, point models.LocationPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[category] = append(m.locations[category], point)
	return nil
}

func (m *MemoryFieldStore) Locations(_ context.Context, category string) ([]models.LocationPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.locations[category]
	out := make([]models.LocationPoint, len(src))
	copy(out, src)
	return out, nil
}
