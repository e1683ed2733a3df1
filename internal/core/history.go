package core

// history.go keeps finished and running import jobs so clients can look a
// job up after its progress channel is gone.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrJobNotFound is returned when a job id is unknown or has expired.
var ErrJobNotFound = errors.New("job not found")

// DefaultHistoryTTL is how long a job record is kept after it is saved.
const DefaultHistoryTTL = 24 * time.Hour

// JobStore persists job records. Implementations must be safe for
// concurrent use.
type JobStore interface {
	Save(ctx context.Context, rec JobRecord) error
	Get(ctx context.Context, id string) (JobRecord, error)
}

// EventPublisher announces finished jobs to other systems.
type EventPublisher interface {
	PublishJob(ctx context.Context, rec JobRecord) error
}

type historyEntry struct {
	rec     JobRecord
	expires time.Time
}

// MemoryJobStore is the in-process JobStore used when no Redis address is
// configured.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]historyEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryJobStore creates a store whose records expire after ttl.
func NewMemoryJobStore(ttl time.Duration) *MemoryJobStore {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	return &MemoryJobStore{
		jobs: make(map[string]historyEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (m *MemoryJobStore) Save(_ context.Context, rec JobRecord) error {
	rec.Errores = append([]string(nil), rec.Errores...)

	m.mu.Lock()
	m.jobs[rec.ID] = historyEntry{rec: rec, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryJobStore) Get(_ context.Context, id string) (JobRecord, error) {
	m.mu.RLock()
	e, ok := m.jobs[id]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expires) {
		return JobRecord{}, ErrJobNotFound
	}
	return e.rec, nil
}

// Sweep deletes expired records and returns how many were removed.
func (m *MemoryJobStore) Sweep(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.jobs {
		if now.After(e.expires) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryJobStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
