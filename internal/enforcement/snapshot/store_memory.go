package snapshot

import (
	"context"
	"sync"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// MemoryStore keeps snapshots in a mutex-guarded map. The map swap under the
// write lock gives the same per-period atomicity the Postgres upsert does.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[models.Period]models.MetricsSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[models.Period]models.MetricsSnapshot)}
}

func (s *MemoryStore) GetCurrent(_ context.Context) ([]models.MetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.MetricsSnapshot
	for _, period := range models.Periods() {
		if snap, ok := s.snapshots[period]; ok {
			out = append(out, cloneSnapshot(snap))
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, period models.Period) (models.MetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[period]
	if !ok {
		return models.MetricsSnapshot{}, ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

func (s *MemoryStore) Replace(_ context.Context, period models.Period, snap models.MetricsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[period] = cloneSnapshot(snap)
	return nil
}

// cloneSnapshot copies the agency map so callers cannot mutate stored state.
func cloneSnapshot(snap models.MetricsSnapshot) models.MetricsSnapshot {
	if snap.AgencyStats != nil {
		stats := make(map[string]models.AgencyStat, len(snap.AgencyStats))
		for code, stat := range snap.AgencyStats {
			stats[code] = stat
		}
		snap.AgencyStats = stats
	}
	return snap
}
