package store

import (
	"context"
	"sync"
	"time"

	"github.com/shotleybuilder/sertantai-enforcement-sub000/internal/enforcement/models"
)

// MemoryReader is an in-memory Reader for unit tests and the demo wiring.
type MemoryReader struct {
	mu      sync.RWMutex
	cases   []models.Case
	notices []models.Notice
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{}
}

// Seed replaces the backing collections.
func (r *MemoryReader) Seed(cases []models.Case, notices []models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases = append([]models.Case{}, cases...)
	r.notices = append([]models.Notice{}, notices...)
}

func (r *MemoryReader) Cases(_ context.Context, f Filter) ([]models.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Case
	for _, c := range r.cases {
		if f.AgencyCode != "" && c.AgencyCode != f.AgencyCode {
			continue
		}
		if f.ActionType != "" && c.ActionType != f.ActionType {
			continue
		}
		if !dateInRange(c.ActionDate, f.From, f.To) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryReader) Notices(_ context.Context, f Filter) ([]models.Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Notice
	for _, n := range r.notices {
		if f.AgencyCode != "" && n.AgencyCode != f.AgencyCode {
			continue
		}
		if f.ActionType != "" && n.ActionType != f.ActionType {
			continue
		}
		if !dateInRange(n.NoticeDate, f.From, f.To) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *MemoryReader) CountCases(_ context.Context, since *time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, c := range r.cases {
		if since == nil {
			count++
			continue
		}
		if c.ActionDate != nil && !models.Date(*c.ActionDate).Before(models.Date(*since)) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryReader) CountNotices(_ context.Context, since *time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notices {
		if since == nil {
			count++
			continue
		}
		if n.NoticeDate != nil && !models.Date(*n.NoticeDate).Before(models.Date(*since)) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryReader) AgencyStats(_ context.Context) (map[string]models.AgencyStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]models.AgencyStat)
	for _, c := range r.cases {
		s := stats[c.AgencyCode]
		s.CaseCount++
		if c.FineAmount != nil {
			s.TotalFines += *c.FineAmount
		}
		stats[c.AgencyCode] = s
	}
	for _, n := range r.notices {
		s := stats[n.AgencyCode]
		s.NoticeCount++
		stats[n.AgencyCode] = s
	}
	return stats, nil
}

// dateInRange applies an inclusive [from, to] date window. A record with no
// date only matches an unbounded filter.
func dateInRange(d, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	if d == nil {
		return false
	}
	day := models.Date(*d)
	if from != nil && day.Before(models.Date(*from)) {
		return false
	}
	if to != nil && day.After(models.Date(*to)) {
		return false
	}
	return true
}
