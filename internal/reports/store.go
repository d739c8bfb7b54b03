// Package reports retains analysis reports so clients can fetch them again by id.
package reports

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/resume-matcher/internal/scoring"
)

// ErrNotFound is returned for unknown or expired report ids.
var ErrNotFound = errors.New("report not found")

// DefaultTTL is how long reports are kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Store keeps reports under generated ids.
type Store interface {
	Save(ctx context.Context, report *scoring.Report) (string, error)
	Get(ctx context.Context, id string) (*scoring.Report, error)
}

type entry struct {
	report    scoring.Report
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Expired entries are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore returns a MemoryStore. ttl <= 0 selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, report *scoring.Report) (string, error) {
	if report == nil {
		return "", errors.New("nil report")
	}

	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)
	s.entries[id] = entry{report: clone(report), expiresAt: now.Add(s.ttl)}

	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*scoring.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}

	r := clone(&e.report)
	return &r, nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) evict(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

func clone(r *scoring.Report) scoring.Report {
	c := *r
	c.MatchedSkills = cloneStrings(r.MatchedSkills)
	c.MissingSkills = cloneStrings(r.MissingSkills)
	c.RequiredSkills = cloneStrings(r.RequiredSkills)
	c.Recommendations = cloneStrings(r.Recommendations)
	return c
}

// cloneStrings copies s. Nil and empty both become an empty slice so lists
// always encode as JSON arrays.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
