package gesture

import (
	"context"
	"fmt"
	"sync"
)

// Library is a concurrency-safe, insertion-ordered set of reference
// profiles keyed by ID.
type Library struct {
	mu       sync.RWMutex
	profiles []*Profile
	index    map[string]int
	matcher  *Matcher
}

// NewLibrary creates an empty library ranked by m.
func NewLibrary(m *Matcher) *Library {
	return &Library{
		index:   make(map[string]int),
		matcher: m,
	}
}

// Add validates p and inserts it, replacing any profile with the same ID.
func (l *Library) Add(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidProfile)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.index[p.ID]; ok {
		l.profiles[i] = p
		return nil
	}
	l.index[p.ID] = len(l.profiles)
	l.profiles = append(l.profiles, p)
	return nil
}

// Remove deletes the profile with the given ID and reports whether it was
// present.
func (l *Library) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.profiles = append(l.profiles[:i], l.profiles[i+1:]...)
	delete(l.index, id)
	for j := i; j < len(l.profiles); j++ {
		l.index[l.profiles[j].ID] = j
	}
	return true
}

// Get returns the profile with the given ID.
func (l *Library) Get(id string) (*Profile, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return l.profiles[i], true
}

// Len returns the number of profiles.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.profiles)
}

// Profiles returns a snapshot of the profiles in insertion order.
func (l *Library) Profiles() []*Profile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Profile(nil), l.profiles...)
}

// Match ranks the whole library against query.
func (l *Library) Match(ctx context.Context, query *Profile, topK int) ([]Match, error) {
	return l.matcher.Rank(ctx, query, l.Profiles(), topK)
}
