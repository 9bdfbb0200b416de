package view

import (
	"fmt"
	"sort"
	"sync"
)

// MemorySurfaces keeps surfaces in process. Registering an id twice models
// a host with a duplicated surface.
type MemorySurfaces struct {
	mu       sync.RWMutex
	contents map[string][]string
}

// Ensure MemorySurfaces implements Surfaces interface
var _ Surfaces = (*MemorySurfaces)(nil)

// NewMemorySurfaces creates surfaces for the given ids
func NewMemorySurfaces(ids ...string) *MemorySurfaces {
	s := &MemorySurfaces{contents: make(map[string][]string)}
	for _, id := range ids {
		s.Add(id, "")
	}
	return s
}

// Add registers one more surface for id
func (s *MemorySurfaces) Add(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[id] = append(s.contents[id], content)
}

// Remove drops every surface for id
func (s *MemorySurfaces) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contents, id)
}

// IDs returns the ids that have at least one surface, sorted
func (s *MemorySurfaces) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.contents))
	for id := range s.contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns how many surfaces carry id
func (s *MemorySurfaces) Count(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contents[id])
}

// Read returns the content of the single surface carrying id
func (s *MemorySurfaces) Read(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.unique(id); err != nil {
		return "", err
	}
	return s.contents[id][0], nil
}

// Write replaces the content of the single surface carrying id
func (s *MemorySurfaces) Write(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.unique(id); err != nil {
		return err
	}
	s.contents[id][0] = content
	return nil
}

func (s *MemorySurfaces) unique(id string) error {
	switch n := len(s.contents[id]); n {
	case 0:
		return fmt.Errorf("%w: %s", ErrSurfaceNotFound, id)
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: %s has %d surfaces", ErrAmbiguousSurface, id, n)
	}
}
