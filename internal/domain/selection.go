package domain

import "sync"

// SelectionStore holds the one record currently selected across all views.
// Views share a single *SelectionStore; it is safe for concurrent use.
//
// Selections are not validated against the loaded snapshot: a record from an
// earlier load stays selected until replaced or cleared.
type SelectionStore struct {
	mu       sync.RWMutex
	current  Record
	selected bool
}

// NewSelectionStore returns an empty store.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{}
}

// Select replaces the current selection. Last write wins.
func (s *SelectionStore) Select(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = r
	s.selected = true
}

// Current returns the selected record, or false when nothing is selected.
func (s *SelectionStore) Current() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.selected
}

// IsSelected compares by id, so two copies of the same record match.
func (s *SelectionStore) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected && s.current.ID == id
}

// SelectedID returns the selected record's id, or "" when nothing is selected.
func (s *SelectionStore) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.selected {
		return ""
	}
	return s.current.ID
}

// Clear deselects.
func (s *SelectionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Record{}
	s.selected = false
}
