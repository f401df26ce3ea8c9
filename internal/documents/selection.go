package documents

import (
	"maps"
	"slices"
	"sync"

	"github.com/samandr77/healthportal/internal/entity"
)

// Selection is the set of checked document ids.
type Selection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}

	s.ids[id] = struct{}{}
}

// ToggleAll clears the selection when its size equals the number of visible documents,
// otherwise it selects exactly the visible ones. Only sizes are compared, so two calls
// restore the starting state only when it was empty or already held every visible document.
func (s *Selection) ToggleAll(visible []entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == len(visible) {
		clear(s.ids)
		return
	}

	clear(s.ids)

	for _, d := range visible {
		s.ids[d.ID] = struct{}{}
	}
}

func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]

	return ok
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.ids))
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.ids)
}
