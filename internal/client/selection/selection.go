// Package selection tracks which directory rows are marked for a bulk
// action. The set is ephemeral: switching category or page clears it.
package selection

import "sort"

// Set is a mutable collection of selected record ids.
type Set struct {
	ids map[string]struct{}
}

func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Toggle flips the selection state of one id.
func (s *Set) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Selected reports whether an id is in the set.
func (s *Set) Selected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Set) Count() int {
	return len(s.ids)
}

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// IDs returns the selected ids in stable order.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AllSelected reports whether every visible id is selected and the visible
// list is non-empty. An empty page is never fully selected.
func (s *Set) AllSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Selected(id) {
			return false
		}
	}
	return true
}

// ToggleAll clears the set when every visible id is already selected,
// otherwise it replaces the selection with exactly the visible ids.
// Applying it twice returns the set to its previous all-or-nothing state.
func (s *Set) ToggleAll(visible []string) {
	if s.AllSelected(visible) {
		s.Clear()
		return
	}
	s.Clear()
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}
