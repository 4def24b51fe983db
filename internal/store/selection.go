package store

// SelectionState tracks the tag multi-select of one form. The create form
// and the edit modal each own an independent instance; membership toggles,
// duplicates are impossible, and the set is cleared on submit or cancel.
type SelectionState struct {
	ids []int64
}

// NewSelectionState returns an empty selection
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// Toggle flips membership of the given tag id
func (s *SelectionState) Toggle(id int64) {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Has reports whether the tag id is selected
func (s *SelectionState) Has(id int64) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Add selects the tag id if not already selected
func (s *SelectionState) Add(id int64) {
	if !s.Has(id) {
		s.ids = append(s.ids, id)
	}
}

// IDs returns the selected tag ids in insertion order
func (s *SelectionState) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected tags
func (s *SelectionState) Len() int {
	return len(s.ids)
}

// Clear empties the selection
func (s *SelectionState) Clear() {
	s.ids = nil
}

// Reset replaces the selection with the given ids, dropping duplicates
func (s *SelectionState) Reset(ids []int64) {
	s.ids = nil
	for _, id := range ids {
		s.Add(id)
	}
}
