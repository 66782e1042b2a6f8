package domain

import "slices"

// SelectionSet is the working set of passengers an operator is considering
// for one combined route. Entries are unique by ID. Insertion order is kept
// only because it breaks ties when waypoints are ordered.
//
// SelectionSet is not safe for concurrent use.
type SelectionSet struct {
	items []Passenger
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

func (s *SelectionSet) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(p Passenger) bool { return p.ID == id })
}

// Toggle removes p when a passenger with the same ID is selected and appends
// it otherwise. It reports whether p is selected afterwards.
func (s *SelectionSet) Toggle(p Passenger) bool {
	if i := s.indexOf(p.ID); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return false
	}
	s.items = append(s.items, p)
	return true
}

// Remove deselects p. Removing an absent passenger is a no-op.
func (s *SelectionSet) Remove(p Passenger) {
	if i := s.indexOf(p.ID); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

func (s *SelectionSet) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *SelectionSet) Clear() {
	s.items = nil
}

func (s *SelectionSet) Len() int {
	return len(s.items)
}

// Passengers returns a copy of the selection in insertion order.
func (s *SelectionSet) Passengers() []Passenger {
	return slices.Clone(s.items)
}
