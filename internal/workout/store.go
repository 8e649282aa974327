package workout

import "fmt"

// Store is an append-only, chronologically ordered collection of workouts.
type Store struct {
	items []*Workout
	byID  map[string]*Workout
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: map[string]*Workout{}}
}

// Append adds w at the end. It refuses a workout whose ID is already present.
func (s *Store) Append(w *Workout) error {
	if w == nil {
		return fmt.Errorf("append nil workout")
	}
	if _, ok := s.byID[w.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, w.id)
	}
	s.items = append(s.items, w)
	s.byID[w.id] = w
	return nil
}

// All returns the workouts in insertion order. The slice is a copy.
func (s *Store) All() []*Workout {
	out := make([]*Workout, len(s.items))
	copy(out, s.items)
	return out
}

// FindByID looks up a workout.
func (s *Store) FindByID(id string) (*Workout, error) {
	w, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w, nil
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.items)
}

// Clear drops every workout from memory.
func (s *Store) Clear() {
	s.items = nil
	s.byID = map[string]*Workout{}
}
