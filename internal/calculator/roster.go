package calculator

import "fmt"

// Roster maps participant names to the dense indices used by the settlement
// planner. Indices are assigned in order of first appearance.
type Roster struct {
	names []string
	index map[string]int
}

// NewRoster creates a roster seeded with names, skipping duplicates and empty
// strings.
func NewRoster(names ...string) *Roster {
	r := &Roster{index: make(map[string]int, len(names))}
	for _, name := range names {
		r.Add(name)
	}
	return r
}

// Add returns the index for name, assigning the next one if name is new.
// Empty names are ignored and yield -1.
func (r *Roster) Add(name string) int {
	if name == "" {
		return -1
	}
	if idx, ok := r.index[name]; ok {
		return idx
	}
	idx := len(r.names)
	r.names = append(r.names, name)
	r.index[name] = idx
	return idx
}

// Index returns the index assigned to name.
func (r *Roster) Index(name string) (int, bool) {
	idx, ok := r.index[name]
	return idx, ok
}

// Name returns the participant at idx.
func (r *Roster) Name(idx int) string {
	return r.names[idx]
}

// Names returns all participants in index order.
func (r *Roster) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.names)
}

// mustIndex looks up a name that is expected to be present.
func (r *Roster) mustIndex(name string) (int, error) {
	idx, ok := r.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParticipant, name)
	}
	return idx, nil
}
