package query

// Family names an independent clause sequence inside a Store.
type Family string

const (
	Wheres  Family = "wheres"
	Havings Family = "havings"
	Ons     Family = "ons"
)

// entry is one stored clause. Named entries have name != "";
// positional entries carry the auto index they were appended under.
type entry struct {
	name   string
	index  int
	clause Clause
}

type sequence struct {
	entries []entry
	next    int
}

// Store accumulates clauses per family, preserving insertion order across
// named and positional entries. The zero value is ready to use.
type Store struct {
	families map[Family]*sequence
}

func (s *Store) sequence(f Family) *sequence {
	if s.families == nil {
		s.families = make(map[Family]*sequence)
	}
	seq, ok := s.families[f]
	if !ok {
		seq = &sequence{}
		s.families[f] = seq
	}
	return seq
}

// Set appends c to the family, or upserts it under name when name is
// non-empty. Replacing a named entry keeps its original position.
// It returns the positional index assigned, or -1 for a named entry.
func (s *Store) Set(f Family, c Clause, name string) int {
	seq := s.sequence(f)
	if name != "" {
		for i := range seq.entries {
			if seq.entries[i].name == name {
				seq.entries[i].clause = c
				return -1
			}
		}
		seq.entries = append(seq.entries, entry{name: name, index: -1, clause: c})
		return -1
	}

	idx := seq.next
	seq.next++
	seq.entries = append(seq.entries, entry{index: idx, clause: c})
	return idx
}

// Unset removes the entry stored under name. Missing names are ignored.
func (s *Store) Unset(f Family, name string) {
	seq, ok := s.families[f]
	if !ok || name == "" {
		return
	}
	for i, e := range seq.entries {
		if e.name == name {
			seq.entries = append(seq.entries[:i], seq.entries[i+1:]...)
			return
		}
	}
}

// UnsetAt removes the positional entry appended under index.
// Indexes are never reused, so removing one does not shift the others.
func (s *Store) UnsetAt(f Family, index int) {
	seq, ok := s.families[f]
	if !ok || index < 0 {
		return
	}
	for i, e := range seq.entries {
		if e.name == "" && e.index == index {
			seq.entries = append(seq.entries[:i], seq.entries[i+1:]...)
			return
		}
	}
}

// Get returns the family's clauses in insertion order.
func (s *Store) Get(f Family) []Clause {
	seq, ok := s.families[f]
	if !ok {
		return nil
	}
	out := make([]Clause, len(seq.entries))
	for i, e := range seq.entries {
		out[i] = e.clause
	}
	return out
}

// Len reports how many clauses the family holds.
func (s *Store) Len(f Family) int {
	seq, ok := s.families[f]
	if !ok {
		return 0
	}
	return len(seq.entries)
}
