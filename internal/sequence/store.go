package sequence

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/curvefit/internal/monitoring"
)

// Persister reads and writes the full list of stored sequences. Missing
// persisted data loads as an empty list, not an error.
type Persister interface {
	LoadSequences() ([]Sequence, error)
	SaveSequences(seqs []Sequence) error
}

// Store holds every known sequence in insertion order and answers range
// queries over the scalar attributes. It keeps an entry-speed index so
// constrained queries do not scan the whole history.
type Store struct {
	persister Persister
	sequences []Sequence

	// byEntrySpeed lists positions in sequences ordered by EntrySpeed.
	// nil means it must be rebuilt.
	byEntrySpeed []int
}

// NewStore creates an empty store backed by p. A nil persister makes Load
// and Save no-ops.
func NewStore(p Persister) *Store {
	return &Store{persister: p}
}

// Load replaces the store's contents with the persisted sequences.
func (s *Store) Load() error {
	if s.persister == nil {
		return nil
	}
	seqs, err := s.persister.LoadSequences()
	if err != nil {
		return fmt.Errorf("load sequences: %w", err)
	}
	s.sequences = seqs
	s.byEntrySpeed = nil
	monitoring.Logf("loaded %d stored sequences", len(seqs))
	return nil
}

// Save writes the full contents of the store, replacing what was persisted.
func (s *Store) Save() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveSequences(s.sequences); err != nil {
		return fmt.Errorf("save sequences: %w", err)
	}
	monitoring.Debugf("saved %d sequences", len(s.sequences))
	return nil
}

// Add appends copies of seqs in memory. It does not persist them.
func (s *Store) Add(seqs ...Sequence) {
	if len(seqs) == 0 {
		return
	}
	for _, seq := range seqs {
		s.sequences = append(s.sequences, seq.Clone())
	}
	s.byEntrySpeed = nil
}

// Len returns the number of stored sequences.
func (s *Store) Len() int {
	return len(s.sequences)
}

// All returns a deep copy of the stored sequences in insertion order.
func (s *Store) All() []Sequence {
	if s.sequences == nil {
		return nil
	}
	out := make([]Sequence, len(s.sequences))
	for i, seq := range s.sequences {
		out[i] = seq.Clone()
	}
	return out
}

// Matches returns every sequence satisfying q, in insertion order. The
// result is a fresh slice of copies the caller may iterate any number of
// times or modify.
func (s *Store) Matches(q Query) []Sequence {
	out := make([]Sequence, 0)
	for _, i := range s.candidates(q.EntrySpeed) {
		if q.Match(s.sequences[i]) {
			out = append(out, s.sequences[i].Clone())
		}
	}
	return out
}

// candidates narrows by entry speed using the index. Positions are
// returned in insertion order.
func (s *Store) candidates(r *Range) []int {
	if r == nil {
		all := make([]int, len(s.sequences))
		for i := range all {
			all[i] = i
		}
		return all
	}

	idx := s.entrySpeedIndex()
	lo := sort.Search(len(idx), func(i int) bool {
		return s.sequences[idx[i]].EntrySpeed >= r.Low
	})
	hi := sort.Search(len(idx), func(i int) bool {
		return s.sequences[idx[i]].EntrySpeed > r.High
	})
	if lo >= hi {
		return nil
	}
	out := append([]int(nil), idx[lo:hi]...)
	sort.Ints(out)
	return out
}

func (s *Store) entrySpeedIndex() []int {
	if s.byEntrySpeed != nil {
		return s.byEntrySpeed
	}
	idx := make([]int, 0, len(s.sequences))
	for i, seq := range s.sequences {
		// NaN never satisfies a range and would break the ordering.
		if math.IsNaN(seq.EntrySpeed) {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.sequences[idx[a]].EntrySpeed < s.sequences[idx[b]].EntrySpeed
	})
	s.byEntrySpeed = idx
	return idx
}
