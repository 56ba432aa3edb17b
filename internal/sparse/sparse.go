// Package sparse provides a sparse set data structure for efficient
// membership testing over a known, bounded universe of uint32 values.
//
// The determinizer uses it to track which NFA node IDs have already been
// folded into an epsilon closure during a single worklist walk.
package sparse

// Set is a set of uint32 values in [0, capacity) supporting O(1) insertion,
// membership testing, and clearing. It maintains a dense list of members
// (for iteration) alongside the sparse membership array.
type Set struct {
	sparse []uint32
	dense  []uint32
	size   uint32
}

// New creates a new sparse set over the universe [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. A value already present is a no-op.
// Insert panics if value is outside the set's configured capacity.
func (s *Set) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.dense = append(s.dense, value)
	s.sparse[value] = s.size
	s.size++
}

// Contains reports whether value is a member of the set.
func (s *Set) Contains(value uint32) bool {
	if value >= uint32(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear empties the set in O(1) time without releasing backing storage.
func (s *Set) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Len returns the number of members currently in the set.
func (s *Set) Len() int {
	return int(s.size)
}

// Values returns the current members in insertion order. The returned
// slice is only valid until the next mutating call.
func (s *Set) Values() []uint32 {
	return s.dense[:s.size]
}
