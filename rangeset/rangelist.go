package rangeset

import "sort"

// List is a canonical set of inclusive ranges: sorted by Start, with no two
// ranges intersecting or adjoining. Every mutating method re-establishes
// this invariant before returning.
type List[T Unsigned] struct {
	ranges []Range[T]
}

// Ranges returns the list's ranges in ascending, non-overlapping order. The
// returned slice must not be mutated by the caller.
func (l *List[T]) Ranges() []Range[T] {
	return l.ranges
}

// Len returns the number of ranges in the list.
func (l *List[T]) Len() int {
	return len(l.ranges)
}

// IsEmpty reports whether the list has no ranges.
func (l *List[T]) IsEmpty() bool {
	return len(l.ranges) == 0
}

// Merge folds r into the list, combining it with any ranges it intersects
// or adjoins so the canonical-form invariant holds afterward.
func (l *List[T]) Merge(r Range[T]) {
	i := sort.Search(len(l.ranges), func(i int) bool {
		return l.ranges[i].start >= r.start
	})

	merged := false
	idx := i
	switch {
	case i < len(l.ranges) && l.ranges[i].start == r.start:
		nr, _ := l.ranges[i].TryMerge(r)
		l.ranges[i] = nr
		merged = true
	case i > 0:
		if nr, ok := l.ranges[i-1].TryMerge(r); ok {
			l.ranges[i-1] = nr
			idx = i - 1
			merged = true
		}
	}
	if !merged && i < len(l.ranges) {
		if nr, ok := l.ranges[i].TryMerge(r); ok {
			l.ranges[i] = nr
			merged = true
		}
	}
	if !merged {
		l.ranges = append(l.ranges, Range[T]{})
		copy(l.ranges[i+1:], l.ranges[i:])
		l.ranges[i] = r
		return
	}

	// sweep forward, coalescing any further ranges now reachable
	j := idx + 1
	for j < len(l.ranges) {
		if nr, ok := l.ranges[idx].TryMerge(l.ranges[j]); ok {
			l.ranges[idx] = nr
			j++
		} else {
			break
		}
	}
	if j > idx+1 {
		l.ranges = append(l.ranges[:idx+1], l.ranges[j:]...)
	}
}

// Exclude removes r from the list, splitting or shrinking any ranges it
// overlaps and dropping any range it fully covers.
func (l *List[T]) Exclude(r Range[T]) {
	if l.IsEmpty() {
		return
	}

	// lo is the first range that could possibly be touched by r (its last
	// reaches at least r.start); hi is one past the last such range (its
	// start would have to exceed r.last to not be touched). Every range in
	// [lo, hi) intersects r; everything outside that span is untouched.
	lo := sort.Search(len(l.ranges), func(i int) bool {
		return l.ranges[i].last >= r.start
	})
	hi := sort.Search(len(l.ranges), func(i int) bool {
		return l.ranges[i].start > r.last
	})
	if lo >= hi {
		return
	}

	var left, right Range[T]
	hasLeft := l.ranges[lo].start < r.start
	if hasLeft {
		left = Range[T]{l.ranges[lo].start, mustBackward(r.start)}
	}
	hasRight := l.ranges[hi-1].last > r.last
	if hasRight {
		right = Range[T]{mustForward(r.last), l.ranges[hi-1].last}
	}

	kept := l.ranges[:lo:lo]
	if hasLeft {
		kept = append(kept, left)
	}
	if hasRight {
		kept = append(kept, right)
	}
	l.ranges = append(kept, l.ranges[hi:]...)
}

// mustBackward and mustForward are used only where the caller has already
// established the step is in range (r.start > list-range.start implies
// r.start >= 1, etc.); a failure here indicates a broken invariant upstream.
func mustBackward[T Unsigned](v T) T {
	p, ok := backward(v)
	if !ok {
		panic("rangeset: backward step underflowed")
	}
	return p
}

func mustForward[T Unsigned](v T) T {
	n, ok := forward(v)
	if !ok {
		panic("rangeset: forward step overflowed")
	}
	return n
}

// FromRanges builds a canonical list from an arbitrary (possibly
// overlapping, unordered) collection of ranges by merging them in turn.
func FromRanges[T Unsigned](ranges []Range[T]) *List[T] {
	l := &List[T]{}
	for _, r := range ranges {
		l.Merge(r)
	}
	return l
}
