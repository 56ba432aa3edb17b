// Package dfa turns an NFA graph into a complete, deterministic transition
// table by subset construction, and provides the tiny runtime that walks
// that table over a haystack.
package dfa

// StateID indexes a state in a DFA's transition table.
type StateID uint32

// DFA is a fully determinized, complete transition table: every state has
// exactly one successor for every byte value. Final (accepting) states
// occupy the low end of the index space, [0, FirstNonFinal); non-final
// states fill the rest, [FirstNonFinal, Invalid); Invalid itself names the
// sink state one past the last real row, which the table never stores a
// row for.
type DFA struct {
	Start         StateID
	FirstNonFinal StateID
	Invalid       StateID
	Transitions   [][256]StateID
}

// StatesNum reports the number of real (non-sink) states.
func (d *DFA) StatesNum() StateID { return d.Invalid }

// IsFinal reports whether s is an accepting state.
func (d *DFA) IsFinal(s StateID) bool { return s < d.FirstNonFinal }

// Width reports the smallest integer byte width, 1 or 2, that can
// represent every index a packed transition table needs to hold,
// including the sink.
func (d *DFA) Width() int {
	if uint32(d.Invalid) <= 0xFF {
		return 1
	}
	return 2
}

// MatchAt walks haystack forward from start through the table, returning
// the end offset of the longest prefix that lands on an accepting state
// and whether any such prefix exists (a zero-length match is reported if
// the start state is itself accepting). It performs no UTF-8 validation:
// haystack is treated as an opaque byte string throughout.
func (d *DFA) MatchAt(haystack []byte, start int) (end int, ok bool) {
	state := d.Start
	if d.IsFinal(state) {
		end, ok = start, true
	}
	for i := start; i < len(haystack); i++ {
		state = d.Transitions[state][haystack[i]]
		if state == d.Invalid {
			break
		}
		if d.IsFinal(state) {
			end, ok = i+1, true
		}
	}
	return end, ok
}
