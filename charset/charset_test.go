package charset

import (
	"reflect"
	"testing"

	"github.com/ctre-go/ctre/rangeset"
)

func collectBytes(s ByteSet) []byte {
	var out []byte
	it := s.Bytes()
	for {
		b, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out
}

func collectRanges(s ByteSet) []rangeset.Range[byte] {
	var out []rangeset.Range[byte]
	it := s.Ranges()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}

func TestByteSetInsertContains(t *testing.T) {
	var s ByteSet
	if !s.IsEmpty() {
		t.Fatal("zero value must be empty")
	}
	s.Insert('a')
	s.Insert('z')
	if !s.Contains('a') || !s.Contains('z') {
		t.Fatal("expected a and z present")
	}
	if s.Contains('b') {
		t.Fatal("b must not be present")
	}
}

func TestByteSetInsertRange(t *testing.T) {
	s := FromRange('a', 'z')
	for b := byte('a'); b <= 'z'; b++ {
		if !s.Contains(b) {
			t.Fatalf("expected %q present", b)
		}
	}
	if s.Contains('A') || s.Contains('{') {
		t.Fatal("range must not overflow its bounds")
	}
}

func TestByteSetInsertRangeCrossesChunkBoundary(t *testing.T) {
	// chunk boundaries sit at multiples of 64: 63/64 and 127/128
	s := FromRange(60, 70)
	want := []byte{60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70}
	if got := collectBytes(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestByteSetInsertRangeSpansThreeChunks(t *testing.T) {
	s := FromRange(10, 200)
	if !s.ContainsRange(rangeset.New[byte](10, 200)) {
		t.Fatal("expected full span contained")
	}
	if s.Contains(9) || s.Contains(201) {
		t.Fatal("span must not overflow its bounds")
	}
}

func TestByteSetFullRange(t *testing.T) {
	s := FromRange(0, 255)
	for i := 0; i < 256; i++ {
		if !s.Contains(byte(i)) {
			t.Fatalf("expected byte %d present", i)
		}
	}
}

func TestByteSetRemoveRange(t *testing.T) {
	s := FromRange(0, 255)
	s.RemoveRange(rangeset.New[byte](10, 20))
	if s.Contains(15) {
		t.Fatal("15 should have been removed")
	}
	if !s.Contains(9) || !s.Contains(21) {
		t.Fatal("boundary bytes must remain")
	}
}

func TestByteSetRanges(t *testing.T) {
	s := FromBytes([]byte{1, 2, 3, 10, 11, 200})
	got := collectRanges(s)
	want := []rangeset.Range[byte]{
		rangeset.New[byte](1, 3),
		rangeset.New[byte](10, 11),
		rangeset.New[byte](200, 200),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestByteSetUnionIntersectionDifference(t *testing.T) {
	a := FromRange('a', 'm')
	b := FromRange('g', 'z')

	u := a.Union(b)
	if !u.ContainsRange(rangeset.New[byte]('a', 'z')) {
		t.Fatal("union must cover a-z")
	}

	i := a.Intersection(b)
	if got := collectRanges(i); len(got) != 1 || got[0] != rangeset.New[byte]('g', 'm') {
		t.Fatalf("intersection = %v, want [g-m]", got)
	}

	d := a.Difference(b)
	if got := collectRanges(d); len(got) != 1 || got[0] != rangeset.New[byte]('a', 'f') {
		t.Fatalf("difference = %v, want [a-f]", got)
	}
}

func TestByteSetComplement(t *testing.T) {
	s := Byte('x')
	c := s.Complement()
	if c.Contains('x') {
		t.Fatal("complement must not contain x")
	}
	if !c.Contains('y') {
		t.Fatal("complement must contain everything else")
	}
}

func TestByteSetContainsSetAndIntersectsSet(t *testing.T) {
	whole := FromRange('a', 'z')
	part := FromRange('f', 'k')
	if !whole.ContainsSet(part) {
		t.Fatal("whole must contain part")
	}
	if part.ContainsSet(whole) {
		t.Fatal("part must not contain whole")
	}
	disjoint := FromRange('0', '9')
	if whole.IntersectsSet(disjoint) {
		t.Fatal("letters and digits must not intersect")
	}
	if !whole.IntersectsSet(part) {
		t.Fatal("whole and part must intersect")
	}
}

func TestByteSetEqual(t *testing.T) {
	a := FromBytes([]byte{1, 2, 3})
	b := FromBytes([]byte{3, 2, 1})
	if !a.Equal(b) {
		t.Fatal("sets with the same members must be equal regardless of insertion order")
	}
}

func TestByteSetString(t *testing.T) {
	s := FromBytes([]byte{'a', 'b', 'c'})
	s.Insert('-')
	got := s.String()
	want := "[- | a-c]"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
