// Package castle implements the budget-allocation game the search engine
// ships with: split 100 troops across ten castles worth 1..10 points and
// beat as many opposing allocations as possible.
package castle

import (
	"fmt"
	"sort"
)

const (
	// TotalTroops is the fixed budget split across the castles.
	TotalTroops = 100
	// NumCuts is the number of cut points encoding an allocation.
	NumCuts = 9
	// NumCastles is the number of troop buckets a castle defines.
	NumCastles = NumCuts + 1
)

// Castle is one candidate allocation, stored as nine sorted cut points in
// [0,100]. Bucket i is the gap between consecutive cut points, so the
// buckets always sum to TotalTroops. The value type is comparable and
// hashable, which is what the engine's visited set needs.
type Castle struct {
	cuts [NumCuts]uint8
}

// FromCuts builds a Castle from nine cut points, sorting them first.
func FromCuts(cuts [NumCuts]uint8) Castle {
	sort.Slice(cuts[:], func(i, j int) bool { return cuts[i] < cuts[j] })
	return Castle{cuts: cuts}
}

// FromBytes decodes the nine-byte wire form produced by Bytes.
func FromBytes(b []byte) (Castle, error) {
	if len(b) != NumCuts {
		return Castle{}, fmt.Errorf("castle encoding must be %d bytes, got %d", NumCuts, len(b))
	}
	var cuts [NumCuts]uint8
	copy(cuts[:], b)
	for _, c := range cuts {
		if c > TotalTroops {
			return Castle{}, fmt.Errorf("cut point %d out of range", c)
		}
	}
	return FromCuts(cuts), nil
}

// Bytes returns the nine sorted cut points as a byte slice.
func (c Castle) Bytes() []byte {
	out := make([]byte, NumCuts)
	copy(out, c.cuts[:])
	return out
}

// Cuts returns the sorted cut points.
func (c Castle) Cuts() [NumCuts]uint8 {
	return c.cuts
}

// Troops expands the cut points into the ten troop buckets.
func (c Castle) Troops() [NumCastles]int {
	var t [NumCastles]int
	t[0] = int(c.cuts[0])
	for i := 0; i < NumCuts-1; i++ {
		t[i+1] = int(c.cuts[i+1]) - int(c.cuts[i])
	}
	t[NumCastles-1] = TotalTroops - int(c.cuts[NumCuts-1])
	return t
}

// Beats plays c against other. Castle i (1-based) is worth 2i points to a
// strict winner and i to each side on a tie; c wins only with strictly
// more points.
func (c Castle) Beats(other Castle) bool {
	mine, theirs := c.Troops(), other.Troops()

	var myPoints, theirPoints int
	for i := 0; i < NumCastles; i++ {
		worth := i + 1
		switch {
		case mine[i] > theirs[i]:
			myPoints += 2 * worth
		case mine[i] < theirs[i]:
			theirPoints += 2 * worth
		default:
			myPoints += worth
			theirPoints += worth
		}
	}
	return myPoints > theirPoints
}

// Neighbors nudges each cut point by ±1, skipping out-of-range moves.
// At most 18 neighbors; fewer when cut points sit at 0 or 100.
func (c Castle) Neighbors() []Castle {
	neighbors := make([]Castle, 0, 2*NumCuts)
	for i := 0; i < NumCuts; i++ {
		for _, d := range [2]int{-1, 1} {
			v := int(c.cuts[i]) + d
			if v < 0 || v > TotalTroops {
				continue
			}
			next := c.cuts
			next[i] = uint8(v)
			neighbors = append(neighbors, FromCuts(next))
		}
	}
	return neighbors
}

func (c Castle) String() string {
	return fmt.Sprintf("%v", c.Troops())
}
