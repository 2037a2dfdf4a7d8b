package castle

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTroops_EvenSplit(t *testing.T) {
	c := FromCuts([NumCuts]uint8{10, 20, 30, 40, 50, 60, 70, 80, 90})
	troops := c.Troops()
	for i, n := range troops {
		assert.Equal(t, 10, n, "bucket %d", i)
	}
}

func TestTroops_AllInLastCastle(t *testing.T) {
	c := FromCuts([NumCuts]uint8{})
	troops := c.Troops()
	assert.Equal(t, TotalTroops, troops[NumCastles-1])
	for i := 0; i < NumCastles-1; i++ {
		assert.Zero(t, troops[i])
	}
}

func TestTroops_AlwaysSumToBudget(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 200; i++ {
		c := RandomCastle(rng)
		sum := 0
		for _, n := range c.Troops() {
			sum += n
		}
		require.Equal(t, TotalTroops, sum, "castle %v", c)
	}
}

func TestFromCuts_Sorts(t *testing.T) {
	c := FromCuts([NumCuts]uint8{90, 10, 50, 30, 70, 20, 80, 40, 60})
	cuts := c.Cuts()
	for i := 1; i < NumCuts; i++ {
		assert.LessOrEqual(t, cuts[i-1], cuts[i])
	}
}

func TestBeats(t *testing.T) {
	// everything on the last (most valuable) castle beats an even split:
	// losing castles 1..9 gives the opponent 2*(1+..+9)=90, winning
	// castle 10 gives us 20 -- so it actually loses
	allLast := FromCuts([NumCuts]uint8{})
	even := FromCuts([NumCuts]uint8{10, 20, 30, 40, 50, 60, 70, 80, 90})
	assert.False(t, allLast.Beats(even))
	assert.True(t, even.Beats(allLast))

	// identical castles tie on every front: no strict winner
	assert.False(t, even.Beats(even))

	// winning is asymmetric
	rng := rand.New(rand.NewPCG(11, 11))
	for i := 0; i < 100; i++ {
		a, b := RandomCastle(rng), RandomCastle(rng)
		if a.Beats(b) {
			assert.False(t, b.Beats(a))
		}
	}
}

func TestNeighbors(t *testing.T) {
	c := FromCuts([NumCuts]uint8{10, 20, 30, 40, 50, 60, 70, 80, 90})
	neighbors := c.Neighbors()
	assert.Len(t, neighbors, 2*NumCuts)

	for _, n := range neighbors {
		assert.NotEqual(t, c, n)
		sum := 0
		for _, troops := range n.Troops() {
			sum += troops
		}
		assert.Equal(t, TotalTroops, sum)
	}
}

func TestNeighbors_BoundaryCutsSkipped(t *testing.T) {
	// a cut at 0 cannot move down, one at 100 cannot move up
	c := FromCuts([NumCuts]uint8{0, 20, 30, 40, 50, 60, 70, 80, 100})
	neighbors := c.Neighbors()
	assert.Len(t, neighbors, 2*NumCuts-2)
}

func TestBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	c := RandomCastle(rng)

	decoded, err := FromBytes(c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestFromBytes_Invalid(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	assert.Error(t, err)

	bad := make([]byte, NumCuts)
	bad[4] = TotalTroops + 1
	_, err = FromBytes(bad)
	assert.Error(t, err)
}
