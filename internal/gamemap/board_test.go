package gamemap

import (
	"math/rand/v2"
	"testing"

	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func TestBoardRegionsAreDisjoint(t *testing.T) {
	b := NewBoard(testRNG(1))

	all := b.AllHexes()
	assert.Len(t, all, 4+8+5*6+4*2)

	counts := map[Region]int{}
	perCard := map[string]int{}
	for _, c := range all {
		m, ok := b.Membership(c)
		require.True(t, ok, "%v has no region", c)
		counts[m.Region]++
		if m.Region == RegionCard {
			perCard[m.Card]++
		}
	}
	assert.Equal(t, 4, counts[RegionTriPrime])
	assert.Equal(t, 8, counts[RegionBoundary])
	assert.Len(t, perCard, 8)
	for _, label := range CardLabels {
		assert.Equal(t, len(b.Cluster(label)), perCard[label], "card %s", label)
	}
}

func TestBoardFixedLevels(t *testing.T) {
	b := NewBoard(testRNG(2))
	for _, c := range TriPrimeHexes {
		s, ok := b.SectorAt(c)
		require.True(t, ok)
		assert.Equal(t, 3, s.Level)
		assert.Equal(t, 4, s.Capacity())
	}
	for _, c := range BoundaryHexes {
		s, _ := b.SectorAt(c)
		assert.True(t, s.Boundary())
	}
}

func TestCardLevelCountsAreFixed(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		b := NewBoard(testRNG(seed))
		for _, label := range CardLabels {
			levels := map[int]int{}
			hexes := b.Cluster(label)
			for _, c := range hexes {
				s, _ := b.SectorAt(c)
				levels[s.Level]++
			}
			assert.Equal(t, 1, levels[2], "card %s seed %d", label, seed)
			assert.Equal(t, 2, levels[1], "card %s seed %d", label, seed)
			assert.Equal(t, len(hexes)-3, levels[0], "card %s seed %d", label, seed)
		}
	}
}

func TestSameSeedSameLayout(t *testing.T) {
	a := NewBoard(testRNG(42))
	b := NewBoard(testRNG(42))
	for _, c := range a.AllHexes() {
		sa, _ := a.SectorAt(c)
		sb, _ := b.SectorAt(c)
		assert.Equal(t, sa, sb, "%v", c)
	}
}

func TestBoardNeighborsStayOnBoard(t *testing.T) {
	b := NewBoard(testRNG(3))
	nbs := b.Neighbors(hex.Coord{})
	assert.Len(t, nbs, 6)
	for _, nb := range b.Neighbors(hex.MustNew(1, -5, 4)) {
		assert.True(t, b.Contains(nb))
	}
	_, ok := b.Membership(hex.MustNew(10, -10, 0))
	assert.False(t, ok)
	assert.Nil(t, b.Cluster("z"))
}

func TestCardSummaryMentionsEveryCard(t *testing.T) {
	out := NewBoard(testRNG(4)).CardSummary()
	for _, label := range CardLabels {
		assert.Contains(t, out, "Card "+label+":")
	}
}

func TestLedgerAddRemove(t *testing.T) {
	l := NewLedger()
	p, _ := models.NewPlayer(1, "Al")
	c := hex.MustNew(1, -1, 0)
	s1, s2 := p.NewShip(c), p.NewShip(c)

	require.NoError(t, l.AddShip(c, s1))
	require.NoError(t, l.AddShip(c, s2))
	occ, ok := l.InfoAt(c)
	require.True(t, ok)
	assert.Equal(t, models.PlayerID(1), occ.Owner)
	assert.Equal(t, []*models.Ship{s1, s2}, occ.Ships)
	assert.True(t, l.ControlsTriPrime(1))

	assert.True(t, l.RemoveShip(c, s1))
	assert.Equal(t, 1, l.Count(c))
	assert.True(t, l.RemoveShip(c, s2))
	_, ok = l.InfoAt(c)
	assert.False(t, ok, "empty hex keeps no entry")
	assert.False(t, l.RemoveShip(c, s2))
	assert.Empty(t, l.Occupied())
}

func TestLedgerRejectsMixedOwners(t *testing.T) {
	l := NewLedger()
	a, _ := models.NewPlayer(1, "Al")
	b, _ := models.NewPlayer(2, "Bo")
	c := hex.MustNew(0, -2, 2)

	require.NoError(t, l.AddShip(c, a.NewShip(c)))
	err := l.AddShip(c, b.NewShip(c))
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Equal(t, 1, l.Count(c))
}

func TestLedgerSnapshotIsDetached(t *testing.T) {
	l := NewLedger()
	p, _ := models.NewPlayer(3, "Cy")
	c := hex.MustNew(2, -3, 1)
	s := p.NewShip(c)
	require.NoError(t, l.AddShip(c, s))

	snap := l.Snapshot()
	l.RemoveShip(c, s)
	assert.Len(t, snap[c].Ships, 1)
	assert.Equal(t, []hex.Coord{c}, func() []hex.Coord {
		var out []hex.Coord
		for k := range snap {
			out = append(out, k)
		}
		return out
	}())
	assert.Empty(t, l.ControlledBy(3))
}
