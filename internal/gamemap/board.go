package gamemap

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/gravitas-games/triprime/pkg/hex"
)

// Sector is the tier of a hex. Level 0 is boundary space.
type Sector struct {
	Level int `json:"level"`
}

// Capacity returns how many ships the sector sustains.
func (s Sector) Capacity() int { return s.Level + 1 }

// Boundary reports whether ships may never enter the sector.
func (s Sector) Boundary() bool { return s.Level == 0 }

// Region classifies where a hex sits on the board.
type Region int

const (
	RegionCard Region = iota
	RegionTriPrime
	RegionBoundary
)

// String returns a human-readable representation of the region.
func (r Region) String() string {
	switch r {
	case RegionCard:
		return "Card"
	case RegionTriPrime:
		return "TriPrime"
	case RegionBoundary:
		return "Boundary"
	default:
		return "Unknown"
	}
}

// Membership tells which region a hex belongs to. Card is set only for RegionCard.
type Membership struct {
	Region Region
	Card   string
}

// TriPrimeHexes are the four level-3 hexes at the centre of the map.
var TriPrimeHexes = []hex.Coord{
	hex.MustNew(0, 0, 0),
	hex.MustNew(1, -1, 0),
	hex.MustNew(0, -1, 1),
	hex.MustNew(1, 0, -1),
}

// BoundaryHexes are the fixed level-0 hexes.
var BoundaryHexes = []hex.Coord{
	hex.MustNew(0, -3, 3),
	hex.MustNew(-2, -1, 3),
	hex.MustNew(1, -2, 1),
	hex.MustNew(-1, 0, 1),
	hex.MustNew(2, -1, -1),
	hex.MustNew(0, 1, -1),
	hex.MustNew(3, 0, -3),
	hex.MustNew(1, 2, -3),
}

// CardLabels lists the sector cards in draft order.
var CardLabels = []string{"a", "b", "c", "d", "e", "f", "g", "h"}

var cardHexes = map[string][]hex.Coord{
	"a": {hex.MustNew(1, -5, 4), hex.MustNew(0, -4, 4), hex.MustNew(1, -4, 3), hex.MustNew(2, -4, 2), hex.MustNew(1, -3, 2)},
	"b": {hex.MustNew(-1, -3, 4), hex.MustNew(-2, -2, 4), hex.MustNew(-1, -2, 3), hex.MustNew(0, -2, 2), hex.MustNew(-1, -1, 2)},
	"c": {hex.MustNew(-3, -1, 4), hex.MustNew(-4, 0, 4), hex.MustNew(-3, 0, 3), hex.MustNew(-2, 0, 2), hex.MustNew(-3, 1, 2)},
	"d": {hex.MustNew(2, -3, 1), hex.MustNew(3, -3, 0), hex.MustNew(2, -2, 0), hex.MustNew(3, -2, -1)},
	"e": {hex.MustNew(-2, 1, 1), hex.MustNew(-1, 1, 0), hex.MustNew(-2, 2, 0), hex.MustNew(-1, 2, -1)},
	"f": {hex.MustNew(4, -2, -2), hex.MustNew(3, -1, -2), hex.MustNew(4, -1, -3), hex.MustNew(5, -1, -4), hex.MustNew(4, 0, -4)},
	"g": {hex.MustNew(2, 0, -2), hex.MustNew(1, 1, -2), hex.MustNew(2, 1, -3), hex.MustNew(3, 1, -4), hex.MustNew(2, 2, -4)},
	"h": {hex.MustNew(0, 2, -2), hex.MustNew(-1, 3, -2), hex.MustNew(0, 3, -3), hex.MustNew(1, 3, -4), hex.MustNew(0, 4, -4)},
}

// Board maps every hex of the galaxy to its sector. It is immutable after New.
type Board struct {
	sectors map[hex.Coord]Sector
}

// NewBoard lays out the Tri-Prime and boundary hexes, then deals each card's
// sector levels in an order drawn from rng.
func NewBoard(rng *rand.Rand) *Board {
	b := &Board{sectors: make(map[hex.Coord]Sector)}

	for _, c := range TriPrimeHexes {
		b.sectors[c] = Sector{Level: 3}
	}
	for _, c := range BoundaryHexes {
		b.sectors[c] = Sector{Level: 0}
	}
	for _, label := range CardLabels {
		b.dealCard(cardHexes[label], rng)
	}
	return b
}

// dealCard shuffles one level-2, two level-1 and level-0 filler over hexes,
// leaving coordinates that are already placed untouched.
func (b *Board) dealCard(hexes []hex.Coord, rng *rand.Rand) {
	levels := []int{2, 1, 1}
	for len(levels) < len(hexes) {
		levels = append(levels, 0)
	}
	rng.Shuffle(len(levels), func(i, j int) { levels[i], levels[j] = levels[j], levels[i] })

	for i, c := range hexes {
		if _, placed := b.sectors[c]; placed {
			continue
		}
		b.sectors[c] = Sector{Level: levels[i]}
	}
}

// SectorAt returns the sector at c.
func (b *Board) SectorAt(c hex.Coord) (Sector, bool) {
	s, ok := b.sectors[c]
	return s, ok
}

// Contains reports whether c is on the board.
func (b *Board) Contains(c hex.Coord) bool {
	_, ok := b.sectors[c]
	return ok
}

// AllHexes returns every coordinate on the board in a stable order.
func (b *Board) AllHexes() []hex.Coord {
	out := make([]hex.Coord, 0, len(b.sectors))
	for c := range b.sectors {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}

// Neighbors returns the neighbours of c that exist on the board.
func (b *Board) Neighbors(c hex.Coord) []hex.Coord {
	out := make([]hex.Coord, 0, 6)
	for _, nb := range c.Neighbors() {
		if b.Contains(nb) {
			out = append(out, nb)
		}
	}
	return out
}

// Cluster returns the hexes of a card, or nil for an unknown label.
func (b *Board) Cluster(label string) []hex.Coord {
	hexes := cardHexes[label]
	if hexes == nil {
		return nil
	}
	return append([]hex.Coord(nil), hexes...)
}

// IsTriPrime reports whether c is one of the Tri-Prime hexes.
func IsTriPrime(c hex.Coord) bool {
	for _, t := range TriPrimeHexes {
		if t == c {
			return true
		}
	}
	return false
}

// Membership derives the region of c. ok is false for hexes off the board.
func (b *Board) Membership(c hex.Coord) (Membership, bool) {
	if !b.Contains(c) {
		return Membership{}, false
	}
	if IsTriPrime(c) {
		return Membership{Region: RegionTriPrime}, true
	}
	for _, bc := range BoundaryHexes {
		if bc == c {
			return Membership{Region: RegionBoundary}, true
		}
	}
	for _, label := range CardLabels {
		for _, cc := range cardHexes[label] {
			if cc == c {
				return Membership{Region: RegionCard, Card: label}, true
			}
		}
	}
	return Membership{}, false
}

// CardSummary describes how many hexes of each card sit at each level.
func (b *Board) CardSummary() string {
	var sb strings.Builder
	for _, label := range CardLabels {
		byLevel := map[int][]hex.Coord{}
		for _, c := range cardHexes[label] {
			lvl := b.sectors[c].Level
			byLevel[lvl] = append(byLevel[lvl], c)
		}
		fmt.Fprintf(&sb, "Card %s:", label)
		for lvl := 3; lvl >= 0; lvl-- {
			if len(byLevel[lvl]) == 0 {
				continue
			}
			fmt.Fprintf(&sb, " L%d x%d %v;", lvl, len(byLevel[lvl]), byLevel[lvl])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SortCoords orders coordinates by q, then r.
func SortCoords(cs []hex.Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Q != cs[j].Q {
			return cs[i].Q < cs[j].Q
		}
		return cs[i].R < cs[j].R
	})
}
