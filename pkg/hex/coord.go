package hex

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned when q+r+s != 0.
var ErrInvalidCoordinate = errors.New("invalid cube coordinate")

// Coord represents cube coordinates (q, r, s) with q+r+s=0.
// The zero value is the origin.
type Coord struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
	S int `json:"s" yaml:"s"`
}

// Axial represents axial coordinates (q, r) for pointy-top orientation.
type Axial struct {
	Q int
	R int
}

// Directions holds the six cube offsets, starting east and going counter-clockwise.
var Directions = [6]Coord{
	{+1, -1, 0}, {+1, 0, -1}, {0, +1, -1},
	{-1, +1, 0}, {-1, 0, +1}, {0, -1, +1},
}

// New builds a coordinate, failing when q+r+s != 0.
func New(q, r, s int) (Coord, error) {
	if q+r+s != 0 {
		return Coord{}, fmt.Errorf("%w: (%d, %d, %d) sums to %d", ErrInvalidCoordinate, q, r, s, q+r+s)
	}
	return Coord{Q: q, R: r, S: s}, nil
}

// MustNew is New for fixed tables; it panics on a malformed triple.
func MustNew(q, r, s int) Coord {
	c, err := New(q, r, s)
	if err != nil {
		panic(err)
	}
	return c
}

// Valid reports whether the cube constraint holds.
func (c Coord) Valid() bool { return c.Q+c.R+c.S == 0 }

// Add returns c+d.
func (c Coord) Add(d Coord) Coord { return Coord{c.Q + d.Q, c.R + d.R, c.S + d.S} }

// Neighbors returns the six cube-adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var out [6]Coord
	for i, d := range Directions {
		out[i] = c.Add(d)
	}
	return out
}

// IsNeighbor reports whether o is at cube distance 1.
func (c Coord) IsNeighbor(o Coord) bool {
	dq, dr, ds := abs(c.Q-o.Q), abs(c.R-o.R), abs(c.S-o.S)
	return dq+dr+ds == 2 && dq <= 1 && dr <= 1 && ds <= 1
}

// Distance returns the hex distance between c and o.
func (c Coord) Distance(o Coord) int {
	return (abs(c.Q-o.Q) + abs(c.R-o.R) + abs(c.S-o.S)) / 2
}

// ToAxial drops the redundant s component.
func (c Coord) ToAxial() Axial { return Axial{Q: c.Q, R: c.R} }

// ToCube converts axial to cube.
func (a Axial) ToCube() Coord { return Coord{Q: a.Q, R: a.R, S: -a.Q - a.R} }

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Q, c.R, c.S)
}

// Parse reads "q r s", "q,r,s" or "(q, r, s)".
func Parse(text string) (Coord, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '\t'
	})
	if len(fields) != 3 {
		return Coord{}, fmt.Errorf("expected three components, got %d", len(fields))
	}
	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Coord{}, fmt.Errorf("component %d: %w", i+1, err)
		}
		v[i] = n
	}
	return New(v[0], v[1], v[2])
}

// ToPixel converts to pixel coordinates for a pointy-top layout.
// size is the hex radius (corner to center) in pixels.
func ToPixel(c Coord, size float64) (x, y float64) {
	a := c.ToAxial()
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = size * math.Sqrt(3) * (float64(a.Q) + float64(a.R)/2.0)
	y = size * 1.5 * float64(a.R)
	return
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
