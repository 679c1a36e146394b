package level

import (
	"fmt"
	"strings"
)

type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (p Position) Add(dx, dy int) Position {
	return Position{p.X + dx, p.Y + dy}
}

// TileReader is the read-only view of a grid used by the analyzer.
type TileReader interface {
	Width() int
	Height() int
	Get(p Position) Tile
}

/*
Grid is a row-major width*height tile surface. The outer ring is wall for
every grid produced by the generator; only the interior is ever floor.
*/
type Grid struct {
	width, height int
	tiles         []Tile
}

// NewGrid returns an all-wall grid. Sizes without an interior are accepted,
// the generator simply never finds room on them.
//
// panics [AssertionError]
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(AssertionError{fmt.Sprintf("invalid grid size %dx%d", width, height)})
	}
	// Wall is the zero Tile
	return &Grid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(p Position) bool {
	return 0 <= p.X && p.X < g.width && 0 <= p.Y && p.Y < g.height
}

// IsInterior reports whether p lies strictly inside the outer wall ring.
func (g *Grid) IsInterior(p Position) bool {
	return 0 < p.X && p.X < g.width-1 && 0 < p.Y && p.Y < g.height-1
}

func (g *Grid) index(p Position) int {
	if !g.InBounds(p) {
		panic(AssertionError{fmt.Sprintf(
			"position %s outside %dx%d grid", p, g.width, g.height,
		)})
	}
	return p.Y*g.width + p.X
}

// panics [AssertionError]
func (g *Grid) Get(p Position) Tile {
	return g.tiles[g.index(p)]
}

// panics [AssertionError]
func (g *Grid) Set(p Position, t Tile) {
	g.tiles[g.index(p)] = t
}

// FillInterior sets every interior cell to t.
func (g *Grid) FillInterior(t Tile) {
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			g.tiles[y*g.width+x] = t
		}
	}
}

// Count returns the number of cells holding t.
func (g *Grid) Count(t Tile) (count int) {
	for _, tile := range g.tiles {
		if tile == t {
			count++
		}
	}
	return
}

// Find returns the first cell holding t in row-major order.
func (g *Grid) Find(t Tile) (Position, bool) {
	for i, tile := range g.tiles {
		if tile == t {
			return Position{i % g.width, i / g.width}, true
		}
	}
	return Position{}, false
}

// Positions returns every cell holding t in row-major order.
func (g *Grid) Positions(t Tile) (ps []Position) {
	for i, tile := range g.tiles {
		if tile == t {
			ps = append(ps, Position{i % g.width, i / g.width})
		}
	}
	return
}

// Rows renders the grid as one symbol string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	buf := make([]byte, g.width)
	for y := range g.height {
		for x := range g.width {
			buf[x] = g.tiles[y*g.width+x].Symbol()
		}
		rows[y] = string(buf)
	}
	return rows
}

func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.Rows() {
		for _, c := range []byte(row) {
			b.WriteByte(c)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseRows builds a grid from symbol rows of equal length.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf(
				"row %d has %d tiles, expected %d", y, len(row), width,
			)
		}
		for x := range width {
			t, err := ParseTile(row[x])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			g.tiles[y*width+x] = t
		}
	}
	return g, nil
}
