package level

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floorGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	g.FillInterior(Floor)
	return g
}

func TestFindEmptyCellDeterministic(t *testing.T) {
	g := floorGrid(22, 16)
	a, okA := FindEmptyCell(g, rand.New(rand.NewPCG(1, 2)))
	b, okB := FindEmptyCell(g, rand.New(rand.NewPCG(1, 2)))
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
	assert.True(t, g.IsInterior(a))
}

func TestFindEmptyCellOnFullGrid(t *testing.T) {
	g := NewGrid(10, 10)
	g.FillInterior(MovableBlock)
	_, ok := FindEmptyCell(g, rand.New(rand.NewPCG(1, 2)))
	assert.False(t, ok)
}

func TestFindEmptyCellSingleFloor(t *testing.T) {
	g := NewGrid(4, 4)
	g.FillInterior(Wall)
	g.Set(Position{2, 1}, Floor)
	p, ok := FindEmptyCell(g, rand.New(rand.NewPCG(3, 4)))
	require.True(t, ok)
	assert.Equal(t, Position{2, 1}, p)
}

func TestFindEmptyCellNoInterior(t *testing.T) {
	for _, size := range []Params{{1, 1}, {2, 5}, {5, 2}} {
		_, ok := FindEmptyCell(NewGrid(size.Unpack()), rand.New(rand.NewPCG(1, 2)))
		assert.False(t, ok, size.String())
	}
}

func TestFindEmptyRect(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	g := floorGrid(22, 16)
	for range 50 {
		p, ok := FindEmptyRect(g, 5, 5, r)
		require.True(t, ok)
		assert.True(t, g.IsInterior(p))
		assert.True(t, g.IsInterior(p.Add(4, 4)))
	}
}

func TestFindEmptyRectDeterministic(t *testing.T) {
	g := floorGrid(22, 16)
	g.Set(Position{5, 5}, Wall)
	a, _ := FindEmptyRect(g, 4, 4, rand.New(rand.NewPCG(7, 7)))
	b, _ := FindEmptyRect(g, 4, 4, rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestFindEmptyRectTightFit(t *testing.T) {
	// 7x7 leaves exactly one anchor for a 5x5 block
	g := floorGrid(7, 7)
	p, ok := FindEmptyRect(g, 5, 5, rand.New(rand.NewPCG(1, 2)))
	require.True(t, ok)
	assert.Equal(t, Position{1, 1}, p)
}

func TestFindEmptyRectNotFound(t *testing.T) {
	tests := []struct {
		name string
		grid *Grid
		w, h int
	}{
		{"too small", floorGrid(6, 6), 5, 5},
		{"no interior", NewGrid(2, 2), 1, 1},
		{"zero size", floorGrid(10, 10), 0, 3},
		{"blocked", func() *Grid {
			g := floorGrid(12, 12)
			for y := 1; y < 11; y += 3 {
				for x := 1; x < 11; x++ {
					g.Set(Position{x, y}, Wall)
				}
			}
			return g
		}(), 4, 4},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, ok := FindEmptyRect(test.grid, test.w, test.h, rand.New(rand.NewPCG(1, 2)))
			assert.False(t, ok)
		})
	}
}
