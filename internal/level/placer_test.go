package level

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault(t *testing.T) {
	for seed := range uint64(20) {
		g := floorGrid(7, 7)
		p := NewPlacer(rand.New(rand.NewPCG(seed, 1)), DefaultOptions())
		require.True(t, p.Vault(g))

		for i := range VaultSize {
			for _, edge := range []Position{{1 + i, 1}, {1 + i, 5}, {1, 1 + i}, {5, 1 + i}} {
				assert.Equal(t, Wall, g.Get(edge), "seed %d edge %s", seed, edge)
			}
		}

		center := Position{3, 3}
		assert.Equal(t, Crystal, g.Get(center))
		assert.Equal(t, 1, p.Crystals)
		assert.Equal(t, 1, g.Count(Crystal))

		holes := g.Positions(Hole)
		assert.GreaterOrEqual(t, len(holes), 1)
		assert.LessOrEqual(t, len(holes), 3)
		for _, h := range holes {
			dx, dy := h.X-center.X, h.Y-center.Y
			assert.Equal(t, 1, dx*dx+dy*dy, "hole %s not next to crystal", h)
		}

		// one loose block per hole; the 3x3 interior always has room left
		assert.Equal(t, len(holes), p.Blocks)
		assert.Equal(t, p.Blocks, g.Count(MovableBlock))
	}
}

func TestVaultNoRoom(t *testing.T) {
	g := floorGrid(6, 6)
	before := g.Rows()
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	assert.False(t, p.Vault(g))
	assert.Equal(t, before, g.Rows())
	assert.Zero(t, p.Crystals)
	assert.Zero(t, p.Blocks)
}

func TestDepot(t *testing.T) {
	g := floorGrid(6, 6)
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	require.True(t, p.Depot(g))
	assert.Equal(t, p.Blocks, g.Count(MovableBlock))
	assert.Equal(t, 16, g.Count(MovableBlock)+g.Count(Floor)+g.Count(Wall)-20)
	assert.Zero(t, p.Crystals)
}

func TestDepotOdds(t *testing.T) {
	const depots = 2000
	r := rand.New(rand.NewPCG(42, 42))
	var blocks, walls, floors int
	for range depots {
		g := floorGrid(6, 6)
		p := NewPlacer(r, DefaultOptions())
		require.True(t, p.Depot(g))
		blocks += g.Count(MovableBlock)
		walls += g.Count(Wall) - 20
		floors += g.Count(Floor)
	}
	cells := float64(depots * DepotSize * DepotSize)
	assert.InDelta(t, 0.70, float64(blocks)/cells, 0.02)
	assert.InDelta(t, 0.09, float64(walls)/cells, 0.015)
	assert.InDelta(t, 0.21, float64(floors)/cells, 0.02)
}

func TestLooseBlocks(t *testing.T) {
	g := floorGrid(10, 10)
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	assert.Equal(t, 5, p.LooseBlocks(g, 5))
	assert.Equal(t, 5, p.Blocks)
	assert.Equal(t, 5, g.Count(MovableBlock))

	full := NewGrid(10, 10)
	full.FillInterior(Crystal)
	assert.Zero(t, p.LooseBlocks(full, 3))
	assert.Equal(t, 5, p.Blocks)
}

func TestPassKeepsCounters(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	g := floorGrid(22, 16)
	p := NewPlacer(r, DefaultOptions())
	for range 5 {
		p.Pass(g)
	}
	assert.Equal(t, p.Crystals, g.Count(Crystal))
	assert.Equal(t, p.Blocks, g.Count(MovableBlock))
	for x := range g.Width() {
		assert.Equal(t, Wall, g.Get(Position{x, 0}))
		assert.Equal(t, Wall, g.Get(Position{x, g.Height() - 1}))
	}
}

func TestPlayerAndExit(t *testing.T) {
	g := floorGrid(8, 8)
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	player, exit, err := p.PlayerAndExit(g)
	require.NoError(t, err)
	assert.NotEqual(t, player, exit)
	assert.Equal(t, Player, g.Get(player))
	assert.Equal(t, Exit, g.Get(exit))
	assert.Equal(t, 1, g.Count(Player))
	assert.Equal(t, 1, g.Count(Exit))
}

func TestPlayerAndExitOnFullGrid(t *testing.T) {
	g := NewGrid(10, 10)
	g.FillInterior(MovableBlock)
	before := g.Rows()
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	_, _, err := p.PlayerAndExit(g)
	assert.ErrorIs(t, err, ErrMalformedAttempt)
	assert.Equal(t, before, g.Rows())
}

func TestPlayerWithoutRoomForExit(t *testing.T) {
	g := floorGrid(3, 3)
	p := NewPlacer(rand.New(rand.NewPCG(1, 2)), DefaultOptions())
	player, _, err := p.PlayerAndExit(g)
	assert.ErrorIs(t, err, ErrMalformedAttempt)
	assert.Equal(t, Position{1, 1}, player)
	assert.Zero(t, g.Count(Exit))
}
