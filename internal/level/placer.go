package level

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

const (
	VaultSize = 5
	DepotSize = 4
)

var neighbours = [4]Position{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

/*
Placer stamps features onto a grid and keeps the crystal and movable block
totals of everything it placed. A fresh Placer is used for every attempt.
*/
type Placer struct {
	rnd  *rand.Rand
	opts Options

	Crystals int
	Blocks   int
}

func NewPlacer(r *rand.Rand, opts Options) *Placer {
	return &Placer{rnd: r, opts: opts}
}

// Vault carves a walled 5x5 box with a crystal in the middle and one to
// three holes next to it. Every hole gets a loose block somewhere else on
// the grid. Returns false if no room was found.
func (p *Placer) Vault(g *Grid) bool {
	at, ok := FindEmptyRect(g, VaultSize, VaultSize, p.rnd)
	if !ok {
		Log.Debug("no room for a vault")
		return false
	}

	for dy := range VaultSize {
		for dx := range VaultSize {
			t := Floor
			if dx == 0 || dx == VaultSize-1 || dy == 0 || dy == VaultSize-1 {
				t = Wall
			}
			g.Set(at.Add(dx, dy), t)
		}
	}

	center := at.Add(VaultSize/2, VaultSize/2)
	g.Set(center, Crystal)
	p.Crystals++

	dirs := neighbours
	p.rnd.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	holes := 1 + p.rnd.IntN(3)
	for _, d := range dirs[:holes] {
		g.Set(center.Add(d.X, d.Y), Hole)
		p.LooseBlocks(g, 1)
	}

	Log.WithFields(logrus.Fields{
		"at":    at,
		"holes": holes,
	}).Debug("placed vault")
	return true
}

// Depot fills a 4x4 floor region with movable blocks and the odd wall. Each
// cell takes two independent draws: block below DepotBlockChance, otherwise
// wall below DepotWallChance, otherwise it stays floor.
func (p *Placer) Depot(g *Grid) bool {
	at, ok := FindEmptyRect(g, DepotSize, DepotSize, p.rnd)
	if !ok {
		Log.Debug("no room for a depot")
		return false
	}

	for dy := range DepotSize {
		for dx := range DepotSize {
			cell := at.Add(dx, dy)
			if p.rnd.Float64() < p.opts.DepotBlockChance {
				g.Set(cell, MovableBlock)
				p.Blocks++
			} else if p.rnd.Float64() < p.opts.DepotWallChance {
				g.Set(cell, Wall)
			}
		}
	}

	Log.WithField("at", at).Debug("placed depot")
	return true
}

// LooseBlocks drops up to n movable blocks on random floor cells. Misses
// are skipped.
func (p *Placer) LooseBlocks(g *Grid, n int) (placed int) {
	for range n {
		cell, ok := FindEmptyCell(g, p.rnd)
		if !ok {
			continue
		}
		g.Set(cell, MovableBlock)
		p.Blocks++
		placed++
	}
	return
}

// Pass places either a vault or a depot with equal odds.
func (p *Placer) Pass(g *Grid) bool {
	if p.rnd.IntN(2) == 0 {
		return p.Vault(g)
	}
	return p.Depot(g)
}

// PlayerAndExit puts the player on a random floor cell, then the exit on
// another one. The exit search runs after the player tile is written, so the
// two never share a cell.
func (p *Placer) PlayerAndExit(g *Grid) (player, exit Position, err error) {
	player, ok := FindEmptyCell(g, p.rnd)
	if !ok {
		return player, exit, ErrMalformedAttempt
	}
	g.Set(player, Player)

	exit, ok = FindEmptyCell(g, p.rnd)
	if !ok {
		return player, exit, ErrMalformedAttempt
	}
	g.Set(exit, Exit)

	return player, exit, nil
}
