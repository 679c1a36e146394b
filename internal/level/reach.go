package level

import (
	"fmt"
)

/*
Analyzer answers reachability questions by breadth-first search from the
player's tile. It never writes to the grid. Holes are passable only while the
level has at least one movable block to plug them.
*/
type Analyzer struct {
	grid   TileReader
	start  Position
	blocks int
}

func NewAnalyzer(g TileReader, start Position, blocks int) *Analyzer {
	return &Analyzer{grid: g, start: start, blocks: blocks}
}

func (a *Analyzer) inBounds(p Position) bool {
	return 0 <= p.X && p.X < a.grid.Width() && 0 <= p.Y && p.Y < a.grid.Height()
}

// search runs a fresh BFS from the start tile and stops early once visit
// returns true.
func (a *Analyzer) search(visit func(Position) bool) {
	w := a.grid.Width()
	visited := make([]bool, w*a.grid.Height())
	visited[a.start.Y*w+a.start.X] = true
	queue := []Position{a.start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visit(cur) {
			return
		}
		for _, d := range neighbours {
			next := cur.Add(d.X, d.Y)
			if !a.inBounds(next) || visited[next.Y*w+next.X] {
				continue
			}
			if a.grid.Get(next).Passable(a.blocks) {
				visited[next.Y*w+next.X] = true
				queue = append(queue, next)
			}
		}
	}
}

func (a *Analyzer) IsTileReachable(target Position) (found bool) {
	a.search(func(p Position) bool {
		found = p == target
		return found
	})
	return
}

// CountReachable counts cells holding t that the player can reach. Each
// cell gets its own search.
func (a *Analyzer) CountReachable(t Tile) (count int) {
	for y := range a.grid.Height() {
		for x := range a.grid.Width() {
			p := Position{x, y}
			if a.grid.Get(p) == t && a.IsTileReachable(p) {
				count++
			}
		}
	}
	return
}

// Solvable reports whether every one of the crystals placed and the exit
// can be reached.
func (a *Analyzer) Solvable(crystals int, exit Position) bool {
	return a.CountReachable(Crystal) == crystals && a.IsTileReachable(exit)
}

// Reachable returns the set of cells the player can reach, indexed
// row-major.
func (a *Analyzer) Reachable() []bool {
	w := a.grid.Width()
	seen := make([]bool, w*a.grid.Height())
	a.search(func(p Position) bool {
		seen[p.Y*w+p.X] = true
		return false
	})
	return seen
}

type Report struct {
	Playable            bool       `json:"playable"`
	RequiredCrystals    int        `json:"required_crystals"`
	ReachableCrystals   int        `json:"reachable_crystals"`
	UnreachableCrystals []Position `json:"unreachable_crystals,omitempty"`
	ExitReachable       bool       `json:"exit_reachable"`
	Reasons             []string   `json:"reasons,omitempty"`
}

// Report explains why a level is or is not playable. A level is playable
// only when every crystal on the board and the exit can be reached and the
// board holds at least the required crystals, so Playable is false whenever
// Reasons is not empty. For generated levels, where the board holds exactly
// the crystals placed, the verdict matches [Analyzer.Solvable].
func (a *Analyzer) Report(crystals int, exit Position) *Report {
	w := a.grid.Width()
	seen := a.Reachable()
	r := &Report{RequiredCrystals: crystals}

	for y := range a.grid.Height() {
		for x := range w {
			p := Position{x, y}
			if a.grid.Get(p) != Crystal {
				continue
			}
			if seen[y*w+x] {
				r.ReachableCrystals++
			} else {
				r.UnreachableCrystals = append(r.UnreachableCrystals, p)
				r.Reasons = append(r.Reasons,
					fmt.Sprintf("player cannot reach crystal at %s", p))
			}
		}
	}
	if onBoard := r.ReachableCrystals + len(r.UnreachableCrystals); onBoard < crystals {
		r.Reasons = append(r.Reasons, fmt.Sprintf(
			"%d crystals required but %d on the board", crystals, onBoard,
		))
	}

	r.ExitReachable = a.inBounds(exit) && seen[exit.Y*w+exit.X]
	if !r.ExitReachable {
		r.Reasons = append(r.Reasons,
			fmt.Sprintf("player cannot reach exit at %s", exit))
	}

	r.Playable = len(r.Reasons) == 0
	return r
}

// Analyze inspects a finished grid whose player and exit are only known
// from their tiles, such as a level loaded from JSON.
func Analyze(g *Grid, requiredCrystals int) (*Report, error) {
	player, ok := g.Find(Player)
	if !ok {
		return nil, fmt.Errorf("grid has no player tile")
	}
	exit, ok := g.Find(Exit)
	if !ok {
		return nil, fmt.Errorf("grid has no exit tile")
	}
	a := NewAnalyzer(g, player, g.Count(MovableBlock))
	return a.Report(requiredCrystals, exit), nil
}
