package level

import "math/rand/v2"

// SearchBudget is the number of random anchors tried before a region search
// gives up.
const SearchBudget = 100

// FindEmptyCell samples random interior cells and returns the first floor
// cell hit. ok is false once the search budget is spent.
func FindEmptyCell(g *Grid, r *rand.Rand) (pos Position, ok bool) {
	spanX, spanY := g.width-2, g.height-2
	if spanX < 1 || spanY < 1 {
		return Position{}, false
	}
	for range SearchBudget {
		p := Position{1 + r.IntN(spanX), 1 + r.IntN(spanY)}
		if g.Get(p) == Floor {
			return p, true
		}
	}
	return Position{}, false
}

// FindEmptyRect samples random anchors for a w*h block made only of floor.
// The returned position is the block's top-left corner. Anchors are drawn so
// that the block never touches the last row or column.
func FindEmptyRect(g *Grid, w, h int, r *rand.Rand) (pos Position, ok bool) {
	spanX, spanY := g.width-w-1, g.height-h-1
	if w <= 0 || h <= 0 || spanX < 1 || spanY < 1 {
		return Position{}, false
	}
	for range SearchBudget {
		p := Position{1 + r.IntN(spanX), 1 + r.IntN(spanY)}
		if g.isRectEmpty(p, w, h) {
			return p, true
		}
	}
	return Position{}, false
}

func (g *Grid) isRectEmpty(at Position, w, h int) bool {
	for dy := range h {
		for dx := range w {
			if g.Get(at.Add(dx, dy)) != Floor {
				return false
			}
		}
	}
	return true
}
