package level

import "fmt"

type Tile uint8

const (
	Wall Tile = iota
	Floor
	Crystal
	MovableBlock
	Hole
	Player
	Exit
)

var symbols = [...]byte{
	Wall:         'w',
	Floor:        '.',
	Crystal:      'c',
	MovableBlock: 'm',
	Hole:         'h',
	Player:       'p',
	Exit:         'x',
}

// Symbol returns the single character used for t in serialized levels.
func (t Tile) Symbol() byte {
	if int(t) >= len(symbols) {
		return '?'
	}
	return symbols[t]
}

func (t Tile) String() string {
	return string(t.Symbol())
}

func ParseTile(c byte) (Tile, error) {
	for t, s := range symbols {
		if s == c {
			return Tile(t), nil
		}
	}
	return Wall, fmt.Errorf("unknown tile symbol %q", c)
}

// Passable reports whether the search may step onto t. Holes only count
// when some movable block exists to plug them.
func (t Tile) Passable(blocks int) bool {
	switch t {
	case Floor, Crystal, MovableBlock, Exit:
		return true
	case Hole:
		return blocks > 0
	default:
		return false
	}
}
