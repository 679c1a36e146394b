package level

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Level is an accepted grid together with what a game needs to run it.
type Level struct {
	Grid             *Grid
	RequiredCrystals int
	Player, Exit     Position
	Attempts         int
	Seed             uint64
}

func (l *Level) Params() Params {
	return Params{l.Grid.Width(), l.Grid.Height()}
}

// Analyzer returns an analyzer over the level using its own block census.
func (l *Level) Analyzer() *Analyzer {
	return NewAnalyzer(l.Grid, l.Player, l.Grid.Count(MovableBlock))
}

type levelJSON struct {
	Tiles            [][]string `json:"tiles"`
	RequiredCrystals int        `json:"required_crystals"`
}

// [Level] implements [json.Marshaler]
func (l Level) MarshalJSON() ([]byte, error) {
	rows := l.Grid.Rows()
	tiles := make([][]string, len(rows))
	for y, row := range rows {
		tiles[y] = make([]string, len(row))
		for x := range len(row) {
			tiles[y][x] = row[x : x+1]
		}
	}
	return json.Marshal(levelJSON{
		Tiles:            tiles,
		RequiredCrystals: l.RequiredCrystals,
	})
}

// UnmarshalJSON restores the grid and recovers player and exit positions
// from their tiles. Attempts and Seed are not part of the JSON form.
func (l *Level) UnmarshalJSON(data []byte) error {
	var v levelJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	rows := make([]string, len(v.Tiles))
	for y, row := range v.Tiles {
		var b bytes.Buffer
		for x, s := range row {
			if len(s) != 1 {
				return fmt.Errorf("tile at row %d col %d: want one symbol, got %q", y, x, s)
			}
			b.WriteString(s)
		}
		rows[y] = b.String()
	}
	g, err := ParseRows(rows)
	if err != nil {
		return err
	}
	*l = Level{Grid: g, RequiredCrystals: v.RequiredCrystals}
	l.Player, _ = g.Find(Player)
	l.Exit, _ = g.Find(Exit)
	return nil
}

type levelState struct {
	Rows             []string
	RequiredCrystals int
	Player, Exit     Position
	Attempts         int
	Seed             uint64
}

func DecodeLevel(buf []byte) (*Level, error) {
	var s levelState
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	g, err := ParseRows(s.Rows)
	if err != nil {
		return nil, fmt.Errorf("invalid level state: %w", err)
	}
	return &Level{
		Grid:             g,
		RequiredCrystals: s.RequiredCrystals,
		Player:           s.Player,
		Exit:             s.Exit,
		Attempts:         s.Attempts,
		Seed:             s.Seed,
	}, nil
}

func (l Level) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(levelState{
		Rows:             l.Grid.Rows(),
		RequiredCrystals: l.RequiredCrystals,
		Player:           l.Player,
		Exit:             l.Exit,
		Attempts:         l.Attempts,
		Seed:             l.Seed,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
