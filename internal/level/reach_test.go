package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the crystal at (3, 3) is only reachable through the hole below it
var sealedVault = []string{
	"wwwwwww",
	"wp..x.w",
	"w.www.w",
	"w.wcw.w",
	"w.whw.w",
	"w.....w",
	"wwwwwww",
}

func TestHoleNeedsBlocks(t *testing.T) {
	g := mustParse(t, sealedVault...)
	player, exit := Position{1, 1}, Position{4, 1}

	noBlocks := NewAnalyzer(g, player, 0)
	assert.False(t, noBlocks.IsTileReachable(Position{3, 3}))
	assert.True(t, noBlocks.IsTileReachable(exit))
	assert.Equal(t, 0, noBlocks.CountReachable(Crystal))
	assert.False(t, noBlocks.Solvable(1, exit))

	withBlock := NewAnalyzer(g, player, 1)
	assert.True(t, withBlock.IsTileReachable(Position{3, 3}))
	assert.Equal(t, 1, withBlock.CountReachable(Crystal))
	assert.True(t, withBlock.Solvable(1, exit))
}

func TestSolvableIsIdempotent(t *testing.T) {
	g := mustParse(t, sealedVault...)
	before := g.Rows()
	a := NewAnalyzer(g, Position{1, 1}, 1)
	first := a.Solvable(1, Position{4, 1})
	second := a.Solvable(1, Position{4, 1})
	assert.Equal(t, first, second)
	assert.Equal(t, before, g.Rows())
}

func TestWallsBlock(t *testing.T) {
	g := mustParse(t,
		"wwwwwww",
		"wp.w.xw",
		"w..wc.w",
		"wwwwwww",
	)
	a := NewAnalyzer(g, Position{1, 1}, 5)
	assert.False(t, a.IsTileReachable(Position{5, 1}))
	assert.False(t, a.Solvable(1, Position{5, 1}))
	assert.True(t, a.IsTileReachable(Position{2, 2}))
	assert.True(t, a.IsTileReachable(Position{1, 1}))
}

func TestBlocksAndCrystalsArePassable(t *testing.T) {
	g := mustParse(t,
		"wwwwwww",
		"wpmcmxw",
		"wwwwwww",
	)
	a := NewAnalyzer(g, Position{1, 1}, 2)
	assert.True(t, a.IsTileReachable(Position{5, 1}))
	assert.Equal(t, 2, a.CountReachable(MovableBlock))
}

func TestCrystalCountMismatch(t *testing.T) {
	g := mustParse(t,
		"wwwwww",
		"wpc.xw",
		"wwwwww",
	)
	a := NewAnalyzer(g, Position{1, 1}, 0)
	assert.True(t, a.Solvable(1, Position{4, 1}))
	assert.False(t, a.Solvable(2, Position{4, 1}))

	r := a.Report(2, Position{4, 1})
	assert.False(t, r.Playable)
	assert.Equal(t, []string{"2 crystals required but 1 on the board"}, r.Reasons)
}

func TestReport(t *testing.T) {
	g := mustParse(t, sealedVault...)
	a := NewAnalyzer(g, Position{1, 1}, 0)

	r := a.Report(1, Position{4, 1})
	assert.False(t, r.Playable)
	assert.Equal(t, 0, r.ReachableCrystals)
	assert.Equal(t, []Position{{3, 3}}, r.UnreachableCrystals)
	assert.True(t, r.ExitReachable)
	assert.Equal(t, []string{"player cannot reach crystal at (3, 3)"}, r.Reasons)
	assert.Equal(t, a.Solvable(1, Position{4, 1}), r.Playable)

	ok := NewAnalyzer(g, Position{1, 1}, 1).Report(1, Position{4, 1})
	assert.True(t, ok.Playable)
	assert.Empty(t, ok.Reasons)
}

func TestReportSurplusCrystalUnreachable(t *testing.T) {
	// one crystal required, but the second one on the board is walled off
	g := mustParse(t,
		"wwwwwww",
		"wpc.xww",
		"wwwwwcw",
		"wwwwwww",
	)
	r, err := Analyze(g, 1)
	require.NoError(t, err)
	assert.False(t, r.Playable)
	assert.Equal(t, 1, r.ReachableCrystals)
	assert.Equal(t, []Position{{5, 2}}, r.UnreachableCrystals)
	assert.True(t, r.ExitReachable)
	assert.Equal(t, []string{"player cannot reach crystal at (5, 2)"}, r.Reasons)
}

func TestReportMissingAndUnreachableCrystals(t *testing.T) {
	g := mustParse(t, sealedVault...)
	r := NewAnalyzer(g, Position{1, 1}, 0).Report(3, Position{4, 1})
	assert.False(t, r.Playable)
	assert.Equal(t, []string{
		"player cannot reach crystal at (3, 3)",
		"3 crystals required but 1 on the board",
	}, r.Reasons)
}

func TestReportPlayableIffNoReasons(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		crystals int
	}{
		{"solvable", []string{"wwwwww", "wpc.xw", "wwwwww"}, 1},
		{"surplus reachable", []string{"wwwwww", "wpccxw", "wwwwww"}, 1},
		{"too few", []string{"wwwwww", "wpc.xw", "wwwwww"}, 2},
		{"exit walled", []string{"wwwwww", "wpcwxw", "wwwwww"}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := Analyze(mustParse(t, test.rows...), test.crystals)
			require.NoError(t, err)
			assert.Equal(t, len(r.Reasons) == 0, r.Playable)
		})
	}
}

func TestReportUnreachableExit(t *testing.T) {
	g := mustParse(t,
		"wwwwww",
		"wp.wxw",
		"wwwwww",
	)
	r := NewAnalyzer(g, Position{1, 1}, 0).Report(0, Position{4, 1})
	assert.False(t, r.Playable)
	assert.False(t, r.ExitReachable)
	assert.Equal(t, []string{"player cannot reach exit at (4, 1)"}, r.Reasons)
}

func TestAnalyze(t *testing.T) {
	rows := append([]string(nil), sealedVault...)
	g := mustParse(t, rows...)
	r, err := Analyze(g, 1)
	require.NoError(t, err)
	assert.False(t, r.Playable)

	rows[5] = "w..m..w"
	g = mustParse(t, rows...)
	r, err = Analyze(g, 1)
	require.NoError(t, err)
	assert.True(t, r.Playable)

	_, err = Analyze(mustParse(t, "www", "w.w", "www"), 0)
	assert.Error(t, err)
}
