package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/position"
	"github.com/belikovartem/negamax/zobrist"
)

func TestMain(m *testing.M) {
	magic.Init()
	zobrist.Init()
	m.Run()
}

func TestInsufficientMaterialIsZero(t *testing.T) {
	p := position.ParseFEN("4k3/8/8/8/8/8/8/4KB2 w - - 0 1")
	assert.Equal(t, 0, Evaluate(p))
}

func TestStartPositionIsRoughlySymmetric(t *testing.T) {
	p := position.ParseFEN(position.StartFEN)
	score := Evaluate(p)
	assert.InDelta(t, 0, score, 40, "start position should be near-symmetric, got %d", score)
}

func TestExtraQueenIsWinning(t *testing.T) {
	p := position.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	score := Evaluate(p)
	require.Greater(t, score, 500)
}

func TestEvaluationIsSideRelative(t *testing.T) {
	// The two scores have opposite signs apart from the tempo bonus, which
	// each side receives when it is to move. With a lone queen the taper
	// phase is 213, so white scores 1252 and black -1245: the two tempo
	// bonuses (2*20 weighted by (256-213)/256) add 7 to the sum.
	white := position.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := position.ParseFEN("4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	assert.Equal(t, Evaluate(white), -Evaluate(black)+7)
}

func TestKBNvKDrivesTowardMatingCorner(t *testing.T) {
	// Light-squared bishop on d5 mates in the a8/h1 corners; a weak king
	// already trapped in a corner of the bishop's color should score
	// better for the attacker than one still in the center.
	cornered := position.ParseFEN("k7/8/8/3B4/8/2N5/8/7K w - - 0 1")
	centered := position.ParseFEN("3k4/8/8/3B4/8/2N5/8/7K w - - 0 1")
	require.Greater(t, Evaluate(cornered), Evaluate(centered))
}
