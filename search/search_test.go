package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/position"
	"github.com/belikovartem/negamax/tt"
	"github.com/belikovartem/negamax/zobrist"
)

func TestMain(m *testing.M) {
	magic.Init()
	zobrist.Init()
	m.Run()
}

func newTable() *tt.Table {
	return tt.New(4)
}

func TestFindsMateInOne(t *testing.T) {
	// White to move: Re1-e8 is a back-rank mate. g8's own pawns block
	// f7/g7/h7, and with the king x-rayed out of the occupancy the rook
	// covers f8, g8 and h8 all at once.
	p := position.ParseFEN("6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1")
	table := newTable()
	var stop atomic.Bool

	result := Search(p, table, 1, 2*time.Second, &stop, nil)

	require.False(t, result.BestMove.IsNull())
	assert.Equal(t, "e1e8", result.BestMove.UCI())
	assert.GreaterOrEqual(t, result.Score, tt.IsMate)
}

func TestFindsHangingQueenCapture(t *testing.T) {
	p := position.ParseFEN("4k3/8/8/3q4/4Q3/8/8/4K3 w - - 0 1")
	table := newTable()
	var stop atomic.Bool

	result := Search(p, table, 2, 500*time.Millisecond, &stop, nil)

	require.False(t, result.BestMove.IsNull())
	assert.True(t, result.BestMove.IsCapture())
	assert.Equal(t, move.Queen, result.BestMove.Captured())
}

func TestStalemateScoresZero(t *testing.T) {
	p := position.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	table := newTable()
	var stop atomic.Bool

	result := Search(p, table, 1, 200*time.Millisecond, &stop, nil)

	assert.Equal(t, 0, result.Score)
	assert.True(t, result.BestMove.IsNull(), "no legal move exists to report")
}

func TestSearchRespectsExternalStop(t *testing.T) {
	p := position.ParseFEN(position.StartFEN)
	table := newTable()
	var stop atomic.Bool
	stop.Store(true)

	result := Search(p, table, 1, 0, &stop, nil)

	assert.False(t, result.BestMove.IsNull(), "should still fall back to a legal move")
}

func TestKillerTableTracksTwoMostRecent(t *testing.T) {
	var k killerTable
	a := move.New(8, 16, move.Pawn)
	b := move.New(9, 17, move.Pawn)
	c := move.New(10, 18, move.Pawn)

	k.Add(3, a)
	k.Add(3, b)
	got := k.At(3)
	assert.Equal(t, b, got[0])
	assert.Equal(t, a, got[1])

	k.Add(3, c)
	got = k.At(3)
	assert.Equal(t, c, got[0])
	assert.Equal(t, b, got[1])

	// Re-adding the current first killer is a no-op.
	k.Add(3, c)
	got = k.At(3)
	assert.Equal(t, c, got[0])
	assert.Equal(t, b, got[1])
}

func TestHistoryTableAccumulatesByDepthSquared(t *testing.T) {
	var h historyTable
	h.Add(move.White, 12, 28, 4)
	h.Add(move.White, 12, 28, 2)
	assert.Equal(t, int32(4*4+2*2), h.Get(move.White, 12, 28))
	assert.Equal(t, int32(0), h.Get(move.Black, 12, 28))
}

func TestAllocateTimeClampsBelowRemaining(t *testing.T) {
	alloc := AllocateTime(time.Second, 0)
	assert.Less(t, alloc, time.Second)
	assert.Greater(t, alloc, time.Duration(0))
}

func TestAllocateTimeNeverNegative(t *testing.T) {
	alloc := AllocateTime(100*time.Millisecond, 0)
	assert.GreaterOrEqual(t, alloc, time.Duration(0))
}

func TestScoreStringFormatsMateAndCentipawns(t *testing.T) {
	assert.Equal(t, "cp 37", scoreString(37))
	assert.Equal(t, "mate 1", scoreString(tt.Infinity-1))
	assert.Equal(t, "mate -1", scoreString(-(tt.Infinity - 1)))
}
