/*
Package eval implements the tapered static evaluator: material and
piece-square terms are read straight off position's incremental
accumulators, mobility and pawn structure are computed fresh each call,
and the result is interpolated between middlegame and endgame scores by
the position's phase counter. The material-draw shortcut and the
KBN-vs-K corner-drive are checked before any of that, the same order
the original engine applies them in (eval.rs's static_eval).
*/
package eval

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/position"
)

const tempo = 20

// Evaluate returns a signed centipawn score from the side-to-move's
// viewpoint.
func Evaluate(p *position.Position) int {
	if p.IsInsufficientMaterial() {
		return 0
	}
	if score, ok := kbnVsK(p); ok {
		return score
	}

	us := p.Side
	them := us.Opponent()

	mg := p.MGScore(us) + mobilityMG(p, us) - mobilityMG(p, them) + pawnsMG(p, us) - pawnsMG(p, them) + tempo
	eg := p.EGScore(us) + mobilityEG(p, us) - mobilityEG(p, them) + pawnsEG(p, us) - pawnsEG(p, them)

	phase := p.TaperPhase()
	return (mg*(256-phase) + eg*phase) / 256
}

// kbnVsK scores the degenerate king+bishop+knight vs lone king ending by
// driving the defending king toward the mating corner that matches the
// attacking bishop's square color, per spec §4.6.
func kbnVsK(p *position.Position) (int, bool) {
	var strong, weak move.Side
	switch {
	case isLoneKing(p, move.White) && hasExactlyKBN(p, move.Black):
		strong, weak = move.Black, move.White
	case isLoneKing(p, move.Black) && hasExactlyKBN(p, move.White):
		strong, weak = move.White, move.Black
	default:
		return 0, false
	}

	weakKing := p.KingSquare(weak)
	strongKing := p.KingSquare(strong)
	bishopSq := p.Bitboards[strong][move.Bishop].LSB()

	lightSquaredCorners := bishopIsLightSquared(bishopSq)
	cornerDist := cornerDistance(weakKing, lightSquaredCorners)
	kingDist := manhattanDistance(weakKing, strongKing)

	score := 1600 - 40*cornerDist - 10*kingDist
	if p.Side != strong {
		score = -score
	}
	return score, true
}

func isLoneKing(p *position.Position, side move.Side) bool {
	return p.Occupancy(side) == p.Bitboards[side][move.King]
}

func hasExactlyKBN(p *position.Position, side move.Side) bool {
	return p.Bitboards[side][move.Bishop].PopCount() == 1 &&
		p.Bitboards[side][move.Knight].PopCount() == 1 &&
		p.Bitboards[side][move.Rook] == 0 && p.Bitboards[side][move.Queen] == 0 &&
		p.Bitboards[side][move.Pawn] == 0
}

func bishopIsLightSquared(sq bitboard.Square) bool {
	return (int(sq.Rank())+int(sq.File()))%2 == 1
}

// cornerDistance returns the smaller of the two Manhattan distances from
// sq to the pair of same-colored corners (a8/h1 are the light corners,
// a1/h8 the dark ones), driving the lone king toward whichever corner the
// bishop can actually cover.
func cornerDistance(sq bitboard.Square, light bool) int {
	a1, h8 := bitboard.Square(0), bitboard.Square(63)
	a8, h1 := bitboard.Square(56), bitboard.Square(7)
	if light {
		return min(manhattanDistance(sq, a8), manhattanDistance(sq, h1))
	}
	return min(manhattanDistance(sq, a1), manhattanDistance(sq, h8))
}

func manhattanDistance(a, b bitboard.Square) int {
	dr := a.Rank() - b.Rank()
	if dr < 0 {
		dr = -dr
	}
	df := a.File() - b.File()
	if df < 0 {
		df = -df
	}
	return dr + df
}
