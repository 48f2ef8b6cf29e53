package eval

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/position"
)

// passedBonusMG/EG are indexed by the pawn's rank relative to its own
// baseline (1 = second rank, 6 = about to promote); the closer to
// promotion, the larger the bonus, growing sharply in the endgame where
// a passed pawn is most dangerous.
var passedBonusMG = [8]int{0, 5, 10, 20, 35, 60, 95, 0}
var passedBonusEG = [8]int{0, 10, 20, 40, 70, 120, 180, 0}

const (
	isolatedMG = -5
	isolatedEG = -15
	doubledMG  = -10
	doubledEG  = -25
	// doubledIsolatedMG/EG are the distinct combined penalty spec §4.6
	// calls out, larger than the sum of the two individual terms in the
	// middlegame and equal to it in the endgame: a
	// doubled pawn that is also isolated has no friendly pawn anywhere
	// nearby to help it advance or be defended.
	doubledIsolatedMG = -20
	doubledIsolatedEG = -40
)

// fileMask/adjacentFileMask are the 8 files and, for each file, the union
// of its immediate neighbors, used by the isolated/passed tests below.
var fileMask [8]bitboard.Bitboard
var adjacentFileMask [8]bitboard.Bitboard

func init() {
	for f := 0; f < 8; f++ {
		var m bitboard.Bitboard
		for r := 0; r < 8; r++ {
			m = m.Set(bitboard.Square(r*8 + f))
		}
		fileMask[f] = m
	}
	for f := 0; f < 8; f++ {
		var m bitboard.Bitboard
		if f > 0 {
			m |= fileMask[f-1]
		}
		if f < 7 {
			m |= fileMask[f+1]
		}
		adjacentFileMask[f] = m
	}
}

// aheadMask returns the squares strictly ahead of sq (toward the
// opponent's baseline from side's perspective) on the given file mask.
func aheadMask(files bitboard.Bitboard, sq bitboard.Square, side move.Side) bitboard.Bitboard {
	var ranks bitboard.Bitboard
	if side == move.White {
		for r := sq.Rank() + 1; r < 8; r++ {
			ranks |= bitboard.Bitboard(0xFF) << uint(r*8)
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			ranks |= bitboard.Bitboard(0xFF) << uint(r*8)
		}
	}
	return files & ranks
}

func isPassed(p *position.Position, us move.Side, sq bitboard.Square) bool {
	them := us.Opponent()
	front := fileMask[sq.File()] | adjacentFileMask[sq.File()]
	return aheadMask(front, sq, us)&p.Bitboards[them][move.Pawn] == 0
}

func isIsolated(p *position.Position, us move.Side, sq bitboard.Square) bool {
	return adjacentFileMask[sq.File()]&p.Bitboards[us][move.Pawn] == 0
}

func isDoubled(p *position.Position, us move.Side, sq bitboard.Square) bool {
	forward := 8
	if us == move.Black {
		forward = -8
	}
	ahead := int(sq) + forward
	if ahead < 0 || ahead >= 64 {
		return false
	}
	return p.Bitboards[us][move.Pawn].Test(bitboard.Square(ahead))
}

func relativeRank(us move.Side, sq bitboard.Square) int {
	if us == move.White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

func pawnsMG(p *position.Position, us move.Side) int {
	score := 0
	for bb := p.Bitboards[us][move.Pawn]; bb != 0; {
		sq := bb.PopLSB()
		passed := isPassed(p, us, sq)
		isolated := isIsolated(p, us, sq)
		doubled := isDoubled(p, us, sq)

		if passed {
			score += passedBonusMG[relativeRank(us, sq)]
		}
		switch {
		case doubled && isolated:
			score += doubledIsolatedMG
		case doubled:
			score += doubledMG
		case isolated:
			score += isolatedMG
		}
	}
	return score
}

func pawnsEG(p *position.Position, us move.Side) int {
	score := 0
	for bb := p.Bitboards[us][move.Pawn]; bb != 0; {
		sq := bb.PopLSB()
		passed := isPassed(p, us, sq)
		isolated := isIsolated(p, us, sq)
		doubled := isDoubled(p, us, sq)

		if passed {
			score += passedBonusEG[relativeRank(us, sq)]
		}
		switch {
		case doubled && isolated:
			score += doubledIsolatedEG
		case doubled:
			score += doubledEG
		case isolated:
			score += isolatedEG
		}
	}
	return score
}
