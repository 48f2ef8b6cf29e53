package eval

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/position"
)

// mobilityBonusMG/EG give a centipawn bonus per attacked square in the
// mobility area, indexed [piece][count]. Knight/bishop/rook/queen only —
// pawns and king have their own terms. Values grow sub-linearly, as is
// standard for mobility tables: the first few available squares matter
// far more than the last few.
var mobilityBonusMG = [move.NumPieces][28]int{
	move.Knight: {-62, -53, -12, -4, 3, 13, 22, 28, 33},
	move.Bishop: {-48, -20, 16, 26, 38, 51, 55, 63, 63, 68, 81, 81, 91, 98},
	move.Rook:   {-60, -20, 2, 3, 3, 11, 22, 31, 40, 40, 41, 48, 57, 57, 62},
	move.Queen: {
		-30, -12, -8, -9, 20, 23, 23, 35, 38, 53, 64, 65, 65, 66, 67,
		67, 72, 72, 77, 79, 93, 108, 108, 108, 110, 114, 114, 116,
	},
}

var mobilityBonusEG = [move.NumPieces][28]int{
	move.Knight: {-81, -56, -30, -14, 8, 15, 23, 27, 33},
	move.Bishop: {-59, -23, -3, 13, 24, 42, 54, 57, 65, 73, 78, 86, 88, 97},
	move.Rook:   {-78, -17, 23, 39, 70, 99, 103, 121, 134, 139, 158, 164, 168, 169, 172},
	move.Queen: {
		-48, -30, -7, 13, 23, 42, 43, 47, 62, 68, 72, 78, 79, 88, 88,
		99, 102, 102, 106, 109, 113, 116, 124, 127, 131, 133, 136, 141,
	},
}

// mobilityArea returns the squares that count toward us's mobility
// bonuses per spec §4.6: the whole board minus squares attacked by
// opponent pawns, minus our own pawns still on ranks 2-3 from our
// baseline.
func mobilityArea(p *position.Position, us move.Side) bitboard.Bitboard {
	them := us.Opponent()
	theirPawnAttacks := pawnAttackSpan(p, them)

	blocked := bitboard.Bitboard(0x0000000000FFFF00) // ranks 2-3
	if us == move.Black {
		blocked = bitboard.Bitboard(0x00FFFF0000000000) // ranks 6-7
	}

	return ^theirPawnAttacks &^ (p.Bitboards[us][move.Pawn] & blocked)
}

func pawnAttackSpan(p *position.Position, side move.Side) bitboard.Bitboard {
	var span bitboard.Bitboard
	for bb := p.Bitboards[side][move.Pawn]; bb != 0; {
		span |= magic.Pawn(int(side), bb.PopLSB())
	}
	return span
}

// minorDefended returns the squares defended by side's knights/bishops,
// used to dock rook/queen mobility (spec §4.6: "minus squares defended by
// opponent minor pieces").
func minorDefended(p *position.Position, side move.Side) bitboard.Bitboard {
	occ := p.All
	var defended bitboard.Bitboard
	for bb := p.Bitboards[side][move.Knight]; bb != 0; {
		defended |= magic.Knight(bb.PopLSB())
	}
	for bb := p.Bitboards[side][move.Bishop]; bb != 0; {
		defended |= magic.Bishop(bb.PopLSB(), occ)
	}
	return defended
}

func pieceMobility(p *position.Position, us move.Side, piece move.Piece, table *[move.NumPieces][28]int) int {
	occ := p.All
	area := mobilityArea(p, us)
	dock := bitboard.Bitboard(0)
	if piece == move.Rook || piece == move.Queen {
		dock = minorDefended(p, us.Opponent())
	}

	score := 0
	for bb := p.Bitboards[us][piece]; bb != 0; {
		from := bb.PopLSB()
		var attacks bitboard.Bitboard
		switch piece {
		case move.Knight:
			attacks = magic.Knight(from)
		case move.Bishop:
			attacks = magic.Bishop(from, occ)
		case move.Rook:
			attacks = magic.Rook(from, occ)
		case move.Queen:
			attacks = magic.Queen(from, occ)
		}
		count := (attacks & area &^ dock).PopCount()
		score += table[piece][count]
	}
	return score
}

func mobilityMG(p *position.Position, us move.Side) int {
	return pieceMobility(p, us, move.Knight, &mobilityBonusMG) +
		pieceMobility(p, us, move.Bishop, &mobilityBonusMG) +
		pieceMobility(p, us, move.Rook, &mobilityBonusMG) +
		pieceMobility(p, us, move.Queen, &mobilityBonusMG)
}

func mobilityEG(p *position.Position, us move.Side) int {
	return pieceMobility(p, us, move.Knight, &mobilityBonusEG) +
		pieceMobility(p, us, move.Bishop, &mobilityBonusEG) +
		pieceMobility(p, us, move.Rook, &mobilityBonusEG) +
		pieceMobility(p, us, move.Queen, &mobilityBonusEG)
}
