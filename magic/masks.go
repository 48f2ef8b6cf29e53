/*
Package magic implements the precomputed sliding-piece attack lookup
described in spec.md §4.2: for each square and each of {rook, bishop}, a
blocker mask, a magic multiplier, an index-bit width, and a flat attack
table indexed by (blockers & mask) * magic >> (64 - bits).

It also precomputes knight/king/pawn attack tables and the square-to-square
ray tables used by movegen's pin/check-mask computation (spec.md §9,
"precompute a 64x64 'ray from A to B' table").
*/
package magic

import "github.com/belikovartem/negamax/bitboard"

const (
	notAFile  bitboard.Bitboard = 0xFEFEFEFEFEFEFEFE
	notHFile  bitboard.Bitboard = 0x7F7F7F7F7F7F7F7F
	notABFile bitboard.Bitboard = 0xFCFCFCFCFCFCFCFC
	notGHFile bitboard.Bitboard = 0x3F3F3F3F3F3F3F3F
	not1Rank  bitboard.Bitboard = 0xFFFFFFFFFFFFFF00
	not8Rank  bitboard.Bitboard = 0x00FFFFFFFFFFFFFF
)

// bishopRelevantOccupancy returns the bishop blocker mask for sq: the
// diagonal rays, excluding the edge squares that can never block further
// movement (spec.md §4.2).
func bishopRelevantOccupancy(sq bitboard.Square) bitboard.Bitboard {
	var occ bitboard.Bitboard
	bishop := sq.Mask()
	notANot1 := notAFile & not1Rank
	notHNot1 := notHFile & not1Rank
	notANot8 := notAFile & not8Rank
	notHNot8 := notHFile & not8Rank

	for i := bishop & notAFile >> 9; i&notANot1 != 0; i >>= 9 {
		occ |= i
	}
	for i := bishop & notHFile >> 7; i&notHNot1 != 0; i >>= 7 {
		occ |= i
	}
	for i := bishop & notAFile << 7; i&notANot8 != 0; i <<= 7 {
		occ |= i
	}
	for i := bishop & notHFile << 9; i&notHNot8 != 0; i <<= 9 {
		occ |= i
	}
	return occ
}

// rookRelevantOccupancy returns the rook blocker mask for sq.
func rookRelevantOccupancy(sq bitboard.Square) bitboard.Bitboard {
	var occ bitboard.Bitboard
	rook := sq.Mask()

	for i := rook & not1Rank >> 8; i&not1Rank != 0; i >>= 8 {
		occ |= i
	}
	for i := rook & notAFile >> 1; i&notAFile != 0; i >>= 1 {
		occ |= i
	}
	for i := rook & notHFile << 1; i&notHFile != 0; i <<= 1 {
		occ |= i
	}
	for i := rook & not8Rank << 8; i&not8Rank != 0; i <<= 8 {
		occ |= i
	}
	return occ
}

// slowBishopAttacks ray-walks the four diagonals until an occupied square
// (inclusive) or the board edge. Used only to build the magic attack
// tables at startup; Bishop (attacks.go) is the hot path used by movegen/eval.
func slowBishopAttacks(sq bitboard.Square, occupancy bitboard.Bitboard) bitboard.Bitboard {
	var attacks bitboard.Bitboard
	bishop := sq.Mask()

	for i := bishop & notAFile >> 9; i&notHFile != 0; i >>= 9 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := bishop & notHFile >> 7; i&notAFile != 0; i >>= 7 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := bishop & notAFile << 7; i&notHFile != 0; i <<= 7 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := bishop & notHFile << 9; i&notAFile != 0; i <<= 9 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	return attacks
}

// slowRookAttacks ray-walks the four orthogonal directions until an
// occupied square (inclusive) or the board edge.
func slowRookAttacks(sq bitboard.Square, occupancy bitboard.Bitboard) bitboard.Bitboard {
	var attacks bitboard.Bitboard
	rook := sq.Mask()

	for i := rook & notAFile >> 1; i&notHFile != 0; i >>= 1 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := rook & notHFile << 1; i&notAFile != 0; i <<= 1 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := rook & not1Rank >> 8; i&not8Rank != 0; i >>= 8 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	for i := rook & not8Rank << 8; i&not1Rank != 0; i <<= 8 {
		attacks |= i
		if i&occupancy != 0 {
			break
		}
	}
	return attacks
}

// occupancySubset enumerates the index-th blocker subset of mask, ordered
// by the rank of each set bit in mask. Used while building the flat
// attack tables at startup, not at move-gen time.
func occupancySubset(index int, mask bitboard.Bitboard) bitboard.Bitboard {
	var occ bitboard.Bitboard
	bits := mask
	i := 0
	for bits != 0 {
		sq := bits.PopLSB()
		if index&(1<<uint(i)) != 0 {
			occ = occ.Set(sq)
		}
		i++
	}
	return occ
}
