/*
Package zobrist implements the Zobrist hashing scheme used to key the
transposition table and detect repetitions: a 64-bit hash built by XORing
one pseudo-random key per (piece, square) occupied, one for the en-passant
file (if any), one for the current castling-rights nibble, and one when
black is to move. XOR is its own inverse, so a position can be maintained
incrementally across make/unmake without ever rehashing from scratch.
*/
package zobrist

import (
	"math/rand/v2"

	"github.com/belikovartem/negamax/move"
)

var (
	// pieceKeys[side][piece][square].
	pieceKeys [2][move.NumPieces][64]uint64
	// epKeys is indexed by file (0-7), not square: the en-passant target
	// only ever matters by file, and folding the rank in would make two
	// otherwise-identical positions with different ranks hash differently
	// for no reason.
	epKeys [8]uint64
	// castlingKeys is indexed by the 4-bit rights mask (spec.md's
	// CastlingRight bits 0-3).
	castlingKeys [16]uint64
	sideKey      uint64

	initialized bool
)

// Init seeds every key table. Call once before hashing any position; calling
// it more than once is a bug since every already-computed hash would go
// stale, so Init panics on a second call instead of silently reseeding.
func Init() {
	if initialized {
		panic("zobrist: Init called twice")
	}
	for s := move.Side(0); s < 2; s++ {
		for p := move.Piece(0); p < move.NumPieces; p++ {
			for sq := 0; sq < 64; sq++ {
				pieceKeys[s][p][sq] = rand.Uint64()
			}
		}
	}
	for f := 0; f < 8; f++ {
		epKeys[f] = rand.Uint64()
	}
	for i := 0; i < 16; i++ {
		castlingKeys[i] = rand.Uint64()
	}
	sideKey = rand.Uint64()
	initialized = true
}

// Piece returns the XOR term for a piece of the given side sitting on sq.
func Piece(side move.Side, piece move.Piece, sq int) uint64 {
	return pieceKeys[side][piece][sq]
}

// EnPassantFile returns the XOR term for an en-passant target on file f
// (0-7). Positions with no en-passant target apply no term at all, rather
// than indexing file 0 as a stand-in for "none" — that would incorrectly
// fold "no ep" together with "ep on the a-file".
func EnPassantFile(f int) uint64 {
	return epKeys[f]
}

// Castling returns the XOR term for the given 4-bit castling-rights mask.
func Castling(rights uint8) uint64 {
	return castlingKeys[rights&0xF]
}

// SideToMove returns the XOR term applied when it is Black's turn to move.
// Toggled every ply, so it's folded in unconditionally by the caller on
// every make/unmake rather than branching on side.
func SideToMove() uint64 {
	return sideKey
}
