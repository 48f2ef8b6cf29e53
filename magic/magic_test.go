package magic

import (
	"testing"

	"github.com/belikovartem/negamax/bitboard"
)

func TestMain(m *testing.M) {
	Init()
	m.Run()
}

func TestRookAttacksEmptyBoard(t *testing.T) {
	// A rook on a1 (square 0) with an empty board attacks the whole first
	// rank and file, minus its own square.
	got := Rook(bitboard.Square(0), 0)
	want := bitboard.Bitboard(0x01010101010101FE)
	if got != want {
		t.Fatalf("rook a1 empty board: got %#x want %#x", uint64(got), uint64(want))
	}
}

func TestRookAttacksBlocked(t *testing.T) {
	// Rook on a1, blocker on a4 (square 24): attacks stop at and include a4.
	occ := bitboard.Square(24).Mask()
	got := Rook(bitboard.Square(0), occ)
	if got&bitboard.Square(24).Mask() == 0 {
		t.Fatalf("expected rook to attack the blocking square")
	}
	if got&bitboard.Square(32).Mask() != 0 {
		t.Fatalf("rook attack should not pass through the blocker")
	}
}

func TestBishopAttacksEmptyBoard(t *testing.T) {
	// Bishop on e4 (square 28) on an empty board sees both diagonals fully.
	got := Bishop(bitboard.Square(28), 0)
	if got.PopCount() != 13 {
		t.Fatalf("expected 13 squares, got %d", got.PopCount())
	}
}

func TestQueenIsUnionOfRookAndBishop(t *testing.T) {
	sq := bitboard.Square(35)
	var occ bitboard.Bitboard
	want := Rook(sq, occ) | Bishop(sq, occ)
	if got := Queen(sq, occ); got != want {
		t.Fatalf("queen attacks must equal rook | bishop")
	}
}

func TestKnightAttacksCorner(t *testing.T) {
	got := Knight(bitboard.Square(0)) // a1
	want := bitboard.FromSquares(bitboard.Square(10), bitboard.Square(17))
	if got != want {
		t.Fatalf("a1 knight attacks: got %#x want %#x", uint64(got), uint64(want))
	}
}

func TestKingAttacksCenter(t *testing.T) {
	got := King(bitboard.Square(28)) // e4
	if got.PopCount() != 8 {
		t.Fatalf("expected 8 king attacks from e4, got %d", got.PopCount())
	}
}

func TestPawnAttacks(t *testing.T) {
	white := Pawn(0, bitboard.Square(12)) // e2
	if white.PopCount() != 2 {
		t.Fatalf("expected 2 white pawn attacks from e2, got %d", white.PopCount())
	}
	black := Pawn(1, bitboard.Square(52)) // e7
	if black.PopCount() != 2 {
		t.Fatalf("expected 2 black pawn attacks from e7, got %d", black.PopCount())
	}
}

func TestBetweenAndLineShareRank(t *testing.T) {
	a := bitboard.Square(0) // a1
	b := bitboard.Square(7) // h1
	between := Between(a, b)
	if between.PopCount() != 6 {
		t.Fatalf("expected 6 squares strictly between a1 and h1, got %d", between.PopCount())
	}
	line := Line(a, b)
	if line&a.Mask() == 0 || line&b.Mask() == 0 {
		t.Fatalf("line must include both endpoints")
	}
}

func TestBetweenUnrelatedSquaresIsEmpty(t *testing.T) {
	a := bitboard.Square(0)  // a1
	b := bitboard.Square(17) // b3, knight's move away, no shared line
	if Between(a, b) != 0 || Line(a, b) != 0 {
		t.Fatalf("expected no ray between unrelated squares")
	}
}
