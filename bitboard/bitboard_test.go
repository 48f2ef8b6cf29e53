package bitboard

import "testing"

func TestFromSquaresAndTest(t *testing.T) {
	bb := FromSquares(0, 7, 63)
	for _, sq := range []Square{0, 7, 63} {
		if !bb.Test(sq) {
			t.Fatalf("expected square %d to be set in %x", sq, bb)
		}
	}
	if bb.Test(1) {
		t.Fatalf("square 1 should not be set")
	}
}

func TestSetClear(t *testing.T) {
	var bb Bitboard
	bb = bb.Set(10)
	if !bb.Test(10) {
		t.Fatalf("expected square 10 set")
	}
	bb = bb.Clear(10)
	if bb.Test(10) {
		t.Fatalf("expected square 10 cleared")
	}
}

func TestPopCount(t *testing.T) {
	bb := FromSquares(0, 1, 2, 63)
	if got := bb.PopCount(); got != 4 {
		t.Fatalf("expected popcount 4, got %d", got)
	}
}

func TestPopLSBAscending(t *testing.T) {
	bb := FromSquares(5, 12, 40, 63)
	var got []Square
	for bb != 0 {
		got = append(got, bb.PopLSB())
	}
	want := []Square{5, 12, 40, 63}
	if len(got) != len(want) {
		t.Fatalf("expected %d squares, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ascending order %v, got %v", want, got)
		}
	}
}

func TestSquareFileRank(t *testing.T) {
	sq := Square(8*2 + 3) // rank 2, file 3 (d3)
	if sq.File() != 3 || sq.Rank() != 2 {
		t.Fatalf("expected file 3 rank 2, got file %d rank %d", sq.File(), sq.Rank())
	}
}
