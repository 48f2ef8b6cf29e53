package move

import (
	"testing"

	"github.com/belikovartem/negamax/bitboard"
)

func TestNullMoveIsZero(t *testing.T) {
	var null Move
	if !null.IsNull() {
		t.Fatalf("zero value must be the null move")
	}
}

func TestQuietMoveRoundTrip(t *testing.T) {
	m := New(12, 28, Pawn)
	if m.From() != 12 || m.To() != 28 || m.Piece() != Pawn {
		t.Fatalf("unexpected round trip: from=%d to=%d piece=%d", m.From(), m.To(), m.Piece())
	}
	if m.IsCapture() || m.IsPromotion() {
		t.Fatalf("expected quiet move")
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	m := NewCapture(8, 16, Knight, Queen)
	if !m.IsCapture() || m.Captured() != Queen || m.Piece() != Knight {
		t.Fatalf("unexpected capture encoding")
	}
}

func TestPromotionRoundTrip(t *testing.T) {
	for _, p := range []Piece{Rook, Knight, Bishop, Queen} {
		m := NewPromotion(52, 60, p, 0, false)
		if !m.IsPromotion() || m.PromoPiece() != p {
			t.Fatalf("expected promo piece %d, got %d", p, m.PromoPiece())
		}
	}
}

func TestPromotionCapture(t *testing.T) {
	m := NewPromotion(52, 61, Queen, Bishop, true)
	if !m.IsCapture() || !m.IsPromotion() || m.Captured() != Bishop || m.PromoPiece() != Queen {
		t.Fatalf("unexpected promotion-capture encoding: %+v", m)
	}
}

func TestSpecialKinds(t *testing.T) {
	dp := NewSpecial(8, 24, Pawn, DoublePawnPush)
	if dp.SpecialKind() != DoublePawnPush || dp.IsCapture() {
		t.Fatalf("expected double push, no capture")
	}
	ep := NewSpecial(28, 21, Pawn, EnPassant)
	if ep.SpecialKind() != EnPassant || !ep.IsCapture() || ep.Captured() != Pawn {
		t.Fatalf("expected en passant capture of a pawn")
	}
	castle := NewSpecial(4, 6, King, Castle)
	if castle.SpecialKind() != Castle {
		t.Fatalf("expected castle kind")
	}
}

func TestUCINotation(t *testing.T) {
	m := New(bitboard.Square(12), bitboard.Square(28), Pawn) // e2e4
	if got := m.UCI(); got != "e2e4" {
		t.Fatalf("expected e2e4, got %s", got)
	}
	promo := NewPromotion(52, 60, Queen, 0, false) // e7e8q
	if got := promo.UCI(); got != "e7e8q" {
		t.Fatalf("expected e7e8q, got %s", got)
	}
}

func TestMoveListOrdering(t *testing.T) {
	var l List
	l.PushKeyed(New(0, 1, Pawn), 5)
	l.PushKeyed(New(0, 2, Pawn), 50)
	l.PushKeyed(New(0, 3, Pawn), 20)

	var order []bitboard.Square
	for i := 0; i < l.Len; i++ {
		order = append(order, l.Selected(i).To())
	}
	want := []bitboard.Square{2, 3, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}
