package position

import (
	"testing"

	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/zobrist"
)

func TestMain(m *testing.M) {
	magic.Init()
	zobrist.Init()
	m.Run()
}

func TestParseFENRoundTrip(t *testing.T) {
	p := ParseFEN(StartFEN)
	if got := p.String(); got != StartFEN {
		t.Fatalf("round trip: got %q want %q", got, StartFEN)
	}
}

func TestParseFENKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	p := ParseFEN(fen)
	if got := p.String(); got != fen {
		t.Fatalf("round trip: got %q want %q", got, fen)
	}
	if !p.CastlingRights[move.WhiteKingside] || !p.CastlingRights[move.BlackQueenside] {
		t.Fatalf("expected all castling rights set")
	}
}

func zobristFromScratch(p *Position) uint64 {
	var h uint64
	for s := move.Side(0); s < 2; s++ {
		for pc := move.Piece(0); pc < move.NumPieces; pc++ {
			bb := p.Bitboards[s][pc]
			for bb != 0 {
				sq := bb.PopLSB()
				h ^= zobrist.Piece(s, pc, int(sq))
			}
		}
	}
	if p.EPTarget != 0 {
		h ^= zobrist.EnPassantFile(p.EPTarget.LSB().File())
	}
	h ^= zobrist.Castling(p.castlingMask())
	if p.Side == move.Black {
		h ^= zobrist.SideToMove()
	}
	return h
}

func TestHashMatchesFromScratch(t *testing.T) {
	p := ParseFEN(StartFEN)
	if p.Hash != zobristFromScratch(p) {
		t.Fatalf("incremental hash diverges from from-scratch fold")
	}

	m := move.New(12, 28, move.Pawn) // e2e4
	p.MakeMove(m)
	if p.Hash != zobristFromScratch(p) {
		t.Fatalf("hash diverges after make")
	}
	p.UnmakeMove()
	if p.Hash != zobristFromScratch(p) {
		t.Fatalf("hash diverges after unmake")
	}
}

func TestMakeUnmakeRestoresState(t *testing.T) {
	p := ParseFEN(StartFEN)
	before := *p
	beforeHistoryLen := len(p.History)

	p.MakeMove(move.New(12, 28, move.Pawn))
	p.MakeMove(move.New(52, 36, move.Pawn))
	p.UnmakeMove()
	p.UnmakeMove()

	if p.Bitboards != before.Bitboards {
		t.Fatalf("bitboards not restored")
	}
	if p.Hash != before.Hash {
		t.Fatalf("hash not restored")
	}
	if p.CastlingRights != before.CastlingRights {
		t.Fatalf("castling rights not restored")
	}
	if p.EPTarget != before.EPTarget {
		t.Fatalf("en passant not restored")
	}
	if p.HalfmoveClock != before.HalfmoveClock {
		t.Fatalf("halfmove clock not restored")
	}
	if len(p.History) != beforeHistoryLen {
		t.Fatalf("history stack not unwound")
	}
}

func TestDoublePawnPushSetsEnPassant(t *testing.T) {
	p := ParseFEN(StartFEN)
	p.MakeMove(move.NewSpecial(12, 28, move.Pawn, move.DoublePawnPush))
	if p.EPTarget == 0 {
		t.Fatalf("expected en passant target after double push")
	}
	if p.EPTarget.LSB() != 20 { // e3
		t.Fatalf("expected ep target e3 (20), got %d", p.EPTarget.LSB())
	}
}

func TestCastlingUpdatesRightsAndRookSquare(t *testing.T) {
	p := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	p.MakeMove(move.NewSpecial(4, 6, move.King, move.Castle)) // e1g1
	if piece, side, ok := p.PieceOn(5); !ok || piece != move.Rook || side != move.White {
		t.Fatalf("expected white rook on f1 after O-O")
	}
	if p.CastlingRights[move.WhiteKingside] || p.CastlingRights[move.WhiteQueenside] {
		t.Fatalf("expected white castling rights cleared")
	}
	if !p.HasCastled[move.White] {
		t.Fatalf("expected has-castled flag set")
	}

	p.UnmakeMove()
	if !p.CastlingRights[move.WhiteKingside] || !p.CastlingRights[move.WhiteQueenside] {
		t.Fatalf("expected white castling rights restored")
	}
	if p.HasCastled[move.White] {
		t.Fatalf("expected has-castled flag cleared on undo")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	p := ParseFEN("4k3/8/8/8/8/8/8/4KB2 w - - 0 1")
	if !p.IsInsufficientMaterial() {
		t.Fatalf("king+bishop vs king must be insufficient material")
	}
}

func materialFromScratch(p *Position) (mg, eg [2]int) {
	for s := move.Side(0); s < 2; s++ {
		for pc := move.Piece(0); pc < move.NumPieces; pc++ {
			bb := p.Bitboards[s][pc]
			for bb != 0 {
				bb.PopLSB()
				mg[s] += mgValue[pc]
				eg[s] += egValue[pc]
			}
		}
	}
	return mg, eg
}

func pstFromScratch(p *Position) (mg, eg [2]int) {
	for s := move.Side(0); s < 2; s++ {
		for pc := move.Piece(0); pc < move.NumPieces; pc++ {
			bb := p.Bitboards[s][pc]
			for bb != 0 {
				sq := bb.PopLSB()
				mg[s] += pstValue(mgPST, s, pc, sq)
				eg[s] += pstValue(egPST, s, pc, sq)
			}
		}
	}
	return mg, eg
}

func TestAccumulatorsMatchFullScan(t *testing.T) {
	p := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	p.MakeMove(move.NewCapture(36, 46, move.Knight, move.Pawn)) // Ne5xg6
	p.MakeMove(move.NewCapture(53, 46, move.Pawn, move.Knight)) // f7xg6

	mgMat, egMat := materialFromScratch(p)
	if p.MGMaterial != mgMat || p.EGMaterial != egMat {
		t.Fatalf("material accumulators diverge from full scan: %v/%v vs %v/%v",
			p.MGMaterial, p.EGMaterial, mgMat, egMat)
	}
	mgPst, egPst := pstFromScratch(p)
	if p.MGPST != mgPst || p.EGPST != egPst {
		t.Fatalf("PST accumulators diverge from full scan: %v/%v vs %v/%v",
			p.MGPST, p.EGPST, mgPst, egPst)
	}
}

func TestApplyPseudoLegalRejectsSelfCheck(t *testing.T) {
	// White king e1, white rook e2 pinned by the black rook on e8: moving
	// the rook off the e-file is pseudo-legally fine but exposes the king.
	p := ParseFEN("4r2k/8/8/8/8/8/4R3/4K3 w - - 0 1")
	before := p.Hash

	if p.ApplyPseudoLegal(move.New(12, 13, move.Rook)) {
		t.Fatalf("expected pinned-rook move to be rejected")
	}
	if p.Hash != before || len(p.History) != 0 {
		t.Fatalf("rejected move must leave the position untouched")
	}

	if !p.ApplyPseudoLegal(move.New(12, 20, move.Rook)) {
		t.Fatalf("expected a move along the pin ray to be accepted")
	}
	p.UnmakeMove()
	if p.Hash != before {
		t.Fatalf("unmake after accepted apply must restore the hash")
	}
}

func TestApplyPseudoLegalRejectsCastleThroughCheck(t *testing.T) {
	// Black rook on f8 covers f1: white may not castle kingside through it.
	p := ParseFEN("5r1k/8/8/8/8/8/8/4K2R w K - 0 1")
	if p.ApplyPseudoLegal(move.NewSpecial(4, 6, move.King, move.Castle)) {
		t.Fatalf("expected castle through an attacked square to be rejected")
	}
	if len(p.History) != 0 {
		t.Fatalf("rejected castle must not leave a history frame behind")
	}
}

func TestRepetitionDetected(t *testing.T) {
	// spec §4.6 defines has_repetition as "any earlier history frame with
	// matching Zobrist returns true" — a twofold check, not a threefold
	// one: search uses it as an aggressive draw-pruning signal rather than
	// the arbiter's claimable-draw rule.
	p := ParseFEN(StartFEN)
	knightOut := move.New(1, 18, move.Knight)
	knightBack := move.New(18, 1, move.Knight)
	blackOut := move.New(57, 42, move.Knight)
	blackBack := move.New(42, 57, move.Knight)

	if p.HasRepetition() {
		t.Fatalf("starting position has no earlier matching frame")
	}
	p.MakeMove(knightOut)
	p.MakeMove(blackOut)
	if p.HasRepetition() {
		t.Fatalf("position has not recurred yet")
	}
	p.MakeMove(knightBack)
	p.MakeMove(blackBack)
	if !p.HasRepetition() {
		t.Fatalf("expected the twofold return to the start position to be detected")
	}
}
