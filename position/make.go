package position

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/zobrist"
)

const (
	a1 = bitboard.Square(0)
	c1 = bitboard.Square(2)
	d1 = bitboard.Square(3)
	e1 = bitboard.Square(4)
	f1 = bitboard.Square(5)
	g1 = bitboard.Square(6)
	h1 = bitboard.Square(7)

	a8 = bitboard.Square(56)
	c8 = bitboard.Square(58)
	d8 = bitboard.Square(59)
	e8 = bitboard.Square(60)
	f8 = bitboard.Square(61)
	g8 = bitboard.Square(62)
	h8 = bitboard.Square(63)
)

// kingPath holds the three squares the king crosses while castling
// (origin through destination inclusive), used to verify none is attacked.
var kingPath = map[move.CastlingRight][3]bitboard.Square{
	move.WhiteKingside:  {e1, f1, g1},
	move.WhiteQueenside: {e1, d1, c1},
	move.BlackKingside:  {e8, f8, g8},
	move.BlackQueenside: {e8, d8, c8},
}

func (p *Position) pushHistory(m move.Move) {
	p.History = append(p.History, HistoryFrame{
		Move:           m,
		HalfmoveClock:  p.HalfmoveClock,
		CastlingRights: p.CastlingRights,
		Hash:           p.Hash,
		EPTarget:       p.EPTarget,
	})
}

func (p *Position) clearEnPassant() {
	if p.EPTarget != 0 {
		p.Hash ^= zobrist.EnPassantFile(p.EPTarget.LSB().File())
		p.EPTarget = 0
	}
}

func (p *Position) setCastlingRight(r move.CastlingRight, held bool) {
	if p.CastlingRights[r] == held {
		return
	}
	mask := p.castlingMask()
	p.Hash ^= zobrist.Castling(mask)
	p.CastlingRights[r] = held
	p.Hash ^= zobrist.Castling(p.castlingMask())
}

// revokeRookRights drops the castling right tied to a rook's home square,
// whether because the rook moved or because it was captured there.
func (p *Position) revokeRookRights(side move.Side, sq bitboard.Square) {
	switch {
	case side == move.White && sq == a1:
		p.setCastlingRight(move.WhiteQueenside, false)
	case side == move.White && sq == h1:
		p.setCastlingRight(move.WhiteKingside, false)
	case side == move.Black && sq == a8:
		p.setCastlingRight(move.BlackQueenside, false)
	case side == move.Black && sq == h8:
		p.setCastlingRight(move.BlackKingside, false)
	}
}

// MakeMove applies a move already known to be at least pseudo-legal,
// per spec §4.4. Ordered by move flags: captures first, then the
// promotion/castle/double-push special cases, then the plain relocation.
func (p *Position) MakeMove(m move.Move) {
	p.pushHistory(m)

	from, to := m.From(), m.To()
	us := p.Side
	them := us.Opponent()
	piece := m.Piece()

	p.clearEnPassant()
	p.Ply++
	p.SearchPly++
	p.HalfmoveClock++
	p.Hash ^= zobrist.SideToMove()

	if m.IsCapture() {
		p.HalfmoveClock = 0
		if m.IsEnPassant() {
			capSq := to - 8
			if us == move.Black {
				capSq = to + 8
			}
			p.removePiece(them, move.Pawn, capSq)
		} else {
			captured := m.Captured()
			p.removePiece(them, captured, to)
			if captured == move.Rook {
				p.revokeRookRights(them, to)
			}
		}
	}

	if m.IsPromotion() {
		p.HalfmoveClock = 0
		p.removePiece(us, piece, from)
		p.placePiece(us, m.PromoPiece(), to)
		p.finishMake(us)
		return
	}

	if m.IsCastle() {
		p.doCastle(us, to)
		p.finishMake(us)
		return
	}

	if m.IsDoublePush() {
		epSq := to - 8
		if us == move.Black {
			epSq = to + 8
		}
		p.EPTarget = epSq.Mask()
		p.Hash ^= zobrist.EnPassantFile(epSq.File())
	}

	if piece == move.Pawn {
		p.HalfmoveClock = 0
	} else if piece == move.King {
		if us == move.White {
			p.setCastlingRight(move.WhiteKingside, false)
			p.setCastlingRight(move.WhiteQueenside, false)
		} else {
			p.setCastlingRight(move.BlackKingside, false)
			p.setCastlingRight(move.BlackQueenside, false)
		}
	} else if piece == move.Rook {
		p.revokeRookRights(us, from)
	}

	p.movePiece(us, piece, from, to)
	p.finishMake(us)
}

func (p *Position) finishMake(us move.Side) {
	p.Side = us.Opponent()
}

func (p *Position) doCastle(side move.Side, to bitboard.Square) {
	p.HasCastled[side] = true
	switch to {
	case g1:
		p.movePiece(side, move.Rook, h1, f1)
		p.movePiece(side, move.King, e1, g1)
		p.setCastlingRight(move.WhiteKingside, false)
		p.setCastlingRight(move.WhiteQueenside, false)
	case c1:
		p.movePiece(side, move.Rook, a1, d1)
		p.movePiece(side, move.King, e1, c1)
		p.setCastlingRight(move.WhiteKingside, false)
		p.setCastlingRight(move.WhiteQueenside, false)
	case g8:
		p.movePiece(side, move.Rook, h8, f8)
		p.movePiece(side, move.King, e8, g8)
		p.setCastlingRight(move.BlackKingside, false)
		p.setCastlingRight(move.BlackQueenside, false)
	case c8:
		p.movePiece(side, move.Rook, a8, d8)
		p.movePiece(side, move.King, e8, c8)
		p.setCastlingRight(move.BlackKingside, false)
		p.setCastlingRight(move.BlackQueenside, false)
	}
}

func (p *Position) undoCastle(side move.Side, to bitboard.Square) {
	p.HasCastled[side] = false
	switch to {
	case g1:
		p.movePiece(side, move.King, g1, e1)
		p.movePiece(side, move.Rook, f1, h1)
	case c1:
		p.movePiece(side, move.King, c1, e1)
		p.movePiece(side, move.Rook, d1, a1)
	case g8:
		p.movePiece(side, move.King, g8, e8)
		p.movePiece(side, move.Rook, f8, h8)
	case c8:
		p.movePiece(side, move.King, c8, e8)
		p.movePiece(side, move.Rook, d8, a8)
	}
}

// UnmakeMove reverses the most recent MakeMove, restoring every field to
// the value recorded in the popped history frame.
func (p *Position) UnmakeMove() {
	n := len(p.History)
	frame := p.History[n-1]
	p.History = p.History[:n-1]

	p.Ply--
	p.SearchPly--
	p.Side = p.Side.Opponent()

	m := frame.Move
	from, to := m.From(), m.To()
	us := p.Side
	them := us.Opponent()
	piece := m.Piece()

	if m.IsPromotion() {
		p.removePiece(us, m.PromoPiece(), to)
		p.placePiece(us, piece, from)
	} else if m.IsCastle() {
		p.undoCastle(us, to)
	} else {
		p.movePiece(us, piece, to, from)
	}

	if m.IsCapture() {
		if m.IsEnPassant() {
			capSq := to - 8
			if us == move.Black {
				capSq = to + 8
			}
			p.placePiece(them, move.Pawn, capSq)
		} else {
			p.placePiece(them, m.Captured(), to)
		}
	}

	p.CastlingRights = frame.CastlingRights
	p.HalfmoveClock = frame.HalfmoveClock
	p.EPTarget = frame.EPTarget
	p.Hash = frame.Hash
}

// MakeNull applies a null move: flips side, clears en passant, pushes a
// history frame carrying the null move marker. Only ever called from
// inside search under the guards in spec §4.9.
func (p *Position) MakeNull() {
	p.pushHistory(move.Move(0))
	p.Ply++
	p.SearchPly++
	p.clearEnPassant()
	p.Hash ^= zobrist.SideToMove()
	p.Side = p.Side.Opponent()
}

// UnmakeNull reverses MakeNull.
func (p *Position) UnmakeNull() {
	n := len(p.History)
	frame := p.History[n-1]
	p.History = p.History[:n-1]

	p.Ply--
	p.SearchPly--
	p.Side = p.Side.Opponent()
	p.CastlingRights = frame.CastlingRights
	p.HalfmoveClock = frame.HalfmoveClock
	p.EPTarget = frame.EPTarget
	p.Hash = frame.Hash
}

// ApplyPseudoLegal applies a pseudo-legal move and reports whether it was
// actually legal, undoing it if not. Castles additionally verify the
// king's path isn't attacked (the empty-squares part was already checked
// by the generator); every other move is verified by apply-then-check.
func (p *Position) ApplyPseudoLegal(m move.Move) bool {
	us := p.Side
	them := us.Opponent()

	if m.IsCastle() {
		var right move.CastlingRight
		switch m.To() {
		case g1:
			right = move.WhiteKingside
		case c1:
			right = move.WhiteQueenside
		case g8:
			right = move.BlackKingside
		default:
			right = move.BlackQueenside
		}
		for _, sq := range kingPath[right] {
			if p.IsSquareAttacked(sq, them) {
				return false
			}
		}
		p.MakeMove(m)
		return true
	}

	p.MakeMove(m)
	if p.InCheck(us) {
		p.UnmakeMove()
		return false
	}
	return true
}
