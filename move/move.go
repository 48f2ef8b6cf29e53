/*
Package move implements the packed move representation and the auxiliary
tables (piece/side enumerations, move list with ordering keys, long
algebraic notation) shared by position, movegen, eval and search.
*/
package move

import (
	"strings"

	"github.com/belikovartem/negamax/bitboard"
)

// Piece enumerates piece types in the exact order spec.md mandates: the
// order both drives promotion-piece encoding (see PromoPiece/NewPromotion)
// and indexes the per-piece phase-weight and PST tables in position.
type Piece int

const (
	Pawn Piece = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

// NumPieces is the number of piece kinds.
const NumPieces = 6

// Side is the player to move: 0 the first mover, 1 the second mover.
type Side int

const (
	White Side = 0
	Black Side = 1
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return s ^ 1 }

// Kind distinguishes the "special" move classes that are not plain
// quiet/capture moves and do not carry a promotion.
type Kind int

const (
	Quiet Kind = iota
	DoublePawnPush
	EnPassant
	Castle
)

// CastlingRight indexes the four castling rights in Position.Rights.
type CastlingRight int

const (
	WhiteQueenside CastlingRight = iota
	WhiteKingside
	BlackQueenside
	BlackKingside
)

/*
Move is a packed 32-bit value:
  - bits 0-5:   from square
  - bits 6-11:  to square
  - bits 12-14: moving piece
  - bits 15-16: sub-code — promotion piece (Rook/Knight/Bishop/Queen minus
    one) when the promotion bit is set, otherwise the special Kind
  - bit 17:     is-capture
  - bit 18:     is-promotion
  - bits 19-21: captured piece (meaningless unless is-capture)

The zero value (from=0, to=0, Pawn, Quiet, no capture, no promotion) is the
reserved null move: it never collides with a legal move since from==to
never occurs in one.
*/
type Move uint32

const (
	fromShift     = 0
	toShift       = 6
	pieceShift    = 12
	subcodeShift  = 15
	captureBit    = 1 << 17
	promotionBit  = 1 << 18
	capturedShift = 19

	squareMask = 0x3F
	pieceMask  = 0x7
	subMask    = 0x3
)

// New builds a quiet or normal-capture move.
func New(from, to bitboard.Square, piece Piece) Move {
	return Move(uint32(from)<<fromShift | uint32(to)<<toShift | uint32(piece)<<pieceShift)
}

// NewCapture builds a normal capture move.
func NewCapture(from, to bitboard.Square, piece, captured Piece) Move {
	return New(from, to, piece) | Move(captureBit) | Move(uint32(captured)<<capturedShift)
}

// NewSpecial builds a non-promotion special move (double push, en passant,
// castle). En passant is always a capture of the opposing pawn.
func NewSpecial(from, to bitboard.Square, piece Piece, kind Kind) Move {
	m := New(from, to, piece) | Move(uint32(kind)<<subcodeShift)
	if kind == EnPassant {
		m |= Move(captureBit) | Move(uint32(Pawn)<<capturedShift)
	}
	return m
}

// NewPromotion builds a promotion move, optionally a capture.
func NewPromotion(from, to bitboard.Square, promo Piece, captured Piece, isCapture bool) Move {
	m := New(from, to, Pawn) | Move(promotionBit) | Move(uint32(promo-1)<<subcodeShift)
	if isCapture {
		m |= Move(captureBit) | Move(uint32(captured)<<capturedShift)
	}
	return m
}

func (m Move) From() bitboard.Square   { return bitboard.Square(m >> fromShift & squareMask) }
func (m Move) To() bitboard.Square     { return bitboard.Square(m >> toShift & squareMask) }
func (m Move) Piece() Piece            { return Piece(m >> pieceShift & pieceMask) }
func (m Move) IsCapture() bool         { return m&captureBit != 0 }
func (m Move) IsPromotion() bool       { return m&promotionBit != 0 }
func (m Move) Captured() Piece         { return Piece(m >> capturedShift & pieceMask) }
func (m Move) IsNull() bool            { return m == 0 }

// PromoPiece returns the promotion piece. Only meaningful if IsPromotion.
func (m Move) PromoPiece() Piece { return Piece(m>>subcodeShift&subMask) + 1 }

// SpecialKind returns the special-move kind. Only meaningful if !IsPromotion.
func (m Move) SpecialKind() Kind { return Kind(m >> subcodeShift & subMask) }

// IsEnPassant reports whether the move is the en-passant capture. The
// sub-code field doubles as the promotion-piece field, so the promotion bit
// must be checked first: a bishop-promotion shares the en-passant sub-code.
func (m Move) IsEnPassant() bool { return !m.IsPromotion() && m.SpecialKind() == EnPassant }

// IsCastle reports whether the move is a castle. Same caveat as
// IsEnPassant: a queen-promotion shares the castle sub-code.
func (m Move) IsCastle() bool { return !m.IsPromotion() && m.SpecialKind() == Castle }

// IsDoublePush reports whether the move is a double pawn push.
func (m Move) IsDoublePush() bool { return !m.IsPromotion() && m.SpecialKind() == DoublePawnPush }

// IsQuiet reports whether the move is neither a capture nor a promotion —
// the class of move eligible for killer/history ordering.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// squareNames maps each square to its algebraic name, a1..h8.
var squareNames = func() [64]string {
	var names [64]string
	files := "abcdefgh"
	for sq := 0; sq < 64; sq++ {
		names[sq] = string(files[sq%8]) + string(rune('1'+sq/8))
	}
	return names
}()

var promoLetters = [NumPieces]byte{Rook: 'r', Knight: 'n', Bishop: 'b', Queen: 'q'}

// UCI renders the move in long algebraic notation: e2e4, e7e8q, e1g1.
func (m Move) UCI() string {
	var b strings.Builder
	b.Grow(5)
	b.WriteString(squareNames[m.From()])
	b.WriteString(squareNames[m.To()])
	if m.IsPromotion() {
		b.WriteByte(promoLetters[m.PromoPiece()])
	}
	return b.String()
}
