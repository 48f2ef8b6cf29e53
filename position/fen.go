package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/zobrist"
)

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromChar = map[byte]struct {
	piece move.Piece
	side  move.Side
}{
	'P': {move.Pawn, move.White}, 'N': {move.Knight, move.White}, 'B': {move.Bishop, move.White},
	'R': {move.Rook, move.White}, 'Q': {move.Queen, move.White}, 'K': {move.King, move.White},
	'p': {move.Pawn, move.Black}, 'n': {move.Knight, move.Black}, 'b': {move.Bishop, move.Black},
	'r': {move.Rook, move.Black}, 'q': {move.Queen, move.Black}, 'k': {move.King, move.Black},
}

var pieceToChar = [2][move.NumPieces]byte{
	move.White: {'P', 'R', 'N', 'B', 'Q', 'K'},
	move.Black: {'p', 'r', 'n', 'b', 'q', 'k'},
}

// ParseFEN builds a Position from a FEN string. Malformed FEN is a fatal,
// caller-must-not-proceed error per spec §7: it panics rather than
// returning a half-built position.
func ParseFEN(fen string) *Position {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		panic(fmt.Sprintf("position: malformed FEN %q: expected 6 fields, got %d", fen, len(fields)))
	}

	p := New()

	rank, file := 7, 0
	for i := 0; i < len(fields[0]); i++ {
		c := fields[0][i]
		switch {
		case c == '/':
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			info, ok := pieceFromChar[c]
			if !ok {
				panic(fmt.Sprintf("position: malformed FEN %q: invalid piece character %q", fen, c))
			}
			sq := bitboard.Square(rank*8 + file)
			p.placePiece(info.side, info.piece, sq)
			file++
		}
	}

	switch fields[1] {
	case "w":
		p.Side = move.White
	case "b":
		p.Side = move.Black
		p.Hash ^= zobrist.SideToMove()
	default:
		panic(fmt.Sprintf("position: malformed FEN %q: invalid side to move %q", fen, fields[1]))
	}

	for i := 0; i < len(fields[2]); i++ {
		switch fields[2][i] {
		case '-':
		case 'K':
			p.CastlingRights[move.WhiteKingside] = true
		case 'Q':
			p.CastlingRights[move.WhiteQueenside] = true
		case 'k':
			p.CastlingRights[move.BlackKingside] = true
		case 'q':
			p.CastlingRights[move.BlackQueenside] = true
		default:
			panic(fmt.Sprintf("position: malformed FEN %q: invalid castling rights %q", fen, fields[2]))
		}
	}
	p.Hash ^= zobrist.Castling(p.castlingMask())

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			panic(fmt.Sprintf("position: malformed FEN %q: %v", fen, err))
		}
		p.EPTarget = sq.Mask()
		p.Hash ^= zobrist.EnPassantFile(sq.File())
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil {
		panic(fmt.Sprintf("position: malformed FEN %q: non-numeric halfmove clock %q", fen, fields[4]))
	}
	p.HalfmoveClock = halfmove

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil {
		panic(fmt.Sprintf("position: malformed FEN %q: non-numeric fullmove number %q", fen, fields[5]))
	}
	p.Ply = (fullmove - 1) * 2
	if p.Side == move.Black {
		p.Ply++
	}
	if p.Ply < 0 {
		p.Ply = 0
	}

	return p
}

// castlingMask packs the four booleans into the 4-bit layout move.CastlingRight
// indexes into (bit i set means right i is held).
func (p *Position) castlingMask() uint8 {
	var mask uint8
	for i, held := range p.CastlingRights {
		if held {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

func parseSquare(s string) (bitboard.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	return bitboard.Square(rank*8 + file), nil
}

func squareString(sq bitboard.Square) string {
	files := "abcdefgh"
	return fmt.Sprintf("%c%d", files[sq.File()], sq.Rank()+1)
}

// String serializes the position back into a full six-field FEN string.
func (p *Position) String() string {
	var b strings.Builder
	b.Grow(80)

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := bitboard.Square(rank*8 + file)
			piece, side, ok := p.PieceOn(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte('0' + byte(empty))
				empty = 0
			}
			b.WriteByte(pieceToChar[side][piece])
		}
		if empty > 0 {
			b.WriteByte('0' + byte(empty))
		}
		if rank != 0 {
			b.WriteByte('/')
		}
	}

	if p.Side == move.White {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}

	any := false
	if p.CastlingRights[move.WhiteKingside] {
		b.WriteByte('K')
		any = true
	}
	if p.CastlingRights[move.WhiteQueenside] {
		b.WriteByte('Q')
		any = true
	}
	if p.CastlingRights[move.BlackKingside] {
		b.WriteByte('k')
		any = true
	}
	if p.CastlingRights[move.BlackQueenside] {
		b.WriteByte('q')
		any = true
	}
	if !any {
		b.WriteByte('-')
	}
	b.WriteByte(' ')

	if p.EPTarget == 0 {
		b.WriteString("-")
	} else {
		b.WriteString(squareString(p.EPTarget.LSB()))
	}
	b.WriteByte(' ')

	b.WriteString(strconv.Itoa(p.HalfmoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(p.Ply/2 + 1))

	return b.String()
}

// Fingerprint returns the reduced four-field FEN (placement, side,
// castling rights, "-" for en-passant) used as the opening-book lookup
// key, per spec §6.
func (p *Position) Fingerprint() string {
	full := p.String()
	fields := strings.Fields(full)
	return strings.Join([]string{fields[0], fields[1], fields[2], "-"}, " ")
}
