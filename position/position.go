/*
Package position implements the chessboard state machine: piece placement,
incremental Zobrist/material/PST/phase accumulators, FEN parsing and
serialization, and the make/unmake discipline that search and move
generation build on. It is the direct generalization of treepeck-chego's
Position type to a two-sided bitboard array with an append-only undo stack.
*/
package position

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/zobrist"
)

// mgValue/egValue are the tapered material values, one pair per piece, in
// spec order (pawn, rook, knight, bishop, queen, king). King carries no
// material value; it is never captured.
var (
	mgValue = [move.NumPieces]int{88, 579, 404, 414, 1182, 0}
	egValue = [move.NumPieces]int{142, 682, 405, 389, 1182, 0}

	// phaseWeight and TotalPhase drive the tapering counter: the two sides
	// together start with 8 minor pieces worth 1, 4 rooks worth 2, and 2
	// queens worth 4, for 24 total.
	phaseWeight = [move.NumPieces]int{0, 2, 1, 1, 4, 0}
)

const TotalPhase = 24

// HistoryFrame is the information needed to reverse one ply of make, beyond
// what the move itself encodes (captured piece, promotion piece and
// special kind are all packed into the move already).
type HistoryFrame struct {
	Move           move.Move
	HalfmoveClock  int
	CastlingRights [4]bool
	Hash           uint64
	EPTarget       bitboard.Bitboard
}

// Position is a mutable chessboard plus everything make/unmake needs to be
// reversible and everything eval needs to stay incremental.
type Position struct {
	Bitboards [2][move.NumPieces]bitboard.Bitboard
	occAll    [2]bitboard.Bitboard
	All       bitboard.Bitboard

	Side           move.Side
	CastlingRights [4]bool
	EPTarget       bitboard.Bitboard

	Ply           int
	HalfmoveClock int
	SearchPly     int

	Hash uint64

	MGMaterial [2]int
	EGMaterial [2]int
	MGPST      [2]int
	EGPST      [2]int
	Phase      int

	HasCastled [2]bool

	History []HistoryFrame
}

// New returns an empty position (no pieces, White to move). Callers
// normally build a position via ParseFEN instead.
func New() *Position {
	return &Position{}
}

// Occupancy returns the combined bitboard of every piece belonging to side.
func (p *Position) Occupancy(side move.Side) bitboard.Bitboard {
	return p.occAll[side]
}

// Clone returns an independent copy of p, including its own history stack,
// for a Lazy-SMP search worker to make/unmake moves on without disturbing
// the position the caller keeps at the root.
func (p *Position) Clone() *Position {
	c := *p
	c.History = append([]HistoryFrame(nil), p.History...)
	return &c
}

// KingSquare returns the square of side's king.
func (p *Position) KingSquare(side move.Side) bitboard.Square {
	return p.Bitboards[side][move.King].LSB()
}

// PieceOn returns the piece type and side occupying sq, reporting ok=false
// if the square is empty.
func (p *Position) PieceOn(sq bitboard.Square) (piece move.Piece, side move.Side, ok bool) {
	mask := sq.Mask()
	if p.All&mask == 0 {
		return 0, 0, false
	}
	for s := move.Side(0); s < 2; s++ {
		for pc := move.Piece(0); pc < move.NumPieces; pc++ {
			if p.Bitboards[s][pc]&mask != 0 {
				return pc, s, true
			}
		}
	}
	panic("position: occupancy bitboard out of sync with piece bitboards")
}

// MGScore returns the middlegame-phase material+PST differential (ours
// minus theirs) from side's viewpoint.
func (p *Position) MGScore(side move.Side) int {
	opp := side.Opponent()
	return (p.MGMaterial[side] + p.MGPST[side]) - (p.MGMaterial[opp] + p.MGPST[opp])
}

// EGScore is MGScore's endgame-phase counterpart.
func (p *Position) EGScore(side move.Side) int {
	opp := side.Opponent()
	return (p.EGMaterial[side] + p.EGPST[side]) - (p.EGMaterial[opp] + p.EGPST[opp])
}

// TaperPhase renders the raw phase accumulator into the 0..256 tapering
// weight used to interpolate middlegame/endgame scores (spec §4.4: "phase
// = TOTAL + accumulator").
func (p *Position) TaperPhase() int {
	ph := TotalPhase + p.Phase
	if ph < 0 {
		ph = 0
	}
	if ph > TotalPhase {
		ph = TotalPhase
	}
	scaled := (ph*256 + TotalPhase/2) / TotalPhase
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 256 {
		scaled = 256
	}
	return scaled
}

// placePiece adds piece/side at sq, updating occupancy, the Zobrist hash
// and every incremental eval accumulator.
func (p *Position) placePiece(side move.Side, piece move.Piece, sq bitboard.Square) {
	mask := sq.Mask()
	p.Bitboards[side][piece] |= mask
	p.occAll[side] |= mask
	p.All |= mask

	p.Hash ^= zobrist.Piece(side, piece, int(sq))
	p.MGMaterial[side] += mgValue[piece]
	p.EGMaterial[side] += egValue[piece]
	p.MGPST[side] += pstValue(mgPST, side, piece, sq)
	p.EGPST[side] += pstValue(egPST, side, piece, sq)
	p.Phase -= phaseWeight[piece]
}

// removePiece is placePiece's inverse.
func (p *Position) removePiece(side move.Side, piece move.Piece, sq bitboard.Square) {
	mask := sq.Mask()
	p.Bitboards[side][piece] &^= mask
	p.occAll[side] &^= mask
	p.All &^= mask

	p.Hash ^= zobrist.Piece(side, piece, int(sq))
	p.MGMaterial[side] -= mgValue[piece]
	p.EGMaterial[side] -= egValue[piece]
	p.MGPST[side] -= pstValue(mgPST, side, piece, sq)
	p.EGPST[side] -= pstValue(egPST, side, piece, sq)
	p.Phase += phaseWeight[piece]
}

// movePiece relocates a piece without touching capture bookkeeping.
func (p *Position) movePiece(side move.Side, piece move.Piece, from, to bitboard.Square) {
	p.removePiece(side, piece, from)
	p.placePiece(side, piece, to)
}

// IsSquareAttacked reports whether sq is attacked by any piece of bySide
// given the current full-board occupancy.
func (p *Position) IsSquareAttacked(sq bitboard.Square, bySide move.Side) bool {
	return p.AttackersTo(sq, bySide, p.All) != 0
}

// AttackersTo returns every piece of bySide that attacks sq under the given
// (possibly hypothetical) occupancy. Used for check detection and for
// movegen's checker computation.
func (p *Position) AttackersTo(sq bitboard.Square, bySide move.Side, occ bitboard.Bitboard) bitboard.Bitboard {
	var attackers bitboard.Bitboard
	attackers |= magic.Knight(sq) & p.Bitboards[bySide][move.Knight]
	attackers |= magic.King(sq) & p.Bitboards[bySide][move.King]
	attackers |= magic.Bishop(sq, occ) & (p.Bitboards[bySide][move.Bishop] | p.Bitboards[bySide][move.Queen])
	attackers |= magic.Rook(sq, occ) & (p.Bitboards[bySide][move.Rook] | p.Bitboards[bySide][move.Queen])
	// Pawn attacks are symmetric: the squares an opposing-side pawn on sq
	// would attack are the same squares from which a bySide pawn attacks sq.
	attackers |= magic.Pawn(int(bySide.Opponent()), sq) & p.Bitboards[bySide][move.Pawn]
	return attackers
}

// InCheck reports whether side's king is currently attacked.
func (p *Position) InCheck(side move.Side) bool {
	return p.IsSquareAttacked(p.KingSquare(side), side.Opponent())
}

// HasRepetition reports whether the current Zobrist hash matches any
// earlier reversible position in the history stack (spec §9: every-ply
// definition, not every-other-ply, so it catches repetitions through a
// null move or across an odd ply count).
func (p *Position) HasRepetition() bool {
	limit := len(p.History) - p.HalfmoveClock
	if limit < 0 {
		limit = 0
	}
	for i := len(p.History) - 1; i >= limit; i-- {
		if p.History[i].Hash == p.Hash {
			return true
		}
	}
	return false
}

// IsInsufficientMaterial applies the draw taxonomy from spec §4.6's
// material-draw shortcut, independent of piece-square placement.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Bitboards[move.White][move.Pawn] != 0 || p.Bitboards[move.Black][move.Pawn] != 0 {
		return false
	}
	rooksOrQueens := func(s move.Side) bool {
		return p.Bitboards[s][move.Rook] != 0 || p.Bitboards[s][move.Queen] != 0
	}
	knights := func(s move.Side) int { return p.Bitboards[s][move.Knight].PopCount() }
	bishops := func(s move.Side) int { return p.Bitboards[s][move.Bishop].PopCount() }
	minors := func(s move.Side) int { return knights(s) + bishops(s) }

	if !rooksOrQueens(move.White) && !rooksOrQueens(move.Black) {
		if knights(move.White) == 0 && knights(move.Black) == 0 {
			diff := bishops(move.White) - bishops(move.Black)
			if diff < 0 {
				diff = -diff
			}
			if diff < 2 {
				return true
			}
		}
		if bishops(move.White) == 0 && bishops(move.Black) == 0 {
			if knights(move.White) < 3 && knights(move.Black) < 3 {
				return true
			}
		}
		if minors(move.White) <= 1 && minors(move.Black) <= 1 {
			return true
		}
		return false
	}

	whiteRQ := rooksOrQueens(move.White)
	blackRQ := rooksOrQueens(move.Black)
	if whiteRQ != blackRQ {
		rookSide, otherSide := move.White, move.Black
		if blackRQ {
			rookSide, otherSide = move.Black, move.White
		}
		if p.Bitboards[rookSide][move.Queen] == 0 && p.Bitboards[rookSide][move.Rook].PopCount() == 1 &&
			minors(rookSide) == 0 && minors(otherSide) <= 2 {
			return true
		}
		return false
	}

	if p.Bitboards[move.White][move.Queen] == 0 && p.Bitboards[move.Black][move.Queen] == 0 &&
		p.Bitboards[move.White][move.Rook].PopCount() == 1 && p.Bitboards[move.Black][move.Rook].PopCount() == 1 &&
		minors(move.White) <= 1 && minors(move.Black) <= 1 {
		return true
	}
	return false
}
