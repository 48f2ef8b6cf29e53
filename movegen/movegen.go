/*
Package movegen generates fully legal chess moves from a position using the
check/pin-mask method: compute which squares the opponent attacks, which of
our pieces are pinned and along which ray, and how many checkers threaten
our king, then enumerate each piece kind against the resulting constraint
masks. This replaces treepeck-chego's generate-then-reject-by-replay
approach (still used by position.ApplyPseudoLegal) with the single-pass algorithm description in
spec.md §4.5, grounded the same way FrankyGo and dragontoothmg structure
their move generators: one pass over danger squares, one over pins, one
per piece kind.
*/
package movegen

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/magic"
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/position"
)

const allSquares = bitboard.Bitboard(^uint64(0))

// pinInfo carries, for the side to move, which of its squares are pinned
// and the ray each pinned piece may still move along.
type pinInfo struct {
	hvPinned bitboard.Bitboard
	dPinned  bitboard.Bitboard
	hvRay    [64]bitboard.Bitboard
	dRay     [64]bitboard.Bitboard
}

// restrict returns the movement constraint for a piece standing on sq: the
// full board if unpinned, otherwise the single ray it may stay on.
func (pi *pinInfo) restrict(sq bitboard.Square) bitboard.Bitboard {
	if pi.hvPinned.Test(sq) {
		return pi.hvRay[sq]
	}
	if pi.dPinned.Test(sq) {
		return pi.dRay[sq]
	}
	return allSquares
}

func (pi *pinInfo) isPinned(sq bitboard.Square) bool {
	return pi.hvPinned.Test(sq) || pi.dPinned.Test(sq)
}

// dangerMask returns every square attacked by side, computed with the
// defending king removed from the blocker set so sliding attacks x-ray
// through it — a king may never "hide" behind its own square.
func dangerMask(p *position.Position, side move.Side, defenderKingSq bitboard.Square) bitboard.Bitboard {
	occ := p.All &^ defenderKingSq.Mask()
	var danger bitboard.Bitboard

	danger |= magic.King(p.KingSquare(side))
	for bb := p.Bitboards[side][move.Knight]; bb != 0; {
		danger |= magic.Knight(bb.PopLSB())
	}
	for bb := p.Bitboards[side][move.Bishop] | p.Bitboards[side][move.Queen]; bb != 0; {
		danger |= magic.Bishop(bb.PopLSB(), occ)
	}
	for bb := p.Bitboards[side][move.Rook] | p.Bitboards[side][move.Queen]; bb != 0; {
		danger |= magic.Rook(bb.PopLSB(), occ)
	}
	for bb := p.Bitboards[side][move.Pawn]; bb != 0; {
		danger |= magic.Pawn(int(side), bb.PopLSB())
	}
	return danger
}

// computePins finds, for every opposing rook/queen on an orthogonal ray to
// our king and every opposing bishop/queen on a diagonal ray, whether
// exactly one of our pieces sits between them — the textbook absolute-pin
// test (spec §4.5 step 5).
func computePins(p *position.Position, us move.Side, kingSq bitboard.Square) pinInfo {
	them := us.Opponent()
	var pi pinInfo

	rookRayFromKing := magic.Rook(kingSq, 0)
	hvAttackers := (p.Bitboards[them][move.Rook] | p.Bitboards[them][move.Queen]) & rookRayFromKing
	for bb := hvAttackers; bb != 0; {
		sq := bb.PopLSB()
		between := magic.Between(kingSq, sq)
		blockers := between & p.All
		if blockers.PopCount() == 1 && blockers&p.Occupancy(us) != 0 {
			pinnedSq := blockers.LSB()
			pi.hvPinned = pi.hvPinned.Set(pinnedSq)
			pi.hvRay[pinnedSq] = magic.Line(kingSq, sq)
		}
	}

	bishopRayFromKing := magic.Bishop(kingSq, 0)
	dAttackers := (p.Bitboards[them][move.Bishop] | p.Bitboards[them][move.Queen]) & bishopRayFromKing
	for bb := dAttackers; bb != 0; {
		sq := bb.PopLSB()
		between := magic.Between(kingSq, sq)
		blockers := between & p.All
		if blockers.PopCount() == 1 && blockers&p.Occupancy(us) != 0 {
			pinnedSq := blockers.LSB()
			pi.dPinned = pi.dPinned.Set(pinnedSq)
			pi.dRay[pinnedSq] = magic.Line(kingSq, sq)
		}
	}

	return pi
}

func isSlider(p move.Piece) bool {
	return p == move.Rook || p == move.Bishop || p == move.Queen
}

// Generate returns every legal move for the side to move.
func Generate(p *position.Position) move.List {
	var list move.List
	generate(p, &list, false)
	return list
}

// GenerateCaptures returns every legal capturing move (including
// en-passant and promotion-captures) for the side to move, used by
// quiescence search.
func GenerateCaptures(p *position.Position) move.List {
	var list move.List
	generate(p, &list, true)
	return list
}

func generate(p *position.Position, list *move.List, capturesOnly bool) {
	us := p.Side
	them := us.Opponent()
	ourOcc := p.Occupancy(us)
	theirOcc := p.Occupancy(them)
	kingSq := p.KingSquare(us)

	danger := dangerMask(p, them, kingSq)

	kingTargets := magic.King(kingSq) &^ danger &^ ourOcc
	if capturesOnly {
		kingTargets &= theirOcc
	}
	for bb := kingTargets; bb != 0; {
		to := bb.PopLSB()
		addMove(list, p, kingSq, to, move.King, theirOcc)
	}

	checkers := p.AttackersTo(kingSq, them, p.All)
	switch checkers.PopCount() {
	case 0:
		if !capturesOnly {
			generateCastles(p, list, us, kingSq, danger)
		}
	case 1:
		checkerSq := checkers.LSB()
		captureMask := checkerSq.Mask()
		pushMask := bitboard.Bitboard(0)
		if checkerPiece, _, ok := p.PieceOn(checkerSq); ok && isSlider(checkerPiece) {
			pushMask = magic.Between(kingSq, checkerSq)
		}
		generateNonKing(p, list, us, kingSq, captureMask|pushMask, theirOcc, capturesOnly)
		return
	default:
		return // double check: only king moves are legal
	}

	generateNonKing(p, list, us, kingSq, allSquares, theirOcc, capturesOnly)
}

// generateNonKing enumerates knight/bishop/rook/queen/pawn moves, each
// constrained to targetMask (capture∪push, or the whole board when not in
// check) and to the mover's own pin ray if pinned.
func generateNonKing(p *position.Position, list *move.List, us move.Side, kingSq bitboard.Square, targetMask, theirOcc bitboard.Bitboard, capturesOnly bool) {
	them := us.Opponent()
	ourOcc := p.Occupancy(us)
	occ := p.All
	pins := computePins(p, us, kingSq)

	for bb := p.Bitboards[us][move.Knight]; bb != 0; {
		from := bb.PopLSB()
		if pins.isPinned(from) {
			continue
		}
		targets := magic.Knight(from) & targetMask &^ ourOcc
		if capturesOnly {
			targets &= theirOcc
		}
		emit(list, p, from, targets, move.Knight, theirOcc)
	}

	for bb := p.Bitboards[us][move.Bishop]; bb != 0; {
		from := bb.PopLSB()
		if pins.hvPinned.Test(from) {
			continue
		}
		targets := magic.Bishop(from, occ) & targetMask &^ ourOcc & pins.restrict(from)
		if capturesOnly {
			targets &= theirOcc
		}
		emit(list, p, from, targets, move.Bishop, theirOcc)
	}

	for bb := p.Bitboards[us][move.Rook]; bb != 0; {
		from := bb.PopLSB()
		if pins.dPinned.Test(from) {
			continue
		}
		targets := magic.Rook(from, occ) & targetMask &^ ourOcc & pins.restrict(from)
		if capturesOnly {
			targets &= theirOcc
		}
		emit(list, p, from, targets, move.Rook, theirOcc)
	}

	for bb := p.Bitboards[us][move.Queen]; bb != 0; {
		from := bb.PopLSB()
		var targets bitboard.Bitboard
		switch {
		case pins.hvPinned.Test(from):
			targets = magic.Rook(from, occ) & pins.restrict(from)
		case pins.dPinned.Test(from):
			targets = magic.Bishop(from, occ) & pins.restrict(from)
		default:
			targets = magic.Queen(from, occ)
		}
		targets &= targetMask &^ ourOcc
		if capturesOnly {
			targets &= theirOcc
		}
		emit(list, p, from, targets, move.Queen, theirOcc)
	}

	generatePawns(p, list, us, kingSq, targetMask, &pins, capturesOnly)
	generateEnPassant(p, list, us, kingSq, them, capturesOnly)
}

func emit(list *move.List, p *position.Position, from bitboard.Square, targets bitboard.Bitboard, piece move.Piece, theirOcc bitboard.Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		addMove(list, p, from, to, piece, theirOcc)
	}
}

func addMove(list *move.List, p *position.Position, from, to bitboard.Square, piece move.Piece, theirOcc bitboard.Bitboard) {
	if theirOcc.Test(to) {
		captured, _, ok := p.PieceOn(to)
		if !ok {
			panic("movegen: capture target has no piece")
		}
		list.Push(move.NewCapture(from, to, piece, captured))
	} else {
		list.Push(move.New(from, to, piece))
	}
}

var promoPieces = [4]move.Piece{move.Queen, move.Rook, move.Bishop, move.Knight}

func generatePawns(p *position.Position, list *move.List, us move.Side, kingSq bitboard.Square, targetMask bitboard.Bitboard, pins *pinInfo, capturesOnly bool) {
	them := us.Opponent()
	theirOcc := p.Occupancy(them)
	occ := p.All
	pawns := p.Bitboards[us][move.Pawn]

	forward := 8
	startRank := 1
	promoRank := 7
	if us == move.Black {
		forward = -8
		startRank = 6
		promoRank = 0
	}

	for bb := pawns; bb != 0; {
		from := bb.PopLSB()
		ray := pins.restrict(from)

		// Single and double pushes.
		if !capturesOnly {
			one := bitboard.Square(int(from) + forward)
			if !occ.Test(one) {
				if one.Mask()&targetMask&ray != 0 {
					pushPawnMove(list, from, one, us, promoRank)
				}
				if from.Rank() == startRank {
					two := bitboard.Square(int(from) + 2*forward)
					if !occ.Test(two) && two.Mask()&targetMask&ray != 0 {
						list.Push(move.NewSpecial(from, two, move.Pawn, move.DoublePawnPush))
					}
				}
			}
		}

		// Captures.
		for _, df := range []int{-1, 1} {
			file := from.File() + df
			if file < 0 || file > 7 {
				continue
			}
			to := bitboard.Square(int(from) + forward + df)
			if to.Mask()&theirOcc&targetMask&ray == 0 {
				continue
			}
			captured, _, ok := p.PieceOn(to)
			if !ok {
				panic("movegen: pawn capture target has no piece")
			}
			if to.Rank() == promoRank {
				for _, promo := range promoPieces {
					list.Push(move.NewPromotion(from, to, promo, captured, true))
				}
			} else {
				list.Push(move.NewCapture(from, to, move.Pawn, captured))
			}
		}
	}
}

func pushPawnMove(list *move.List, from, to bitboard.Square, us move.Side, promoRank int) {
	if to.Rank() == promoRank {
		for _, promo := range promoPieces {
			list.Push(move.NewPromotion(from, to, promo, 0, false))
		}
		return
	}
	list.Push(move.New(from, to, move.Pawn))
}

// generateEnPassant handles the one case that can't be resolved by the
// pin masks alone: a horizontal discovered check where both the capturing
// pawn and the captured pawn leave the fourth/fifth rank simultaneously.
// Generate the candidate, apply it, re-check for check, undo (spec §4.5).
func generateEnPassant(p *position.Position, list *move.List, us move.Side, kingSq bitboard.Square, them move.Side, capturesOnly bool) {
	if p.EPTarget == 0 {
		return
	}
	target := p.EPTarget.LSB()
	attackers := magic.Pawn(int(them), target) & p.Bitboards[us][move.Pawn]
	for bb := attackers; bb != 0; {
		from := bb.PopLSB()
		m := move.NewSpecial(from, target, move.Pawn, move.EnPassant)
		p.MakeMove(m)
		stillLegal := !p.InCheck(us)
		p.UnmakeMove()
		if stillLegal {
			list.Push(m)
		}
	}
}

func generateCastles(p *position.Position, list *move.List, us move.Side, kingSq bitboard.Square, danger bitboard.Bitboard) {
	occ := p.All
	if us == move.White {
		if p.CastlingRights[move.WhiteKingside] &&
			occ&bitboard.FromSquares(5, 6) == 0 &&
			danger&bitboard.FromSquares(4, 5, 6) == 0 {
			list.Push(move.NewSpecial(4, 6, move.King, move.Castle))
		}
		if p.CastlingRights[move.WhiteQueenside] &&
			occ&bitboard.FromSquares(1, 2, 3) == 0 &&
			danger&bitboard.FromSquares(4, 3, 2) == 0 {
			list.Push(move.NewSpecial(4, 2, move.King, move.Castle))
		}
		return
	}
	if p.CastlingRights[move.BlackKingside] &&
		occ&bitboard.FromSquares(61, 62) == 0 &&
		danger&bitboard.FromSquares(60, 61, 62) == 0 {
		list.Push(move.NewSpecial(60, 62, move.King, move.Castle))
	}
	if p.CastlingRights[move.BlackQueenside] &&
		occ&bitboard.FromSquares(57, 58, 59) == 0 &&
		danger&bitboard.FromSquares(60, 59, 58) == 0 {
		list.Push(move.NewSpecial(60, 58, move.King, move.Castle))
	}
}
