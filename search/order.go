package search

import (
	"github.com/belikovartem/negamax/move"
)

// Move ordering key bands, highest first (spec §3/§4.7): the
// transposition table's remembered best move always goes first, then
// captures ranked by MVV-LVA, then the two killer quiets for this ply,
// then every other quiet move by its history score, capped so it can
// never climb into the killer band.
const (
	ttMoveKey     int32 = 2_000_000
	mvvLvaBase    int32 = 1_000_000
	killer1Key    int32 = 900_000
	killer2Key    int32 = 890_000
	maxHistoryKey int32 = 880_000
)

// pieceValueRank orders pieces by approximate value for MVV-LVA, distinct
// from move.Piece's spec-mandated promotion-encoding order.
var pieceValueRank = [move.NumPieces]int32{
	move.Pawn:   0,
	move.Knight: 1,
	move.Bishop: 1,
	move.Rook:   2,
	move.Queen:  3,
	move.King:   4,
}

// mvvLvaKey implements spec §4.7's formula: most valuable victim first,
// ties broken by least valuable attacker.
func mvvLvaKey(victim, attacker move.Piece) int32 {
	return mvvLvaBase + pieceValueRank[victim]*10 + (4 - pieceValueRank[attacker])
}

// orderMoves assigns an ordering key to every move in list ahead of a
// search node's move loop. list.Selected then does selection-sort-on-demand
// over these keys.
func orderMoves(list *move.List, ttMove move.Move, killers [2]move.Move, hist *historyTable, us move.Side) {
	for i := 0; i < list.Len; i++ {
		m := list.Moves[i]
		var key int32
		switch {
		case !ttMove.IsNull() && m == ttMove:
			key = ttMoveKey
		case m.IsCapture():
			key = mvvLvaKey(m.Captured(), m.Piece())
		case m == killers[0]:
			key = killer1Key
		case m == killers[1]:
			key = killer2Key
		default:
			h := hist.Get(us, m.From(), m.To())
			if h > maxHistoryKey {
				h = maxHistoryKey
			}
			key = h
		}
		list.Keys[i] = key
	}
}

// orderCaptures assigns MVV-LVA keys to a captures-only list, as used by
// quiescence search.
func orderCaptures(list *move.List) {
	for i := 0; i < list.Len; i++ {
		m := list.Moves[i]
		list.Keys[i] = mvvLvaKey(m.Captured(), m.Piece())
	}
}
