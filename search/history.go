package search

import (
	"github.com/belikovartem/negamax/bitboard"
	"github.com/belikovartem/negamax/move"
)

// historyTable scores quiet moves by how often they have raised alpha in
// the past, indexed by side/from/to (spec §3: "64x64 per side"). Like the
// killer table it is thread-private.
type historyTable struct {
	counts [2][64][64]int32
}

// Add rewards a quiet move that raised alpha, weighted by depth squared so
// cutoffs found deep in the tree count for more than shallow ones.
func (h *historyTable) Add(side move.Side, from, to bitboard.Square, depth int) {
	h.counts[side][from][to] += int32(depth * depth)
}

// Get returns the accumulated score for side's from->to quiet move.
func (h *historyTable) Get(side move.Side, from, to bitboard.Square) int32 {
	return h.counts[side][from][to]
}
