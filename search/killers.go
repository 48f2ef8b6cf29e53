package search

import (
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/tt"
)

// killerTable holds, for each ply up to tt.MaxPly, the two most-recently
// seen quiet moves that caused a beta cutoff at that ply (spec §3). It is
// thread-private: sharing it across Lazy-SMP workers would let one
// thread's ordering hints race another's, and the transposition table
// already disseminates the knowledge that matters across threads.
type killerTable struct {
	moves [tt.MaxPly][2]move.Move
}

// At returns the two killers for ply, most-recent first.
func (k *killerTable) At(ply int) [2]move.Move {
	if ply < 0 || ply >= len(k.moves) {
		return [2]move.Move{}
	}
	return k.moves[ply]
}

// Add records m as the newest killer at ply, demoting the previous first
// killer to second. A repeat of the current first killer is a no-op.
func (k *killerTable) Add(ply int, m move.Move) {
	if ply < 0 || ply >= len(k.moves) {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}
