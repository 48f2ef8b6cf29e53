package search

import (
	"github.com/belikovartem/negamax/move"
	"github.com/belikovartem/negamax/movegen"
	"github.com/belikovartem/negamax/position"
	"github.com/belikovartem/negamax/tt"
)

// extractPV walks the shared table from root, following each stored best
// move forward, to reconstruct the principal variation for reporting
// (spec §4.9's PV extraction). It works on its own clone so it never
// disturbs the caller's position.
func extractPV(root *position.Position, table *tt.Table) []move.Move {
	pos := root.Clone()
	var pv []move.Move
	seen := make(map[uint64]bool)

	for len(pv) < tt.MaxPly {
		if seen[pos.Hash] {
			break
		}
		seen[pos.Hash] = true

		_, _, _, best, found := table.Probe(pos.Hash, pos.SearchPly)
		if !found || best.IsNull() {
			break
		}

		list := movegen.Generate(pos)
		legal := false
		for i := 0; i < list.Len; i++ {
			if list.Moves[i] == best {
				legal = true
				break
			}
		}
		if !legal {
			break
		}

		pv = append(pv, best)
		pos.MakeMove(best)
	}

	if len(pv) == 0 {
		list := movegen.Generate(root)
		if list.Len > 0 {
			pv = append(pv, list.Moves[0])
		}
	}
	return pv
}
