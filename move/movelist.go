package move

// maxMoves bounds the number of pseudo-legal/legal moves any chess
// position can have. 218 is the documented theoretical maximum; the spec
// budgets "≈200", we keep the same headroom the teacher's MoveList used.
const maxMoves = 218

/*
List is a fixed-capacity move buffer with a parallel array of ordering
keys (see search's move-ordering pass, spec.md §4.7). Avoiding a slice of
structs keeps the hot move-generation loop allocation-free.
*/
type List struct {
	Moves [maxMoves]Move
	Keys  [maxMoves]int32
	Len   int
}

// Push appends a move with ordering key 0; callers that order moves set
// Keys[i] afterwards (see search.orderMoves).
func (l *List) Push(m Move) {
	l.Moves[l.Len] = m
	l.Len++
}

// PushKeyed appends a move together with its ordering key.
func (l *List) PushKeyed(m Move, key int32) {
	l.Moves[l.Len] = m
	l.Keys[l.Len] = key
	l.Len++
}

// Reset empties the list for reuse.
func (l *List) Reset() { l.Len = 0 }

// Selected implements selection-sort-on-demand: given the index of the
// slot about to be visited, it scans the remainder for the maximum key
// and swaps it into place. This matches spec.md §4.7's "before visiting
// slot i, scan i+1..len and swap in the maximum-key move" prescription,
// which keeps full moves unsorted until they are actually needed —
// useful since search usually beta-cuts before scanning the whole list.
func (l *List) Selected(i int) Move {
	best := i
	for j := i + 1; j < l.Len; j++ {
		if l.Keys[j] > l.Keys[best] {
			best = j
		}
	}
	if best != i {
		l.Moves[i], l.Moves[best] = l.Moves[best], l.Moves[i]
		l.Keys[i], l.Keys[best] = l.Keys[best], l.Keys[i]
	}
	return l.Moves[i]
}
