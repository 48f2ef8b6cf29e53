/*
Package tt implements the shared lock-less transposition table: a fixed
array of entries addressed by Zobrist hash modulo table size, each slot
self-verified by XOR-ing the Zobrist key into the packed payload so a
reader can detect a torn write from a concurrent writer without ever
taking a lock (the Hyatt-Mann technique, confirmed against the original
engine's lockless.rs). Lazy-SMP search workers share one Table and never
coordinate beyond this XOR-verify contract.
*/
package tt

import (
	"sync/atomic"

	"github.com/belikovartem/negamax/move"
)

// Infinity bounds every real evaluation; mate scores are reported as
// Infinity minus a small distance-to-mate term, which is why IsMate sits
// comfortably below Infinity with enough headroom for MaxPly of distance.
const (
	Infinity = 32000
	MaxPly   = 128
	IsMate   = Infinity - MaxPly
)

// Bound is the kind of score a transposition entry carries: the search
// either found the position's exact value, or only a bound on it because
// alpha-beta cut the search short.
type Bound uint8

const (
	Exact Bound = iota
	Lower       // fail-high: true score is >= the stored score
	Upper       // fail-low: true score is <= the stored score
)

const (
	moveBits  = 32
	scoreBits = 16
	depthBits = 6
	boundBits = 2

	scoreShift = moveBits
	depthShift = scoreShift + scoreBits
	boundShift = depthShift + depthBits

	scoreMask = uint64(1)<<scoreBits - 1
	depthMask = uint64(1)<<depthBits - 1
	boundMask = uint64(1)<<boundBits - 1

	// scoreBias offsets a signed score into the unsigned 16-bit field;
	// spec.md §3 calls this "offset by +INFINITY".
	scoreBias = Infinity
)

func packPayload(score, depth int, bound Bound, best move.Move) uint64 {
	biased := uint64(int64(score) + scoreBias)
	return uint64(best) |
		(biased&scoreMask)<<scoreShift |
		(uint64(depth)&depthMask)<<depthShift |
		(uint64(bound)&boundMask)<<boundShift
}

func unpackPayload(payload uint64) (score, depth int, bound Bound, best move.Move) {
	best = move.Move(uint32(payload))
	score = int((payload>>scoreShift)&scoreMask) - scoreBias
	depth = int((payload >> depthShift) & depthMask)
	bound = Bound((payload >> boundShift) & boundMask)
	return
}

// slot holds one table entry: the packed payload and the Zobrist XOR key
// that lets a reader detect a torn or mismatched read, plus a replacement
// age. All three fields are written independently and without a lock;
// see Probe for the verification a reader must perform.
type slot struct {
	key     atomic.Uint64
	payload atomic.Uint64
	age     atomic.Uint32
}

// Table is the shared search cache. Allocated once and never resized;
// cleared wholesale on a new-game signal.
type Table struct {
	slots []slot
	age   atomic.Uint32
}

// New allocates a table sized to hold approximately sizeMB megabytes of
// entries (the slot count is not rounded to a power of two; index takes
// the hash modulo the slot count).
func New(sizeMB int) *Table {
	const bytesPerSlot = 24 // two uint64 + one uint32, rounded up
	count := sizeMB * 1024 * 1024 / bytesPerSlot
	if count < 1 {
		count = 1
	}
	return &Table{slots: make([]slot, count)}
}

func (t *Table) index(zobrist uint64) uint64 {
	return zobrist % uint64(len(t.slots))
}

// AdvanceAge bumps the generation counter once per completed root search
// (spec §3's "age counter is advanced once per completed root search"),
// making every entry written before now eligible for replacement even at
// equal depth.
func (t *Table) AdvanceAge() {
	t.age.Add(1)
}

// Clear zeroes every slot, discarding all cached search results.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i].key.Store(0)
		t.slots[i].payload.Store(0)
		t.slots[i].age.Store(0)
	}
	t.age.Store(0)
}

// adjustStore converts a score found at searchPly plies from the root
// into "distance from this table slot" form: mate scores get the
// current ply folded in so the same cached entry scores correctly no
// matter how deep in a different branch it's probed from later (spec
// §4.8, §9).
func adjustStore(score, ply int) int {
	switch {
	case score >= IsMate:
		return score + ply
	case score <= -IsMate:
		return score - ply
	default:
		return score
	}
}

// adjustProbe is adjustStore's inverse.
func adjustProbe(score, ply int) int {
	switch {
	case score >= IsMate:
		return score - ply
	case score <= -IsMate:
		return score + ply
	default:
		return score
	}
}

// Store writes a search result. Replacement policy (spec §4.8): always
// overwrite an empty slot or one from an earlier search generation;
// otherwise only overwrite when the new result was computed at least as
// deep as what's there, so a shallow re-probe never evicts a deeper one.
func (t *Table) Store(zobrist uint64, score, depth int, bound Bound, best move.Move, ply int) {
	idx := t.index(zobrist)
	s := &t.slots[idx]

	currentAge := t.age.Load()
	existingPayload := s.payload.Load()
	existingKey := s.key.Load()
	empty := existingPayload == 0 && existingKey == 0
	stale := s.age.Load() != currentAge

	if !empty && !stale {
		_, existingDepth, _, _ := unpackPayload(existingPayload)
		if depth < existingDepth {
			return
		}
	}

	payload := packPayload(adjustStore(score, ply), depth, bound, best)
	s.payload.Store(payload)
	s.key.Store(zobrist ^ payload)
	s.age.Store(currentAge)
}

// Probe looks up zobrist and, on a hit, returns the stored score adjusted
// back to ply-relative terms, the depth it was searched to, its bound
// kind, and the best move for ordering. found is false for an empty slot,
// a torn concurrent write, or a different position hashing to the same
// slot — all three are indistinguishable to the reader and all three are
// correctly treated as a miss.
func (t *Table) Probe(zobrist uint64, ply int) (score, depth int, bound Bound, best move.Move, found bool) {
	idx := t.index(zobrist)
	s := &t.slots[idx]

	payload := s.payload.Load()
	key := s.key.Load()
	if key^payload != zobrist {
		return 0, 0, 0, 0, false
	}

	rawScore, depth, bound, best := unpackPayload(payload)
	score = adjustProbe(rawScore, ply)
	return score, depth, bound, best, true
}
