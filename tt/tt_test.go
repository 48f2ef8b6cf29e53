package tt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belikovartem/negamax/move"
)

func TestStoreThenProbeRoundTrips(t *testing.T) {
	table := New(1)
	best := move.New(12, 28, move.Knight)

	table.Store(0xdeadbeef, 123, 6, Exact, best, 2)

	score, depth, bound, got, found := table.Probe(0xdeadbeef, 2)
	require.True(t, found)
	assert.Equal(t, 123, score)
	assert.Equal(t, 6, depth)
	assert.Equal(t, Exact, bound)
	assert.Equal(t, best, got)
}

func TestProbeMissOnEmptySlot(t *testing.T) {
	table := New(1)
	_, _, _, _, found := table.Probe(0x12345, 0)
	assert.False(t, found)
}

func TestProbeMissOnTornWrite(t *testing.T) {
	table := New(1)
	table.Store(0x4242, 10, 3, Exact, 0, 0)

	// Corrupt the payload in place without touching the key, simulating a
	// concurrent writer's torn write: the reader's key^payload no longer
	// equals the Zobrist it probes with, so this must report a miss rather
	// than a wrong hit (spec §4.8/§9's lockless-verification contract).
	idx := table.index(0x4242)
	table.slots[idx].payload.Store(table.slots[idx].payload.Load() ^ 1)

	_, _, _, _, found := table.Probe(0x4242, 0)
	assert.False(t, found)
}

func TestMateScoreRoundTripsAtSameProbePly(t *testing.T) {
	table := New(1)
	table.Store(0xabc, IsMate+3, 10, Exact, 0, 5)

	// adjustStore/adjustProbe are inverses at a fixed ply: storing and
	// probing from the same ply must recover the original mate score
	// exactly (spec §4.8's mate-distance correction).
	score, _, _, _, found := table.Probe(0xabc, 5)
	require.True(t, found)
	assert.Equal(t, IsMate+3, score)
}

func TestMateScoreAdjustsAcrossDifferentPlies(t *testing.T) {
	// A mate stored at ply 5 probed from ply 2 is 3 plies closer from the
	// probe's perspective, so the recovered score should be 3 higher.
	stored := adjustStore(IsMate+3, 5)
	assert.Equal(t, IsMate+3, adjustProbe(stored, 5))
	assert.Equal(t, IsMate+6, adjustProbe(stored, 2))
}

func TestDeeperEntryNotEvictedByShallowerStore(t *testing.T) {
	table := New(1)
	deep := move.New(1, 2, move.Pawn)
	shallow := move.New(3, 4, move.Pawn)

	table.Store(0x777, 50, 10, Exact, deep, 0)
	table.Store(0x777, 60, 4, Exact, shallow, 0)

	_, depth, _, best, found := table.Probe(0x777, 0)
	require.True(t, found)
	assert.Equal(t, 10, depth)
	assert.Equal(t, deep, best)
}

func TestEqualOrDeeperStoreReplaces(t *testing.T) {
	table := New(1)
	first := move.New(1, 2, move.Pawn)
	second := move.New(3, 4, move.Pawn)

	table.Store(0x777, 50, 5, Exact, first, 0)
	table.Store(0x777, 60, 5, Exact, second, 0)

	_, _, _, best, found := table.Probe(0x777, 0)
	require.True(t, found)
	assert.Equal(t, second, best)
}

func TestAdvanceAgeAllowsShallowerReplacement(t *testing.T) {
	table := New(1)
	first := move.New(1, 2, move.Pawn)
	second := move.New(3, 4, move.Pawn)

	table.Store(0x777, 50, 10, Exact, first, 0)
	table.AdvanceAge()
	table.Store(0x777, 10, 2, Exact, second, 0)

	_, depth, _, best, found := table.Probe(0x777, 0)
	require.True(t, found)
	assert.Equal(t, 2, depth)
	assert.Equal(t, second, best)
}

func TestClearRemovesEveryEntry(t *testing.T) {
	table := New(1)
	table.Store(0x777, 50, 10, Exact, 0, 0)
	table.Clear()

	_, _, _, _, found := table.Probe(0x777, 0)
	assert.False(t, found)
}

func TestPackUnpackPayloadRoundTrips(t *testing.T) {
	best := move.New(5, 37, move.Queen)
	payload := packPayload(-4096, 17, Lower, best)
	score, depth, bound, got := unpackPayload(payload)
	assert.Equal(t, -4096, score)
	assert.Equal(t, 17, depth)
	assert.Equal(t, Lower, bound)
	assert.Equal(t, best, got)
}
