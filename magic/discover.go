package magic

import "math/rand/v2"

// sparseRandom draws a 64-bit candidate biased toward few set bits by
// AND-ing two independent draws, exactly as spec.md §4.2 prescribes: magic
// multipliers that spread a handful of relevant-occupancy bits across the
// table index tend to collide less than dense random words.
func sparseRandom() uint64 {
	return rand.Uint64() & rand.Uint64()
}

// Find searches for a working magic multiplier for sq given its relevant
// occupancy mask and index-bit width, by sampling sparse random candidates
// and verifying every blocker subset maps to a consistent attack set
// (spec.md §4.2's rejection rule: "if any two distinct blocker subsets
// collide on distinct attack sets, reject and resample").
//
// Find is not called at program start — the tables below are built from
// the pinned magics in numbers.go — but is kept as a way to produce
// replacement numbers, mirroring how shipped engines keep a magic-finder
// tool alongside their pinned tables.
func Find(mask uint64, bits int, slowAttacks func(occupancy uint64) uint64) uint64 {
	table := make([]uint64, 1<<uint(bits))
	filled := make([]bool, 1<<uint(bits))

	for attempt := 0; attempt < 100_000_000; attempt++ {
		candidate := sparseRandom()
		// A magic multiplier must scatter the top bits of the relevant
		// mask widely; reject candidates whose product has too few bits
		// set in the high byte, the standard heuristic filter.
		if popcount((mask*candidate)&0xFF00000000000000) < 6 {
			continue
		}

		clear(table)
		clear(filled)
		ok := true

		sub := uint64(0)
		for {
			occupancy := sub
			attacks := slowAttacks(occupancy)
			index := (occupancy * candidate) >> (64 - uint(bits))

			if !filled[index] {
				filled[index] = true
				table[index] = attacks
			} else if table[index] != attacks {
				ok = false
				break
			}

			// Carry-Rippler: enumerate the next blocker subset of mask.
			sub = (sub - mask) & mask
			if sub == 0 {
				break
			}
		}

		if ok {
			return candidate
		}
	}
	panic("magic: no candidate found within attempt budget")
}

func popcount(v uint64) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}
