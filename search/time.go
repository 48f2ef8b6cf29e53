package search

import "time"

// AllocateTime implements spec §4.6's clock-based budget formula: roughly
// a fortieth of the remaining clock plus half the increment, clamped so it
// never eats into the last half second of the remaining time (move
// overhead), and never goes negative.
func AllocateTime(remaining, inc time.Duration) time.Duration {
	alloc := remaining/40 + inc/2

	if cap := remaining - 500*time.Millisecond; alloc > cap {
		alloc = cap
	}
	if alloc < 0 {
		alloc = inc / 2
		if alloc < 0 {
			alloc = 0
		}
	}
	return alloc
}
