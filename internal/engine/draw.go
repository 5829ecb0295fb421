package engine

import "math/rand"

// drawNumber picks uniformly from the undrawn part of [1,90] by rejecting and
// resampling. Fine for a pool of at most 90; returns false once every number
// has been drawn.
func drawNumber(drawn map[int]bool) (int, bool) {
	if len(drawn) >= MaxNumber {
		return 0, false
	}
	for {
		n := 1 + rand.Intn(MaxNumber)
		if !drawn[n] {
			return n, true
		}
	}
}
