// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package match implements the sliding-window match finder: a
// reference linear back-scan and a BST-based acceleration index which
// must agree with it on every (length, distance) result.
package match

// Match is a single (length, distance) result: a run of Length bytes
// starting at the current position that is identical to a run starting
// Distance bytes earlier.
type Match struct {
	Length   int
	Distance uint32
}

// Found reports whether m represents an actual match (as opposed to
// the zero value, meaning none was found).
func (m Match) Found() bool {
	return m.Length > 0
}

// Linear finds the longest match starting at pos within the preceding
// window bytes of data, using the reference back-scan algorithm: it
// tries every candidate start position from pos-1 down to
// max(0, pos-window), keeping the longest run found and, among equal
// lengths, the one with the smallest distance (since the scan already
// proceeds from smallest to largest distance, only a strictly longer
// run ever replaces the current best).
func Linear(data []byte, pos int, window uint32, minMatch, maxMatch int) Match {
	var best Match
	if pos <= 0 {
		return best
	}
	limit := pos - int(window)
	if limit < 0 {
		limit = 0
	}
	avail := len(data) - pos
	if avail > maxMatch {
		avail = maxMatch
	}
	for cand := pos - 1; cand >= limit; cand-- {
		n := matchLen(data, cand, pos, avail)
		if n > best.Length {
			best = Match{Length: n, Distance: uint32(pos - cand)} //#nosec G115 -- distance bounded by window.
			if n >= maxMatch {
				break
			}
		}
	}
	if best.Length < minMatch {
		return Match{}
	}
	return best
}

// matchLen returns how many bytes starting at cand equal the bytes
// starting at pos, up to limit bytes.
func matchLen(data []byte, cand, pos, limit int) int {
	n := 0
	for n < limit && data[cand+n] == data[pos+n] {
		n++
	}
	return n
}
