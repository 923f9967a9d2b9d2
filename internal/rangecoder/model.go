// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rangecoder implements an adaptive range coder over per-context
// probability models backed by Fenwick (binary indexed) trees, as
// described for the range-coder back end of the sqz codec.
package rangecoder

// maxFreq bounds the total frequency a Model will accumulate before it
// silently stops updating; this in turn bounds the rescaling the range
// coder has to perform.
const maxFreq = 1 << (64 - 8)

// Model is a probability model over 256 symbols: a frequency vector
// with a parallel Fenwick tree for O(log n) prefix-sum queries.
type Model struct {
	freq [256]uint64
	tree [256]uint64
}

// NewModel returns a Model whose first n symbols start with frequency
// 1 and the rest with frequency 0.
func NewModel(n int) *Model {
	m := &Model{}
	m.Init(n)
	return m
}

// Init (re)initializes the model: symbols [0,n) get frequency 1,
// symbols [n,256) get frequency 0.
func (m *Model) Init(n int) {
	for i := range m.freq {
		if i < n {
			m.freq[i] = 1
		} else {
			m.freq[i] = 0
		}
	}
	fenwickInit(m.tree[:], m.freq[:])
}

// Freq returns the current frequency of sym.
func (m *Model) Freq(sym uint8) uint64 {
	return m.freq[sym]
}

// Cumulative returns the sum of frequencies of all symbols strictly
// below sym.
func (m *Model) Cumulative(sym uint8) uint64 {
	if sym == 0 {
		return 0
	}
	return fenwickQuery(m.tree[:], int(sym)-1)
}

// Total returns the sum of all frequencies.
func (m *Model) Total() uint64 {
	return m.tree[len(m.tree)-1]
}

// Update adds inc to the frequency of sym, unless the model has
// reached its saturation cap, in which case the update is silently
// dropped.
func (m *Model) Update(sym uint8, inc uint64) {
	if m.Total() >= maxFreq {
		return
	}
	m.freq[sym] += inc
	fenwickUpdate(m.tree[:], int(sym), inc)
}

// IndexOf returns the symbol s such that Cumulative(s) <= sum <
// Cumulative(s+1), or -1 if sum is out of range.
func (m *Model) IndexOf(sum uint64) int {
	return fenwickIndexOf(m.tree[:], sum)
}

// lsb returns the value of the least significant set bit of i.
func lsb(i int) int {
	return i & (-i)
}

func fenwickInit(tree, a []uint64) {
	n := len(a)
	copy(tree, a)
	for i := 1; i <= n; i++ {
		if parent := i + lsb(i); parent <= n {
			tree[parent-1] += tree[i-1]
		}
	}
}

func fenwickUpdate(tree []uint64, i int, inc uint64) {
	n := len(tree)
	for i < n {
		tree[i] += inc
		i += lsb(i + 1)
	}
}

// fenwickQuery returns the prefix sum of a[0..i] inclusive.
func fenwickQuery(tree []uint64, i int) uint64 {
	var sum uint64
	for i >= 0 {
		if i < len(tree) {
			sum += tree[i]
		}
		i -= lsb(i + 1)
	}
	return sum
}

// fenwickIndexOf returns the symbol s such that the cumulative
// frequency of the symbols below s is <= sum and the cumulative
// frequency of the symbols below s+1 is > sum.
func fenwickIndexOf(tree []uint64, sum uint64) int {
	n := len(tree)
	if sum >= tree[n-1] {
		return -1
	}
	pos := 0
	remaining := sum
	for mask := n >> 1; mask != 0; mask >>= 1 {
		next := pos + mask
		if next <= n && tree[next-1] <= remaining {
			pos = next
			remaining -= tree[next-1]
		}
	}
	return pos
}
