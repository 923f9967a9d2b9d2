// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package stats reports histogram and entropy diagnostics about a byte
// stream, for test harnesses and the CLI's verbose output (cmd/sqz's
// -verbose flag). It is never imported by the core codec packages.
package stats

import "math"

// Histogram is a 256-bucket count of byte values.
type Histogram [256]uint64

// Build returns the Histogram of data.
func Build(data []byte) Histogram {
	var h Histogram
	for _, b := range data {
		h[b]++
	}
	return h
}

// Entropy returns the Shannon entropy, in bits per byte, implied by h.
func (h Histogram) Entropy() float64 {
	var total uint64
	for _, c := range h {
		total += c
	}
	if total == 0 {
		return 0
	}
	var bitsPerByte float64
	for _, c := range h {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		bitsPerByte -= p * math.Log2(p)
	}
	return bitsPerByte
}

// MinBytes returns the theoretical minimum number of bytes an ideal
// entropy coder could represent data in, given its own histogram.
func MinBytes(data []byte) float64 {
	h := Build(data)
	return h.Entropy() * float64(len(data)) / 8
}

// Ratio reports compressed/original as a percentage, for progress and
// summary reporting.
func Ratio(original, compressed int) float64 {
	if original == 0 {
		return 0
	}
	return 100 * float64(compressed) / float64(original)
}
