// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package deflate holds the RFC1951 length/distance base-and-extra-bits
// tables used by the adaptive-Huffman back end to turn a match's raw
// (length, distance) pair into a small code plus a handful of literal
// extra bits, rather than growing the alphabet to cover every possible
// value directly.
package deflate

// LengthBase and LengthExtra give, for length code i (0-based, i.e.
// symbol 256+i in the combined literal/length tree), the smallest
// match length it represents and the number of extra bits that follow
// to select the exact length within its range. Code 28 (length 258)
// takes no extra bits, matching RFC1951's single reserved "length 258"
// code.
var LengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var LengthExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// DistBase and DistExtra give, for distance code i, the smallest match
// distance it represents and the number of extra bits that follow to
// select the exact distance within its range.
var DistBase = [30]uint32{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var DistExtra = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// LengthCode returns the length-code index (0-based; add 256 for the
// combined tree's symbol id) and the extra-bits value for a match of
// the given length, which must be in [3, 258].
func LengthCode(length int) (code int, extra uint32, extraBits uint8) {
	for i := len(LengthBase) - 1; i >= 0; i-- {
		if length >= int(LengthBase[i]) {
			return i, uint32(length) - uint32(LengthBase[i]), LengthExtra[i]
		}
	}
	return 0, 0, 0
}

// DistCode returns the distance-code index and the extra-bits value
// for a match distance, which must be in [1, 32768].
func DistCode(dist uint32) (code int, extra uint32, extraBits uint8) {
	for i := len(DistBase) - 1; i >= 0; i-- {
		if dist >= DistBase[i] {
			return i, dist - DistBase[i], DistExtra[i]
		}
	}
	return 0, 0, 0
}
