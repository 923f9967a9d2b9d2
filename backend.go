// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

// backend couples a match finder's output stream of literals and
// matches to an entropy coder. The two implementations — rcBackend
// (range coder over Fenwick-tree models) and huffBackend (adaptive
// Huffman over Deflate-style tables) — differ in how (or whether) they
// mark end of stream: rcBackend entropy-codes an explicit sentinel,
// huffBackend relies entirely on the caller already knowing the exact
// decompressed length (carried out of band, e.g. by the container
// format) and simply stops decoding once that many bytes have been
// produced.
type backend interface {
	encodeLiteral(b byte) error
	encodeMatch(length int, distance uint32) error
	// encodeEOF writes whatever end-of-stream marker this back end
	// uses. For huffBackend this is a no-op.
	encodeEOF() error
	// flush drains any coder state that must be emitted once encoding
	// is complete (range coder register drain, final partial bit
	// word).
	flush() error

	// hasExplicitEOF reports whether decodeToken can return an eof
	// token, as opposed to the caller determining end of stream by
	// output length alone.
	hasExplicitEOF() bool
	// decodeToken reads and returns the next token: either a literal
	// byte (isLiteral true), a match (isLiteral false, eof false), or
	// — for back ends with an explicit marker — the end-of-stream
	// token (eof true).
	decodeToken() (tokenResult, error)
}

type tokenResult struct {
	isLiteral bool
	eof       bool
	literal   byte
	length    int
	distance  uint32
}
