// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import "github.com/cosnicolaou/sqz/internal/match"

// BackEnd selects which entropy coder couples with the match finder.
type BackEnd int

const (
	// RangeCoder selects the range coder over Fenwick-tree probability
	// models; matches are limited to [3, 254] bytes.
	RangeCoder BackEnd = iota
	// AdaptiveHuffman selects the Vitter-style adaptive Huffman back
	// end over Deflate-style length/distance tables; matches are
	// limited to [3, 258] bytes.
	AdaptiveHuffman
)

const (
	minWindow = 1 << 10
	maxWindow = 1 << 16

	defaultWindow = 1 << 15

	// maxHuffmanWindow is the largest window the adaptive-Huffman back
	// end can use: its distance table (internal/deflate) tops out at
	// base 24577 + 13 extra bits (8191), representing distances up to
	// 32768, half of what a 65536-radius window can produce.
	maxHuffmanWindow = 1 << 15
)

// config holds the resolved effect of every Option; it is built fresh
// by each NewEncoder/NewDecoder call and never mutated afterward.
type config struct {
	window   uint32
	backEnd  BackEnd
	tree     *match.Tree
	minMatch int
	maxMatch int
}

func defaultConfig() *config {
	return &config{
		window:   defaultWindow,
		backEnd:  RangeCoder,
		minMatch: 3,
		maxMatch: 254,
	}
}

// Option configures an Encoder or Decoder. Options are applied in
// order; later options override earlier ones.
type Option func(*config)

// Window sets the sliding-window radius, which must be a power of two
// in [2^10, 2^16] — or, when paired with WithBackEnd(AdaptiveHuffman),
// [2^10, 2^15], since that back end's Deflate-style distance table
// cannot represent distances past 32768. The same window must be used
// to encode and decode a given stream.
func Window(w uint32) Option {
	return func(c *config) {
		c.window = w
	}
}

// WithBackEnd selects the entropy coder back end. The same back end
// must be used to encode and decode a given stream.
func WithBackEnd(b BackEnd) Option {
	return func(c *config) {
		c.backEnd = b
		if b == AdaptiveHuffman {
			c.maxMatch = 258
		} else {
			c.maxMatch = 254
		}
	}
}

// MapStorage supplies a match.Tree to accelerate match finding. If
// unset, the encoder falls back to the reference linear scan.
func MapStorage(t *match.Tree) Option {
	return func(c *config) {
		c.tree = t
	}
}

// MinMatch overrides the minimum match length considered by the match
// finder.
func MinMatch(n int) Option {
	return func(c *config) {
		c.minMatch = n
	}
}

// MaxMatch overrides the maximum match length considered by the match
// finder; it must not exceed the configured back end's ceiling (254
// for RangeCoder, 258 for AdaptiveHuffman).
func MaxMatch(n int) Option {
	return func(c *config) {
		c.maxMatch = n
	}
}

func (c *config) validate() error {
	if c.window < minWindow || c.window > maxWindow || c.window&(c.window-1) != 0 {
		return newError("config", KindInvalidArgument, nil)
	}
	if c.minMatch < 1 || c.minMatch > c.maxMatch {
		return newError("config", KindInvalidArgument, nil)
	}
	limit := 254
	if c.backEnd == AdaptiveHuffman {
		limit = 258
	}
	if c.maxMatch > limit {
		return newError("config", KindInvalidArgument, nil)
	}
	if c.backEnd == AdaptiveHuffman && c.window > maxHuffmanWindow {
		return newError("config", KindInvalidArgument, nil)
	}
	return nil
}
