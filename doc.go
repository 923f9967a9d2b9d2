// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sqz implements a single-process, lossless byte-stream codec:
// a sliding-window match finder coupled to a selectable adaptive
// entropy coder (a range coder over Fenwick-tree probability models,
// or an adaptive-Huffman coder over Deflate-style length/distance
// tables). Encoding and decoding are both single-pass; an Encoder or
// Decoder holds no state beyond what is needed to process the next
// byte, and does no file I/O of its own — callers supply byte sinks
// and sources.
package sqz
