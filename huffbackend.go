// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import (
	"io"

	"github.com/cosnicolaou/sqz/internal/bitio"
	"github.com/cosnicolaou/sqz/internal/deflate"
	"github.com/cosnicolaou/sqz/internal/vitter"
)

// litLenSize is the size of the combined literal/length alphabet: 256
// literal byte values plus the 29 Deflate-style length codes (285
// symbols), rounded up to 512.
const litLenSize = 512

// distSize is the next power of two at or above the 30 Deflate-style
// distance codes.
const distSize = 32

// huffBackend is the adaptive-Huffman entropy back end: two Vitter
// trees (literal/length, distance) plus a bit-packed writer/reader.
// It never entropy-codes an end-of-stream marker; the driver stops
// once it has produced the expected number of output bytes, which it
// learns from outside the core codec (the container's length prefix).
type huffBackend struct {
	litLen *vitter.Tree
	dist   *vitter.Tree
	w      *bitio.Writer
	r      *bitio.Reader
}

func newHuffEncodeBackend(w io.Writer) *huffBackend {
	return &huffBackend{
		litLen: vitter.NewTree(litLenSize),
		dist:   vitter.NewTree(distSize),
		w:      bitio.NewWriter(w),
	}
}

func newHuffDecodeBackend(r io.Reader) *huffBackend {
	return &huffBackend{
		litLen: vitter.NewTree(litLenSize),
		dist:   vitter.NewTree(distSize),
		r:      bitio.NewReader(r),
	}
}

func (b *huffBackend) encodeLiteral(v byte) error {
	if err := b.litLen.EncodeSymbol(b.w, uint16(v)); err != nil {
		return newError("encode", KindIO, err)
	}
	return nil
}

func (b *huffBackend) encodeMatch(length int, distance uint32) error {
	code, extra, extraBits := deflate.LengthCode(length)
	sym := uint16(256 + code)
	if err := b.litLen.EncodeSymbol(b.w, sym); err != nil {
		return newError("encode", KindIO, err)
	}
	if extraBits > 0 {
		if err := b.w.WriteBits(uint64(extra), uint(extraBits)); err != nil {
			return newError("encode", KindIO, err)
		}
	}
	dcode, dextra, dextraBits := deflate.DistCode(distance)
	if err := b.dist.EncodeSymbol(b.w, uint16(dcode)); err != nil {
		return newError("encode", KindIO, err)
	}
	if dextraBits > 0 {
		if err := b.w.WriteBits(uint64(dextra), uint(dextraBits)); err != nil {
			return newError("encode", KindIO, err)
		}
	}
	return nil
}

func (b *huffBackend) encodeEOF() error {
	return nil
}

func (b *huffBackend) flush() error {
	if err := b.w.Close(); err != nil {
		return newError("encode", KindIO, err)
	}
	return nil
}

func (b *huffBackend) hasExplicitEOF() bool {
	return false
}

func (b *huffBackend) decodeToken() (tokenResult, error) {
	sym, err := b.litLen.DecodeSymbol(b.r)
	if err != nil {
		return tokenResult{}, newError("decode", KindIO, err)
	}
	if sym < 256 {
		return tokenResult{isLiteral: true, literal: byte(sym)}, nil
	}
	code := int(sym) - 256
	if code >= len(deflate.LengthBase) {
		return tokenResult{}, newError("decode", KindIllegalSequence, nil)
	}
	length := int(deflate.LengthBase[code])
	if eb := deflate.LengthExtra[code]; eb > 0 {
		extra, err := b.r.ReadBits(uint(eb))
		if err != nil {
			return tokenResult{}, newError("decode", KindIO, err)
		}
		length += int(extra)
	}
	dcode, err := b.dist.DecodeSymbol(b.r)
	if err != nil {
		return tokenResult{}, newError("decode", KindIO, err)
	}
	if int(dcode) >= len(deflate.DistBase) {
		return tokenResult{}, newError("decode", KindIllegalSequence, nil)
	}
	distance := deflate.DistBase[dcode]
	if eb := deflate.DistExtra[dcode]; eb > 0 {
		extra, err := b.r.ReadBits(uint(eb))
		if err != nil {
			return tokenResult{}, newError("decode", KindIO, err)
		}
		distance += uint32(extra) //#nosec G115 -- extra bounded by 13 bits.
	}
	return tokenResult{length: length, distance: distance}, nil
}
