// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import (
	"io"
	"math/bits"

	"github.com/cosnicolaou/sqz/internal/rangecoder"
)

// eofSize is the sentinel value of the size model reserved to mark end
// of stream; it is never produced by an actual match since maxMatch is
// bounded well below it for the range-coder back end.
const eofSize = 255

// rcBackend is the range-coder entropy back end: a literal/match flag
// model, a literal byte model, a match-size model (length-minMatch,
// with eofSize reserved), a distance bit-length model, and one binary
// model per distance bit position.
type rcBackend struct {
	coder    *rangecoder.Coder
	flag     *rangecoder.Model
	lit      *rangecoder.Model
	size     *rangecoder.Model
	bitlen   *rangecoder.Model
	distBits [32]*rangecoder.Model
	minMatch int
}

func newRCEncodeBackend(w io.ByteWriter, minMatch int) *rcBackend {
	return newRCBackend(rangecoder.NewEncoder(w), minMatch)
}

func newRCDecodeBackend(r io.ByteReader, minMatch int) (*rcBackend, error) {
	c := rangecoder.NewDecoder(r)
	if err := c.Preload(); err != nil {
		return nil, newError("decode", KindIO, err)
	}
	return newRCBackend(c, minMatch), nil
}

func newRCBackend(c *rangecoder.Coder, minMatch int) *rcBackend {
	b := &rcBackend{
		coder:    c,
		flag:     rangecoder.NewModel(2),
		lit:      rangecoder.NewModel(256),
		size:     rangecoder.NewModel(256),
		bitlen:   rangecoder.NewModel(32),
		minMatch: minMatch,
	}
	for i := range b.distBits {
		b.distBits[i] = rangecoder.NewModel(2)
	}
	return b
}

func (b *rcBackend) encodeLiteral(v byte) error {
	if err := b.coder.EncodeSymbol(b.flag, 0); err != nil {
		return newError("encode", KindIO, err)
	}
	if err := b.coder.EncodeSymbol(b.lit, v); err != nil {
		return newError("encode", KindIO, err)
	}
	return nil
}

func (b *rcBackend) encodeMatch(length int, distance uint32) error {
	if length-b.minMatch >= eofSize {
		return newError("encode", KindTooBig, nil)
	}
	if err := b.coder.EncodeSymbol(b.flag, 1); err != nil {
		return newError("encode", KindIO, err)
	}
	if err := b.coder.EncodeSymbol(b.size, uint8(length-b.minMatch)); err != nil { //#nosec G115 -- checked above.
		return newError("encode", KindIO, err)
	}
	return b.encodeDistance(distance)
}

func (b *rcBackend) encodeDistance(distance uint32) error {
	nbits := bits.Len32(distance)
	if nbits == 0 || nbits > len(b.distBits) {
		return newError("encode", KindTooBig, nil)
	}
	if err := b.coder.EncodeSymbol(b.bitlen, uint8(nbits)); err != nil { //#nosec G115 -- bounded by len(distBits).
		return newError("encode", KindIO, err)
	}
	for i := nbits - 2; i >= 0; i-- {
		bit := uint8((distance >> uint(i)) & 1)
		if err := b.coder.EncodeSymbol(b.distBits[i], bit); err != nil {
			return newError("encode", KindIO, err)
		}
	}
	return nil
}

func (b *rcBackend) encodeEOF() error {
	if err := b.coder.EncodeSymbol(b.flag, 1); err != nil {
		return newError("encode", KindIO, err)
	}
	if err := b.coder.EncodeSymbol(b.size, eofSize); err != nil {
		return newError("encode", KindIO, err)
	}
	return nil
}

func (b *rcBackend) flush() error {
	if err := b.coder.Flush(); err != nil {
		return newError("encode", KindIO, err)
	}
	return nil
}

func (b *rcBackend) hasExplicitEOF() bool {
	return true
}

func (b *rcBackend) decodeToken() (tokenResult, error) {
	flag, err := b.coder.DecodeSymbol(b.flag)
	if err != nil {
		return tokenResult{}, newError("decode", KindIO, err)
	}
	if flag == 0 {
		v, err := b.coder.DecodeSymbol(b.lit)
		if err != nil {
			return tokenResult{}, newError("decode", KindIO, err)
		}
		return tokenResult{isLiteral: true, literal: v}, nil
	}
	size, err := b.coder.DecodeSymbol(b.size)
	if err != nil {
		return tokenResult{}, newError("decode", KindIO, err)
	}
	if size == eofSize {
		return tokenResult{eof: true}, nil
	}
	distance, err := b.decodeDistance()
	if err != nil {
		return tokenResult{}, err
	}
	return tokenResult{length: int(size) + b.minMatch, distance: distance}, nil
}

func (b *rcBackend) decodeDistance() (uint32, error) {
	nbitsSym, err := b.coder.DecodeSymbol(b.bitlen)
	if err != nil {
		return 0, newError("decode", KindIO, err)
	}
	nbits := int(nbitsSym)
	if nbits == 0 || nbits > len(b.distBits) {
		return 0, newError("decode", KindIllegalSequence, nil)
	}
	distance := uint32(1) << uint(nbits-1)
	for i := nbits - 2; i >= 0; i-- {
		bit, err := b.coder.DecodeSymbol(b.distBits[i])
		if err != nil {
			return 0, newError("decode", KindIO, err)
		}
		distance |= uint32(bit) << uint(i)
	}
	return distance, nil
}
