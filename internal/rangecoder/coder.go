// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package rangecoder

import (
	"errors"
	"io"
)

// ErrInvalidFrequency is returned when a model's total frequency is
// zero at the point a symbol must be decoded from it.
var ErrInvalidFrequency = errors.New("rangecoder: invalid frequency")

// ErrIllegalSequence is returned when the resolved symbol index is out
// of range or has zero frequency.
var ErrIllegalSequence = errors.New("rangecoder: illegal sequence")

// Coder is a range coder operating on 64-bit low/range (and, while
// decoding, code) registers. A Coder is either an encoder (Writer set)
// or a decoder (Reader set); the two must be driven with models of
// identical shape for the stream to stay in lockstep.
type Coder struct {
	low, rng, code uint64
	w              io.ByteWriter
	r              io.ByteReader
	err            error
}

// NewEncoder returns a Coder that emits bytes to w as symbols are
// encoded.
func NewEncoder(w io.ByteWriter) *Coder {
	return &Coder{rng: ^uint64(0), w: w}
}

// NewDecoder returns a Coder that consumes bytes from r as symbols are
// decoded. Preload must be called once before the first DecodeSymbol.
func NewDecoder(r io.ByteReader) *Coder {
	return &Coder{rng: ^uint64(0), r: r}
}

// Err returns the first error encountered by the coder; once set it is
// sticky and no further bytes are read or written.
func (c *Coder) Err() error {
	return c.err
}

func (c *Coder) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Coder) emit() {
	if c.err != nil {
		return
	}
	if err := c.w.WriteByte(byte(c.low >> 56)); err != nil {
		c.setErr(err)
		return
	}
	c.low <<= 8
	c.rng <<= 8
}

func (c *Coder) consume() {
	if c.err != nil {
		return
	}
	b, err := c.r.ReadByte()
	if err != nil {
		c.setErr(err)
		return
	}
	c.code = (c.code << 8) + uint64(b)
	c.low <<= 8
	c.rng <<= 8
}

func (c *Coder) topByteSame() bool {
	return (c.low >> 56) == ((c.low + c.rng) >> 56)
}

// EncodeSymbol encodes sym under model m and updates m.
func (c *Coder) EncodeSymbol(m *Model, sym uint8) error {
	if c.err != nil {
		return c.err
	}
	total := m.Total()
	start := m.Cumulative(sym)
	size := m.Freq(sym)
	c.rng /= total
	c.low += start * c.rng
	c.rng *= size
	m.Update(sym, 1)
	for c.err == nil && c.topByteSame() {
		c.emit()
	}
	if c.err == nil && c.rng < total+1 {
		c.emit()
		c.emit()
		if c.err == nil {
			c.rng = ^uint64(0) - c.low
		}
	}
	return c.err
}

// Preload reads the first 8 bytes of an encoded stream into the code
// register, as required before the first DecodeSymbol call.
func (c *Coder) Preload() error {
	for i := 0; i < 8 && c.err == nil; i++ {
		b, err := c.r.ReadByte()
		if err != nil {
			c.setErr(err)
			break
		}
		c.code = (c.code << 8) + uint64(b)
	}
	return c.err
}

// DecodeSymbol decodes and returns the next symbol under model m and
// updates m.
func (c *Coder) DecodeSymbol(m *Model) (uint8, error) {
	if c.err != nil {
		return 0, c.err
	}
	total := m.Total()
	if total == 0 {
		c.setErr(ErrInvalidFrequency)
		return 0, c.err
	}
	if c.rng < total {
		c.consume()
		c.consume()
		if c.err != nil {
			return 0, c.err
		}
		c.rng = ^uint64(0) - c.low
	}
	sum := (c.code - c.low) / (c.rng / total)
	idx := m.IndexOf(sum)
	if idx < 0 || m.Freq(uint8(idx)) == 0 { //#nosec G115 -- idx validated against 0..255.
		c.setErr(ErrIllegalSequence)
		return 0, c.err
	}
	sym := uint8(idx) //#nosec G115 -- idx validated against 0..255.
	start := m.Cumulative(sym)
	size := m.Freq(sym)
	c.rng /= total
	c.low += start * c.rng
	c.rng *= size
	m.Update(sym, 1)
	for c.err == nil && c.topByteSame() {
		c.consume()
	}
	return sym, c.err
}

// Flush emits the final bytes needed to drain any pending low bits.
// Call once, after the last EncodeSymbol.
func (c *Coder) Flush() error {
	for i := 0; i < 8 && c.err == nil; i++ {
		c.rng = ^uint64(0)
		c.emit()
	}
	return c.err
}
