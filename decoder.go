// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import "io"

// Decoder decompresses a stream produced by an Encoder configured with
// the same Options, in one pass. A Decoder is not safe for concurrent
// use, and once any method returns a non-nil error every subsequent
// call returns that same error without doing further work.
type Decoder struct {
	cfg *config
	b   backend
	err error
}

// ByteReader is the source a Decoder reads its encoded stream from.
type ByteReader = io.ByteReader

// NewDecoder returns a Decoder that reads its encoded stream from r.
func NewDecoder(r ByteReader, opts ...Option) (*Decoder, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	var b backend
	switch cfg.backEnd {
	case AdaptiveHuffman:
		br, ok := r.(io.Reader)
		if !ok {
			return nil, newError("new-decoder", KindInvalidArgument, nil)
		}
		b = newHuffDecodeBackend(br)
	default:
		rb, err := newRCDecodeBackend(r, cfg.minMatch)
		if err != nil {
			return nil, err
		}
		b = rb
	}
	return &Decoder{cfg: cfg, b: b}, nil
}

// Decompress fills dst with the decoded stream and returns the number
// of bytes written. dst must be sized to exactly the original input
// length (carried out of band, e.g. by a container format); a stream
// that would overrun dst returns a no-space Error, and — for back ends
// with an explicit end marker — a stream that signals end of stream
// before dst is full returns an illegal-sequence Error.
func (d *Decoder) Decompress(dst []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	n := 0
	for n < len(dst) {
		tok, err := d.b.decodeToken()
		if err != nil {
			return n, d.fail(err)
		}
		if tok.eof {
			return n, d.fail(newError("decode", KindIllegalSequence, nil))
		}
		if tok.isLiteral {
			dst[n] = tok.literal
			n++
			continue
		}
		if err := d.copyMatch(dst, n, tok.length, tok.distance); err != nil {
			return n, d.fail(err)
		}
		n += tok.length
	}
	if d.b.hasExplicitEOF() {
		tok, err := d.b.decodeToken()
		if err != nil {
			return n, d.fail(err)
		}
		if !tok.eof {
			return n, d.fail(newError("decode", KindIllegalSequence, nil))
		}
	}
	return n, nil
}

// copyMatch performs an overlap-safe byte-at-a-time copy: distance may
// be smaller than length, in which case bytes already written earlier
// in this same call must be visible to later iterations (a plain
// slice copy would read stale source bytes in that case).
func (d *Decoder) copyMatch(dst []byte, n, length int, distance uint32) error {
	src := n - int(distance)
	if src < 0 {
		return newError("decode", KindRange, nil)
	}
	if n+length > len(dst) {
		return newError("decode", KindNoSpace, nil)
	}
	for i := 0; i < length; i++ {
		dst[n+i] = dst[src+i]
	}
	return nil
}

func (d *Decoder) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return d.err
}
