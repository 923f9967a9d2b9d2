// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import (
	"io"
	"math/bits"

	"github.com/cosnicolaou/sqz/internal/match"
)

// Encoder compresses a byte slice in one pass, coupling a sliding
// window match finder to a selectable entropy back end. An Encoder is
// not safe for concurrent use, and once any method returns a non-nil
// error every subsequent call returns that same error without doing
// further work.
type Encoder struct {
	cfg *config
	b   backend
	err error
}

// ByteWriter is the sink an Encoder emits encoded bytes to.
type ByteWriter = io.ByteWriter

// NewEncoder returns an Encoder that writes its encoded stream to w.
func NewEncoder(w ByteWriter, opts ...Option) (*Encoder, error) {
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
		bw, ok := w.(io.Writer)
		if !ok {
			return nil, newError("new-encoder", KindInvalidArgument, nil)
		}
		b = newHuffEncodeBackend(bw)
	default:
		b = newRCEncodeBackend(w, cfg.minMatch)
	}
	return &Encoder{cfg: cfg, b: b}, nil
}

// Compress encodes src in full, followed by the back end's end-of-
// stream marker (if any) and a final flush of any buffered coder
// state.
func (e *Encoder) Compress(src []byte) error {
	if e.err != nil {
		return e.err
	}
	pos := 0
	for pos < len(src) {
		m := e.findMatch(src, pos)
		if e.accept(m) {
			if err := e.b.encodeMatch(m.Length, m.Distance); err != nil {
				return e.fail(err)
			}
			for i := 0; i < m.Length; i++ {
				e.index(src, pos+i)
			}
			pos += m.Length
			continue
		}
		if err := e.b.encodeLiteral(src[pos]); err != nil {
			return e.fail(err)
		}
		e.index(src, pos)
		pos++
	}
	if err := e.b.encodeEOF(); err != nil {
		return e.fail(err)
	}
	if err := e.b.flush(); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *Encoder) findMatch(src []byte, pos int) match.Match {
	if e.cfg.tree != nil {
		return e.cfg.tree.Find(pos, e.cfg.minMatch, e.cfg.maxMatch)
	}
	return match.Linear(src, pos, e.cfg.window, e.cfg.minMatch, e.cfg.maxMatch)
}

func (e *Encoder) index(src []byte, pos int) {
	if e.cfg.tree != nil {
		e.cfg.tree.Insert(pos)
	}
}

// accept applies the acceptance heuristic: a match that is only
// minMatch bytes long and whose distance needs more than a single
// byte to encode (>8 bits) costs more to entropy-code than the
// literal bytes it would replace, and is rejected in favor of emitting
// those bytes as literals instead.
func (e *Encoder) accept(m match.Match) bool {
	if !m.Found() {
		return false
	}
	if m.Length <= e.cfg.minMatch && bits.Len32(m.Distance) > 8 {
		return false
	}
	return true
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}
