// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package container frames a sqz-encoded stream the way the reference
// test harness does: an 8-byte magic, a little-endian original length,
// the encoded bytes themselves, and a trailing checksum. The core sqz
// codec has no framing of its own — Pack/Unpack is one concrete,
// swappable carrier built around it.
package container

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"

	"github.com/cosnicolaou/sqz"
)

var magic = [8]byte{'s', 'q', 'z', '1', 0, 0, 0, 0}

// Option configures Pack/Unpack.
type Option func(*options)

type options struct {
	checksum func() hash.Hash64
	sqzOpts  []sqz.Option
}

func defaultOptions() *options {
	return &options{checksum: func() hash.Hash64 { return fnv.New64a() }}
}

// Checksum selects the checksum algorithm written after the encoded
// payload. The default is FNV-1a-64 (hash/fnv); callers that need a
// faster checksum can pass a function returning xxhash.New() from
// github.com/cespare/xxhash/v2.
func Checksum(h func() hash.Hash64) Option {
	return func(o *options) { o.checksum = h }
}

// SqzOptions passes through sqz.Option values to the underlying
// Encoder/Decoder (window size, back end, match-finder acceleration).
func SqzOptions(opts ...sqz.Option) Option {
	return func(o *options) { o.sqzOpts = append(o.sqzOpts, opts...) }
}

// Pack compresses src and returns the framed container bytes.
func Pack(src []byte, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	var payload bytes.Buffer
	bw := bufio.NewWriter(&payload)
	enc, err := sqz.NewEncoder(bw, o.sqzOpts...)
	if err != nil {
		return nil, err
	}
	if err := enc.Compress(src); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(magic[:])
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(src))) //#nosec G115 -- len(src) non-negative.
	out.Write(lenBuf[:])
	out.Write(payload.Bytes())

	h := o.checksum()
	h.Write(out.Bytes())
	var sumBuf [8]byte
	binary.LittleEndian.PutUint64(sumBuf[:], h.Sum64())
	out.Write(sumBuf[:])

	return out.Bytes(), nil
}

// Unpack validates and decompresses a container produced by Pack.
func Unpack(data []byte, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if len(data) < 8+8+8 {
		return nil, fmt.Errorf("container: truncated: %d bytes", len(data))
	}
	body, sumBytes := data[:len(data)-8], data[len(data)-8:]
	h := o.checksum()
	h.Write(body)
	if h.Sum64() != binary.LittleEndian.Uint64(sumBytes) {
		return nil, &sqz.Error{Kind: sqz.KindIllegalSequence, Op: "container-unpack",
			Err: fmt.Errorf("checksum mismatch")}
	}
	if !bytes.Equal(body[:8], magic[:]) {
		return nil, &sqz.Error{Kind: sqz.KindIllegalSequence, Op: "container-unpack",
			Err: fmt.Errorf("bad magic")}
	}
	origLen := binary.LittleEndian.Uint64(body[8:16])
	payload := body[16:]

	r := bufio.NewReader(bytes.NewReader(payload))
	dec, err := sqz.NewDecoder(r, o.sqzOpts...)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, origLen)
	n, err := dec.Decompress(dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
