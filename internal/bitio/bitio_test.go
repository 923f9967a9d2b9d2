// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWriteReadBits(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	type entry struct {
		v uint64
		n uint
	}
	var entries []entry
	for i := 0; i < 500; i++ {
		n := uint(1 + r.Intn(32))
		v := uint64(r.Int63()) & ((1 << n) - 1)
		entries = append(entries, entry{v, n})
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, e := range entries {
		if err := w.WriteBits(e.v, e.n); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd := NewReader(bytes.NewReader(buf.Bytes()))
	for i, e := range entries {
		got, err := rd.ReadBits(e.n)
		if err != nil {
			t.Fatalf("ReadBits at %d: %v", i, err)
		}
		if got != e.v {
			t.Fatalf("entry %d: got %d, want %d", i, got, e.v)
		}
	}
}

func TestSingleBits(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	bits := []uint8{1, 0, 1, 1, 0, 0, 0, 1, 1, 1}
	for _, b := range bits {
		if err := w.WriteBit(b); err != nil {
			t.Fatalf("WriteBit: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	rd := NewReader(bytes.NewReader(buf.Bytes()))
	for i, want := range bits {
		got, err := rd.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d, want %d", i, got, want)
		}
	}
}
