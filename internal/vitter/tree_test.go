// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package vitter

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/cosnicolaou/sqz/internal/bitio"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	var symbols []uint16
	for i := 0; i < 3000; i++ {
		symbols = append(symbols, uint16(r.Intn(40)))
	}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	enc := NewTree(64)
	for _, s := range symbols {
		if err := enc.EncodeSymbol(w, s); err != nil {
			t.Fatalf("EncodeSymbol: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd := bitio.NewReader(bytes.NewReader(buf.Bytes()))
	dec := NewTree(64)
	for i, want := range symbols {
		got, err := dec.DecodeSymbol(rd)
		if err != nil {
			t.Fatalf("DecodeSymbol at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}

// checkSiblingProperty walks every internal node and verifies the
// right child's frequency is never less than the left child's.
func checkSiblingProperty(t *testing.T, tr *Tree) {
	t.Helper()
	for i, n := range tr.nodes {
		if n.leaf {
			continue
		}
		if n.left == noNode || n.right == noNode {
			continue
		}
		lf, rf := tr.nodes[n.left].freq, tr.nodes[n.right].freq
		if lf > rf {
			t.Fatalf("node %d: sibling property violated, left freq %d > right freq %d", i, lf, rf)
		}
	}
}

func TestSiblingPropertyHolds(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	tr := NewTree(32)
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i := 0; i < 5000; i++ {
		sym := uint16(r.Intn(20))
		if err := tr.EncodeSymbol(w, sym); err != nil {
			t.Fatalf("EncodeSymbol: %v", err)
		}
		checkSiblingProperty(t, tr)
	}
}
