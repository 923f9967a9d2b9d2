// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sqz

import (
	"bufio"
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/cosnicolaou/sqz/internal/match"
)

func newTestTree(data []byte) *match.Tree {
	return match.NewTree(data, defaultWindow)
}

func roundTrip(t *testing.T, data []byte, opts ...Option) []byte {
	t.Helper()
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	enc, err := NewEncoder(bw, opts...)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := enc.Compress(data); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	br := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	dec, err := NewDecoder(br, opts...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	dst := make([]byte, len(data))
	n, err := dec.Decompress(dst)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if n != len(data) {
		t.Fatalf("got %v bytes, want %v", n, len(data))
	}
	return dst
}

func TestRoundTripGoldenScenarios(t *testing.T) {
	for i, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"hello-world", []byte("Hello World! Hello World! Hello World!")},
		{"zeros", bytes.Repeat([]byte{0}, 4096)},
		{"repeating-4-byte", bytes.Repeat([]byte{1, 2, 3, 4}, 1024)},
		{"text-corpus", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200))},
		{"random", randomBytes(8192, 42)},
	} {
		for _, be := range []BackEnd{RangeCoder, AdaptiveHuffman} {
			got := roundTrip(t, tc.data, WithBackEnd(be))
			if !bytes.Equal(got, tc.data) {
				t.Errorf("case %d (%s) backend %v: round trip mismatch", i, tc.name, be)
			}
		}
	}
}

func TestRoundTripWithTreeAcceleration(t *testing.T) {
	data := []byte(strings.Repeat("abcabcabcabd", 500))
	got := roundTrip(t, data, MapStorage(newTestTree(data)))
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch with accelerated match finder")
	}
}

func TestStickyErrorAfterIOFailure(t *testing.T) {
	fw := &failingByteWriter{failAfter: 2}
	enc, err := NewEncoder(fw)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	err = enc.Compress([]byte("abcdefghijklmnop"))
	if err == nil {
		t.Fatalf("expected an error")
	}
	err2 := enc.Compress([]byte("more data"))
	if !errors.Is(err2, err) && err2.Error() != err.Error() {
		t.Fatalf("expected the sticky error to be repeated, got %v then %v", err, err2)
	}
}

func TestInvalidWindowRejected(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewEncoder(bufio.NewWriter(&buf), Window(1000)); err == nil {
		t.Fatalf("expected an invalid-argument error for a non-power-of-two window")
	}
}

// TestHuffmanWindowBeyondDistanceTableRejected guards the adaptive-Huffman
// back end's distance table, whose largest representable distance
// (24577 base + 8191 extra bits = 32768) falls short of a 65536-radius
// window; NewEncoder/NewDecoder must reject that combination outright
// rather than let it silently truncate a distance's extra bits.
func TestHuffmanWindowBeyondDistanceTableRejected(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewEncoder(&buf, Window(1<<16), WithBackEnd(AdaptiveHuffman)); err == nil {
		t.Fatalf("expected an invalid-argument error for a 65536 window with AdaptiveHuffman")
	}
	if _, err := NewEncoder(&buf, Window(1<<15), WithBackEnd(AdaptiveHuffman)); err != nil {
		t.Fatalf("Window(32768) with AdaptiveHuffman should be accepted: %v", err)
	}
}

// TestCopyMatchOutOfRangeDistanceIsKindRange exercises the one scenario
// KindRange exists for: a decoded distance that reaches before the start
// of the output.
func TestCopyMatchOutOfRangeDistanceIsKindRange(t *testing.T) {
	d := &Decoder{cfg: defaultConfig()}
	dst := make([]byte, 8)
	err := d.copyMatch(dst, 2, 3, 5)
	if err == nil {
		t.Fatalf("expected an error for a distance exceeding the cursor")
	}
	var sqzErr *Error
	if !errors.As(err, &sqzErr) {
		t.Fatalf("expected a *Error, got %T: %v", err, err)
	}
	if sqzErr.Kind != KindRange {
		t.Fatalf("got Kind %v, want KindRange", sqzErr.Kind)
	}
}

type failingByteWriter struct {
	n         int
	failAfter int
}

func (f *failingByteWriter) WriteByte(b byte) error {
	f.n++
	if f.n > f.failAfter {
		return errors.New("injected failure")
	}
	return nil
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	r.Read(out)
	return out
}
