// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package main_test

import (
	"bytes"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func sqzCmd(args ...string) (string, error) {
	cmd := exec.Command("go", append([]string{"run", "."}, args...)...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestPackUnpackCmd(t *testing.T) {
	tmpdir := t.TempDir()
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte(strings.Repeat("a very compressible line of text\n", 500))},
		{"random", randomData(64 * 1024)},
	} {
		in := filepath.Join(tmpdir, tc.name+".src")
		packed := filepath.Join(tmpdir, tc.name+".sqz")
		out := filepath.Join(tmpdir, tc.name+".out")

		if err := os.WriteFile(in, tc.data, 0o600); err != nil {
			t.Fatalf("%v: %v", tc.name, err)
		}
		if msg, err := sqzCmd("pack", "--progress=false", "--output="+packed, in); err != nil {
			t.Fatalf("%v: pack: %v: %v", tc.name, msg, err)
		}
		if msg, err := sqzCmd("unpack", "--progress=false", "--output="+out, packed); err != nil {
			t.Fatalf("%v: unpack: %v: %v", tc.name, msg, err)
		}
		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("%v: %v", tc.name, err)
		}
		if !bytes.Equal(got, tc.data) {
			t.Errorf("%v: round trip mismatch", tc.name)
		}
	}
}

func randomData(n int) []byte {
	r := rand.New(rand.NewSource(99))
	out := make([]byte, n)
	r.Read(out)
	return out
}
