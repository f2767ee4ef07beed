// Copyright 2024 The Bgcode Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package heatshrink

import (
	"bytes"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, windowSz2, lookaheadSz2 uint8, input []byte) {
	t.Helper()

	enc := NewEncoder(windowSz2, lookaheadSz2)
	enc.Sink(input)
	out := enc.Poll()
	out = append(out, enc.Finish()...)

	dec := NewDecoder(windowSz2, lookaheadSz2)
	dec.Sink(out)
	got, err := dec.Poll(len(input))
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", got, input)
	}
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, 11, 4, nil)
}

func TestRoundTripLiteralsOnly(t *testing.T) {
	roundTrip(t, 11, 4, []byte{0, 1, 2, 253, 254, 255})
}

func TestRoundTripRepetitive(t *testing.T) {
	roundTrip(t, 11, 4, bytes.Repeat([]byte("G1 X10.5 Y20.5 E0.2\n"), 500))
}

func TestRoundTripWindow12(t *testing.T) {
	roundTrip(t, 12, 4, bytes.Repeat([]byte(strings.Repeat("ab", 17)), 1000))
}

func TestRoundTripOverlappingRun(t *testing.T) {
	roundTrip(t, 11, 4, bytes.Repeat([]byte{'x'}, 1000))
}
