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

// Package heatshrink implements the Heatshrink LZSS-family codec: a tag bit
// per token (1 = literal byte, 0 = backreference), a backreference encoded
// as a fixed-width window offset followed by a fixed-width match length.
//
// No Go package for Heatshrink exists anywhere in the retrieved reference
// corpus (see DESIGN.md); this is a from-scratch implementation of the
// published bit format, structured as a Sink-then-Poll engine the way the
// upstream C library and spec.md §4.3 describe it, so it plugs into the
// same per-block Codec seam as the stdlib-backed compressors.
package heatshrink

// MinMatch is the shortest backreference Encoder will emit. The length field
// stores length-MinMatch, so shorter matches cannot be encoded.
const MinMatch = 4

// Encoder turns a byte stream into Heatshrink-encoded bits using a window of
// 2^windowSz2 bytes and a lookahead (match length) field of lookaheadSz2
// bits.
type Encoder struct {
	windowSz2    uint8
	lookaheadSz2 uint8
	maxMatchLen  int

	input []byte
	bw    bitWriter
}

// NewEncoder returns an Encoder for the given window and lookahead sizes (in
// bits).
func NewEncoder(windowSz2, lookaheadSz2 uint8) *Encoder {
	return &Encoder{
		windowSz2:    windowSz2,
		lookaheadSz2: lookaheadSz2,
		maxMatchLen:  MinMatch + (1<<lookaheadSz2) - 1,
	}
}

// Sink appends data to the encoder's pending input. It performs no encoding
// work itself; call Poll to process sunk input.
func (e *Encoder) Sink(data []byte) {
	e.input = append(e.input, data...)
}

// Poll greedily encodes every byte sunk so far that has not yet been
// consumed, and returns the bytes produced. The caller must not call Sink
// again with data that should be inserted before what was already polled.
// Each call encodes only the input sunk since the previous Poll, and its
// backreferences never reach into earlier calls' input, so splitting a
// block's input across several Poll calls can produce different (less
// compact) bits than sinking it all before one Poll.
func (e *Encoder) Poll() []byte {
	windowSize := 1 << e.windowSz2
	i := 0
	for i < len(e.input) {
		bestLen, bestDist := e.findMatch(i, windowSize)
		if bestLen >= MinMatch {
			e.bw.writeBits(0, 1) // backreference tag
			e.bw.writeBits(uint32(bestDist-1), e.windowSz2)
			e.bw.writeBits(uint32(bestLen-MinMatch), e.lookaheadSz2)
			i += bestLen
		} else {
			e.bw.writeBits(1, 1) // literal tag
			e.bw.writeBits(uint32(e.input[i]), 8)
			i++
		}
	}
	e.input = nil
	out := e.bw.pending
	e.bw.pending = nil
	return out
}

// Finish flushes any partial byte (padding with zero bits) and returns the
// final bytes. Call it once, after the last Poll.
func (e *Encoder) Finish() []byte {
	e.bw.flush()
	out := e.bw.pending
	e.bw.pending = nil
	return out
}

// findMatch looks backwards from position i (within the last windowSize
// bytes already seen) for the longest run matching e.input starting at i,
// capped at e.maxMatchLen and at the remaining input length. It returns
// (0, 0) if fewer than MinMatch bytes remain; otherwise it returns the
// longest match found, which may be shorter than MinMatch.
func (e *Encoder) findMatch(i, windowSize int) (length, distance int) {
	maxLen := e.maxMatchLen
	if remaining := len(e.input) - i; maxLen > remaining {
		maxLen = remaining
	}
	if maxLen < MinMatch {
		return 0, 0
	}

	lowest := i - windowSize
	if lowest < 0 {
		lowest = 0
	}

	bestLen, bestDist := 0, 0
	for start := i - 1; start >= lowest; start-- {
		n := 0
		for n < maxLen && e.input[start+n] == e.input[i+n] {
			n++
		}
		if n > bestLen {
			bestLen, bestDist = n, i-start
			if bestLen == maxLen {
				break
			}
		}
	}
	return bestLen, bestDist
}

// Decoder is the inverse of Encoder: it reads Heatshrink-encoded bits and
// reconstructs the original byte stream.
type Decoder struct {
	windowSz2    uint8
	lookaheadSz2 uint8

	br     bitReader
	output []byte
}

// NewDecoder returns a Decoder matching the window and lookahead sizes used
// by the Encoder that produced the stream.
func NewDecoder(windowSz2, lookaheadSz2 uint8) *Decoder {
	return &Decoder{windowSz2: windowSz2, lookaheadSz2: lookaheadSz2}
}

// Sink appends compressed bytes to the decoder's pending input.
func (d *Decoder) Sink(data []byte) {
	d.br.data = append(d.br.data, data...)
}

// Poll decodes as many complete tokens as the currently sunk bits allow and
// returns the decompressed bytes produced. wantSize bounds how many output
// bytes to produce (bgcode always knows the uncompressed size up front); it
// stops as soon as that many bytes have been produced, even if trailing
// padding bits remain unconsumed.
func (d *Decoder) Poll(wantSize int) ([]byte, error) {
	for len(d.output) < wantSize {
		tag, ok := d.br.readBit()
		if !ok {
			return nil, ErrTruncated
		}
		if tag == 1 {
			v, ok := d.br.readBits(8)
			if !ok {
				return nil, ErrTruncated
			}
			d.output = append(d.output, byte(v))
			continue
		}

		distRaw, ok := d.br.readBits(d.windowSz2)
		if !ok {
			return nil, ErrTruncated
		}
		lenRaw, ok := d.br.readBits(d.lookaheadSz2)
		if !ok {
			return nil, ErrTruncated
		}
		distance := int(distRaw) + 1
		length := int(lenRaw) + MinMatch

		start := len(d.output) - distance
		if start < 0 {
			return nil, ErrInvalidBackreference
		}
		for k := 0; k < length && len(d.output) < wantSize; k++ {
			d.output = append(d.output, d.output[start+k])
		}
	}
	out := d.output
	d.output = nil
	return out, nil
}
