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

package compress

import "github.com/prusa3d-go/bgcode/internal/heatshrink"

// decodeInputChunk is the decoder's input buffer size, per spec.md §4.3.
const decodeInputChunk = 2048

// Heatshrink is a Heatshrink(window, lookahead=4) Codec. lookahead is fixed
// at 4 bits per spec.md; window is 11 or 12 bits (Heatshrink11 / Heatshrink12
// below).
type Heatshrink struct {
	WindowSz2 uint8
}

// Heatshrink11 is Heatshrink(window=11, lookahead=4).
var Heatshrink11 = Heatshrink{WindowSz2: 11}

// Heatshrink12 is Heatshrink(window=12, lookahead=4).
var Heatshrink12 = Heatshrink{WindowSz2: 12}

const heatshrinkLookaheadSz2 = 4

func (h Heatshrink) Compress(src []byte) ([]byte, error) {
	// A conservative output buffer of input_size + input_size/4 is reserved,
	// per spec.md §4.3; Go's append-based encoder grows past this if needed,
	// but the allocation below avoids most reallocation in the common case.
	enc := heatshrink.NewEncoder(h.WindowSz2, heatshrinkLookaheadSz2)
	out := make([]byte, 0, len(src)+len(src)/4)
	enc.Sink(src)
	out = append(out, enc.Poll()...)
	out = append(out, enc.Finish()...)
	return out, nil
}

func (h Heatshrink) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	dec := heatshrink.NewDecoder(h.WindowSz2, heatshrinkLookaheadSz2)
	// Feed the decoder in decodeInputChunk-sized pieces, per spec.md §4.3's
	// "decoder input buffer 2048 bytes", even though src is already fully
	// resident in memory here (the block's compressed size is bounded and
	// known up front).
	for off := 0; off < len(src); off += decodeInputChunk {
		end := off + decodeInputChunk
		if end > len(src) {
			end = len(src)
		}
		dec.Sink(src[off:end])
	}
	out, err := dec.Poll(uncompressedSize)
	if err != nil {
		return nil, ErrDecompress
	}
	return out, nil
}
