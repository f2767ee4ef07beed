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

// Package compress provides the block payload compression adapters: a
// pass-through identity codec, Deflate, and two Heatshrink variants.
//
// Every codec is a one-shot, per-block Codec: a fresh encoder/decoder state
// is used for each call and discarded afterwards, matching bgcode's
// "allocated per-block, released before returning" resource model. This
// mirrors the shape of the teacher's compression.Reader/Writer interfaces
// (reset-for-reuse) simplified down to one-shot use.
package compress

import "errors"

var (
	// ErrCompress is returned when an encoder fails.
	ErrCompress = errors.New("compress: compression error")
	// ErrDecompress is returned when a decoder fails, including when src
	// yields fewer bytes than the size the caller expected (None also
	// rejects a src longer than that size).
	ErrDecompress = errors.New("compress: decompression error")
)

// Codec compresses and decompresses a single block's payload.
type Codec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress decodes src, which must expand to exactly uncompressedSize
	// bytes.
	Decompress(src []byte, uncompressedSize int) ([]byte, error)
}
