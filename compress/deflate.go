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

import (
	"bytes"
	"compress/flate"
	"io"
)

// Deflate is a raw DEFLATE Codec (no zlib or gzip framing — the bgcode
// block header already carries the uncompressed and compressed sizes, so no
// wrapper checksum or length field is needed on top).
//
// This mirrors the teacher's raczlib/zlibcut packages' choice to build
// directly on the standard library's compress/flate rather than a
// third-party DEFLATE implementation.
type Deflate struct{}

func (Deflate) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, ErrCompress
	}
	if _, err := w.Write(src); err != nil {
		return nil, ErrCompress
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompress
	}
	return buf.Bytes(), nil
}

func (Deflate) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()

	dst := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, ErrDecompress
	}
	if n != uncompressedSize {
		return nil, ErrDecompress
	}
	return dst, nil
}
