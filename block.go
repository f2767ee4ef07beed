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

package bgcode

import (
	"fmt"
	"io"
)

// BlockHeader is the fixed-layout header that precedes every block's
// params-then-data payload.
type BlockHeader struct {
	Type              EBlockType
	Compression       ECompressionType
	UncompressedSize  uint32
	CompressedSize    uint32 // meaningful only when Compression != ECompressionNone

	// Position is the stream offset at which this header begins. It is
	// derived at read time; it is not itself part of the on-disk layout.
	Position int64
}

// Size returns the on-disk size of bh's header: 8 bytes if uncompressed, 12
// if compressed (the extra 4 bytes hold CompressedSize).
func (bh BlockHeader) Size() int {
	if bh.Compression == ECompressionNone {
		return 8
	}
	return 12
}

// PayloadSize returns the number of bytes of params+data following the
// header on disk: UncompressedSize if uncompressed, else CompressedSize.
func (bh BlockHeader) PayloadSize() uint32 {
	if bh.Compression == ECompressionNone {
		return bh.UncompressedSize
	}
	return bh.CompressedSize
}

// marshal appends bh's on-disk bytes (not including Position) to dst and
// returns the result.
func (bh BlockHeader) marshal(dst []byte) []byte {
	var b [12]byte
	putU16LE(b[0:2], uint16(bh.Type))
	putU16LE(b[2:4], uint16(bh.Compression))
	putU32LE(b[4:8], bh.UncompressedSize)
	n := 8
	if bh.Compression != ECompressionNone {
		putU32LE(b[8:12], bh.CompressedSize)
		n = 12
	}
	return append(dst, b[:n]...)
}

// writeBlockHeader writes bh to w.
func writeBlockHeader(w io.Writer, bh BlockHeader) error {
	buf := bh.marshal(make([]byte, 0, 12))
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// readBlockHeader reads a BlockHeader from r at the given stream position
// (used only to populate BlockHeader.Position; r is read starting from its
// current offset).
func readBlockHeader(r io.Reader, position int64) (BlockHeader, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	bh := BlockHeader{
		Type:             EBlockType(getU16LE(b[0:2])),
		Compression:      ECompressionType(getU16LE(b[2:4])),
		UncompressedSize: getU32LE(b[4:8]),
		Position:         position,
	}
	if !bh.Type.valid() {
		return BlockHeader{}, ErrInvalidBlockType
	}
	if !bh.Compression.valid() {
		return BlockHeader{}, ErrInvalidCompressionType
	}

	if bh.Compression != ECompressionNone {
		var b2 [4]byte
		if _, err := io.ReadFull(r, b2[:]); err != nil {
			return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
		}
		bh.CompressedSize = getU32LE(b2[:])
	}

	return bh, nil
}
