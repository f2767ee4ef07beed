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
	"bytes"
	"errors"
	"testing"

	"github.com/prusa3d-go/bgcode/metadata"
)

func TestMetadataBlockRoundTrip(t *testing.T) {
	blk := &MetadataBlock{
		Type:     EBlockTypePrinterMetadata,
		Encoding: EMetadataEncodingINI,
		Pairs:    []metadata.KV{{Key: "printer_model", Value: "MK4"}},
	}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, ECompressionNone, EChecksumCRC32); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	bh, err := readBlockHeader(r, 0)
	if err != nil {
		t.Fatalf("readBlockHeader: %v", err)
	}
	got, err := ReadMetadataBlock(r, bh, EChecksumCRC32)
	if err != nil {
		t.Fatalf("ReadMetadataBlock: %v", err)
	}
	if got.Type != blk.Type || got.Encoding != blk.Encoding || len(got.Pairs) != 1 || got.Pairs[0] != blk.Pairs[0] {
		t.Fatalf("got %+v, want %+v", got, blk)
	}
}

func TestMetadataBlockDeflateRoundTrip(t *testing.T) {
	blk := &MetadataBlock{
		Type:     EBlockTypeSlicerMetadata,
		Encoding: EMetadataEncodingINI,
		Pairs:    []metadata.KV{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
	}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, ECompressionDeflate, EChecksumCRC32); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	bh, err := readBlockHeader(r, 0)
	if err != nil {
		t.Fatalf("readBlockHeader: %v", err)
	}
	if bh.Compression != ECompressionDeflate {
		t.Fatalf("Compression = %v, want Deflate", bh.Compression)
	}
	got, err := ReadMetadataBlock(r, bh, EChecksumCRC32)
	if err != nil {
		t.Fatalf("ReadMetadataBlock: %v", err)
	}
	if len(got.Pairs) != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestThumbnailBlockRoundTrip(t *testing.T) {
	blk := &ThumbnailBlock{Format: EThumbnailFormatPNG, Width: 32, Height: 32, Data: []byte{1, 2, 3, 4}}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, EChecksumCRC32); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	bh, err := readBlockHeader(r, 0)
	if err != nil {
		t.Fatalf("readBlockHeader: %v", err)
	}
	got, err := ReadThumbnailBlock(r, bh, EChecksumCRC32)
	if err != nil {
		t.Fatalf("ReadThumbnailBlock: %v", err)
	}
	if got.Format != blk.Format || got.Width != blk.Width || got.Height != blk.Height || !bytes.Equal(got.Data, blk.Data) {
		t.Fatalf("got %+v, want %+v", got, blk)
	}
}

func TestThumbnailBlockInvalidDimensions(t *testing.T) {
	var buf bytes.Buffer
	blk := &ThumbnailBlock{Format: EThumbnailFormatPNG, Width: 0, Height: 32, Data: []byte{1}}
	if err := blk.WriteTo(&buf, EChecksumNone); !errors.Is(err, ErrInvalidThumbnailWidth) {
		t.Fatalf("err = %v, want ErrInvalidThumbnailWidth", err)
	}

	blk = &ThumbnailBlock{Format: EThumbnailFormatPNG, Width: 32, Height: 0, Data: []byte{1}}
	if err := blk.WriteTo(&buf, EChecksumNone); !errors.Is(err, ErrInvalidThumbnailHeight) {
		t.Fatalf("err = %v, want ErrInvalidThumbnailHeight", err)
	}

	blk = &ThumbnailBlock{Format: EThumbnailFormatPNG, Width: 32, Height: 32, Data: nil}
	if err := blk.WriteTo(&buf, EChecksumNone); !errors.Is(err, ErrInvalidThumbnailDataSize) {
		t.Fatalf("err = %v, want ErrInvalidThumbnailDataSize", err)
	}
}

func TestGCodeBlockNoneEncodingRoundTrip(t *testing.T) {
	blk := &GCodeBlock{Encoding: EGCodeEncodingNone, Text: "G1 X1 Y1\n"}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, ECompressionNone, EChecksumCRC32, false); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	bh, err := readBlockHeader(r, 0)
	if err != nil {
		t.Fatalf("readBlockHeader: %v", err)
	}
	got, err := ReadGCodeBlock(r, bh, EChecksumCRC32)
	if err != nil {
		t.Fatalf("ReadGCodeBlock: %v", err)
	}
	if got.Text != blk.Text {
		t.Fatalf("got %q, want %q", got.Text, blk.Text)
	}
}

func TestGCodeBlockMeatPackRoundTrip(t *testing.T) {
	blk := &GCodeBlock{Encoding: EGCodeEncodingMeatPack, Text: "G1 X10 Y20\n"}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, ECompressionHeatshrink11_4, EChecksumCRC32, false); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	bh, err := readBlockHeader(r, 0)
	if err != nil {
		t.Fatalf("readBlockHeader: %v", err)
	}
	got, err := ReadGCodeBlock(r, bh, EChecksumCRC32)
	if err != nil {
		t.Fatalf("ReadGCodeBlock: %v", err)
	}
	if got.Text != blk.Text {
		t.Fatalf("got %q, want %q", got.Text, blk.Text)
	}
}

func TestEmptyGCodeBlockHasZeroByteData(t *testing.T) {
	blk := &GCodeBlock{Encoding: EGCodeEncodingNone, Text: ""}

	var buf bytes.Buffer
	if err := blk.WriteTo(&buf, ECompressionNone, EChecksumNone, false); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	// 8-byte header (compression=None) + 2-byte encoding param + 0 data bytes.
	if buf.Len() != 10 {
		t.Fatalf("len = %d, want 10", buf.Len())
	}
}
