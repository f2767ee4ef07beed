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
)

// TestEmptyGCodeRoundTrip is the concrete scenario of spec.md §8: binarizing
// empty G-code with CRC32 checksums and no compression produces a file of a
// precise, computable size (header + one 8-byte-header block per mandatory
// metadata type, each with a 4-byte CRC32, plus a final empty GCodeBlock),
// and reading it back yields empty G-code text.
func TestEmptyGCodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumCRC32,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingNone,
	}

	bz := NewBinarizer(&buf, cfg)
	if err := bz.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := bz.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	// FileHeader (10) + 4 blocks (PrinterMetadata, PrintMetadata,
	// SlicerMetadata, GCode), each with an 8-byte header (compression=None),
	// a 2-byte encoding_type param, 0 data bytes, and a 4-byte CRC32.
	const perBlock = 8 + 2 + 4
	want := FileHeaderSize + 4*perBlock
	if buf.Len() != want {
		t.Fatalf("len = %d, want %d", buf.Len(), want)
	}

	var out bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(buf.Bytes()), &out, true); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}
	if out.String() != "" {
		t.Fatalf("got %q, want empty", out.String())
	}
}

func TestBinarizerAlreadyFinalized(t *testing.T) {
	var buf bytes.Buffer
	bz := NewBinarizer(&buf, Config{ChecksumType: EChecksumCRC32, MetadataEncoding: EMetadataEncodingINI})
	if err := bz.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := bz.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := bz.Finalize(); err != nil {
		t.Fatalf("second Finalize should be a no-op, got %v", err)
	}
	if err := bz.AppendGCode("G1\n"); !errors.Is(err, ErrAlreadyBinarized) {
		t.Fatalf("AppendGCode after Finalize = %v, want ErrAlreadyBinarized", err)
	}
}

func TestBinarizerFlushesAtCacheSize(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumNone,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingNone,
		GCodeCacheSize:   16,
	}
	bz := NewBinarizer(&buf, cfg)
	if err := bz.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	// 17 bytes, no trailing '\n': the cache threshold (16) is crossed mid-line,
	// so AppendGCode must split at the last '\n' and retain "G1 X3" for the
	// next call (here, Finalize).
	if err := bz.AppendGCode("G1 X1\nG1 X2\nG1 X3"); err != nil {
		t.Fatalf("AppendGCode: %v", err)
	}
	if err := bz.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var out bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(buf.Bytes()), &out, false); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}
	if out.String() != "G1 X1\nG1 X2\nG1 X3" {
		t.Fatalf("got %q", out.String())
	}
}

func TestBinarizerMeatPackGCode(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumCRC32,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingMeatPack,
		OmitWhitespaces:  true,
		GCodeCompression: ECompressionHeatshrink11_4,
	}
	bz := NewBinarizer(&buf, cfg)
	if err := bz.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := bz.AppendGCode("G1 X10 Y20 Z5\n"); err != nil {
		t.Fatalf("AppendGCode: %v", err)
	}
	if err := bz.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var out bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(buf.Bytes()), &out, true); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}
	if out.String() != "G1 X10 Y20 Z5\n" {
		t.Fatalf("got %q", out.String())
	}
}
