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
	"strings"
	"testing"
)

func TestConvertASCIIToBinaryToASCIIRoundTrip(t *testing.T) {
	src := "G1 X1 Y1\nG1 X2 Y2\n; a comment\nG1 X3 Y3\n"

	var bin bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumCRC32,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingNone,
	}
	if err := FromASCIIToBinary(strings.NewReader(src), &bin, cfg); err != nil {
		t.Fatalf("FromASCIIToBinary: %v", err)
	}

	var ascii bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(bin.Bytes()), &ascii, true); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}

	if ascii.String() != src {
		t.Fatalf("got %q, want %q", ascii.String(), src)
	}
}

func TestConvertWithMeatPackCompression(t *testing.T) {
	src := "G1 X10 Y20\nG1 X11 Y21\n"

	var bin bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumCRC32,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingMeatPack,
		OmitWhitespaces:  true,
		GCodeCompression: ECompressionDeflate,
	}
	if err := FromASCIIToBinary(strings.NewReader(src), &bin, cfg); err != nil {
		t.Fatalf("FromASCIIToBinary: %v", err)
	}

	var ascii bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(bin.Bytes()), &ascii, true); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}

	if ascii.String() != src {
		t.Fatalf("got %q, want %q", ascii.String(), src)
	}
}

func TestConvertSkipsNonGCodeBlocks(t *testing.T) {
	var bin bytes.Buffer
	cfg := Config{
		ChecksumType:     EChecksumCRC32,
		MetadataEncoding: EMetadataEncodingINI,
		GCodeEncoding:    EGCodeEncodingNone,
		Thumbnails: []ThumbnailData{
			{Format: EThumbnailFormatQOI, Width: 8, Height: 8, Data: []byte{9, 9, 9}},
		},
	}
	if err := FromASCIIToBinary(strings.NewReader("G1\n"), &bin, cfg); err != nil {
		t.Fatalf("FromASCIIToBinary: %v", err)
	}

	var ascii bytes.Buffer
	if err := FromBinaryToASCII(bytes.NewReader(bin.Bytes()), &ascii, true); err != nil {
		t.Fatalf("FromBinaryToASCII: %v", err)
	}
	if ascii.String() != "G1\n" {
		t.Fatalf("got %q, want %q", ascii.String(), "G1\n")
	}
}
