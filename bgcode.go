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

// ----------------

// Package bgcode provides access to bgcode files: a binary container format
// that losslessly encapsulates G-code text together with descriptive
// metadata and preview thumbnails.
//
// bgcode is just a container format. Consumers validate a file, stream
// through its blocks without decoding payloads, encode/decode individual
// blocks, or convert a whole file between its ASCII and binary forms.
package bgcode

import "errors"

// MagicNumber is the four bytes 'G', 'C', 'D', 'E' read as a little-endian
// uint32, found at offset 0 of every bgcode file.
const MagicNumber uint32 = 'G' | 'C'<<8 | 'D'<<16 | 'E'<<24

// Version is the only file format version this package writes. Readers may
// accept a higher version via ReadHeader's maxVersion argument.
const Version uint32 = 1

// EBlockType identifies the kind of a block's payload.
type EBlockType uint16

const (
	EBlockTypeFileMetadata EBlockType = iota
	EBlockTypeGCode
	EBlockTypeSlicerMetadata
	EBlockTypePrinterMetadata
	EBlockTypePrintMetadata
	EBlockTypeThumbnail
)

func (t EBlockType) valid() bool {
	return t <= EBlockTypeThumbnail
}

// ECompressionType identifies how a block's payload is stored on disk.
type ECompressionType uint16

const (
	ECompressionNone ECompressionType = iota
	ECompressionDeflate
	ECompressionHeatshrink11_4
	ECompressionHeatshrink12_4
)

func (c ECompressionType) valid() bool {
	return c <= ECompressionHeatshrink12_4
}

// EChecksumType identifies the per-block (and file-level) checksum algorithm.
type EChecksumType uint16

const (
	EChecksumNone EChecksumType = iota
	EChecksumCRC32
)

func (c EChecksumType) valid() bool {
	return c <= EChecksumCRC32
}

// checksumSize returns the number of on-disk bytes a checksum of type c
// occupies: 0 for EChecksumNone, 4 for EChecksumCRC32.
func checksumSize(c EChecksumType) int {
	if c == EChecksumCRC32 {
		return 4
	}
	return 0
}

// EGCodeEncodingType identifies how a GCodeBlock's text is encoded on disk.
type EGCodeEncodingType uint16

const (
	EGCodeEncodingNone EGCodeEncodingType = iota
	EGCodeEncodingMeatPack
	EGCodeEncodingMeatPackComments
)

func (e EGCodeEncodingType) valid() bool {
	return e <= EGCodeEncodingMeatPackComments
}

// EMetadataEncodingType identifies how a metadata block's key/value pairs
// are encoded on disk.
type EMetadataEncodingType uint16

const (
	EMetadataEncodingINI EMetadataEncodingType = iota
)

func (e EMetadataEncodingType) valid() bool {
	return e == EMetadataEncodingINI
}

// EThumbnailFormat identifies the image format of a ThumbnailBlock's data.
type EThumbnailFormat uint16

const (
	EThumbnailFormatPNG EThumbnailFormat = iota
	EThumbnailFormatJPG
	EThumbnailFormatQOI
)

func (f EThumbnailFormat) valid() bool {
	return f <= EThumbnailFormatQOI
}

// Result sentinels. Every operation in this package returns one of these
// (possibly wrapped with fmt.Errorf's %w) or nil for success. Use errors.Is
// to test for a particular one.
var (
	ErrRead  = errors.New("bgcode: read error")
	ErrWrite = errors.New("bgcode: write error")

	ErrInvalidMagicNumber = errors.New("bgcode: invalid magic number")
	ErrInvalidVersion     = errors.New("bgcode: invalid version number")
	ErrInvalidChecksumType = errors.New("bgcode: invalid checksum type")

	ErrInvalidBlockType       = errors.New("bgcode: invalid block type")
	ErrInvalidCompressionType = errors.New("bgcode: invalid compression type")

	ErrInvalidMetadataEncodingType = errors.New("bgcode: invalid metadata encoding type")
	ErrInvalidGCodeEncodingType    = errors.New("bgcode: invalid gcode encoding type")

	ErrDataCompressionError   = errors.New("bgcode: data compression error")
	ErrDataUncompressionError = errors.New("bgcode: data uncompression error")

	ErrMetadataEncodingError = errors.New("bgcode: metadata encoding error")
	ErrMetadataDecodingError = errors.New("bgcode: metadata decoding error")

	ErrGCodeEncodingError = errors.New("bgcode: gcode encoding error")
	ErrGCodeDecodingError = errors.New("bgcode: gcode decoding error")

	ErrBlockNotFound  = errors.New("bgcode: block not found")
	ErrInvalidChecksum = errors.New("bgcode: invalid checksum")

	ErrInvalidThumbnailFormat   = errors.New("bgcode: invalid thumbnail format")
	ErrInvalidThumbnailWidth    = errors.New("bgcode: invalid thumbnail width")
	ErrInvalidThumbnailHeight   = errors.New("bgcode: invalid thumbnail height")
	ErrInvalidThumbnailDataSize = errors.New("bgcode: invalid thumbnail data size")

	ErrInvalidBinaryGCodeFile  = errors.New("bgcode: invalid binary gcode file")
	ErrInvalidAsciiGCodeFile   = errors.New("bgcode: invalid ascii gcode file")
	ErrInvalidSequenceOfBlocks = errors.New("bgcode: invalid sequence of blocks")

	ErrInvalidBuffer   = errors.New("bgcode: invalid buffer")
	ErrAlreadyBinarized = errors.New("bgcode: already binarized")

	ErrMissingPrinterMetadata = errors.New("bgcode: missing printer metadata block")
	ErrMissingPrintMetadata   = errors.New("bgcode: missing print metadata block")
	ErrMissingSlicerMetadata  = errors.New("bgcode: missing slicer metadata block")
)

// TranslateResult returns a short human-readable string for a result
// sentinel, or for nil ("success"). Unrecognised errors return their own
// Error() text.
func TranslateResult(err error) string {
	if err == nil {
		return "success"
	}
	return err.Error()
}

// FileHeader is the 10-byte header found at offset 0 of every bgcode file.
type FileHeader struct {
	Version       uint32
	ChecksumType  EChecksumType
}

// FileHeaderSize is the on-disk size, in bytes, of a FileHeader: 4 (magic) + 4
// (version) + 2 (checksum type).
const FileHeaderSize = 10
