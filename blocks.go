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

	"github.com/prusa3d-go/bgcode/checksum"
	"github.com/prusa3d-go/bgcode/meatpack"
	"github.com/prusa3d-go/bgcode/metadata"
)

// Block is satisfied by every typed block payload (MetadataBlock,
// ThumbnailBlock, GCodeBlock). It exists for traversal code that wants to
// hold any already-decoded block without a type switch at every call site;
// the write/read entry points themselves are concrete per type, since their
// parameters differ (a thumbnail has no compression choice, a gcode block
// has an encoding-specific whitespace flag, and so on).
type Block interface {
	// BlockType returns the EBlockType this value was read as, or will be
	// written as.
	BlockType() EBlockType
}

// MetadataBlock is the payload shared by the FileMetadata, PrinterMetadata,
// PrintMetadata and SlicerMetadata block types: an ordered key/value list
// encoded with one EMetadataEncodingType. The four block types are not
// distinct Go types — only BlockType distinguishes them, per design note §9
// (tagged sum, not an inheritance hierarchy of near-identical structs).
type MetadataBlock struct {
	Type     EBlockType
	Encoding EMetadataEncodingType
	Pairs    []metadata.KV
}

func (b *MetadataBlock) BlockType() EBlockType { return b.Type }

// WriteTo serialises b to w as a full block (header, params, data, optional
// checksum).
func (b *MetadataBlock) WriteTo(w io.Writer, compression ECompressionType, checksumType EChecksumType) error {
	if !b.Encoding.valid() {
		return ErrInvalidMetadataEncodingType
	}
	var params [2]byte
	putU16LE(params[:], uint16(b.Encoding))
	payload := append(params[:0:0], params[:]...)
	payload = append(payload, metadata.Encode(b.Pairs)...)
	return writeBlock(w, b.Type, payload, compression, checksumType)
}

// ReadMetadataBlock reads a MetadataBlock's params+data (and optional
// checksum) given a header already read by the caller.
func ReadMetadataBlock(r io.Reader, bh BlockHeader, checksumType EChecksumType) (*MetadataBlock, error) {
	payload, err := readBlockPayload(r, bh, checksumType)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, ErrInvalidMetadataEncodingType
	}
	enc := EMetadataEncodingType(getU16LE(payload[0:2]))
	if !enc.valid() {
		return nil, ErrInvalidMetadataEncodingType
	}
	return &MetadataBlock{
		Type:     bh.Type,
		Encoding: enc,
		Pairs:    metadata.Decode(payload[2:]),
	}, nil
}

// ThumbnailBlock is a preview image embedded in the file. Its compression is
// always None (spec.md §4.7): the image bytes are stored as-is.
type ThumbnailBlock struct {
	Format EThumbnailFormat
	Width  uint16
	Height uint16
	Data   []byte
}

func (b *ThumbnailBlock) BlockType() EBlockType { return EBlockTypeThumbnail }

// WriteTo serialises b to w as a full block. Compression is always None.
func (b *ThumbnailBlock) WriteTo(w io.Writer, checksumType EChecksumType) error {
	if !b.Format.valid() {
		return ErrInvalidThumbnailFormat
	}
	if b.Width == 0 {
		return ErrInvalidThumbnailWidth
	}
	if b.Height == 0 {
		return ErrInvalidThumbnailHeight
	}
	if len(b.Data) == 0 {
		return ErrInvalidThumbnailDataSize
	}

	var params [6]byte
	putU16LE(params[0:2], uint16(b.Format))
	putU16LE(params[2:4], b.Width)
	putU16LE(params[4:6], b.Height)
	payload := append(params[:0:0], params[:]...)
	payload = append(payload, b.Data...)
	return writeBlock(w, EBlockTypeThumbnail, payload, ECompressionNone, checksumType)
}

// ReadThumbnailBlock reads a ThumbnailBlock's params+data (and optional
// checksum) given a header already read by the caller.
func ReadThumbnailBlock(r io.Reader, bh BlockHeader, checksumType EChecksumType) (*ThumbnailBlock, error) {
	if bh.Compression != ECompressionNone {
		return nil, ErrInvalidCompressionType
	}
	payload, err := readBlockPayload(r, bh, checksumType)
	if err != nil {
		return nil, err
	}
	if len(payload) < 6 {
		return nil, ErrInvalidThumbnailDataSize
	}

	format := EThumbnailFormat(getU16LE(payload[0:2]))
	if !format.valid() {
		return nil, ErrInvalidThumbnailFormat
	}
	width := getU16LE(payload[2:4])
	if width == 0 {
		return nil, ErrInvalidThumbnailWidth
	}
	height := getU16LE(payload[4:6])
	if height == 0 {
		return nil, ErrInvalidThumbnailHeight
	}
	data := payload[6:]
	if len(data) == 0 {
		return nil, ErrInvalidThumbnailDataSize
	}

	return &ThumbnailBlock{Format: format, Width: width, Height: height, Data: data}, nil
}

// GCodeBlock is a chunk of G-code text, optionally MeatPack-encoded.
type GCodeBlock struct {
	Encoding EGCodeEncodingType
	Text     string
}

func (b *GCodeBlock) BlockType() EBlockType { return EBlockTypeGCode }

// WriteTo serialises b to w as a full block. omitWhitespaces is only
// meaningful when Encoding is MeatPack or MeatPackComments; it is forwarded
// to the MeatPack encoder as FlagOmitWhitespaces.
func (b *GCodeBlock) WriteTo(w io.Writer, compression ECompressionType, checksumType EChecksumType, omitWhitespaces bool) error {
	if !b.Encoding.valid() {
		return ErrInvalidGCodeEncodingType
	}
	data, err := encodeGCodeText(b.Encoding, b.Text, omitWhitespaces)
	if err != nil {
		return err
	}

	var params [2]byte
	putU16LE(params[:], uint16(b.Encoding))
	payload := append(params[:0:0], params[:]...)
	payload = append(payload, data...)
	return writeBlock(w, EBlockTypeGCode, payload, compression, checksumType)
}

// ReadGCodeBlock reads a GCodeBlock's params+data (and optional checksum)
// given a header already read by the caller.
func ReadGCodeBlock(r io.Reader, bh BlockHeader, checksumType EChecksumType) (*GCodeBlock, error) {
	payload, err := readBlockPayload(r, bh, checksumType)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, ErrInvalidGCodeEncodingType
	}
	enc := EGCodeEncodingType(getU16LE(payload[0:2]))
	if !enc.valid() {
		return nil, ErrInvalidGCodeEncodingType
	}
	text, err := decodeGCodeText(enc, payload[2:])
	if err != nil {
		return nil, err
	}
	return &GCodeBlock{Encoding: enc, Text: text}, nil
}

// encodeGCodeText converts raw G-code text into a block's on-disk data
// bytes per its encoding.
//
// EGCodeEncodingMeatPack packs the text but passes comment lines through
// verbatim; EGCodeEncodingMeatPackComments additionally drops comment lines
// (FlagRemoveComments). This distinction is not spelled out in the
// distillation; it is read off the existing MeatPack Flags vocabulary — see
// DESIGN.md.
func encodeGCodeText(enc EGCodeEncodingType, text string, omitWhitespaces bool) ([]byte, error) {
	switch enc {
	case EGCodeEncodingNone:
		return []byte(text), nil
	case EGCodeEncodingMeatPack, EGCodeEncodingMeatPackComments:
		flags := meatpack.Flags(0)
		if omitWhitespaces {
			flags |= meatpack.FlagOmitWhitespaces
		}
		if enc == EGCodeEncodingMeatPackComments {
			flags |= meatpack.FlagRemoveComments
		}
		e := meatpack.NewEncoder(flags)
		out := e.Encode(text)
		out = append(out, e.Finalize()...)
		return out, nil
	default:
		return nil, ErrInvalidGCodeEncodingType
	}
}

// decodeGCodeText converts a block's on-disk data bytes back to text per its
// encoding.
func decodeGCodeText(enc EGCodeEncodingType, data []byte) (string, error) {
	switch enc {
	case EGCodeEncodingNone:
		return string(data), nil
	case EGCodeEncodingMeatPack, EGCodeEncodingMeatPackComments:
		return meatpack.NewDecoder().Decode(data), nil
	default:
		return "", ErrInvalidGCodeEncodingType
	}
}

// writeBlock implements the common write algorithm of spec.md §4.7: compress
// plainPayload if requested, write the header, write the stored bytes, then
// an optional checksum over (header bytes ‖ stored bytes).
func writeBlock(w io.Writer, blockType EBlockType, plainPayload []byte, compression ECompressionType, checksumType EChecksumType) error {
	if !blockType.valid() {
		return ErrInvalidBlockType
	}
	if !compression.valid() {
		return ErrInvalidCompressionType
	}
	if !checksumType.valid() {
		return ErrInvalidChecksumType
	}

	bh := BlockHeader{Type: blockType, Compression: compression}
	stored := plainPayload
	if compression != ECompressionNone {
		compressed, err := codecFor(compression).Compress(plainPayload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDataCompressionError, err)
		}
		bh.UncompressedSize = uint32(len(plainPayload))
		bh.CompressedSize = uint32(len(compressed))
		stored = compressed
	} else {
		bh.UncompressedSize = uint32(len(stored))
	}

	headerBytes := bh.marshal(make([]byte, 0, 12))
	if _, err := w.Write(headerBytes); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := w.Write(stored); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if checksumType == EChecksumCRC32 {
		sum := checksum.NewCRC32()
		sum.Append(headerBytes)
		sum.Append(stored)
		digest := sum.Sum()
		if _, err := w.Write(digest[:]); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	return nil
}

// readBlockPayload reads bh's stored payload bytes from r, decompresses them
// if needed, and consumes (without re-verifying) an optional trailing
// checksum. It returns the plain (uncompressed) params‖data bytes.
func readBlockPayload(r io.Reader, bh BlockHeader, checksumType EChecksumType) ([]byte, error) {
	stored := make([]byte, bh.PayloadSize())
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	var plain []byte
	if bh.Compression == ECompressionNone {
		plain = stored
	} else {
		decompressed, err := codecFor(bh.Compression).Decompress(stored, int(bh.UncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUncompressionError, err)
		}
		plain = decompressed
	}

	if n := checksumSize(checksumType); n > 0 {
		skip := make([]byte, n)
		if _, err := io.ReadFull(r, skip); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}

	return plain, nil
}
