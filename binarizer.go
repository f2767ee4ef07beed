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
	"io"

	"github.com/prusa3d-go/bgcode/metadata"
)

// defaultGCodeCacheSize is the buffer threshold at which AppendGCode flushes
// a GCodeBlock, used when Config.GCodeCacheSize is zero.
const defaultGCodeCacheSize = 65536

// ThumbnailData is one thumbnail to be written by a Binarizer.
type ThumbnailData struct {
	Format EThumbnailFormat
	Width  uint16
	Height uint16
	Data   []byte
}

// Config configures a Binarizer (and the converters that use one
// internally): which checksum and encodings to use, and the content of the
// blocks that precede the G-code stream.
type Config struct {
	ChecksumType     EChecksumType
	MetadataEncoding EMetadataEncodingType
	GCodeEncoding    EGCodeEncodingType

	// OmitWhitespaces is forwarded to the MeatPack encoder as
	// FlagOmitWhitespaces; it is only meaningful when GCodeEncoding is
	// MeatPack or MeatPackComments.
	OmitWhitespaces bool

	MetadataCompression ECompressionType
	GCodeCompression    ECompressionType

	FileMetadata    []metadata.KV // omitted entirely if empty
	PrinterMetadata []metadata.KV
	Thumbnails      []ThumbnailData
	PrintMetadata   []metadata.KV
	SlicerMetadata  []metadata.KV

	// GCodeCacheSize overrides defaultGCodeCacheSize when non-zero.
	GCodeCacheSize int
}

func (c Config) cacheSize() int {
	if c.GCodeCacheSize > 0 {
		return c.GCodeCacheSize
	}
	return defaultGCodeCacheSize
}

// Binarizer is a streaming writer that assembles a conformant bgcode file:
// a header, the mandatory metadata/thumbnail blocks, then a sequence of
// GCodeBlocks accumulated from successive AppendGCode calls.
//
// Initialize must be called once before any AppendGCode call; Finalize must
// be called exactly once, after the last AppendGCode call, to flush the
// trailing GCodeBlock. The lifecycle mirrors a staged writer that
// accumulates state across calls and is closed once.
type Binarizer struct {
	w   io.Writer
	cfg Config

	buf         []byte
	initialized bool
	finalized   bool
}

// NewBinarizer returns a Binarizer that writes to w using cfg.
func NewBinarizer(w io.Writer, cfg Config) *Binarizer {
	return &Binarizer{w: w, cfg: cfg}
}

// Initialize writes the FileHeader and every block that precedes the
// G-code stream, in the mandatory order of spec.md §3: FileMetadata
// (omitted if empty), PrinterMetadata, every Thumbnail, PrintMetadata,
// SlicerMetadata.
func (b *Binarizer) Initialize() error {
	if b.initialized {
		return ErrAlreadyBinarized
	}

	if err := WriteHeader(b.w, FileHeader{Version: Version, ChecksumType: b.cfg.ChecksumType}); err != nil {
		return err
	}

	if len(b.cfg.FileMetadata) > 0 {
		blk := &MetadataBlock{Type: EBlockTypeFileMetadata, Encoding: b.cfg.MetadataEncoding, Pairs: b.cfg.FileMetadata}
		if err := blk.WriteTo(b.w, b.cfg.MetadataCompression, b.cfg.ChecksumType); err != nil {
			return err
		}
	}

	printer := &MetadataBlock{Type: EBlockTypePrinterMetadata, Encoding: b.cfg.MetadataEncoding, Pairs: b.cfg.PrinterMetadata}
	if err := printer.WriteTo(b.w, b.cfg.MetadataCompression, b.cfg.ChecksumType); err != nil {
		return err
	}

	for _, th := range b.cfg.Thumbnails {
		blk := &ThumbnailBlock{Format: th.Format, Width: th.Width, Height: th.Height, Data: th.Data}
		if err := blk.WriteTo(b.w, b.cfg.ChecksumType); err != nil {
			return err
		}
	}

	print := &MetadataBlock{Type: EBlockTypePrintMetadata, Encoding: b.cfg.MetadataEncoding, Pairs: b.cfg.PrintMetadata}
	if err := print.WriteTo(b.w, b.cfg.MetadataCompression, b.cfg.ChecksumType); err != nil {
		return err
	}

	slicer := &MetadataBlock{Type: EBlockTypeSlicerMetadata, Encoding: b.cfg.MetadataEncoding, Pairs: b.cfg.SlicerMetadata}
	if err := slicer.WriteTo(b.w, b.cfg.MetadataCompression, b.cfg.ChecksumType); err != nil {
		return err
	}

	b.initialized = true
	return nil
}

// AppendGCode accumulates text into an internal buffer. Whenever the
// buffer reaches Config.GCodeCacheSize, it is split at the last '\n' and
// the head is flushed as one GCodeBlock; the tail (a partial line) is
// retained for the next call.
func (b *Binarizer) AppendGCode(text string) error {
	if b.finalized {
		return ErrAlreadyBinarized
	}

	b.buf = append(b.buf, text...)
	cacheSize := b.cfg.cacheSize()

	for len(b.buf) >= cacheSize {
		idx := bytes.LastIndexByte(b.buf, '\n')
		if idx < 0 {
			if err := b.flush(string(b.buf)); err != nil {
				return err
			}
			b.buf = b.buf[:0]
			break
		}
		if err := b.flush(string(b.buf[:idx+1])); err != nil {
			return err
		}
		b.buf = append(b.buf[:0], b.buf[idx+1:]...)
	}
	return nil
}

// Finalize flushes the remaining buffer (even if empty, or with no
// trailing newline) as one last GCodeBlock. Subsequent calls are no-ops.
func (b *Binarizer) Finalize() error {
	if b.finalized {
		return nil
	}
	text := string(b.buf)
	b.buf = nil
	if err := b.flush(text); err != nil {
		return err
	}
	b.finalized = true
	return nil
}

func (b *Binarizer) flush(text string) error {
	blk := &GCodeBlock{Encoding: b.cfg.GCodeEncoding, Text: text}
	return blk.WriteTo(b.w, b.cfg.GCodeCompression, b.cfg.ChecksumType, b.cfg.OmitWhitespaces)
}
