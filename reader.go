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
	"errors"
	"fmt"
	"io"

	"github.com/prusa3d-go/bgcode/checksum"
)

// sequenceStage walks the mandatory block sequence of spec.md §3:
//
//	FileMetadata (optional), PrinterMetadata, Thumbnail*, PrintMetadata,
//	SlicerMetadata, GCode+
type sequenceStage int

const (
	stageBeforePrinter sequenceStage = iota
	stageThumbnails
	stageBeforeSlicer
	stageGCode
)

// IsValidBinaryGCode reports whether stream holds a well-formed bgcode file.
// It always restores stream's original position before returning.
//
// If checkContents is false, only the FileHeader is validated. If true,
// every block in the mandatory sequence is walked and, when the file header
// declares EChecksumCRC32, each block's checksum is verified using scratch.
// scratch must be non-empty whenever checkContents is true.
func IsValidBinaryGCode(stream io.ReadSeeker, checkContents bool, scratch []byte) (bool, error) {
	orig, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer stream.Seek(orig, io.SeekStart)

	fh, err := ReadHeader(stream, Version)
	if err != nil {
		return false, err
	}
	if !checkContents {
		return true, nil
	}
	if len(scratch) == 0 {
		return false, ErrInvalidBuffer
	}

	stage := stageBeforePrinter
	seenFileMetadata := false
	seenGCode := false

	for {
		pos, err := stream.Seek(0, io.SeekCurrent)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrRead, err)
		}
		bh, err := readBlockHeader(stream, pos)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if stage == stageGCode && seenGCode {
					return true, nil
				}
				return false, ErrInvalidSequenceOfBlocks
			}
			return false, err
		}

		switch stage {
		case stageBeforePrinter:
			switch bh.Type {
			case EBlockTypeFileMetadata:
				if seenFileMetadata {
					return false, ErrInvalidSequenceOfBlocks
				}
				seenFileMetadata = true
			case EBlockTypePrinterMetadata:
				stage = stageThumbnails
			default:
				return false, ErrInvalidSequenceOfBlocks
			}
		case stageThumbnails:
			switch bh.Type {
			case EBlockTypeThumbnail:
			case EBlockTypePrintMetadata:
				stage = stageBeforeSlicer
			default:
				return false, ErrInvalidSequenceOfBlocks
			}
		case stageBeforeSlicer:
			if bh.Type != EBlockTypeSlicerMetadata {
				return false, ErrInvalidSequenceOfBlocks
			}
			stage = stageGCode
		case stageGCode:
			if bh.Type != EBlockTypeGCode {
				return false, ErrInvalidSequenceOfBlocks
			}
			seenGCode = true
		}

		if fh.ChecksumType == EChecksumCRC32 {
			if err := VerifyBlockChecksum(stream, fh, bh, scratch); err != nil {
				return false, err
			}
		} else if err := SkipBlockContent(stream, fh, bh); err != nil {
			return false, err
		}
	}
}

// ReadNextBlockHeader reads a BlockHeader at stream's current position. If
// scratch is non-nil (and non-empty), the block's checksum is additionally
// verified; either way, on success stream is left positioned at the start of
// the block's params (block.Position + block.Size()).
func ReadNextBlockHeader(stream io.ReadSeeker, fh FileHeader, scratch []byte) (BlockHeader, error) {
	pos, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	bh, err := readBlockHeader(stream, pos)
	if err != nil {
		return BlockHeader{}, err
	}

	paramsPos := bh.Position + int64(bh.Size())
	if scratch != nil {
		if len(scratch) == 0 {
			return BlockHeader{}, ErrInvalidBuffer
		}
		if err := VerifyBlockChecksum(stream, fh, bh, scratch); err != nil {
			return BlockHeader{}, err
		}
		if _, err := stream.Seek(paramsPos, io.SeekStart); err != nil {
			return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}
	return bh, nil
}

// ReadNextBlockHeaderOfType scans forward from stream's current position,
// skipping blocks until one of blockType is found or the stream is
// exhausted. On success, stream is positioned as ReadNextBlockHeader leaves
// it (start of the matching block's params). On no match, stream is
// restored to its original position and ErrBlockNotFound is returned.
func ReadNextBlockHeaderOfType(stream io.ReadSeeker, fh FileHeader, blockType EBlockType, scratch []byte) (BlockHeader, error) {
	orig, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	for {
		bh, err := ReadNextBlockHeader(stream, fh, nil)
		if err != nil {
			stream.Seek(orig, io.SeekStart)
			return BlockHeader{}, ErrBlockNotFound
		}

		if bh.Type == blockType {
			if scratch != nil {
				if len(scratch) == 0 {
					stream.Seek(orig, io.SeekStart)
					return BlockHeader{}, ErrInvalidBuffer
				}
				if err := VerifyBlockChecksum(stream, fh, bh, scratch); err != nil {
					stream.Seek(orig, io.SeekStart)
					return BlockHeader{}, err
				}
				if _, err := stream.Seek(bh.Position+int64(bh.Size()), io.SeekStart); err != nil {
					return BlockHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
				}
			}
			return bh, nil
		}

		if err := SkipBlockContent(stream, fh, bh); err != nil {
			stream.Seek(orig, io.SeekStart)
			return BlockHeader{}, err
		}
	}
}

// VerifyBlockChecksum seeks to the start of bh's payload, streams it through
// a CRC32 accumulator (seeded with bh's serialised header bytes) using
// scratch-sized reads, then compares against the stored checksum. scratch
// must be non-empty. On success, stream is left at the start of the next
// block. If fh.ChecksumType is EChecksumNone, the payload is still read (to
// leave the stream correctly positioned) but no comparison is made.
func VerifyBlockChecksum(stream io.ReadSeeker, fh FileHeader, bh BlockHeader, scratch []byte) error {
	if len(scratch) == 0 {
		return ErrInvalidBuffer
	}

	paramsPos := bh.Position + int64(bh.Size())
	if _, err := stream.Seek(paramsPos, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}

	sum := checksum.NewCRC32()
	sum.Append(bh.marshal(make([]byte, 0, 12)))

	remaining := int64(bh.PayloadSize())
	for remaining > 0 {
		n := int64(len(scratch))
		if n > remaining {
			n = remaining
		}
		if _, err := io.ReadFull(stream, scratch[:n]); err != nil {
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
		sum.Append(scratch[:n])
		remaining -= n
	}

	if fh.ChecksumType != EChecksumCRC32 {
		return nil
	}

	var stored [4]byte
	if _, err := io.ReadFull(stream, stored[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	if !sum.Matches(stored) {
		return ErrInvalidChecksum
	}
	return nil
}

// SkipBlock seeks directly to the end of the block described by bh (past
// its params, data and optional checksum), regardless of stream's current
// position.
func SkipBlock(stream io.Seeker, fh FileHeader, bh BlockHeader) error {
	end := bh.Position + int64(bh.Size()) + int64(bh.PayloadSize()) + int64(checksumSize(fh.ChecksumType))
	if _, err := stream.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	return nil
}

// SkipBlockContent advances stream past bh's data and optional checksum,
// assuming stream is currently positioned at the start of bh's params.
func SkipBlockContent(stream io.Seeker, fh FileHeader, bh BlockHeader) error {
	skip := int64(bh.PayloadSize()) + int64(checksumSize(fh.ChecksumType))
	if _, err := stream.Seek(skip, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	return nil
}
