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
	"bufio"
	"errors"
	"fmt"
	"io"
)

// verifyChecksumScratchSize is the scratch buffer size FromBinaryToASCII
// uses when asked to verify checksums (spec.md §4.10).
const verifyChecksumScratchSize = 2048

// FromASCIIToBinary reads G-code text from src line by line and writes a
// conformant bgcode file to dst, using cfg for the header/metadata blocks
// and codec choices. dst need only be an io.Writer: the binarizer never
// seeks backwards.
func FromASCIIToBinary(src io.Reader, dst io.Writer, cfg Config) error {
	bz := NewBinarizer(dst, cfg)
	if err := bz.Initialize(); err != nil {
		return err
	}

	r := bufio.NewReader(src)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if aerr := bz.AppendGCode(line); aerr != nil {
				return aerr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
	}
	return bz.Finalize()
}

// FromBinaryToASCII validates src's header, walks its blocks, and writes
// the decoded text of every GCode block to dst in order; non-GCode blocks
// are skipped. If verifyChecksum is set, each block's checksum is verified
// (using a 2048-byte scratch buffer) before it is decoded.
func FromBinaryToASCII(src io.ReadSeeker, dst io.Writer, verifyChecksum bool) error {
	fh, err := ReadHeader(src, Version)
	if err != nil {
		return err
	}

	var scratch []byte
	if verifyChecksum {
		scratch = make([]byte, verifyChecksumScratchSize)
	}

	for {
		bh, err := ReadNextBlockHeader(src, fh, scratch)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		if bh.Type != EBlockTypeGCode {
			if err := SkipBlockContent(src, fh, bh); err != nil {
				return err
			}
			continue
		}

		blk, err := ReadGCodeBlock(src, bh, fh.ChecksumType)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(dst, blk.Text); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
}
