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
	"fmt"
	"io"
)

// WriteHeader writes fh to the start of w. The caller is responsible for
// having positioned w at offset 0.
func WriteHeader(w io.Writer, fh FileHeader) error {
	if !fh.ChecksumType.valid() {
		return ErrInvalidChecksumType
	}
	var b [FileHeaderSize]byte
	putU32LE(b[0:4], MagicNumber)
	putU32LE(b[4:8], fh.Version)
	putU16LE(b[8:10], uint16(fh.ChecksumType))
	if _, err := w.Write(b[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// ReadHeader rewinds r to offset 0, reads the FileHeader, and leaves the
// stream positioned at the first block. maxVersion is the highest version
// number the caller is willing to accept; a file whose version exceeds it
// yields ErrInvalidVersion.
func ReadHeader(r io.ReadSeeker, maxVersion uint32) (FileHeader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FileHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	var b [FileHeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return FileHeader{}, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if getU32LE(b[0:4]) != MagicNumber {
		return FileHeader{}, ErrInvalidMagicNumber
	}

	fh := FileHeader{
		Version:      getU32LE(b[4:8]),
		ChecksumType: EChecksumType(getU16LE(b[8:10])),
	}
	if fh.Version > maxVersion {
		return FileHeader{}, ErrInvalidVersion
	}
	if !fh.ChecksumType.valid() {
		return FileHeader{}, ErrInvalidChecksumType
	}
	return fh, nil
}

// Sniff peeks at the first bytes of r, without consuming them, and reports
// whether they look like a bgcode binary file's magic number. It does not
// validate anything beyond the magic number; use IsValidBinaryGCode for a
// real validity check.
func Sniff(r *bufio.Reader) (bool, error) {
	b, err := r.Peek(4)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return getU32LE(b) == MagicNumber, nil
}
