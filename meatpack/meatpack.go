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

// Package meatpack implements the MeatPack codec: a line-oriented G-code
// text <-> 4-bit-packed byte stream codec with embedded escape commands.
//
// Every character of the 15-entry alphabet packs into a nibble; a character
// outside the alphabet escapes to a full raw byte. Two consecutive signal
// bytes (0xFF, 0xFF) introduce a one-byte command instead of packed data.
package meatpack

// Flags configure the encoder.
type Flags uint8

const (
	// FlagOmitWhitespaces uppercases 'e' on G-command lines and repurposes
	// the alphabet slot ' ' would have occupied for 'E' instead; a ' ' is
	// then escaped as a raw byte. G-command lines lose their spaces whether
	// or not this flag is set; the decoder re-inserts one before each
	// parameter letter (see the Decoder note).
	FlagOmitWhitespaces Flags = 0x01
	// FlagRemoveComments causes comment lines (starting with ';') to be
	// dropped instead of passed through verbatim, and causes Finalize to
	// reset the packer state.
	FlagRemoveComments Flags = 0x02
)

// command is a one-byte opcode that follows two consecutive 0xFF signal
// bytes.
type command byte

const (
	cmdQueryConfig     command = 248
	cmdEnableNoSpaces  command = 247
	cmdDisableNoSpaces command = 246
	cmdResetAll        command = 249
	cmdDisablePacking  command = 250
	cmdEnablePacking   command = 251
)

const signalByte = 0xFF

// fullByteEscape is the nibble value (0b1111) that marks "the next byte is
// raw, not packed".
const fullByteEscape = 0x0F

// encodeAlphabet is the packable character set, indexed by nibble value 0..14. The
// decoder's table at index 11 is fixed to 'E', not ' ' — see decoder.go.
var encodeAlphabet = [15]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ' ', '\n', 'G', 'X',
}

var decodeAlphabet = [15]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', 'E', '\n', 'G', 'X',
}

// nibbleOf returns the packable nibble for c under the given OmitWhitespaces
// setting, or ok=false if c must be escaped as a raw byte.
//
// packable(c) = c is in the alphabet OR (OmitWhitespaces AND c == 'E', which
// takes the ' ' slot). Under OmitWhitespaces a ' ' is not packable and is
// escaped as a raw byte, so the two cases never share the slot.
func nibbleOf(c byte, omitWhitespaces bool) (nibble byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c == '.':
		return 10, true
	case c == ' ' && !omitWhitespaces:
		return 11, true
	case c == 'E' && omitWhitespaces:
		return 11, true
	case c == '\n':
		return 12, true
	case c == 'G':
		return 13, true
	case c == 'X':
		return 14, true
	default:
		return 0, false
	}
}
