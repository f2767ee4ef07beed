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

package meatpack

import "strings"

type packerState uint8

const (
	stateIdle packerState = iota
	statePacking
)

// Encoder packs G-code text, line by line, into the MeatPack byte stream.
// Encode may be called repeatedly with successive chunks of text; Finalize
// must be called exactly once, after the last chunk.
type Encoder struct {
	flags   Flags
	state   packerState
	started bool
}

// NewEncoder returns an Encoder configured with the given flags.
func NewEncoder(flags Flags) *Encoder {
	return &Encoder{flags: flags}
}

// Encode packs text (zero or more '\n'-terminated lines; a final partial
// line with no trailing '\n' is packed too) and returns the produced bytes.
func (e *Encoder) Encode(text string) []byte {
	var out []byte
	if !e.started {
		out = append(out, signalByte, signalByte, byte(cmdEnablePacking))
		e.state = statePacking
		e.started = true
	}
	for _, line := range splitKeepEnding(text) {
		out = append(out, e.encodeLine(line)...)
	}
	return out
}

// Finalize flushes any trailing state. If FlagRemoveComments is set, it
// emits a ResetAll command and returns to the idle state.
func (e *Encoder) Finalize() []byte {
	if e.flags&FlagRemoveComments != 0 {
		e.state = stateIdle
		return []byte{signalByte, signalByte, byte(cmdResetAll)}
	}
	return nil
}

// splitKeepEnding splits text into lines, each retaining its trailing '\n'
// except possibly the last (if text does not end in '\n'). Unlike
// strings.SplitAfter, a text with no trailing '\n' does not produce a
// spurious empty trailing element.
func splitKeepEnding(text string) []string {
	parts := strings.SplitAfter(text, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func (e *Encoder) encodeLine(line string) []byte {
	omit := e.flags&FlagOmitWhitespaces != 0
	removeComments := e.flags&FlagRemoveComments != 0

	if !removeComments && strings.HasPrefix(line, ";") {
		var out []byte
		if e.state == statePacking {
			out = append(out, signalByte, signalByte, byte(cmdDisablePacking))
			e.state = stateIdle
		}
		return append(out, line...)
	}

	if strings.HasPrefix(line, ";") || strings.HasPrefix(line, "\n") ||
		strings.HasPrefix(line, "\r") || len(line) < 2 {
		return nil
	}

	work := line
	if i := strings.IndexByte(work, ';'); i >= 0 {
		work = work[:i]
	}
	work = strings.TrimRight(work, " ")

	if containsGDigit(work) {
		work = normalizeGLine(work, omit)
	}

	if !strings.HasSuffix(work, "\n") {
		work += "\n"
	}

	packed := packPairs([]byte(work), omit)
	if e.state == stateIdle && len(packed) > 0 {
		packed = append([]byte{signalByte, signalByte, byte(cmdEnablePacking)}, packed...)
		e.state = statePacking
	}
	return packed
}

// containsGDigit reports whether s contains 'G' or 'g' immediately followed
// by a decimal digit.
func containsGDigit(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if (s[i] == 'G' || s[i] == 'g') && s[i+1] >= '0' && s[i+1] <= '9' {
			return true
		}
	}
	return false
}

// normalizeGLine uppercases recognised letters ('e' only under
// OmitWhitespaces), strips spaces, and recomputes a trailing '*checksum'
// suffix over the space-free line.
func normalizeGLine(s string, omit bool) string {
	b := []byte(s)
	for i, c := range b {
		switch c {
		case 'x':
			b[i] = 'X'
		case 'g':
			b[i] = 'G'
		case 'e':
			if omit {
				b[i] = 'E'
			}
		}
	}

	filtered := b[:0]
	for _, c := range b {
		if c != ' ' {
			filtered = append(filtered, c)
		}
	}
	b = filtered

	if i := indexByte(b, '*'); i >= 0 {
		prefix := b[:i]
		var checksum byte
		for _, c := range prefix {
			checksum ^= c
		}
		b = append(append([]byte{}, prefix...), '*')
		b = append(b, []byte(itoa(int(checksum)))...)
	}

	return string(b)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var digits [3]byte // checksum is a byte XOR, 0..255, at most 3 digits
	n := 0
	for v > 0 {
		digits[n] = byte('0' + v%10)
		v /= 10
		n++
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = digits[n-1-i]
	}
	return string(out)
}

// packPairs packs data (which already ends in '\n') two characters at a
// time, per spec.md's pairing rules.
func packPairs(data []byte, omit bool) []byte {
	var out []byte
	for i := 0; i < len(data); {
		c1 := data[i]
		var c2 byte
		last := i+1 >= len(data)
		if last {
			c2 = '\n'
		} else {
			c2 = data[i+1]
		}

		n1, ok1 := nibbleOf(c1, omit)
		n2, ok2 := nibbleOf(c2, omit)

		switch {
		case ok1 && ok2:
			out = append(out, (n2<<4)|n1)
		case ok1 && !ok2:
			out = append(out, (fullByteEscape<<4)|n1, c2)
		case !ok1 && ok2:
			out = append(out, (n2<<4)|fullByteEscape, c1)
		default:
			out = append(out, signalByte, c1, c2)
		}

		if last {
			i++
		} else {
			i += 2
		}
	}
	return out
}
