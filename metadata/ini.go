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

// Package metadata implements the INI-flavoured key/value codec used by
// every bgcode metadata block (file, printer, print, slicer).
package metadata

import "strings"

// KV is one key/value pair. Order among a slice of KV is significant and is
// preserved by both Encode and Decode.
type KV struct {
	Key   string
	Value string
}

// Encode renders pairs as line-oriented INI text: "key=value\n" per pair, in
// order.
func Encode(pairs []KV) []byte {
	var b strings.Builder
	for _, kv := range pairs {
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(kv.Value)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Decode splits raw on '\n' and, for each non-empty line containing '=',
// splits on the first '=' into a key/value pair. Lines with no '=' are
// skipped silently. Order is preserved.
func Decode(raw []byte) []KV {
	var pairs []KV
	for _, line := range strings.Split(string(raw), "\n") {
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			continue
		}
		pairs = append(pairs, KV{Key: line[:i], Value: line[i+1:]})
	}
	return pairs
}
