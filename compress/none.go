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

package compress

// None is the identity Codec: Compress and Decompress are no-ops.
type None struct{}

func (None) Compress(src []byte) ([]byte, error) {
	return src, nil
}

func (None) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) != uncompressedSize {
		return nil, ErrDecompress
	}
	return src, nil
}
