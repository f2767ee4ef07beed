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

import "github.com/prusa3d-go/bgcode/compress"

// codecFor returns the compress.Codec implementation for the given
// compression type. A value not listed below is either ECompressionNone or
// rejected earlier by ECompressionType.valid(), so this always succeeds for
// a validated header.
func codecFor(c ECompressionType) compress.Codec {
	switch c {
	case ECompressionDeflate:
		return compress.Deflate{}
	case ECompressionHeatshrink11_4:
		return compress.Heatshrink11
	case ECompressionHeatshrink12_4:
		return compress.Heatshrink12
	default:
		return compress.None{}
	}
}
