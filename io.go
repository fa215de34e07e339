// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file is the serialization facade (§4.5): it presents a filter's
// internal buffer as a byte sequence or as a little-endian 32-bit word
// sequence, and rebuilds a filter from either form given a caller-
// supplied hash count. There is no header: the caller is responsible for
// recording k (and, for counting filters, repeat_insert) alongside the
// buffer (§6).
package bloomkit

import (
	"fmt"

	"github.com/bloomkit/bloomkit/internal/bitset"
)

// GetBytes returns a copy of f's underlying bit buffer, little-endian
// word order, LSB-first within each byte.
func (f *Filter) GetBytes() []byte { return f.bits.Bytes() }

// GetIntArray returns a copy of f's underlying buffer reinterpreted as
// little-endian 32-bit words.
func (f *Filter) GetIntArray() []uint32 { return f.bits.IntArray() }

// FromBytes reconstructs a bit filter from a raw buffer previously
// produced by GetBytes, given the hash count k it was built with. The
// reconstructed filter's Builder() reports the zero Config (N=0, P=0);
// see §9.
//
// buf's length must be a positive multiple of 4 bytes, and k must be
// positive, or ErrInvalidBuffer is returned.
func FromBytes(buf []byte, k int) (*Filter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidBuffer, k)
	}
	bits, err := bitset.FromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	return &Filter{bits: bits, k: k, seed1: defaultSeed1, seed2: defaultSeed2}, nil
}

// FromIntArray reconstructs a bit filter from a little-endian 32-bit
// word buffer previously produced by GetIntArray, given the hash count k
// it was built with. See FromBytes for the reconstruction caveats.
func FromIntArray(words []uint32, k int) (*Filter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidBuffer, k)
	}
	bits, err := bitset.FromIntArray(words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	return &Filter{bits: bits, k: k, seed1: defaultSeed1, seed2: defaultSeed2}, nil
}

// GetBytes returns a copy of c's underlying counter buffer, verbatim:
// two 4-bit counters per byte, lower nibble first.
func (c *CountingFilter) GetBytes() []byte { return c.counters.Bytes() }

// GetIntArray returns a copy of c's underlying buffer reinterpreted as
// little-endian 32-bit words, padded with trailing zero bytes as needed.
func (c *CountingFilter) GetIntArray() []uint32 { return c.counters.IntArray() }

// CountingFromBytes reconstructs a counting filter from a raw buffer
// previously produced by GetBytes, given the hash count k and
// repeat-insert mode it was built with. The reconstructed filter's
// Builder() reports the zero N/P; see §9.
func CountingFromBytes(buf []byte, k int, repeatInsert bool) (*CountingFilter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidBuffer, k)
	}
	counters, err := bitset.NibblesFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	return &CountingFilter{
		counters: counters,
		k:        k,
		cfg:      Config{RepeatInsert: repeatInsert},
		seed1:    defaultSeed1,
		seed2:    defaultSeed2,
	}, nil
}

// CountingFromIntArray reconstructs a counting filter from a
// little-endian 32-bit word buffer previously produced by GetIntArray,
// given the hash count k and repeat-insert mode it was built with.
func CountingFromIntArray(words []uint32, k int, repeatInsert bool) (*CountingFilter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidBuffer, k)
	}
	counters, err := bitset.NibblesFromIntArray(words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBuffer, err)
	}
	return &CountingFilter{
		counters: counters,
		k:        k,
		cfg:      Config{RepeatInsert: repeatInsert},
		seed1:    defaultSeed1,
		seed2:    defaultSeed2,
	}, nil
}
