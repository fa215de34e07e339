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

// Package bloomkit implements a classical Bloom filter and a counting
// Bloom filter sharing one double-hashing kernel.
//
// Unlike a blocked Bloom filter, both variants here address the full bit
// (or counter) range directly: a key's k positions are spread across the
// entire buffer rather than confined to one cache-line-sized block. This
// keeps the on-disk layout a single flat bit or nibble array, at the
// cost of the extra cache miss a blocked layout would have avoided.
//
// Union and Intersect never allocate, and their arguments must agree in
// (m, k); see Filter.Union.
//
// A Filter is not safe for concurrent use by multiple goroutines unless
// every concurrent access is a read (Contains*, HashIndices, GetBytes,
// GetIntArray, EstimateCardinality, Stats); any Add, Clear, Union, or
// Intersect call requires external synchronization.
package bloomkit

import (
	"fmt"

	"github.com/bloomkit/bloomkit/internal/bitset"
)

// Filter is a classical Bloom filter: a packed array of m bits and k
// hash functions derived from a Builder.
type Filter struct {
	bits  *bitset.Bits
	k     int
	cfg   Config
	seed1 uint64
	seed2 uint64
}

// NumBits returns the number of bits in the filter's buffer.
func (f *Filter) NumBits() uint64 { return f.bits.Len() }

// K returns the number of hash functions used.
func (f *Filter) K() int { return f.k }

// Builder returns the Config the filter was built with, or the zero
// Config if it was reconstructed from a raw buffer (see §9).
func (f *Filter) Builder() Config { return f.cfg }

// String implements fmt.Stringer.
func (f *Filter) String() string {
	return fmt.Sprintf("Filter(m=%d, k=%d)", f.bits.Len(), f.k)
}

// HashIndices returns the k positions in [0, f.NumBits()) that x hashes
// to. Two filters built with identical (n, p) agree on HashIndices(x)
// for every x.
func (f *Filter) HashIndices(x interface{}) []uint64 {
	return hashIndicesSeeded(canonicalBytes(x), f.k, f.bits.Len(), f.seed1, f.seed2)
}

// Add sets every bit x hashes to. Add is idempotent.
func (f *Filter) Add(x interface{}) {
	f.addBytes(canonicalBytes(x))
}

// AddBytes is the typed entry point for raw byte elements.
func (f *Filter) AddBytes(b []byte) { f.addBytes(b) }

// AddString is the typed entry point for UTF-8 string elements.
func (f *Filter) AddString(s string) { f.addBytes([]byte(s)) }

// AddInt is the typed entry point for signed 64-bit integer elements,
// encoded little-endian two's complement per §3.
func (f *Filter) AddInt(n int64) { f.addBytes(int64Bytes(n)) }

func (f *Filter) addBytes(data []byte) {
	forEachIndexSeeded(data, f.k, f.bits.Len(), f.seed1, f.seed2, func(idx uint64) bool {
		f.bits.Set(idx)
		return true
	})
}

// Contains reports whether x may have been added. It never returns false
// for an x that was previously added (no false negatives); for a
// non-member it may return true with probability approximately the
// filter's design false-positive rate.
func (f *Filter) Contains(x interface{}) bool {
	return f.containsBytes(canonicalBytes(x))
}

// ContainsBytes is the typed entry point for raw byte elements.
func (f *Filter) ContainsBytes(b []byte) bool { return f.containsBytes(b) }

// ContainsString is the typed entry point for UTF-8 string elements.
func (f *Filter) ContainsString(s string) bool { return f.containsBytes([]byte(s)) }

// ContainsInt is the typed entry point for signed 64-bit integer
// elements.
func (f *Filter) ContainsInt(n int64) bool { return f.containsBytes(int64Bytes(n)) }

func (f *Filter) containsBytes(data []byte) bool {
	found := true
	forEachIndexSeeded(data, f.k, f.bits.Len(), f.seed1, f.seed2, func(idx uint64) bool {
		if !f.bits.Get(idx) {
			found = false
			return false
		}
		return true
	})
	return found
}

// AddIfNotContains reports whether x was already definitely present
// (every bit set) before the call, then unconditionally sets its bits.
func (f *Filter) AddIfNotContains(x interface{}) bool {
	data := canonicalBytes(x)
	already := f.containsBytes(data)
	f.addBytes(data)
	return already
}

// ContainsHashIndices reports whether every index in idx is set. An entry
// >= f.NumBits() yields ErrIndexOutOfRange; the length of idx is not
// checked against f.K().
func (f *Filter) ContainsHashIndices(idx []uint64) (bool, error) {
	m := f.bits.Len()
	for _, i := range idx {
		if i >= m {
			return false, fmt.Errorf("%w: index %d >= m=%d", ErrIndexOutOfRange, i, m)
		}
		if !f.bits.Get(i) {
			return false, nil
		}
	}
	return true, nil
}

// Clear zeroes the buffer.
func (f *Filter) Clear() { f.bits.Clear() }

// IsEmpty reports whether no bit is set.
func (f *Filter) IsEmpty() bool { return f.bits.IsZero() }

// Union sets f to the bitwise OR of f and other, in place, never
// allocating. It fails with ErrIncompatible when the two filters do not
// share the same (m, k).
func (f *Filter) Union(other *Filter) error {
	if err := f.checkCompatible(other); err != nil {
		return err
	}
	f.bits.Union(other.bits)
	return nil
}

// Intersect sets f to the bitwise AND of f and other, in place, never
// allocating. It fails with ErrIncompatible when the two filters do not
// share the same (m, k).
func (f *Filter) Intersect(other *Filter) error {
	if err := f.checkCompatible(other); err != nil {
		return err
	}
	f.bits.Intersect(other.bits)
	return nil
}

func (f *Filter) checkCompatible(other *Filter) error {
	if f.bits.Len() != other.bits.Len() || f.k != other.k ||
		f.seed1 != other.seed1 || f.seed2 != other.seed2 {
		return fmt.Errorf("%w: (m=%d, k=%d) vs (m=%d, k=%d)",
			ErrIncompatible, f.bits.Len(), f.k, other.bits.Len(), other.k)
	}
	return nil
}

// AddBytesBatch adds every element of xs.
func (f *Filter) AddBytesBatch(xs [][]byte) {
	for _, x := range xs {
		f.addBytes(x)
	}
}

// AddStringBatch adds every element of xs.
func (f *Filter) AddStringBatch(xs []string) {
	for _, x := range xs {
		f.addBytes([]byte(x))
	}
}

// AddIntBatch adds every element of xs.
func (f *Filter) AddIntBatch(xs []int64) {
	for _, x := range xs {
		f.addBytes(int64Bytes(x))
	}
}

// ContainsBytesBatch returns, for each element of xs in order, whether it
// may be present.
func (f *Filter) ContainsBytesBatch(xs [][]byte) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = f.containsBytes(x)
	}
	return out
}

// ContainsStringBatch returns, for each element of xs in order, whether
// it may be present.
func (f *Filter) ContainsStringBatch(xs []string) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = f.containsBytes([]byte(x))
	}
	return out
}

// ContainsIntBatch returns, for each element of xs in order, whether it
// may be present.
func (f *Filter) ContainsIntBatch(xs []int64) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = f.containsBytes(int64Bytes(x))
	}
	return out
}
