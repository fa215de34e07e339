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

package bloomkit

import (
	"fmt"

	"github.com/bloomkit/bloomkit/internal/bitset"
)

// CountingFilter is a Bloom filter backed by an array of 4-bit saturating
// counters instead of single bits, supporting Remove in addition to the
// bit filter's Add/Contains/Clear/IsEmpty contract. It does not support
// Union or Intersect: set algebra on counters is not defined by this
// library (§4.4).
type CountingFilter struct {
	counters *bitset.Nibbles
	k        int
	cfg      Config
	seed1    uint64
	seed2    uint64
}

// NumBits returns the number of counters in the filter's buffer.
func (c *CountingFilter) NumBits() uint64 { return c.counters.Len() }

// K returns the number of hash functions used.
func (c *CountingFilter) K() int { return c.k }

// RepeatInsert reports whether Add always increments (true) or is a
// no-op on an already-present element (false).
func (c *CountingFilter) RepeatInsert() bool { return c.cfg.RepeatInsert }

// Builder returns the Config the filter was built with, or the zero
// Config if it was reconstructed from a raw buffer (see §9).
func (c *CountingFilter) Builder() Config { return c.cfg }

// String implements fmt.Stringer.
func (c *CountingFilter) String() string {
	return fmt.Sprintf("CountingFilter(m=%d, k=%d, repeatInsert=%v)",
		c.counters.Len(), c.k, c.cfg.RepeatInsert)
}

// HashIndices returns the k positions in [0, c.NumBits()) that x hashes
// to.
func (c *CountingFilter) HashIndices(x interface{}) []uint64 {
	return hashIndicesSeeded(canonicalBytes(x), c.k, c.counters.Len(), c.seed1, c.seed2)
}

// Add increments every one of x's k counters, saturating at 15. In
// repeat-insert=false mode, Add is a no-op if x is already definitely
// present (every counter non-zero).
func (c *CountingFilter) Add(x interface{}) { c.addBytes(canonicalBytes(x)) }

// AddBytes is the typed entry point for raw byte elements.
func (c *CountingFilter) AddBytes(b []byte) { c.addBytes(b) }

// AddString is the typed entry point for UTF-8 string elements.
func (c *CountingFilter) AddString(s string) { c.addBytes([]byte(s)) }

// AddInt is the typed entry point for signed 64-bit integer elements.
func (c *CountingFilter) AddInt(n int64) { c.addBytes(int64Bytes(n)) }

func (c *CountingFilter) addBytes(data []byte) {
	if !c.cfg.RepeatInsert && c.containsBytes(data) {
		return
	}
	forEachIndexSeeded(data, c.k, c.counters.Len(), c.seed1, c.seed2, func(idx uint64) bool {
		c.counters.Increment(idx)
		return true
	})
}

// Contains reports whether every one of x's k counters is non-zero.
func (c *CountingFilter) Contains(x interface{}) bool {
	return c.containsBytes(canonicalBytes(x))
}

// ContainsBytes is the typed entry point for raw byte elements.
func (c *CountingFilter) ContainsBytes(b []byte) bool { return c.containsBytes(b) }

// ContainsString is the typed entry point for UTF-8 string elements.
func (c *CountingFilter) ContainsString(s string) bool { return c.containsBytes([]byte(s)) }

// ContainsInt is the typed entry point for signed 64-bit integer
// elements.
func (c *CountingFilter) ContainsInt(n int64) bool { return c.containsBytes(int64Bytes(n)) }

func (c *CountingFilter) containsBytes(data []byte) bool {
	found := true
	forEachIndexSeeded(data, c.k, c.counters.Len(), c.seed1, c.seed2, func(idx uint64) bool {
		if c.counters.Get(idx) == 0 {
			found = false
			return false
		}
		return true
	})
	return found
}

// AddIfNotContains reports whether x was already definitely present
// before the call, then adds it (per RepeatInsert's semantics).
func (c *CountingFilter) AddIfNotContains(x interface{}) bool {
	data := canonicalBytes(x)
	already := c.containsBytes(data)
	c.addBytes(data)
	return already
}

// Remove decrements every one of x's k counters by one, floored at zero.
// If any of the k counters was already zero before the call, Remove is a
// no-op on all of them: the operation is atomic at this level, it never
// partially decrements.
func (c *CountingFilter) Remove(x interface{}) { c.removeBytes(canonicalBytes(x)) }

// RemoveBytes is the typed entry point for raw byte elements.
func (c *CountingFilter) RemoveBytes(b []byte) { c.removeBytes(b) }

// RemoveString is the typed entry point for UTF-8 string elements.
func (c *CountingFilter) RemoveString(s string) { c.removeBytes([]byte(s)) }

// RemoveInt is the typed entry point for signed 64-bit integer elements.
func (c *CountingFilter) RemoveInt(n int64) { c.removeBytes(int64Bytes(n)) }

func (c *CountingFilter) removeBytes(data []byte) {
	idx := hashIndicesSeeded(data, c.k, c.counters.Len(), c.seed1, c.seed2)
	for _, i := range idx {
		if c.counters.Get(i) == 0 {
			return
		}
	}
	for _, i := range idx {
		c.counters.Decrement(i)
	}
}

// EstimateCount returns the minimum of x's k counters: a probabilistic
// upper-bound-friendly estimate of the net number of times x has been
// added minus removed (ties from collisions inflate it).
func (c *CountingFilter) EstimateCount(x interface{}) uint8 {
	data := canonicalBytes(x)
	min := uint8(15)
	forEachIndexSeeded(data, c.k, c.counters.Len(), c.seed1, c.seed2, func(idx uint64) bool {
		v := c.counters.Get(idx)
		if v < min {
			min = v
		}
		return true
	})
	return min
}

// CounterAt returns the 4-bit counter at physical index i. It fails with
// ErrIndexOutOfRange if i >= c.NumBits().
func (c *CountingFilter) CounterAt(i uint64) (uint8, error) {
	if i >= c.counters.Len() {
		return 0, fmt.Errorf("%w: index %d >= m=%d", ErrIndexOutOfRange, i, c.counters.Len())
	}
	return c.counters.Get(i), nil
}

// ContainsHashIndices reports whether every counter named in idx is
// non-zero. Every entry must be < c.NumBits(), or ErrIndexOutOfRange is
// returned.
func (c *CountingFilter) ContainsHashIndices(idx []uint64) (bool, error) {
	m := c.counters.Len()
	for _, i := range idx {
		if i >= m {
			return false, fmt.Errorf("%w: index %d >= m=%d", ErrIndexOutOfRange, i, m)
		}
		if c.counters.Get(i) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Clear zeroes every counter.
func (c *CountingFilter) Clear() { c.counters.Clear() }

// IsEmpty reports whether every counter is zero.
func (c *CountingFilter) IsEmpty() bool { return c.counters.IsZero() }

// AddBytesBatch adds every element of xs.
func (c *CountingFilter) AddBytesBatch(xs [][]byte) {
	for _, x := range xs {
		c.addBytes(x)
	}
}

// AddStringBatch adds every element of xs.
func (c *CountingFilter) AddStringBatch(xs []string) {
	for _, x := range xs {
		c.addBytes([]byte(x))
	}
}

// AddIntBatch adds every element of xs.
func (c *CountingFilter) AddIntBatch(xs []int64) {
	for _, x := range xs {
		c.addBytes(int64Bytes(x))
	}
}

// ContainsBytesBatch returns, for each element of xs in order, whether
// every counter it hashes to is non-zero.
func (c *CountingFilter) ContainsBytesBatch(xs [][]byte) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = c.containsBytes(x)
	}
	return out
}

// ContainsStringBatch returns, for each element of xs in order, whether
// every counter it hashes to is non-zero.
func (c *CountingFilter) ContainsStringBatch(xs []string) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = c.containsBytes([]byte(x))
	}
	return out
}

// ContainsIntBatch returns, for each element of xs in order, whether
// every counter it hashes to is non-zero.
func (c *CountingFilter) ContainsIntBatch(xs []int64) []bool {
	out := make([]bool, len(xs))
	for i, x := range xs {
		out[i] = c.containsBytes(int64Bytes(x))
	}
	return out
}

// RemoveBytesBatch removes every element of xs.
func (c *CountingFilter) RemoveBytesBatch(xs [][]byte) {
	for _, x := range xs {
		c.removeBytes(x)
	}
}

// RemoveStringBatch removes every element of xs.
func (c *CountingFilter) RemoveStringBatch(xs []string) {
	for _, x := range xs {
		c.removeBytes([]byte(x))
	}
}

// RemoveIntBatch removes every element of xs.
func (c *CountingFilter) RemoveIntBatch(xs []int64) {
	for _, x := range xs {
		c.removeBytes(int64Bytes(x))
	}
}
