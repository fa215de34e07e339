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
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// defaultSeed1 and defaultSeed2 are the two fixed XXH3 seeds every
// production filter hashes with, used to derive the pair of independent
// 64-bit hashes every element is put through. They are part of the
// on-disk contract described in §6 of the design: any buffer produced by
// one version of bloomkit must be loadable by every other, so these
// values must never change. Builder.withSeeds overrides them for tests
// only; every Filter and CountingFilter carries its own (seed1, seed2)
// rather than reading these constants directly.
const (
	defaultSeed1 uint64 = 0
	defaultSeed2 uint64 = 0x9e3779b97f4a7c15 // golden-ratio constant, fixed and non-zero
)

// canonicalBytes returns the canonical byte encoding of x, as defined by
// its shape: raw bytes pass through, strings are their UTF-8 encoding,
// and signed 64-bit integers are encoded little-endian, two's complement.
// Any other type is stringified with fmt.Sprint and then treated as a
// string, matching the binding-layer contract's generic add/contains.
func canonicalBytes(x interface{}) []byte {
	switch v := x.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	case int:
		return int64Bytes(int64(v))
	case int8:
		return int64Bytes(int64(v))
	case int16:
		return int64Bytes(int64(v))
	case int32:
		return int64Bytes(int64(v))
	case int64:
		return int64Bytes(v)
	default:
		return []byte(fmt.Sprint(v))
	}
}

func int64Bytes(n int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	return b[:]
}

// hashPair computes the two independent 64-bit XXH3 hashes of data that
// every hash-index derivation is built from, using the production seeds.
func hashPair(data []byte) (h1, h2 uint64) {
	return hashPairSeeded(data, defaultSeed1, defaultSeed2)
}

// hashPairSeeded is hashPair parameterized over the seed pair, so that
// Builder.withSeeds can swap seeds out for tests without the hot path
// paying for it in production.
func hashPairSeeded(data []byte, s1, s2 uint64) (h1, h2 uint64) {
	return xxh3.HashSeed(data, s1), xxh3.HashSeed(data, s2)
}

// hashIndices returns the k indices into [0, m) produced by double
// hashing data with the production seeds, per the Kirsch-Mitzenmacher
// construction fixed in §4.2: index i is (h1 + i*h2) mod m, with the
// addition taken modulo 2^64 before the reduction.
func hashIndices(data []byte, k int, m uint64) []uint64 {
	return hashIndicesSeeded(data, k, m, defaultSeed1, defaultSeed2)
}

// hashIndicesSeeded is hashIndices parameterized over the seed pair.
func hashIndicesSeeded(data []byte, k int, m uint64, s1, s2 uint64) []uint64 {
	h1, h2 := hashPairSeeded(data, s1, s2)
	out := make([]uint64, k)
	for i := 0; i < k; i++ {
		out[i] = (h1 + uint64(i)*h2) % m
	}
	return out
}

// forEachIndex is the zero-allocation counterpart of hashIndices, used
// on the add/contains hot paths. It calls fn for each of the k indices
// in turn and stops early if fn returns false.
func forEachIndex(data []byte, k int, m uint64, fn func(idx uint64) bool) {
	forEachIndexSeeded(data, k, m, defaultSeed1, defaultSeed2, fn)
}

// forEachIndexSeeded is forEachIndex parameterized over the seed pair.
func forEachIndexSeeded(data []byte, k int, m uint64, s1, s2 uint64, fn func(idx uint64) bool) {
	h1, h2 := hashPairSeeded(data, s1, s2)
	for i := 0; i < k; i++ {
		idx := (h1 + uint64(i)*h2) % m
		if !fn(idx) {
			return
		}
	}
}
