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

import "math"

// Stats summarizes a filter's current fill state, returned by Filter.Stats
// and CountingFilter.Stats for introspection and CLI reporting.
type Stats struct {
	NumBits        uint64  // m
	NumHashes      int     // k
	SetCount       uint64  // popcount (bit filter) or non-zero counters (counting filter)
	LoadFactor     float64 // SetCount / NumBits
	EstCardinality uint64  // estimated distinct elements inserted
}

// estimateCardinality implements §4.3's estimator:
//
//	⌊ -(m/k)·ln(1 - X/m) ⌋, or 0 if X == 0, or m if X == m (saturated).
func estimateCardinality(m uint64, k int, x uint64) uint64 {
	if x == 0 {
		return 0
	}
	if x == m {
		return m
	}
	n := -(float64(m) / float64(k)) * math.Log1p(-float64(x)/float64(m))
	return uint64(math.Floor(n))
}

// EstimateCardinality estimates the number of distinct elements added to
// f, per §4.3.
func (f *Filter) EstimateCardinality() uint64 {
	return estimateCardinality(f.bits.Len(), f.k, f.bits.PopCount())
}

// EstimateFPR reports the theoretical false-positive probability of f
// after `inserted` distinct elements have been added, using the standard
// (1 - e^(-k*n/m))^k approximation.
func (f *Filter) EstimateFPR(inserted int) float64 {
	return theoreticalFPR(f.bits.Len(), f.k, inserted)
}

func theoreticalFPR(m uint64, k, inserted int) float64 {
	if inserted <= 0 {
		return 0
	}
	exponent := -float64(k) * float64(inserted) / float64(m)
	return math.Pow(1-math.Exp(exponent), float64(k))
}

// Stats returns a snapshot of f's current fill state.
func (f *Filter) Stats() Stats {
	x := f.bits.PopCount()
	m := f.bits.Len()
	return Stats{
		NumBits:        m,
		NumHashes:      f.k,
		SetCount:       x,
		LoadFactor:     float64(x) / float64(m),
		EstCardinality: estimateCardinality(m, f.k, x),
	}
}

// EstimateCardinality estimates the number of distinct elements added to
// c, treating a counter as "set" once it is non-zero.
func (c *CountingFilter) EstimateCardinality() uint64 {
	return estimateCardinality(c.counters.Len(), c.k, c.counters.NonZeroCount())
}

// Stats returns a snapshot of c's current fill state.
func (c *CountingFilter) Stats() Stats {
	x := c.counters.NonZeroCount()
	m := c.counters.Len()
	return Stats{
		NumBits:        m,
		NumHashes:      c.k,
		SetCount:       x,
		LoadFactor:     float64(x) / float64(m),
		EstCardinality: estimateCardinality(m, c.k, x),
	}
}
