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
	"math"

	"github.com/bloomkit/bloomkit/internal/bitset"
)

// Config describes the parameters a Builder was constructed with, or the
// zero value for a filter reconstructed from a raw buffer (see §9's open
// question: reconstructed filters report N=0, P=0).
type Config struct {
	N            uint64  // expected element count
	P            float64 // target false-positive probability
	RepeatInsert bool    // counting filter only
}

// Builder derives (m, k) from (n, p) and materializes either filter
// variant sharing those parameters.
//
// Builder is the Go analogue of the binding layer's PyFilterBuilder:
// construct one with NewBuilder, optionally flip SetRepeatInsert, then
// call BuildBitFilter or BuildCountingFilter.
type Builder struct {
	cfg   Config
	m     uint64
	k     int
	seed1 uint64
	seed2 uint64
}

// NewBuilder derives (m, k) from (n, p) per §4.1 and returns a Builder
// ready to materialize either filter variant. RepeatInsert defaults to
// true, per §4.4: a counting filter's Add always increments unless
// SetRepeatInsert(false) is called.
//
// It fails with ErrInvalidParameters when n < 1, p <= 0, p >= 1, or the
// derivation yields a non-finite value.
func NewBuilder(n uint64, p float64) (*Builder, error) {
	m, k, err := Optimize(n, p)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:   Config{N: n, P: p, RepeatInsert: true},
		m:     m,
		k:     k,
		seed1: defaultSeed1,
		seed2: defaultSeed2,
	}, nil
}

// Optimize computes the number of bits m and number of hash functions k
// that a filter built for n expected elements at false-positive
// probability p should use, per the equations in §4.1:
//
//	m = max(64, ceil(-(n·ln p)/(ln 2)²  /  64) · 64)
//	k = max(1, round((m/n)·ln 2))
func Optimize(n uint64, p float64) (m uint64, k int, err error) {
	if n < 1 {
		return 0, 0, fmt.Errorf("%w: n must be >= 1, got %d", ErrInvalidParameters, n)
	}
	if p <= 0 || p >= 1 {
		return 0, 0, fmt.Errorf("%w: p must satisfy 0 < p < 1, got %v", ErrInvalidParameters, p)
	}

	mRaw := -(float64(n) * math.Log(p)) / (math.Ln2 * math.Ln2)
	if math.IsNaN(mRaw) || math.IsInf(mRaw, 0) {
		return 0, 0, fmt.Errorf("%w: non-finite bit count derived from n=%d, p=%v", ErrInvalidParameters, n, p)
	}

	m = uint64(math.Ceil(mRaw/64)) * 64
	if m < 64 {
		m = 64
	}

	kf := math.Round((float64(m) / float64(n)) * math.Ln2)
	if math.IsNaN(kf) || math.IsInf(kf, 0) {
		return 0, 0, fmt.Errorf("%w: non-finite hash count derived from n=%d, p=%v", ErrInvalidParameters, n, p)
	}
	k = int(kf)
	if k < 1 {
		k = 1
	}

	return m, k, nil
}

// withSeeds overrides the two XXH3 seeds a subsequently built filter
// hashes with. Test-only: the seeds are part of the on-disk format
// (§4.2) and production code must never call this; it exists solely to
// verify the double-hashing construction's independence properties in
// isolation, the way the teacher unit-tests its doublehash/reducerange
// helpers directly. Returns b for chaining.
func (b *Builder) withSeeds(s1, s2 uint64) *Builder {
	b.seed1, b.seed2 = s1, s2
	return b
}

// SetRepeatInsert configures the repeat-insert mode a subsequently built
// counting filter will use (see §4.4). It has no effect on bit filters.
// SetRepeatInsert returns b for chaining.
func (b *Builder) SetRepeatInsert(v bool) *Builder {
	b.cfg.RepeatInsert = v
	return b
}

// N returns the expected element count the Builder was constructed with.
func (b *Builder) N() uint64 { return b.cfg.N }

// P returns the target false-positive probability.
func (b *Builder) P() float64 { return b.cfg.P }

// M returns the derived bit count.
func (b *Builder) M() uint64 { return b.m }

// K returns the derived hash function count.
func (b *Builder) K() int { return b.k }

// RepeatInsert reports the repeat-insert flag a counting filter built
// from b will use.
func (b *Builder) RepeatInsert() bool { return b.cfg.RepeatInsert }

// String implements fmt.Stringer for debugging and log output.
func (b *Builder) String() string {
	return fmt.Sprintf("Builder(n=%d, p=%v, m=%d, k=%d, repeatInsert=%v)",
		b.cfg.N, b.cfg.P, b.m, b.k, b.cfg.RepeatInsert)
}

// BuildBitFilter materializes a bit filter with b's derived (m, k).
func (b *Builder) BuildBitFilter() *Filter {
	return &Filter{
		bits:  bitset.NewBits(b.m),
		k:     b.k,
		cfg:   Config{N: b.cfg.N, P: b.cfg.P},
		seed1: b.seed1,
		seed2: b.seed2,
	}
}

// BuildCountingFilter materializes a counting filter with b's derived
// (m, k) and repeat-insert mode.
func (b *Builder) BuildCountingFilter() *CountingFilter {
	return &CountingFilter{
		counters: bitset.NewNibbles(b.m),
		k:        b.k,
		cfg:      Config{N: b.cfg.N, P: b.cfg.P, RepeatInsert: b.cfg.RepeatInsert},
		seed1:    b.seed1,
		seed2:    b.seed2,
	}
}
