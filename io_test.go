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
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripBytes is invariant 4 of §8.
func TestRoundTripBytes(t *testing.T) {
	t.Parallel()

	f := newBitFilter(t, 12345, .01)

	r := rand.New(rand.NewSource(55))
	for i := 0; i < 100; i++ {
		f.AddInt(r.Int63())
	}

	g, err := FromBytes(f.GetBytes(), f.K())
	require.NoError(t, err)

	assert.Equal(t, f.NumBits(), g.NumBits())
	assert.Equal(t, f.K(), g.K())
	assert.Equal(t, Config{}, g.Builder())

	r2 := rand.New(rand.NewSource(55))
	for i := 0; i < 100; i++ {
		assert.True(t, g.ContainsInt(r2.Int63()))
	}
	assert.Equal(t, f.HashIndices("probe"), g.HashIndices("probe"))
}

// TestRoundTripIntArray is invariant 4 of §8, the int-array form.
func TestRoundTripIntArray(t *testing.T) {
	t.Parallel()

	f := newBitFilter(t, 5000, .02)
	f.AddString("a")
	f.AddString("b")
	f.AddString("c")

	g, err := FromIntArray(f.GetIntArray(), f.K())
	require.NoError(t, err)

	assert.True(t, g.ContainsString("a"))
	assert.True(t, g.ContainsString("b"))
	assert.True(t, g.ContainsString("c"))
	assert.False(t, g.ContainsString("nope-nope-nope"))
}

func TestFromBytesInvalid(t *testing.T) {
	t.Parallel()

	_, err := FromBytes(nil, 3)
	assert.True(t, errors.Is(err, ErrInvalidBuffer))

	_, err = FromBytes([]byte{1, 2, 3}, 3) // not a multiple of 4
	assert.True(t, errors.Is(err, ErrInvalidBuffer))

	_, err = FromBytes([]byte{1, 2, 3, 4}, 0)
	assert.True(t, errors.Is(err, ErrInvalidBuffer))
}

func TestCountingRoundTrip(t *testing.T) {
	t.Parallel()

	f := newCountingFilter(t, 10000, .01, true)
	f.AddString("one")
	f.AddString("one")
	f.AddString("two")

	g, err := CountingFromBytes(f.GetBytes(), f.K(), f.RepeatInsert())
	require.NoError(t, err)

	assert.EqualValues(t, 2, g.EstimateCount("one"))
	assert.True(t, g.ContainsString("two"))
	assert.Equal(t, Config{RepeatInsert: true}, g.Builder())
}

func TestCountingRoundTripIntArray(t *testing.T) {
	t.Parallel()

	f := newCountingFilter(t, 10000, .01, false)
	f.AddString("x")

	g, err := CountingFromIntArray(f.GetIntArray(), f.K(), false)
	require.NoError(t, err)
	assert.True(t, g.ContainsString("x"))
}

func TestCountingFromBytesInvalid(t *testing.T) {
	t.Parallel()

	_, err := CountingFromBytes(nil, 3, true)
	assert.True(t, errors.Is(err, ErrInvalidBuffer))

	_, err = CountingFromBytes([]byte{1, 2}, 0, true)
	assert.True(t, errors.Is(err, ErrInvalidBuffer))
}

func TestGetBytesIsACopy(t *testing.T) {
	t.Parallel()

	f := newBitFilter(t, 1000, .01)
	f.AddString("a")

	buf := f.GetBytes()
	for i := range buf {
		buf[i] = 0xff
	}

	// Mutating the returned slice must not affect the filter.
	assert.True(t, f.ContainsString("a"))
}
