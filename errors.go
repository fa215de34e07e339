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

import "errors"

// Sentinel errors returned by bloomkit. Wrap with fmt.Errorf("...: %w", err)
// at call sites that add context; compare with errors.Is.
var (
	// ErrInvalidParameters is returned by NewBuilder when n or p fall
	// outside their valid ranges, or when the derived parameters are not
	// finite.
	ErrInvalidParameters = errors.New("bloomkit: invalid parameters")

	// ErrIncompatible is returned by Union and Intersect when the two
	// filters do not share the same number of bits and hash functions.
	ErrIncompatible = errors.New("bloomkit: incompatible filters")

	// ErrInvalidBuffer is returned by the From* reconstruction functions
	// when given a buffer of unsupported length or a zero hash count.
	ErrInvalidBuffer = errors.New("bloomkit: invalid buffer")

	// ErrIndexOutOfRange is returned by CounterAt and ContainsHashIndices
	// when an index is not smaller than the filter's bit count.
	ErrIndexOutOfRange = errors.New("bloomkit: index out of range")
)
