/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package table

import (
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/acx/apis"
)

var (
	// ErrAmbiguousKey is returned when two members map to the same key.
	ErrAmbiguousKey = errors.New("acx(table): ambiguous key")
	// ErrUnknownDiscriminant is returned when a record's key has no slot.
	ErrUnknownDiscriminant = errors.New("acx(table): unknown discriminant")
	// ErrKeyExtraction is returned when a key cannot be derived from a member.
	ErrKeyExtraction = errors.New("acx(table): key extraction failed")
	// ErrNoSlots is returned when the container has no collection members.
	ErrNoSlots = errors.New("acx(table): container has no matching collection members")
)

// AmbiguousKeyError names the two members that produced the same key.
type AmbiguousKeyError struct {
	// Key is the duplicated key.
	Key any
	// First is the member that claimed Key first.
	First apis.Descriptor
	// Second is the member that collided with First.
	Second apis.Descriptor
}

// Error implements the error interface.
func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("%s %v: %s and %s", ErrAmbiguousKey, e.Key, e.First, e.Second)
}

// Unwrap returns ErrAmbiguousKey.
func (e *AmbiguousKeyError) Unwrap() error { return ErrAmbiguousKey }

// UnknownDiscriminantError reports a key with no slot.
type UnknownDiscriminantError struct {
	// Key is the unmatched key.
	Key any
}

// Error implements the error interface.
func (e *UnknownDiscriminantError) Error() string {
	return fmt.Sprintf("%s %v", ErrUnknownDiscriminant, e.Key)
}

// Unwrap returns ErrUnknownDiscriminant.
func (e *UnknownDiscriminantError) Unwrap() error { return ErrUnknownDiscriminant }

// Failure is one record that RouteAll could not route.
type Failure struct {
	// Index is the record's position in the batch.
	Index int
	// Key is the record's discriminant.
	Key any
	// Err is the routing error.
	Err error
}

// BatchError collects the failures of one RouteAll call.
type BatchError struct {
	// Total is the number of records in the batch.
	Total int
	// Failures lists failed records in batch order.
	Failures []Failure
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "acx(table): %d of %d records not routed", len(e.Failures), e.Total)
	for i, f := range e.Failures {
		if i == 3 {
			fmt.Fprintf(&b, "; and %d more", len(e.Failures)-i)
			break
		}
		fmt.Fprintf(&b, "; #%d: %v", f.Index, f.Err)
	}
	return b.String()
}

// Unwrap returns the individual routing errors.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
