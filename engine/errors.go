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

package engine

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrDescriptorMismatch is returned when a requested (owner, value) typing
	// cannot be served by the member's descriptor.
	ErrDescriptorMismatch = errors.New("acx(engine): descriptor mismatch")
	// ErrNilIntrospector is used to panic when New is given a nil introspector.
	ErrNilIntrospector = errors.New("acx(engine): nil introspector")
)

// MismatchReason categorizes descriptor mismatches.
type MismatchReason string

const (
	// ReasonUnknownMember indicates no descriptor exists for the name.
	ReasonUnknownMember MismatchReason = "UNKNOWN_MEMBER"

	// ReasonOwnerType indicates O is neither a struct nor a pointer to one.
	ReasonOwnerType MismatchReason = "OWNER_TYPE"

	// ReasonValueType indicates V differs from the descriptor's value type.
	ReasonValueType MismatchReason = "VALUE_TYPE"

	// ReasonWriteOnly indicates a getter was requested for a member without one.
	ReasonWriteOnly MismatchReason = "WRITE_ONLY"

	// ReasonReadOnly indicates a setter was requested for a member without one.
	ReasonReadOnly MismatchReason = "READ_ONLY"

	// ReasonValueOwner indicates a setter was requested for a non-pointer owner.
	ReasonValueOwner MismatchReason = "VALUE_OWNER"

	// ReasonCachedType indicates the member is cached under another instantiation.
	ReasonCachedType MismatchReason = "CACHED_TYPE"
)

// MismatchError describes why a getter or setter could not be synthesized.
// It matches ErrDescriptorMismatch with errors.Is.
type MismatchError struct {
	// Reason identifies the mismatch category.
	Reason MismatchReason

	// Owner is the requested owner type.
	Owner reflect.Type

	// Name is the requested member name.
	Name string

	// Want is the descriptor's value type, when known.
	Want reflect.Type

	// Got is the requested value type.
	Got reflect.Type

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("%s: %s %v.%s", ErrDescriptorMismatch, e.Reason, e.Owner, e.Name)
	if e.Want != nil && e.Want != e.Got {
		msg += fmt.Sprintf(" (want %v, got %v)", e.Want, e.Got)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrDescriptorMismatch and the underlying cause.
func (e *MismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDescriptorMismatch}
	}
	return []error{ErrDescriptorMismatch, e.Err}
}

// IsMismatch reports whether err is a MismatchError with the given reason.
// Uses errors.As to handle wrapped errors.
func IsMismatch(err error, reason MismatchReason) bool {
	var me *MismatchError
	if errors.As(err, &me) {
		return me.Reason == reason
	}
	return false
}
