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

package reflect

import (
	"reflect"
	"unsafe"
)

// Receiver adapts owner (a T or *T value) to the receiver type want.
//
//   - owner already of type want      -> owner
//   - want == *T, owner is T          -> owner's address, or the address of a copy
//     when owner is not addressable
//   - want == T, owner is *T          -> *owner
//
// The second return value is false when no adaptation exists.
func Receiver(owner reflect.Value, want reflect.Type) (reflect.Value, bool) {
	ot := owner.Type()
	switch {
	case ot == want:
		return owner, true
	case want.Kind() == reflect.Ptr && want.Elem() == ot:
		if owner.CanAddr() {
			return owner.Addr(), true
		}
		cp := reflect.New(ot)
		cp.Elem().Set(owner)
		return cp, true
	case ot.Kind() == reflect.Ptr && ot.Elem() == want:
		return owner.Elem(), true
	}
	return reflect.Value{}, false
}

// Settable returns a writable view of v. Values reached through unexported
// fields are re-derived from their address, which requires v to be addressable.
func Settable(v reflect.Value) reflect.Value {
	if v.CanSet() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// Readable returns a view of v that can be passed to Interface and Set.
// Like Settable, it needs v to be addressable when v was reached through an
// unexported field; otherwise v is returned unchanged.
func Readable(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
