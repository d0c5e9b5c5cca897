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
	"errors"
	"reflect"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectNotStruct indicates that the provided type (after unwrapping one
	// pointer) is not a struct and therefore has no members.
	ErrReflectNotStruct = errors.New("reflect: type is not a struct or pointer to struct")
)

// Owner unwraps at most one pointer and returns the struct type that owns
// the members of t.
//
// Unwrapping policy:
//   - T  -> T  (T a struct)
//   - *T -> T  (T a struct)
//   - anything else (including **T) -> ErrReflectNotStruct.
func Owner(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, ErrReflectNotStruct
	}
	return t, nil
}

// CanonicalName returns the NFC form of a member name so that names spelled
// with different Unicode compositions resolve to the same cache key.
func CanonicalName(name string) string {
	return norm.NFC.String(name)
}

// IsNil reports whether v is nil, including typed nils stored in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
