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
	"fmt"
	"reflect"
)

// ErrReflectBadFunc is returned when a getter or setter has the wrong shape.
var ErrReflectBadFunc = errors.New("reflect: accessor func has an unsupported signature")

// GetterType reports the value type of fn when fn is a func(T) V or func(*T) V
// for the struct type owner.
func GetterType(owner reflect.Type, fn any) (reflect.Type, error) {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: getter is %T, want func", ErrReflectBadFunc, fn)
	}
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.IsVariadic() || !isReceiver(ft.In(0), owner) {
		return nil, fmt.Errorf("%w: getter %s, want func(%s) V or func(*%s) V", ErrReflectBadFunc, ft, owner, owner)
	}
	return ft.Out(0), nil
}

// SetterType reports the value type of fn when fn is a func(*T, V) for the
// struct type owner.
func SetterType(owner reflect.Type, fn any) (reflect.Type, error) {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: setter is %T, want func", ErrReflectBadFunc, fn)
	}
	if ft.NumIn() != 2 || ft.NumOut() != 0 || ft.IsVariadic() || ft.In(0) != reflect.PointerTo(owner) {
		return nil, fmt.Errorf("%w: setter %s, want func(*%s, V)", ErrReflectBadFunc, ft, owner)
	}
	return ft.In(1), nil
}

// isReceiver reports whether in is owner or *owner.
func isReceiver(in, owner reflect.Type) bool {
	return in == owner || in == reflect.PointerTo(owner)
}
