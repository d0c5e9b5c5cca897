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

package strategy

import (
	"reflect"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/registry"
	uref "dirpx.dev/acx/utils/reflect"
)

// Strategy names recorded in apis.Descriptor.Source.
const (
	SourceDeclared = "declared"
	SourceRegistry = "registry"
	SourceMethod   = "method"
	SourceField    = "field"
)

// funcAccessor builds an accessor over a getter func(T|*T) V and a setter
// func(*T, V). Invalid values leave the corresponding direction unset.
// Extra typed candidates are appended to Funcs after the getter and setter.
func funcAccessor(owner reflect.Type, name, source string, get, set reflect.Value, extra ...any) apis.Accessor {
	acc := apis.Accessor{Descriptor: apis.Descriptor{Owner: owner, Name: name, Source: source}}

	if get.IsValid() {
		recv := get.Type().In(0)
		acc.Type = get.Type().Out(0)
		acc.Access |= apis.Read
		acc.Funcs = append(acc.Funcs, get.Interface())
		acc.Get = func(o reflect.Value) reflect.Value {
			r, _ := uref.Receiver(o, recv)
			return get.Call([]reflect.Value{r})[0]
		}
	}
	if set.IsValid() {
		recv := set.Type().In(0)
		acc.Type = set.Type().In(1)
		acc.Access |= apis.Write
		acc.Funcs = append(acc.Funcs, set.Interface())
		acc.Set = func(o, v reflect.Value) {
			r, _ := uref.Receiver(o, recv)
			set.Call([]reflect.Value{r, v})
		}
	}
	acc.Funcs = append(acc.Funcs, extra...)
	return acc
}

// declarationAccessor validates d against owner and wraps its funcs.
func declarationAccessor(owner reflect.Type, d apis.Declaration, source string) (apis.Accessor, error) {
	if err := registry.Validate(owner, d); err != nil {
		return apis.Accessor{}, err
	}
	var get, set reflect.Value
	if !uref.IsNil(d.Getter) {
		get = reflect.ValueOf(d.Getter)
	}
	if !uref.IsNil(d.Setter) {
		set = reflect.ValueOf(d.Setter)
	}
	return funcAccessor(owner, uref.CanonicalName(d.Name), source, get, set), nil
}
