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

package reflect_test

import (
	"errors"
	"reflect"
	"runtime"
	"sync"
	"testing"

	uref "dirpx.dev/acx/utils/reflect"
)

// Local test types.
type A struct{ N int }
type G[T any] struct{ V T }

func TestOwner_StructAndPointer(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"generic", reflect.TypeOf(&G[int]{}), reflect.TypeOf(G[int]{})},
		{"anonymous", reflect.TypeOf(struct{ X int }{}), reflect.TypeOf(struct{ X int }{})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Owner(tc.typ)
			if err != nil {
				t.Fatalf("Owner(%v) returned error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Owner(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestOwner_Errors(t *testing.T) {
	if _, err := uref.Owner(nil); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Owner(nil): want ErrReflectNilType, got %v", err)
	}

	var pp **A
	bad := []reflect.Type{
		reflect.TypeOf(pp),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(0),
	}
	for _, tt := range bad {
		if _, err := uref.Owner(tt); !errors.Is(err, uref.ErrReflectNotStruct) {
			t.Fatalf("Owner(%v): want ErrReflectNotStruct, got %v", tt, err)
		}
	}
}

func TestCanonicalName_NFC(t *testing.T) {
	// "é" as e + combining acute accent vs the precomposed rune.
	decomposed := "Cafe\u0301"
	precomposed := "Caf\u00e9"
	if uref.CanonicalName(decomposed) != precomposed {
		t.Fatalf("CanonicalName(%q) = %q, want %q", decomposed, uref.CanonicalName(decomposed), precomposed)
	}
	if uref.CanonicalName("List1") != "List1" {
		t.Fatalf("ASCII names must be unchanged")
	}
}

func TestIsNil(t *testing.T) {
	var p *A
	var s []int
	var m map[string]int
	var f func()
	var e error

	for _, v := range []any{nil, p, s, m, f, e} {
		if !uref.IsNil(v) {
			t.Fatalf("IsNil(%#v) = false, want true", v)
		}
	}
	for _, v := range []any{&A{}, []int{}, 0, "", A{}} {
		if uref.IsNil(v) {
			t.Fatalf("IsNil(%#v) = true, want false", v)
		}
	}
}

func TestReceiver_Adaptations(t *testing.T) {
	a := A{N: 7}

	// T -> *T on an addressable value shares storage.
	av := reflect.ValueOf(&a).Elem()
	pv, ok := uref.Receiver(av, reflect.TypeOf(&A{}))
	if !ok {
		t.Fatal("Receiver(T -> *T) failed")
	}
	pv.Interface().(*A).N = 9
	if a.N != 9 {
		t.Fatalf("addressable receiver must alias the owner, got N=%d", a.N)
	}

	// T -> *T on a non-addressable value works on a copy.
	cv, ok := uref.Receiver(reflect.ValueOf(a), reflect.TypeOf(&A{}))
	if !ok || cv.Interface().(*A).N != 9 {
		t.Fatalf("Receiver(copy) = %v, %v", cv, ok)
	}

	// *T -> T.
	ev, ok := uref.Receiver(reflect.ValueOf(&a), reflect.TypeOf(A{}))
	if !ok || ev.Interface().(A).N != 9 {
		t.Fatalf("Receiver(*T -> T) = %v, %v", ev, ok)
	}

	// Unrelated types.
	if _, ok := uref.Receiver(reflect.ValueOf(a), reflect.TypeOf(0)); ok {
		t.Fatal("Receiver(A -> int) should fail")
	}
}

func TestGetterSetterTypes(t *testing.T) {
	owner := reflect.TypeOf(A{})

	vt, err := uref.GetterType(owner, func(a *A) int { return a.N })
	if err != nil || vt != reflect.TypeOf(0) {
		t.Fatalf("GetterType(*A) = %v, %v", vt, err)
	}
	vt, err = uref.GetterType(owner, func(a A) int { return a.N })
	if err != nil || vt != reflect.TypeOf(0) {
		t.Fatalf("GetterType(A) = %v, %v", vt, err)
	}
	vt, err = uref.SetterType(owner, func(a *A, n int) { a.N = n })
	if err != nil || vt != reflect.TypeOf(0) {
		t.Fatalf("SetterType = %v, %v", vt, err)
	}

	bad := []any{
		nil,
		42,
		func() int { return 0 },
		func(a *A, x int) int { return x },
		func(s string) int { return 0 },
	}
	for _, fn := range bad {
		if _, err := uref.GetterType(owner, fn); !errors.Is(err, uref.ErrReflectBadFunc) {
			t.Fatalf("GetterType(%T): want ErrReflectBadFunc, got %v", fn, err)
		}
	}
	if _, err := uref.SetterType(owner, func(a A, n int) {}); !errors.Is(err, uref.ErrReflectBadFunc) {
		t.Fatalf("SetterType(value receiver): want ErrReflectBadFunc, got %v", err)
	}
}

// TestOwner_Concurrent ensures Owner and CanonicalName are safe under concurrency.
func TestOwner_Concurrent(t *testing.T) {
	types := []reflect.Type{reflect.TypeOf(A{}), reflect.TypeOf(&A{}), reflect.TypeOf(G[string]{})}

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				if _, err := uref.Owner(types[(i+id)%len(types)]); err != nil {
					t.Errorf("Owner: %v", err)
					return
				}
				_ = uref.CanonicalName("List1")
			}
		}(w)
	}
	wg.Wait()
}
