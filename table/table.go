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

// Package table routes records into per-key collection members of a container.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/engine"
)

// Option configures a Table.
type Option func(*options)

type options struct {
	log      *slog.Logger
	failFast bool
	filter   func(apis.Descriptor) bool
}

// WithLogger sets the logger. Defaults to the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithFailFast makes RouteAll stop at the first failed record.
func WithFailFast() Option {
	return func(o *options) {
		o.failFast = true
	}
}

// WithFilter restricts the slots to members accepted by keep.
func WithFilter(keep func(apis.Descriptor) bool) Option {
	return func(o *options) {
		o.filter = keep
	}
}

// Table maps discriminant keys to the []R members of a container C.
// It is immutable after Build and safe for concurrent use; concurrent routing
// into one container additionally requires C to implement sync.Locker.
type Table[C any, K comparable, R any] struct {
	slots    map[K]engine.Pair[C, []R]
	keys     []K
	log      *slog.Logger
	failFast bool
}

// Build scans C for read/write members of type []R, keys each with key and
// synthesizes its accessors through e. It fails without a partial table on
// key extraction errors, colliding keys or when no member matches.
func Build[C any, K comparable, R any](e *engine.Engine, key KeyFunc[K], opts ...Option) (*Table[C, K, R], error) {
	o := options{log: e.Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	ct := reflect.TypeFor[C]()
	ds, err := e.Describe(ct)
	if err != nil {
		return nil, fmt.Errorf("acx(table): describe %s: %w", ct, err)
	}

	rt := reflect.TypeFor[[]R]()
	owners := make(map[K]apis.Descriptor)
	var keys []K
	for _, d := range ds {
		if d.Type != rt || d.Access != apis.ReadWrite {
			continue
		}
		if o.filter != nil && !o.filter(d) {
			continue
		}
		k, err := key(d)
		if err != nil {
			if errors.Is(err, ErrKeyExtraction) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrKeyExtraction, d, err)
		}
		if prev, dup := owners[k]; dup {
			return nil, &AmbiguousKeyError{Key: k, First: prev, Second: d}
		}
		owners[k] = d
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %s has no %s members", ErrNoSlots, ct, rt)
	}

	slots := make(map[K]engine.Pair[C, []R], len(keys))
	for _, k := range keys {
		name := owners[k].Name
		p, err := engine.LookupOrSynthesize[C, []R](e, name)
		if err == nil && (p.Get == nil || p.Set == nil) {
			// Report why the missing half could not be synthesized.
			_, err = engine.SynthesizePair[C, []R](e, name)
		}
		if err != nil {
			return nil, err
		}
		slots[k] = p
	}

	o.log.Info("dispatch table built",
		"container", ct.String(),
		"record", reflect.TypeFor[R]().String(),
		"slots", len(keys),
	)
	return &Table[C, K, R]{slots: slots, keys: keys, log: o.log, failFast: o.failFast}, nil
}

// Route appends r to the member keyed by k, creating the collection on first use.
// An unknown k leaves c untouched.
func (t *Table[C, K, R]) Route(c C, k K, r R) error {
	p, ok := t.slots[k]
	if !ok {
		return &UnknownDiscriminantError{Key: k}
	}
	if l, ok := any(c).(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	Append(p, c, r)
	return nil
}

// RouteAll routes every record under the key discriminant returns for it.
// Failures are collected into a *BatchError; routing continues past them
// unless the table was built WithFailFast.
func (t *Table[C, K, R]) RouteAll(c C, records []R, discriminant func(R) K) error {
	var failures []Failure
	for i, r := range records {
		k := discriminant(r)
		if err := t.Route(c, k, r); err != nil {
			t.log.Warn("record not routed", "index", i, "key", k, "error", err)
			failures = append(failures, Failure{Index: i, Key: k, Err: err})
			if t.failFast {
				break
			}
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Total: len(records), Failures: failures}
}

// Keys returns the slot keys in member declaration order.
func (t *Table[C, K, R]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}

// Slot returns the descriptor of the member keyed by k.
func (t *Table[C, K, R]) Slot(k K) (apis.Descriptor, bool) {
	p, ok := t.slots[k]
	return p.Descriptor, ok
}

// Len returns the number of slots.
func (t *Table[C, K, R]) Len() int { return len(t.keys) }

// Count returns the number of records currently held by c under k.
func (t *Table[C, K, R]) Count(c C, k K) int {
	p, ok := t.slots[k]
	if !ok {
		return 0
	}
	if l, ok := any(c).(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	return len(p.Get(c))
}

// Append adds r to the collection p reads from c, installing a new
// collection when the member is still nil. The result is always written back
// since appending may reallocate. p must have both halves.
func Append[C, R any](p engine.Pair[C, []R], c C, r R) {
	cur := p.Get(c)
	if cur == nil {
		p.Set(c, []R{r})
		return
	}
	p.Set(c, append(cur, r))
}
