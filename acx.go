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

package acx

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/builder"
	"dirpx.dev/acx/config"
	"dirpx.dev/acx/engine"
	"dirpx.dev/acx/table"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg, ins and eng.
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil)
	s.ins = s.bld.BuildIntrospector(s.cfg, s.reg, nil)
	s.eng = newEngine(s)
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is used to panic when a builder returns a nil registry.
	ErrNilRegistry = errors.New("acx: builder returned nil registry")
	// ErrNilIntrospector is used to panic when a builder returns a nil introspector.
	ErrNilIntrospector = errors.New("acx: builder returned nil introspector")
)

// Lookup returns the cached getter/setter pair of the named member of O using
// the global engine. This is a convenience wrapper around engine.LookupOrSynthesize.
func Lookup[O, V any](name string) (engine.Pair[O, V], error) {
	return engine.LookupOrSynthesize[O, V](st.Load().eng, name)
}

// Getter returns a typed getter for the named member of O using the global engine.
func Getter[O, V any](name string) (engine.Getter[O, V], error) {
	return engine.SynthesizeGetter[O, V](st.Load().eng, name)
}

// Setter returns a typed setter for the named member of O using the global engine.
func Setter[O, V any](name string) (engine.Setter[O, V], error) {
	return engine.SynthesizeSetter[O, V](st.Load().eng, name)
}

// NewTable builds a dispatch table over C using the global engine.
func NewTable[C any, K comparable, R any](key table.KeyFunc[K], opts ...table.Option) (*table.Table[C, K, R], error) {
	return table.Build[C, K, R](st.Load().eng, key, opts...)
}

// Describe enumerates the members of t using the global introspector and configuration.
func Describe(t reflect.Type) ([]apis.Descriptor, error) {
	return st.Load().eng.Describe(t)
}

// Register adds an explicit accessor declaration to the global registry.
// Previously synthesized accessors are dropped so that the declaration
// takes effect for members that were already resolved by convention.
func Register(t reflect.Type, d apis.Declaration) error {
	s := st.Load()
	if err := s.reg.Register(t, d); err != nil {
		return err
	}
	s.eng.Reset()
	return nil
}

// Engine returns the global engine.
func Engine() *engine.Engine {
	return st.Load().eng
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged, except that
// a nil reg or ins is rebuilt by the builder and unpinned.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, reg apis.Registry, ins apis.Introspector, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	next := *old

	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}

	// Registry
	next.reg, next.preg = reg, reg != nil
	if reg == nil {
		next.reg = next.bld.BuildRegistry(next.cfg, old.reg)
	}

	// Introspector
	next.ins, next.pins = ins, ins != nil
	if ins == nil {
		next.ins = next.bld.BuildIntrospector(next.cfg, next.reg, old.ins)
	}

	publish(&next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the unpinned registry and introspector using the new configuration.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.cfg = cfg
	rebuild(&next)
	publish(&next)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry.
// The unpinned introspector is rebuilt over it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.reg, next.preg = reg, true
	rebuild(&next)
	publish(&next)
}

// Introspector returns the global introspector.
func Introspector() apis.Introspector {
	return st.Load().ins
}

// SetIntrospector sets and pins the global introspector.
func SetIntrospector(ins apis.Introspector) {
	if ins == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.ins, next.pins = ins, true
	publish(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.bld = b
	rebuild(&next)
	publish(&next)
}

// SetLogger sets the logger of the global engine. A nil logger selects slog.Default().
func SetLogger(l *slog.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.log = l
	publish(&next)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsIntrospectorPinned returns whether the global introspector is pinned.
func IsIntrospectorPinned() bool {
	return st.Load().pins
}

// PinIntrospector stops the global introspector from being rebuilt.
func PinIntrospector() { setPins(func(s *state) { s.pins = true }) }

// UnpinIntrospector lets the global introspector be rebuilt again.
func UnpinIntrospector() { setPins(func(s *state) { s.pins = false }) }

// setPins stores a snapshot with updated pin flags; layers are kept as they are.
func setPins(update func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	update(&next)
	st.Store(&next)
}

// rebuild replaces the unpinned registry and introspector of s using s.bld.
func rebuild(s *state) {
	if !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, s.reg)
	}
	if !s.pins {
		s.ins = s.bld.BuildIntrospector(s.cfg, s.reg, s.ins)
	}
}

// publish validates s, gives it a fresh engine and stores it.
// The caller must hold buildMu.
func publish(s *state) {
	// Ensure non-nil reg and ins.
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.ins == nil {
		panic(ErrNilIntrospector)
	}
	s.eng = newEngine(s)
	st.Store(s)
}

func newEngine(s *state) *engine.Engine {
	return engine.New(s.ins, engine.WithConfig(s.cfg), engine.WithLogger(s.log))
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers copy it, modify the copy and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// ins is the global introspector.
	ins apis.Introspector
	// bld is the global builder.
	bld apis.Builder
	// eng is the global engine; it caches accessors for ins and cfg.
	eng *engine.Engine
	// log is the engine logger; nil means slog.Default().
	log *slog.Logger
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// pins indicates whether the ins is pinned (immutable).
	pins bool
}
