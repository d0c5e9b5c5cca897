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

// Package engine synthesizes statically typed getters and setters for struct
// members discovered at runtime.
package engine

import (
	"log/slog"
	"reflect"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/cache"
	"dirpx.dev/acx/config"
)

// Getter reads one member of an owner O.
type Getter[O, V any] func(O) V

// Setter writes one member of an owner O.
type Setter[O, V any] func(O, V)

// Pair is the synthesized getter/setter of one member. Either half may be nil
// when obtained through LookupOrSynthesize for a read-only or write-only
// member, or for a value owner (which has no setter).
type Pair[O, V any] struct {
	Descriptor apis.Descriptor
	Get        Getter[O, V]
	Set        Setter[O, V]
}

// Engine turns descriptors into typed accessors and caches the results.
// It is safe for concurrent use.
type Engine struct {
	ins   apis.Introspector
	cfg   apis.Config
	cache *cache.Cache
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the configuration passed to the introspector.
// Defaults to config.DefaultConfig().
func WithConfig(cfg apis.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCache makes the engine store synthesized pairs in c, which may be
// shared between engines that use the same introspector.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// New creates an Engine over ins. It panics if ins is nil.
func New(ins apis.Introspector, opts ...Option) *Engine {
	if ins == nil {
		panic(ErrNilIntrospector)
	}
	e := &Engine{ins: ins, cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.New()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() apis.Config { return e.cfg }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Describe enumerates the members of t (T or *T).
func (e *Engine) Describe(t reflect.Type) ([]apis.Descriptor, error) {
	return e.ins.Describe(t, e.cfg)
}

// Stats returns the synthesis cache counters.
func (e *Engine) Stats() cache.Stats { return e.cache.Stats() }

// Reset drops every cached pair and zeroes the counters.
func (e *Engine) Reset() { e.cache.Reset() }
