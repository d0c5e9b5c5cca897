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

package config

import (
	"dirpx.dev/acx/apis"
)

const (
	// DefaultGetterPrefix represents the default for GetterPrefix.
	DefaultGetterPrefix = "Get"
	// DefaultSetterPrefix represents the default for SetterPrefix.
	DefaultSetterPrefix = "Set"
	// DefaultIncludeUnexported represents the default for IncludeUnexported.
	DefaultIncludeUnexported = false
	// DefaultMaxEmbedDepth represents the default for MaxEmbedDepth.
	// A value of 4 covers every realistic composition of embedded structs.
	DefaultMaxEmbedDepth = 4
	// DefaultPreferFields represents the default for PreferFields.
	// Method pairs win by default, so hand-written accessors can shadow raw fields.
	DefaultPreferFields = false
	// DefaultCache represents the default for Cache.
	DefaultCache = apis.CacheMemoize
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxEmbedDepth is valid.
	if cfg.MaxEmbedDepth < 0 {
		cfg.MaxEmbedDepth = DefaultMaxEmbedDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		GetterPrefix:      DefaultGetterPrefix,
		SetterPrefix:      DefaultSetterPrefix,
		IncludeUnexported: DefaultIncludeUnexported,
		MaxEmbedDepth:     DefaultMaxEmbedDepth,
		PreferFields:      DefaultPreferFields,
		Cache:             DefaultCache,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithPrefixes sets the GetterPrefix and SetterPrefix options.
func WithPrefixes(getter, setter string) Option {
	return func(c *apis.Config) {
		c.GetterPrefix = getter
		c.SetterPrefix = setter
	}
}

// WithIncludeUnexported sets the IncludeUnexported option.
func WithIncludeUnexported(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeUnexported = include
	}
}

// WithMaxEmbedDepth sets the MaxEmbedDepth option.
// A negative value resets to the default.
func WithMaxEmbedDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth < 0 {
			c.MaxEmbedDepth = DefaultMaxEmbedDepth
			return
		}
		c.MaxEmbedDepth = depth
	}
}

// WithPreferFields sets the PreferFields option.
func WithPreferFields(prefer bool) Option {
	return func(c *apis.Config) {
		c.PreferFields = prefer
	}
}

// WithCache sets the Cache option.
func WithCache(mode apis.CacheMode) Option {
	return func(c *apis.Config) {
		c.Cache = mode
	}
}
