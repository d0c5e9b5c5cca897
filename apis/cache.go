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

package apis

import (
	"fmt"
	"strings"
)

// CacheMode controls whether synthesized accessors are retained.
//
// # Values
//
//   - CacheMemoize: synthesize once per (owner type, member) and reuse.
//   - CacheNone: synthesize on every request (pass-through behavior).
//
// The zero value is CacheMemoize so that a zero Config caches.
//
// # Contract
//
//   - Adding new values is allowed, but existing values MUST NOT change
//     their semantics in breaking ways.
//   - CacheMode values are plain integers and safe to share across goroutines.
type CacheMode int

const (
	// CacheMemoize retains every successful synthesis for the lifetime of the engine.
	//
	// Under CacheMemoize, concurrent first requests for the same member share
	// one synthesis; later requests are served from the cache without touching
	// the introspector.
	CacheMemoize CacheMode = iota

	// CacheNone disables retention.
	//
	// Every request re-runs discovery and synthesis. This is primarily useful
	// for tests and for comparing behavior with and without caching. The
	// engine still counts syntheses so the difference stays observable.
	CacheNone
)

// String returns a human-readable representation of the CacheMode value.
//
// For unknown or out-of-range values, String returns "Unknown(<n>)" and
// never panics, so corrupted values can still be surfaced in logs.
func (m CacheMode) String() string {
	switch m {
	case CacheMemoize:
		return "Memoize"
	case CacheNone:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseCacheMode parses a textual representation of a CacheMode.
//
// Accepted (case-insensitive, surrounding whitespace trimmed) inputs are
// "Memoize" and "None". On failure it returns CacheMemoize and a non-nil error;
// callers MUST NOT rely on the returned value in the error case.
func ParseCacheMode(s string) (CacheMode, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CacheMemoize, fmt.Errorf("acx: empty cache mode")
	}

	switch strings.ToUpper(trimmed) {
	case "MEMOIZE":
		return CacheMemoize, nil
	case "NONE":
		return CacheNone, nil
	default:
		return CacheMemoize, fmt.Errorf("acx: unknown cache mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
//
// Unknown values are rejected rather than serialized as "Unknown(...)",
// so invalid states are never persisted.
func (m CacheMode) MarshalText() ([]byte, error) {
	switch m {
	case CacheMemoize, CacheNone:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("acx: cannot marshal unknown cache mode %d", m)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// It accepts the same tokens as ParseCacheMode. On failure *m is left unchanged.
func (m *CacheMode) UnmarshalText(text []byte) error {
	value, err := ParseCacheMode(string(text))
	if err != nil {
		return err
	}
	*m = value
	return nil
}
