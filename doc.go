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

// Package acx synthesizes typed accessors for struct members found at runtime
// and routes records into per-key collection members of a container.
//
// Given a struct type and a member name, acx produces a func(O) V getter and
// a func(O, V) setter that behave like hand-written code. Members are found
// by name or by naming convention, synthesized once and cached. On top of
// that, a dispatch table maps a discriminant key to a collection member
// ([]R) and appends records to it, creating the collection on first use.
//
// # Design
//
// The core of acx is a read-mostly global snapshot (state). The snapshot
// holds:
//
//   - Config: how members are discovered (getter/setter method prefixes,
//     unexported fields, embedding depth, fields versus methods) and whether
//     synthesized accessors are cached.
//
//   - Registry: explicit getter/setter declarations for types that cannot
//     implement apis.Declarer themselves. It can be written to at runtime
//     (Register).
//
//   - Introspector: answers "which members does this type have?" and "give
//     me the raw accessor of member X". It tries strategies in priority order:
//     1. If *T implements apis.Declarer, use its declarations.
//     2. If the type has entries in the Registry, use those.
//     3. GetX/SetX method pairs, then struct fields (or the reverse when
//     Config.PreferFields is set).
//
//   - Builder: a pluggable factory for Registry and Introspector instances.
//     It migrates registry entries when the snapshot is rebuilt.
//
//   - Engine: turns raw accessors into typed getters and setters and caches
//     them per (owner type, member name). Every published snapshot gets a
//     fresh engine, so a configuration change never serves stale accessors.
//
// Readers load the current snapshot atomically and never take locks; writers
// build a new snapshot under a short mutex and swap it in.
//
// # Global API
//
//	p, err := acx.Lookup[*Stats, []Student]("List1")
//	p.Set(s, append(p.Get(s), st))
//
//	tbl, err := acx.NewTable[*Stats, int, Student](table.LastDigit)
//	err = tbl.RouteAll(s, students, func(st Student) int { return st.Class })
//
// Mutation helpers (SetConfig, SetBuilder, SetRegistry, SetIntrospector,
// SetLogger, SetAll) rebuild the unpinned layers and publish a new snapshot.
// SetRegistry and SetIntrospector pin the layer they install; pinned layers
// are kept across rebuilds until UnpinRegistry/UnpinIntrospector.
//
// Programs that need several independent engines use the engine, table and
// builder packages directly; the global snapshot is a convenience.
//
// # Concurrency model
//
// Synthesis is single-flight per member: concurrent first requests share one
// synthesis. Tables are immutable after Build. Routing into one container
// from several goroutines requires the container to implement sync.Locker.
package acx
