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

package engine_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/builder"
	"dirpx.dev/acx/cache"
	"dirpx.dev/acx/config"
	"dirpx.dev/acx/engine"
)

type Meta struct {
	Tag string
}

type Stats struct {
	Meta
	List1  []int
	List2  []int
	Name   string
	hidden int
}

type Account struct {
	balance int
	owner   string
}

func (a *Account) GetBalance() int    { return a.balance }
func (a *Account) SetBalance(v int)   { a.balance = v }
func (a Account) GetOwner() string    { return a.owner }
func (a *Account) SetOwner(v string)  { a.owner = v }
func (a Account) GetSummary() string  { return a.owner + ":" }
func (a *Account) SetPassword(string) {}

type Point struct{ x, y int }

func (*Point) AccessorDeclarations() []apis.Declaration {
	return []apis.Declaration{{
		Name:   "X",
		Getter: func(p *Point) int { return p.x },
		Setter: func(p *Point, v int) { p.x = v },
	}}
}

type Labelled struct{ label string }

func newEngine(t *testing.T, opts ...config.Option) *engine.Engine {
	t.Helper()
	cfg := config.NewConfig(opts...)
	b := builder.New()
	reg := b.BuildRegistry(cfg, nil)
	require.NoError(t, reg.Register(reflect.TypeFor[Labelled](), apis.Declaration{
		Name:   "Label",
		Getter: func(l *Labelled) string { return l.label },
		Setter: func(l *Labelled, v string) { l.label = v },
	}))
	return engine.New(b.BuildIntrospector(cfg, reg, nil), engine.WithConfig(cfg))
}

func TestNew_NilIntrospectorPanics(t *testing.T) {
	assert.PanicsWithValue(t, engine.ErrNilIntrospector, func() { engine.New(nil) })
}

func TestSynthesize_Idempotent(t *testing.T) {
	e := newEngine(t)

	g1, err := engine.SynthesizeGetter[*Stats, []int](e, "List1")
	require.NoError(t, err)
	g2, err := engine.SynthesizeGetter[*Stats, []int](e, "List1")
	require.NoError(t, err)
	_, err = engine.SynthesizeSetter[*Stats, []int](e, "List1")
	require.NoError(t, err)
	_, err = engine.LookupOrSynthesize[*Stats, []int](e, "List1")
	require.NoError(t, err)

	st := e.Stats()
	assert.EqualValues(t, 1, st.Syntheses)
	assert.EqualValues(t, 3, st.Hits)
	assert.Equal(t, 1, st.Entries)

	s := &Stats{List1: []int{4}}
	assert.Equal(t, g1(s), g2(s))
}

func TestSynthesize_RoundTrip(t *testing.T) {
	e := newEngine(t, config.WithIncludeUnexported(true))

	t.Run("field", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Stats, []int](e, "List2")
		require.NoError(t, err)
		assert.Equal(t, "field", p.Descriptor.Source)
		s := &Stats{}
		p.Set(s, []int{1, 2, 3})
		assert.Equal(t, []int{1, 2, 3}, p.Get(s))
		assert.Equal(t, []int{1, 2, 3}, s.List2)
	})
	t.Run("promoted field", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Stats, string](e, "Tag")
		require.NoError(t, err)
		s := &Stats{}
		p.Set(s, "t")
		assert.Equal(t, "t", p.Get(s))
		assert.Equal(t, "t", s.Meta.Tag)
	})
	t.Run("unexported field", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Stats, int](e, "hidden")
		require.NoError(t, err)
		s := &Stats{}
		p.Set(s, 9)
		assert.Equal(t, 9, p.Get(s))
		assert.Equal(t, 9, s.hidden)
	})
	t.Run("method", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Account, int](e, "Balance")
		require.NoError(t, err)
		assert.Equal(t, "method", p.Descriptor.Source)
		a := &Account{}
		p.Set(a, 100)
		assert.Equal(t, 100, p.Get(a))
	})
	t.Run("declared", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Point, int](e, "X")
		require.NoError(t, err)
		assert.Equal(t, "declared", p.Descriptor.Source)
		pt := &Point{}
		p.Set(pt, -1)
		assert.Equal(t, -1, p.Get(pt))
	})
	t.Run("registry", func(t *testing.T) {
		p, err := engine.SynthesizePair[*Labelled, string](e, "Label")
		require.NoError(t, err)
		assert.Equal(t, "registry", p.Descriptor.Source)
		l := &Labelled{}
		p.Set(l, "x")
		assert.Equal(t, "x", p.Get(l))
	})
}

func TestSynthesizeGetter_ValueOwner(t *testing.T) {
	e := newEngine(t)

	g, err := engine.SynthesizeGetter[Stats, string](e, "Name")
	require.NoError(t, err)
	assert.Equal(t, "n", g(Stats{Name: "n"}))

	// Pointer-receiver getters read from a copy of the value owner.
	b, err := engine.SynthesizeGetter[Account, int](e, "Balance")
	require.NoError(t, err)
	assert.Equal(t, 5, b(Account{balance: 5}))

	o, err := engine.SynthesizeGetter[Account, string](e, "Owner")
	require.NoError(t, err)
	assert.Equal(t, "me", o(Account{owner: "me"}))
}

func TestSynthesize_TypedFastPath(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := config.DefaultConfig()
	b := builder.New()
	e := engine.New(b.BuildIntrospector(cfg, b.BuildRegistry(cfg, nil), nil), engine.WithLogger(log))

	_, err := engine.SynthesizePair[*Account, int](e, "Balance")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"typed_get":true`)
	assert.Contains(t, buf.String(), `"typed_set":true`)
	assert.Contains(t, buf.String(), `"member":"Balance"`)

	buf.Reset()
	_, err = engine.SynthesizePair[*Stats, []int](e, "List1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"typed_get":false`)
	assert.Contains(t, buf.String(), `"source":"field"`)
}

func TestSynthesize_Mismatch(t *testing.T) {
	e := newEngine(t)

	cases := []struct {
		name   string
		run    func() error
		reason engine.MismatchReason
	}{
		{"unknown member", func() error {
			_, err := engine.SynthesizeGetter[*Stats, []int](e, "List9")
			return err
		}, engine.ReasonUnknownMember},
		{"value type", func() error {
			_, err := engine.SynthesizeGetter[*Stats, []string](e, "List2")
			return err
		}, engine.ReasonValueType},
		{"owner type", func() error {
			_, err := engine.SynthesizeGetter[int, int](e, "X")
			return err
		}, engine.ReasonOwnerType},
		{"pointer to pointer", func() error {
			_, err := engine.SynthesizeGetter[**Stats, string](e, "Name")
			return err
		}, engine.ReasonOwnerType},
		{"value owner setter", func() error {
			_, err := engine.SynthesizeSetter[Stats, string](e, "Name")
			return err
		}, engine.ReasonValueOwner},
		{"read-only", func() error {
			_, err := engine.SynthesizeSetter[*Account, string](e, "Summary")
			return err
		}, engine.ReasonReadOnly},
		{"write-only", func() error {
			_, err := engine.SynthesizeGetter[*Account, string](e, "Password")
			return err
		}, engine.ReasonWriteOnly},
		{"pair of read-only", func() error {
			_, err := engine.SynthesizePair[*Account, string](e, "Summary")
			return err
		}, engine.ReasonReadOnly},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrDescriptorMismatch)
			assert.True(t, engine.IsMismatch(err, c.reason), "got %v", err)
		})
	}
}

func TestSynthesize_FailuresAreNotCached(t *testing.T) {
	e := newEngine(t)

	_, err := engine.SynthesizeGetter[*Stats, []int](e, "Missing")
	require.Error(t, err)
	_, err = engine.SynthesizeGetter[*Stats, bool](e, "Name")
	require.Error(t, err)

	assert.Zero(t, e.Stats().Entries)
	assert.Zero(t, e.Stats().Syntheses)
}

func TestSynthesize_CachedUnderOtherType(t *testing.T) {
	e := newEngine(t)
	_, err := engine.LookupOrSynthesize[*Stats, []int](e, "List1")
	require.NoError(t, err)

	_, err = engine.LookupOrSynthesize[*Stats, []string](e, "List1")
	require.Error(t, err)
	assert.True(t, engine.IsMismatch(err, engine.ReasonCachedType), "got %v", err)

	var me *engine.MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, reflect.TypeFor[[]int](), me.Want)
	assert.Equal(t, reflect.TypeFor[[]string](), me.Got)
	assert.Equal(t, "List1", me.Name)
}

func TestLookupOrSynthesize_PartialPairs(t *testing.T) {
	e := newEngine(t)

	p, err := engine.LookupOrSynthesize[*Account, string](e, "Summary")
	require.NoError(t, err)
	assert.NotNil(t, p.Get)
	assert.Nil(t, p.Set)
	assert.Equal(t, apis.Read, p.Descriptor.Access)

	p, err = engine.LookupOrSynthesize[*Account, string](e, "Password")
	require.NoError(t, err)
	assert.Nil(t, p.Get)
	assert.NotNil(t, p.Set)

	v, err := engine.LookupOrSynthesize[Stats, string](e, "Name")
	require.NoError(t, err)
	assert.NotNil(t, v.Get)
	assert.Nil(t, v.Set)

	// A value owner of a write-only member has nothing to offer.
	_, err = engine.LookupOrSynthesize[Account, string](e, "Password")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrDescriptorMismatch)
	assert.Contains(t, err.Error(), string(engine.ReasonWriteOnly))
	assert.Contains(t, err.Error(), string(engine.ReasonValueOwner))
}

func TestSynthesize_CacheNone(t *testing.T) {
	e := newEngine(t, config.WithCache(apis.CacheNone))

	for i := 0; i < 3; i++ {
		g, err := engine.SynthesizeGetter[*Stats, string](e, "Name")
		require.NoError(t, err)
		assert.Equal(t, "n", g(&Stats{Name: "n"}))
	}
	st := e.Stats()
	assert.EqualValues(t, 3, st.Syntheses)
	assert.Zero(t, st.Hits)
	assert.Zero(t, st.Entries)
}

func TestEngine_Reset(t *testing.T) {
	e := newEngine(t)
	_, err := engine.LookupOrSynthesize[*Stats, []int](e, "List1")
	require.NoError(t, err)
	e.Reset()
	assert.Zero(t, e.Stats().Entries)

	// After a reset the member may be requested under another value type.
	_, err = engine.LookupOrSynthesize[*Stats, string](e, "Name")
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.Stats().Syntheses)
}

func TestEngine_Describe(t *testing.T) {
	e := newEngine(t)
	ds, err := e.Describe(reflect.TypeFor[*Stats]())
	require.NoError(t, err)

	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Tag", "List1", "List2", "Name"}, names)
	assert.Equal(t, config.DefaultConfig(), e.Config())
}

func TestBind(t *testing.T) {
	e := newEngine(t)
	g, err := engine.SynthesizeGetter[*Stats, string](e, "Name")
	require.NoError(t, err)

	s := &Stats{Name: "a"}
	supplier := engine.Bind(g, s)
	assert.Equal(t, "a", supplier())
	s.Name = "b"
	assert.Equal(t, "b", supplier())
}

// TestSynthesize_Concurrent requests the same members from many goroutines:
// each member must be synthesized exactly once.
func TestSynthesize_Concurrent(t *testing.T) {
	e := newEngine(t)
	members := []string{"List1", "List2"}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			s := &Stats{}
			for i := 0; i < 500; i++ {
				p, err := engine.LookupOrSynthesize[*Stats, []int](e, members[(i+id)%len(members)])
				if err != nil {
					t.Errorf("LookupOrSynthesize: %v", err)
					return
				}
				p.Set(s, append(p.Get(s), i))
			}
			if got := len(s.List1) + len(s.List2); got != 500 {
				t.Errorf("routed %d records, want 500", got)
			}
		}(w)
	}
	wg.Wait()

	assert.EqualValues(t, len(members), e.Stats().Syntheses)
	assert.Equal(t, len(members), e.Stats().Entries)
}

func TestWithCache_Shared(t *testing.T) {
	c := cache.New()
	cfg := config.DefaultConfig()
	b := builder.New()
	ins := b.BuildIntrospector(cfg, b.BuildRegistry(cfg, nil), nil)
	e1 := engine.New(ins, engine.WithCache(c))
	e2 := engine.New(ins, engine.WithCache(c))

	_, err := engine.LookupOrSynthesize[*Stats, []int](e1, "List1")
	require.NoError(t, err)
	_, err = engine.LookupOrSynthesize[*Stats, []int](e2, "List1")
	require.NoError(t, err)

	assert.Equal(t, cache.Stats{Syntheses: 1, Hits: 1, Entries: 1}, c.Stats())
	assert.Equal(t, c.Stats(), e2.Stats())
}
