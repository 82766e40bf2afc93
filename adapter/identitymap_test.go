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

package adapter

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/oid"
)

type thing struct{ n int }

func TestResolveStateTransitions(t *testing.T) {
	cases := []struct {
		from, to ResolveState
		ok       bool
	}{
		{New, Transient, true},
		{New, Ghost, true},
		{New, Value, true},
		{New, Resolved, false},
		{Transient, Resolved, true},
		{Ghost, Transient, false},
		{Ghost, Resolving, true},
		{Resolving, Resolved, true},
		{Resolved, Updating, true},
		{Updating, Resolved, true},
		{Resolved, Transient, false},
		{Value, Transient, false},
		{Destroyed, Resolved, false},
	}
	for _, tc := range cases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			require.Equal(t, tc.ok, tc.from.CanChangeTo(tc.to))
		})
	}
	require.Equal(t, "unknown", ResolveState(99).String())
	require.True(t, Ghost.IsPersistent())
	require.False(t, Transient.IsPersistent())
}

func TestChangeStatePanicsWithAssertionError(t *testing.T) {
	a := NewObjectAdapter(&thing{}, oid.NewTransient("x.Thing", "1"), nil)
	a.ChangeState(Transient)

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		var ae *AssertionError
		require.True(t, errors.As(err, &ae))
		require.Contains(t, ae.Msg, "transient -> ghost")
	}()
	a.ChangeState(Ghost)
}

func TestKeyOf(t *testing.T) {
	p := &thing{}
	k1, ok := keyOf(p)
	require.True(t, ok)
	k2, _ := keyOf(p)
	require.Equal(t, k1, k2)

	other, _ := keyOf(&thing{})
	require.NotEqual(t, k1, other)

	_, ok = keyOf(thing{})
	require.False(t, ok)
	_, ok = keyOf((*thing)(nil))
	require.False(t, ok)

	s := []int{1}
	ks, ok := keyOf(s)
	require.True(t, ok)
	s = append(s, 2)
	ks2, _ := keyOf(s)
	require.NotEqual(t, ks, ks2)

	_, ok = keyOf(make([]*thing, 0))
	require.False(t, ok)
	_, ok = keyOf([]*thing(nil))
	require.False(t, ok)
	_, ok = keyOf(make([]struct{}, 4))
	require.False(t, ok)
	_, ok = keyOf(&struct{}{})
	require.False(t, ok)
}

func TestIdentityMap(t *testing.T) {
	m := newIdentityMap()
	p := &thing{n: 1}
	a := NewObjectAdapter(p, oid.NewTransient("x.Thing", "1"), nil)
	m.insert(a)
	m.ensureConsistent(a)
	require.Equal(t, 1, m.pojoCount())
	require.Equal(t, 1, m.oidCount())

	b := NewObjectAdapter(p, oid.NewTransient("x.Thing", "2"), nil)
	require.Panics(t, func() { m.insert(b) })

	q := &thing{n: 2}
	require.True(t, m.repojo(a, q))
	_, ok := m.lookupPojo(p)
	require.False(t, ok)
	got, ok := m.lookupPojo(q)
	require.True(t, ok)
	require.Same(t, a, got)

	require.True(t, m.removeOid(a.Oid()))
	require.False(t, m.removeOid(a.Oid()))
	require.Panics(t, func() { m.ensureConsistent(a) })

	m.reset()
	require.Zero(t, m.pojoCount())
	require.Empty(t, m.adapters())
}

func TestRemapMissIsLoggedAndCounted(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	m, err := NewManager(config.DefaultConfig(), nil, nil, nil,
		WithLogger(zap.New(core)), WithMetrics(reg))
	require.NoError(t, err)

	m.removeOid(oid.NewTransient("x.Thing", "1"))
	require.Equal(t, 1, logs.FilterMessage("identity map entry missing during remap").Len())
	require.Equal(t, float64(1), testutil.ToFloat64(m.metrics.misses))

	strict, err := NewManager(config.NewConfig(config.WithStrictRemap(true)), nil, nil, nil)
	require.NoError(t, err)
	require.Panics(t, func() { strict.removeOid(oid.NewTransient("x.Thing", "1")) })
}
