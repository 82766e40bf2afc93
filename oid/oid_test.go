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

package oid_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"dirpx.dev/causeway/oid"
)

func TestRootOid_Lifecycle(t *testing.T) {
	tr := oid.NewTransient("crm.CUS", "a1")
	require.True(t, tr.IsTransient())
	require.Equal(t, "!crm.CUS:a1", tr.Key())

	p := tr.AsPersistent("42")
	require.True(t, p.IsPersistent())
	require.Equal(t, "crm.CUS:42", p.Key())
	require.Equal(t, oid.SpecID("crm.CUS"), p.SpecID())

	v := p.WithVersion(oid.NewVersion(3, "sven"))
	require.Equal(t, p.Key(), v.Key(), "versions are not part of the key")
	require.NotEqual(t, p.String(), v.String())
	require.Nil(t, p.Version())
}

func TestChildOids_FollowParent(t *testing.T) {
	tr := oid.NewTransient("club.TEAM", "t1")
	coll := oid.NewCollection(tr, "Members")
	agg := oid.NewAggregated(tr, "club.ADDR", "1")

	require.True(t, coll.IsTransient())
	require.True(t, agg.IsTransient())
	require.Equal(t, "!club.TEAM:t1~Members", coll.Key())
	require.Equal(t, "!club.TEAM:t1~club.ADDR:1", agg.Key())

	p := tr.AsPersistent("7")
	coll2 := coll.WithParent(p)
	agg2 := agg.WithParent(p)
	require.True(t, coll2.IsPersistent())
	require.Equal(t, p, coll2.Root())
	require.Equal(t, "Members", coll2.Name())
	require.Equal(t, "club.TEAM:7~club.ADDR:1", agg2.Key())
	require.Equal(t, oid.SpecID("club.ADDR"), agg2.SpecID())
}

func TestParse_RoundTrip(t *testing.T) {
	when := time.UnixMilli(1700000000123).UTC()
	root := oid.NewPersistent("crm.CUS", "42").WithVersion(&oid.Version{Sequence: 5, User: "ann:admin", Time: when})

	cases := []oid.Oid{
		oid.NewTransient("crm.CUS", "5f0c"),
		root,
		oid.NewCollection(root, "Orders"),
		oid.NewAggregated(oid.NewTransient("crm.CUS", "x"), "crm.ADDR", "home"),
		oid.NewPersistent("crm.CUS", "1").WithVersion(&oid.Version{Sequence: 1}),
	}
	for _, want := range cases {
		t.Run(want.String(), func(t *testing.T) {
			got, err := oid.Parse(want.String())
			require.NoError(t, err)
			require.Equal(t, want.Key(), got.Key())
			require.Equal(t, want.String(), got.String())
			require.Equal(t, want.IsTransient(), got.IsTransient())
		})
	}

	r, err := oid.ParseRoot(root.String())
	require.NoError(t, err)
	require.Equal(t, int64(5), r.Version().Sequence)
	require.Equal(t, "ann:admin", r.Version().User)
	require.True(t, r.Version().Time.Equal(when))
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"nospec",
		":id",
		"spec:",
		"spec:id~",
		"spec:id~a~b",
		"spec:id~:x",
		"spec:id^x:user:1",
		"spec:id^1",
		"spec:id^1:u:notanumber",
	} {
		_, err := oid.Parse(s)
		require.Error(t, err, s)
		require.True(t, errors.Is(err, oid.ErrMalformedOid), s)
	}

	_, err := oid.ParseRoot("crm.CUS:1~Orders")
	require.ErrorIs(t, err, oid.ErrMalformedOid)
}

func TestVersion_Different(t *testing.T) {
	v1 := oid.NewVersion(1, "a")
	v1b := &oid.Version{Sequence: 1, User: "b"}
	v2 := v1.Next("a")

	require.False(t, v1.Different(v1b), "only the sequence counts")
	require.True(t, v1.Different(v2))
	require.False(t, v1.Different(nil))
	require.False(t, (*oid.Version)(nil).Different(v1))
	require.Equal(t, int64(1), (*oid.Version)(nil).Next("x").Sequence)
}
