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

package objectstore_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dirpx.dev/causeway/adapter"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/objectstore"
	"dirpx.dev/causeway/oid"
)

type Team struct {
	name    string
	size    int
	members []*Member
	events  []string
}

func (t *Team) GetName() string       { return t.name }
func (t *Team) SetName(v string)      { t.name = v }
func (t *Team) GetSize() int          { return t.size }
func (t *Team) SetSize(v int)         { t.size = v }
func (t *Team) GetMembers() []*Member { return t.members }
func (t *Team) GetLabel() string      { return "team " + t.name }
func (t *Team) Created()              { t.events = append(t.events, "created") }
func (t *Team) Loaded()               { t.events = append(t.events, "loaded") }
func (t *Team) Persisting()           { t.events = append(t.events, "persisting") }
func (t *Team) Persisted()            { t.events = append(t.events, "persisted") }
func (t *Team) Updating()             { t.events = append(t.events, "updating") }
func (t *Team) Removing()             { t.events = append(t.events, "removing") }

type Member struct {
	name string
}

func (m *Member) GetName() string  { return m.name }
func (m *Member) SetName(v string) { m.name = v }

func newSession(t *testing.T, l *loader.Loader, store *objectstore.Store) *adapter.Manager {
	t.Helper()
	m, err := adapter.NewManager(config.DefaultConfig(), l, store, store, adapter.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return m
}

func newLoader(t *testing.T) *loader.Loader {
	t.Helper()
	l, err := loader.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// exerciseStore walks a Team through insert, reload, update, conflicting
// update and delete.
func exerciseStore(t *testing.T, store *objectstore.Store) {
	ctx := context.Background()
	l := newLoader(t)
	ts, err := l.LoadSpecification(reflect.TypeOf(Team{}))
	require.NoError(t, err)

	pojo, err := store.NewInstance(ts)
	require.NoError(t, err)
	team := pojo.(*Team)
	team.name, team.size = "core", 3
	team.members = []*Member{{name: "ann"}, {name: "bob"}, {name: "cid"}}

	s1 := newSession(t, l, store)
	a, err := s1.AdapterFor(team)
	require.NoError(t, err)
	require.True(t, a.IsTransient())
	coll, err := s1.AdapterForCollection(team.members, a, "Members")
	require.NoError(t, err)

	require.NoError(t, store.Persist(ctx, s1, a))
	root, ok := a.RootOid()
	require.True(t, ok)
	require.True(t, root.IsPersistent())
	require.NotEmpty(t, root.Identifier())
	require.Equal(t, int64(1), a.Version().Sequence)
	require.Equal(t, adapter.Resolved, a.State())
	require.True(t, coll.IsPersistent())
	require.Equal(t, []string{"created", "persisting", "persisted"}, team.events)

	// A second session sees the stored state.
	s2 := newSession(t, l, store)
	b, err := s2.AdapterForOid(ctx, oid.NewPersistent(root.SpecID(), root.Identifier()), true)
	require.NoError(t, err)
	other := b.Pojo().(*Team)
	require.NotSame(t, team, other)
	require.Equal(t, "core", other.name)
	require.Equal(t, 3, other.size)
	require.Empty(t, other.members)
	require.Equal(t, []string{"loaded"}, other.events)

	other.name = "platform"
	require.NoError(t, store.Persist(ctx, s2, b))
	require.Equal(t, int64(2), b.Version().Sequence)

	// The first session still holds version 1.
	team.size = 4
	err = store.Persist(ctx, s1, a)
	var conflict *adapter.ConcurrencyError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, int64(2), conflict.Current.Sequence)
	require.Equal(t, int64(1), conflict.Requested.Sequence)
	require.Equal(t, adapter.Resolved, a.State())

	require.NoError(t, store.Delete(ctx, s2, b))
	require.Equal(t, adapter.Destroyed, b.State())
	_, ok = s2.LookupOid(root)
	require.False(t, ok)

	s3 := newSession(t, l, store)
	_, err = s3.AdapterForOid(ctx, root, false)
	require.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := objectstore.NewMemory()
	exerciseStore(t, store)
	require.NoError(t, store.Close())
}

func TestSQLiteStore(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "causeway.db")
	store, err := objectstore.OpenSQL(context.Background(), objectstore.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CAUSEWAY_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CAUSEWAY_POSTGRES_DSN not set")
	}
	store, err := objectstore.OpenSQL(context.Background(), objectstore.DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestPersistRejectsValueAdapters(t *testing.T) {
	store := objectstore.NewMemory()
	l := newLoader(t)
	m := newSession(t, l, store)

	v, err := m.AdapterFor("plain")
	require.NoError(t, err)
	require.ErrorIs(t, store.Persist(context.Background(), m, v), objectstore.ErrNotPersistable)
}

func TestTransientOidsAreUnique(t *testing.T) {
	store := objectstore.NewMemory()
	l := newLoader(t)
	ts, err := l.LoadSpecification(reflect.TypeOf(Team{}))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		o := store.CreateTransientOid(&Team{}, ts)
		require.True(t, o.IsTransient())
		require.False(t, seen[o.Key()])
		seen[o.Key()] = true
	}
}
