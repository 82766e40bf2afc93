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

package objectstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dirpx.dev/causeway/adapter"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/oid"
)

type Crew struct {
	name string
}

func (c *Crew) GetName() string  { return c.name }
func (c *Crew) SetName(v string) { c.name = v }

// failingBackend fails the writes and reads it is told to.
type failingBackend struct {
	*memoryBackend
	insertErr error
	loadErr   error
}

func (b *failingBackend) insert(ctx context.Context, r record) error {
	if b.insertErr != nil {
		return b.insertErr
	}
	return b.memoryBackend.insert(ctx, r)
}

func (b *failingBackend) load(ctx context.Context, key string) (record, error) {
	if b.loadErr != nil {
		return record{}, b.loadErr
	}
	return b.memoryBackend.load(ctx, key)
}

func setupFailingStore(t *testing.T) (*failingBackend, *Store, *adapter.Manager) {
	t.Helper()
	b := &failingBackend{memoryBackend: &memoryBackend{
		objects:   make(map[string]record),
		sequences: make(map[oid.SpecID]int64),
	}}
	s := newStore(b, WithLogger(zaptest.NewLogger(t)))
	l, err := loader.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	_, err = l.LoadSpecification(reflect.TypeOf(Crew{}))
	require.NoError(t, err)
	m, err := adapter.NewManager(config.DefaultConfig(), l, s, s, adapter.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return b, s, m
}

func TestInsertFailureKeepsAdapterTransient(t *testing.T) {
	ctx := context.Background()
	b, s, m := setupFailingStore(t)
	crew := &Crew{name: "night"}
	a, err := m.AdapterFor(crew)
	require.NoError(t, err)
	transient, _ := a.RootOid()

	boom := errors.New("disk full")
	b.insertErr = boom
	require.ErrorIs(t, s.Persist(ctx, m, a), boom)

	require.True(t, a.IsTransient())
	require.Equal(t, adapter.Transient, a.State())
	got, ok := m.LookupOid(transient)
	require.True(t, ok)
	require.Same(t, a, got)
	got, ok = m.LookupPojo(crew)
	require.True(t, ok)
	require.Same(t, a, got)

	b.insertErr = nil
	require.NoError(t, s.Persist(ctx, m, a))
	root, _ := a.RootOid()
	require.True(t, root.IsPersistent())
	require.Equal(t, adapter.Resolved, a.State())
	_, ok = m.LookupOid(transient)
	require.False(t, ok)
	stored, err := b.memoryBackend.load(ctx, root.Key())
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.Version)
}

func TestUpdateConflictReportsReloadFailure(t *testing.T) {
	ctx := context.Background()
	b, s, m := setupFailingStore(t)
	crew := &Crew{name: "night"}
	a, err := m.AdapterFor(crew)
	require.NoError(t, err)
	require.NoError(t, s.Persist(ctx, m, a))
	root, _ := a.RootOid()

	// Another writer moves the stored row to version 2.
	ok, err := b.memoryBackend.update(ctx, record{Key: root.Key(), Spec: root.SpecID(), Version: 2}, 1)
	require.NoError(t, err)
	require.True(t, ok)

	boom := errors.New("connection reset")
	b.loadErr = boom
	crew.name = "day"
	err = s.Persist(ctx, m, a)
	require.ErrorIs(t, err, boom)
	var conflict *adapter.ConcurrencyError
	require.False(t, errors.As(err, &conflict))
	require.Equal(t, adapter.Resolved, a.State())
}
