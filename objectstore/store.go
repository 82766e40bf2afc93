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

// Package objectstore provides reference identity and persistence
// collaborators for the adapter manager: an in-memory store and a SQL
// store over sqlite or postgres.
//
// Only value properties are persisted. Each object is one row holding its
// state as a JSON object keyed by property id.
package objectstore

import (
	"context"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dirpx.dev/causeway/adapter"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/spec"
)

var (
	// ErrNotFound is returned when no object is stored under an Oid.
	ErrNotFound = errors.New("causeway(objectstore): object not found")
	// ErrNotPersistable is returned for adapters that cannot be saved.
	ErrNotPersistable = errors.New("causeway(objectstore): adapter cannot be persisted")
)

// record is one stored object.
type record struct {
	Key     string
	Spec    oid.SpecID
	Payload []byte
	Version int64
	User    string
	Time    time.Time
}

// backend is the storage the Store writes through.
type backend interface {
	nextSequence(ctx context.Context, spec oid.SpecID) (int64, error)
	insert(ctx context.Context, r record) error
	// update replaces r when the stored version equals prev. It reports
	// false when the stored version differs.
	update(ctx context.Context, r record, prev int64) (bool, error)
	load(ctx context.Context, key string) (record, error)
	delete(ctx context.Context, key string) error
	close() error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUser sets the user recorded in versions.
func WithUser(user string) Option {
	return func(s *Store) { s.user = user }
}

// Store generates identities, recreates pojos and saves adapters.
type Store struct {
	b    backend
	log  *zap.Logger
	user string
}

// Ensure Store serves the adapter manager.
var (
	_ adapter.OidGenerator  = (*Store)(nil)
	_ adapter.PojoRecreator = (*Store)(nil)
)

func newStore(b backend, opts ...Option) *Store {
	s := &Store{b: b, log: zap.NewNop(), user: "system"}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Close releases the backend.
func (s *Store) Close() error { return s.b.close() }

// CreateTransientOid returns a random transient root.
func (s *Store) CreateTransientOid(_ any, sp *spec.Specification) oid.RootOid {
	return oid.NewTransient(sp.SpecID(), uuid.NewString())
}

// CreateAggregateOid returns a random local identity under parent.
func (s *Store) CreateAggregateOid(_ any, sp *spec.Specification, parent oid.RootOid) oid.AggregatedOid {
	return oid.NewAggregated(parent, sp.SpecID(), uuid.NewString())
}

// CreatePersistentOid allocates the next identifier of the type's
// sequence. The returned Oid carries version 1.
func (s *Store) CreatePersistentOid(ctx context.Context, _ any, transient oid.RootOid) (oid.RootOid, error) {
	n, err := s.b.nextSequence(ctx, transient.SpecID())
	if err != nil {
		return oid.RootOid{}, errors.Wrapf(err, "causeway(objectstore): sequence %s", transient.SpecID())
	}
	p := oid.NewPersistent(transient.SpecID(), strconv.FormatInt(n, 10))
	return p.WithVersion(oid.NewVersion(1, s.user)), nil
}

// RecreatePojo loads the object stored under o and fires its Loaded
// callback.
func (s *Store) RecreatePojo(ctx context.Context, o oid.RootOid, sp *spec.Specification) (any, *oid.Version, error) {
	r, err := s.b.load(ctx, o.Key())
	if err != nil {
		return nil, nil, err
	}
	pojo := reflect.New(sp.Type()).Interface()
	if err := decodeState(sp, pojo, r.Payload); err != nil {
		return nil, nil, err
	}
	if err := facets.Fire(sp, facets.Loaded, pojo); err != nil {
		return nil, nil, errors.Wrapf(err, "causeway(objectstore): loaded callback of %s", o.Key())
	}
	return pojo, &oid.Version{Sequence: r.Version, User: r.User, Time: r.Time}, nil
}

// NewInstance returns a fresh pojo of sp after its Created callback.
func (s *Store) NewInstance(sp *spec.Specification) (any, error) {
	pojo := reflect.New(sp.Type()).Interface()
	if err := facets.Fire(sp, facets.Created, pojo); err != nil {
		return nil, err
	}
	return pojo, nil
}

// Persist saves a. A transient root is remapped as persistent and
// inserted; a resolved root is updated under optimistic locking and fails
// with *adapter.ConcurrencyError when the stored version moved on.
func (s *Store) Persist(ctx context.Context, m *adapter.Manager, a *adapter.ObjectAdapter) error {
	sp := a.Specification()
	if _, ok := a.RootOid(); !ok || sp == nil {
		return errors.Wrapf(ErrNotPersistable, "%s", a)
	}
	switch a.State() {
	case adapter.Transient:
		return s.insert(ctx, m, a)
	case adapter.Resolved:
		return s.update(ctx, m, a)
	}
	return errors.Wrapf(ErrNotPersistable, "%s in state %s", a, a.State())
}

// insert writes the row under a freshly allocated Oid before remapping,
// so a failed write leaves a transient and mapped as it was.
func (s *Store) insert(ctx context.Context, m *adapter.Manager, a *adapter.ObjectAdapter) error {
	sp := a.Specification()
	transient, _ := a.RootOid()
	if err := facets.Fire(sp, facets.Persisting, a.Pojo()); err != nil {
		return err
	}
	root, err := s.CreatePersistentOid(ctx, a.Pojo(), transient)
	if err != nil {
		return err
	}
	payload, err := encodeState(sp, a.Pojo())
	if err != nil {
		return err
	}
	v := root.Version()
	if err := s.b.insert(ctx, record{
		Key:     root.Key(),
		Spec:    root.SpecID(),
		Payload: payload,
		Version: v.Sequence,
		User:    v.User,
		Time:    v.Time,
	}); err != nil {
		return errors.Wrapf(err, "causeway(objectstore): insert %s", root.Key())
	}
	if err := m.RemapAsPersistent(ctx, a, &root); err != nil {
		return err
	}
	s.log.Debug("object inserted", zap.String("oid", root.Key()))
	return facets.Fire(sp, facets.Persisted, a.Pojo())
}

func (s *Store) update(ctx context.Context, m *adapter.Manager, a *adapter.ObjectAdapter) error {
	sp := a.Specification()
	root, _ := a.RootOid()
	a.ChangeState(adapter.Updating)
	defer a.ChangeState(adapter.Resolved)

	if err := facets.Fire(sp, facets.Updating, a.Pojo()); err != nil {
		return err
	}
	payload, err := encodeState(sp, a.Pojo())
	if err != nil {
		return err
	}
	cur := a.Version()
	next := cur.Next(s.user)
	ok, err := s.b.update(ctx, record{
		Key:     root.Key(),
		Spec:    root.SpecID(),
		Payload: payload,
		Version: next.Sequence,
		User:    next.User,
		Time:    next.Time,
	}, cur.Sequence)
	if err != nil {
		return errors.Wrapf(err, "causeway(objectstore): update %s", root.Key())
	}
	if !ok {
		stored, err := s.b.load(ctx, root.Key())
		if err != nil {
			return errors.Wrapf(err, "causeway(objectstore): reload %s after conflict", root.Key())
		}
		return &adapter.ConcurrencyError{
			Oid:       root,
			Current:   &oid.Version{Sequence: stored.Version, User: stored.User, Time: stored.Time},
			Requested: cur,
		}
	}
	m.UpdateVersion(a, next)
	s.log.Debug("object updated", zap.String("oid", root.Key()), zap.Int64("version", next.Sequence))
	return nil
}

// Delete removes a from the store and from m.
func (s *Store) Delete(ctx context.Context, m *adapter.Manager, a *adapter.ObjectAdapter) error {
	root, ok := a.RootOid()
	if !ok || !root.IsPersistent() {
		return errors.Wrapf(ErrNotPersistable, "%s", a)
	}
	if err := facets.Fire(a.Specification(), facets.Removing, a.Pojo()); err != nil {
		return err
	}
	if err := s.b.delete(ctx, root.Key()); err != nil {
		return errors.Wrapf(err, "causeway(objectstore): delete %s", root.Key())
	}
	m.RemoveAdapter(a)
	a.ChangeState(adapter.Destroyed)
	return nil
}
