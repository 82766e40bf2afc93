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
	"context"
	"reflect"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/spec"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithFactory replaces DefaultFactory.
func WithFactory(f Factory) Option {
	return func(m *Manager) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithServicesInjector sets the injector called after mapping.
func WithServicesInjector(si ServicesInjector) Option {
	return func(m *Manager) {
		if si != nil {
			m.services = si
		}
	}
}

// WithMetrics exports the manager metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(m *Manager) { m.prom = reg }
}

// Manager hands out adapters and owns the identity maps of one session.
// It is not safe for concurrent use: a session is driven by one goroutine.
type Manager struct {
	cfg      apis.Config
	specs    SpecificationLookup
	oids     OidGenerator
	pojos    PojoRecreator
	factory  Factory
	services ServicesInjector
	log      *zap.Logger
	prom     prometheus.Registerer
	metrics  *metrics

	maps *identityMap
}

// NewManager returns a manager with empty identity maps.
func NewManager(cfg apis.Config, specs SpecificationLookup, oids OidGenerator, pojos PojoRecreator, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		specs:    specs,
		oids:     oids,
		pojos:    pojos,
		factory:  DefaultFactory,
		services: noServices{},
		log:      zap.NewNop(),
		maps:     newIdentityMap(),
	}
	for _, o := range opts {
		o(m)
	}
	mt, err := newMetrics(m.prom)
	if err != nil {
		return nil, errors.Wrap(err, "causeway(adapter): register metrics")
	}
	m.metrics = mt
	return m, nil
}

// LookupPojo returns the mapped adapter of pojo. It never creates one.
func (m *Manager) LookupPojo(pojo any) (*ObjectAdapter, bool) {
	return m.maps.lookupPojo(pojo)
}

// LookupOid returns the adapter mapped under o. It never creates one.
func (m *Manager) LookupOid(o oid.Oid) (*ObjectAdapter, bool) {
	return m.maps.lookupOid(o)
}

// Adapters lists mapped adapters ordered by Oid.
func (m *Manager) Adapters() []*ObjectAdapter { return m.maps.adapters() }

// Reset drops every mapping.
func (m *Manager) Reset() {
	m.maps.reset()
	m.metrics.mapped.Set(0)
}

// AdapterFor returns the adapter of pojo, creating a standalone value
// adapter or a mapped transient root adapter when pojo is unknown.
func (m *Manager) AdapterFor(pojo any) (*ObjectAdapter, error) {
	assertf(pojo != nil, "AdapterFor(nil)")
	if a, ok := m.maps.lookupPojo(pojo); ok {
		return a, nil
	}
	s, err := m.specs.LoadSpecification(reflect.TypeOf(pojo))
	if err != nil {
		return nil, err
	}
	if s.IsValue() {
		return m.standalone(pojo, s), nil
	}
	if s.IsParented() {
		return nil, errors.Wrapf(ErrParentRequired, "%s", s.SpecID())
	}
	if _, ok := keyOf(pojo); !ok {
		return nil, errors.Wrapf(ErrNoIdentity, "%T", pojo)
	}
	a := m.factory.CreateAdapter(pojo, m.oids.CreateTransientOid(pojo, s), s)
	a.ChangeState(Transient)
	m.mapAndInject(a, "root")
	return a, nil
}

// AdapterForParented is AdapterFor for pojos owned by parent: parented
// types get an AggregatedOid scoped to the parent's root.
func (m *Manager) AdapterForParented(pojo any, parent *ObjectAdapter) (*ObjectAdapter, error) {
	assertf(pojo != nil, "AdapterForParented(nil)")
	assertf(parent != nil && parent.Oid() != nil, "AdapterForParented without mapped parent")
	if a, ok := m.maps.lookupPojo(pojo); ok {
		return a, nil
	}
	s, err := m.specs.LoadSpecification(reflect.TypeOf(pojo))
	if err != nil {
		return nil, err
	}
	if !s.IsParented() {
		return m.AdapterFor(pojo)
	}
	if _, ok := keyOf(pojo); !ok {
		return nil, errors.Wrapf(ErrNoIdentity, "%T", pojo)
	}
	o := m.oids.CreateAggregateOid(pojo, s, parent.Oid().Root())
	a := m.factory.CreateAdapter(pojo, o, s)
	m.initialise(a, o)
	m.mapAndInject(a, "aggregated")
	return a, nil
}

// AdapterForCollection returns the adapter of the collection member
// collID of parent, wrapping coll. The adapter is identified by a
// CollectionOid and follows the parent's persistence.
func (m *Manager) AdapterForCollection(coll any, parent *ObjectAdapter, collID string) (*ObjectAdapter, error) {
	assertf(parent != nil, "AdapterForCollection without parent")
	root, ok := parent.RootOid()
	assertf(ok, "%s is not a root adapter", parent)
	c, ok := parent.Specification().Collection(collID)
	if !ok {
		return nil, errors.Wrapf(ErrNotCollection, "%s.%s", root.SpecID(), collID)
	}

	o := oid.NewCollection(root, collID)
	if a, ok := m.maps.lookupOid(o); ok {
		if pojoChanged(a.Pojo(), coll) {
			m.maps.repojo(a, coll)
		}
		return a, nil
	}
	s, err := m.specs.LoadSpecification(c.Type())
	if err != nil {
		return nil, err
	}
	a := m.factory.CreateAdapter(coll, o, s)
	m.initialise(a, o)
	m.maps.insert(a)
	m.metrics.created.WithLabelValues("collection").Inc()
	m.metrics.mapped.Set(float64(m.maps.oidCount()))
	return a, nil
}

// AdapterForOid returns the adapter of o, recreating the pojo on a miss.
// With concurrencyChecking a version differing from the one carried by o
// fails with *ConcurrencyError; otherwise the adapter adopts o's version.
func (m *Manager) AdapterForOid(ctx context.Context, o oid.RootOid, concurrencyChecking bool) (*ObjectAdapter, error) {
	assertf(!o.IsZero(), "AdapterForOid(zero oid)")
	a, ok := m.maps.lookupOid(o)
	if !ok {
		s, err := m.specs.LookupBySpecID(o.SpecID())
		if err != nil {
			return nil, err
		}
		pojo, stored, err := m.pojos.RecreatePojo(ctx, o, s)
		if err != nil {
			return nil, errors.Wrapf(err, "causeway(adapter): recreate %s", o.Key())
		}
		if existing, ok := m.maps.lookupPojo(pojo); ok {
			assertf(existing.Oid().Key() == o.Key(), "recreated pojo for %s already mapped to %s", o.Key(), existing)
			a = existing
		} else {
			a = m.factory.CreateAdapter(pojo, o.WithVersion(stored), s)
			m.initialise(a, o)
			if a.State() == Ghost {
				a.ChangeState(Resolving)
				a.ChangeState(Resolved)
			}
			m.mapAndInject(a, "recreated")
		}
	}

	requested := o.Version()
	if requested == nil {
		return a, nil
	}
	current := a.Version()
	if concurrencyChecking && current.Different(requested) {
		return nil, &ConcurrencyError{Oid: o, Current: current, Requested: requested}
	}
	if root, ok := a.RootOid(); ok {
		a.replaceOid(root.WithVersion(requested))
	}
	return a, nil
}

// UpdateVersion stamps the persistent root adapter a with v after a
// successful save. The Oid key does not change.
func (m *Manager) UpdateVersion(a *ObjectAdapter, v *oid.Version) {
	root, ok := a.RootOid()
	assertf(ok && root.IsPersistent(), "%s is not a persistent root", a)
	m.maps.ensureConsistent(a)
	a.replaceOid(root.WithVersion(v))
}

// RemoveAdapter unmaps a. Removing a root adapter also unmaps its
// collection and aggregated adapters. Unmapped value adapters are ignored.
func (m *Manager) RemoveAdapter(a *ObjectAdapter) {
	assertf(a != nil, "RemoveAdapter(nil)")
	if a.Oid() == nil {
		return
	}
	m.maps.ensureConsistent(a)
	if root, ok := a.RootOid(); ok {
		for _, d := range m.maps.dependents(root) {
			m.unmap(d)
		}
	}
	m.unmap(a)
	m.metrics.mapped.Set(float64(m.maps.oidCount()))
}

func (m *Manager) unmap(a *ObjectAdapter) {
	if k, ok := keyOf(a.Pojo()); ok && m.maps.byPojo[k] == a {
		m.maps.removePojo(a.Pojo())
	}
	m.maps.removeOid(a.Oid())
}

// RemapAsPersistent moves a transient root adapter, its collection
// adapters and its aggregated children to a persistent identity. hint,
// when not nil, is used instead of asking the OidGenerator.
//
// All map removals happen before any Oid is rewritten and all rewrites
// before any re-insertion.
func (m *Manager) RemapAsPersistent(ctx context.Context, a *ObjectAdapter, hint *oid.RootOid) error {
	assertf(a != nil, "RemapAsPersistent(nil)")
	old, ok := a.RootOid()
	assertf(ok, "%s is not a root adapter", a)
	assertf(old.IsTransient(), "%s is not transient", a)
	assertf(a.State() == Transient, "%s is in state %s", a, a.State())
	m.maps.ensureConsistent(a)

	var persistent oid.RootOid
	if hint != nil {
		assertf(hint.IsPersistent(), "hint %s is not persistent", hint)
		assertf(hint.SpecID() == old.SpecID(), "hint %s does not match %s", hint, old.SpecID())
		persistent = *hint
	} else {
		var err error
		if persistent, err = m.oids.CreatePersistentOid(ctx, a.Pojo(), old); err != nil {
			return errors.Wrapf(err, "causeway(adapter): persistent oid for %s", old.Key())
		}
		assertf(persistent.IsPersistent(), "generator returned transient %s", persistent)
	}

	colls := m.collectionAdapters(a, old)
	children := m.aggregatedAdapters(a, old)

	m.removeOid(old)
	for _, c := range colls {
		m.removeOid(c.Oid())
	}
	for _, c := range children {
		m.removeOid(c.Oid())
	}

	a.replaceOid(persistent)
	for _, c := range colls {
		c.replaceOid(c.Oid().(oid.CollectionOid).WithParent(persistent))
	}
	for _, c := range children {
		c.replaceOid(c.Oid().(oid.AggregatedOid).WithParent(persistent))
	}

	m.maps.insertOid(a)
	for _, c := range colls {
		m.maps.insertOid(c)
	}
	for _, c := range children {
		m.maps.insertOid(c)
	}

	m.resyncCollections(a, colls)

	for _, c := range colls {
		if c.State() == Transient {
			c.ChangeState(Resolved)
		}
	}
	for _, c := range children {
		if c.State() == Transient {
			c.ChangeState(Resolved)
		}
	}
	a.ChangeState(Resolved)

	m.metrics.remaps.Inc()
	m.log.Debug("adapter remapped as persistent",
		zap.String("from", old.Key()),
		zap.String("to", persistent.Key()),
		zap.Int("collections", len(colls)),
		zap.Int("aggregated", len(children)))
	return nil
}

// collectionAdapters snapshots the mapped collection adapters of root.
func (m *Manager) collectionAdapters(a *ObjectAdapter, root oid.RootOid) []*ObjectAdapter {
	var out []*ObjectAdapter
	for _, c := range a.Specification().Collections() {
		if ca, ok := m.maps.lookupOid(oid.NewCollection(root, c.ID())); ok {
			out = append(out, ca)
		}
	}
	return out
}

// aggregatedAdapters walks the parented properties of a and returns the
// adapters whose AggregatedOid hangs off root.
func (m *Manager) aggregatedAdapters(a *ObjectAdapter, root oid.RootOid) []*ObjectAdapter {
	var out []*ObjectAdapter
	visit := func(v any) {
		ca, ok := m.maps.lookupPojo(v)
		if !ok {
			return
		}
		if ag, ok := ca.Oid().(oid.AggregatedOid); ok && ag.Parent().Key() == root.Key() {
			out = append(out, ca)
		}
	}
	for _, p := range a.Specification().Properties() {
		if ps := p.Spec(); ps == nil || !ps.IsParented() {
			continue
		}
		v, err := p.Get(a.Pojo())
		if err != nil {
			m.log.Warn("reading aggregated property", zap.String("property", p.ID()), zap.Error(err))
			continue
		}
		visit(v)
	}
	for _, c := range a.Specification().Collections() {
		if es := c.ElementSpec(); es == nil || !es.IsParented() {
			continue
		}
		elems, err := c.Elements(a.Pojo())
		if err != nil {
			m.log.Warn("reading aggregated collection", zap.String("collection", c.ID()), zap.Error(err))
			continue
		}
		for _, e := range elems {
			visit(e)
		}
	}
	return out
}

// resyncCollections rewraps collection adapters whose collection value
// was replaced during the persist.
func (m *Manager) resyncCollections(a *ObjectAdapter, colls []*ObjectAdapter) {
	for _, ca := range colls {
		id := ca.Oid().(oid.CollectionOid).Name()
		c, ok := a.Specification().Collection(id)
		if !ok {
			continue
		}
		current, err := c.Get(a.Pojo())
		if err != nil || !pojoChanged(ca.Pojo(), current) {
			continue
		}
		if !m.maps.repojo(ca, current) {
			m.miss("pojo", ca.Oid())
		}
	}
}

// removeOid removes o on a best-effort basis.
func (m *Manager) removeOid(o oid.Oid) {
	if !m.maps.removeOid(o) {
		m.miss("oid", o)
	}
}

func (m *Manager) miss(kind string, o oid.Oid) {
	m.metrics.misses.Inc()
	assertf(!m.cfg.StrictRemap, "remap: %s entry for %s missing", kind, o)
	m.log.Warn("identity map entry missing during remap",
		zap.String("map", kind),
		zap.String("oid", o.String()))
}

// initialise moves a freshly created adapter out of New following o.
func (m *Manager) initialise(a *ObjectAdapter, o oid.Oid) {
	if o.IsTransient() {
		a.ChangeState(Transient)
		return
	}
	a.ChangeState(Ghost)
}

func (m *Manager) standalone(pojo any, s *spec.Specification) *ObjectAdapter {
	a := m.factory.CreateAdapter(pojo, nil, s)
	a.ChangeState(Value)
	m.metrics.created.WithLabelValues("value").Inc()
	return a
}

// mapAndInject maps a, pojo side first, and injects services afterwards so
// that injected back references resolve to the mapped adapter.
func (m *Manager) mapAndInject(a *ObjectAdapter, kind string) {
	m.maps.insert(a)
	m.metrics.created.WithLabelValues(kind).Inc()
	m.metrics.mapped.Set(float64(m.maps.oidCount()))
	m.services.InjectServicesInto(a.Pojo())
}

// pojoChanged reports whether b is a different instance than a.
func pojoChanged(a, b any) bool {
	ka, okA := keyOf(a)
	kb, okB := keyOf(b)
	if !okA || !okB {
		return okA != okB
	}
	return ka != kb
}
