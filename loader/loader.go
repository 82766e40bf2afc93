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

// Package loader is the specification cache: every Go type maps to exactly
// one spec.Specification, reachable by type and by SpecID.
//
// Specifications are published as shells in both indexes before they are
// introspected. The first caller to claim a shell introspects it; other
// external callers wait for that single build, while lookups made by the
// builder itself receive the shell immediately. No lock is held during
// introspection.
package loader

import (
	"context"
	"reflect"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/builder"
	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/registry"
	"dirpx.dev/causeway/resolver"
	"dirpx.dev/causeway/spec"
)

var (
	// ErrDuplicateSpecID is returned when two types resolve to the same SpecID.
	ErrDuplicateSpecID = errors.New("causeway(loader): spec id already used by another type")
	// ErrUnknownSpecID is returned by LookupBySpecID for unknown ids.
	ErrUnknownSpecID = errors.New("causeway(loader): unknown spec id")
	// ErrNilType is returned for nil types.
	ErrNilType = errors.New("causeway(loader): nil type")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("causeway(loader): closed")
)

var objectTypedType = reflect.TypeOf((*apis.ObjectTyped)(nil)).Elem()

// Option configures a Loader.
type Option func(*options)

type options struct {
	log      *zap.Logger
	reg      apis.Registry
	res      apis.Resolver
	prom     prometheus.Registerer
	builders []builder.Option
}

// WithLogger sets the logger used by the loader and its builder.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRegistry supplies the explicit type/SpecID registry.
func WithRegistry(r apis.Registry) Option {
	return func(o *options) { o.reg = r }
}

// WithResolver replaces the SpecID resolver chain.
func WithResolver(r apis.Resolver) Option {
	return func(o *options) { o.res = r }
}

// WithMetrics exports the loader metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.prom = reg }
}

// WithBuilderOptions passes options to the specification builder.
func WithBuilderOptions(opts ...builder.Option) Option {
	return func(o *options) { o.builders = append(o.builders, opts...) }
}

// Loader caches specifications. It is safe for concurrent use.
type Loader struct {
	cfg     apis.Config
	reg     apis.Registry
	res     apis.Resolver
	bld     *builder.Builder
	log     *zap.Logger
	metrics *metrics

	// mu serializes shell publication so that both indexes change together.
	mu     sync.Mutex
	byType sync.Map // reflect.Type -> *spec.Specification
	byID   sync.Map // oid.SpecID -> *spec.Specification
	closed atomic.Bool
}

// Ensure Loader serves the builder.
var _ builder.Lookup = (*Loader)(nil)

// New returns an empty loader for cfg.
func New(cfg apis.Config, opts ...Option) (*Loader, error) {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.reg == nil {
		o.reg = registry.New(cfg)
	}
	if o.res == nil {
		o.res = resolver.Default(o.reg)
	}
	m, err := newMetrics(o.prom)
	if err != nil {
		return nil, errors.Wrap(err, "causeway(loader): register metrics")
	}
	bopts := append([]builder.Option{builder.WithLogger(o.log)}, o.builders...)
	return &Loader{
		cfg:     cfg,
		reg:     o.reg,
		res:     o.res,
		bld:     builder.New(cfg, bopts...),
		log:     o.log,
		metrics: m,
	}, nil
}

// Config returns the loader configuration.
func (l *Loader) Config() apis.Config { return l.cfg }

// Registry returns the type/SpecID registry.
func (l *Loader) Registry() apis.Registry { return l.reg }

// LoadSpecification returns the fully introspected specification of t,
// building it on first use. Pointer types share the specification of their
// element type.
func (l *Loader) LoadSpecification(t reflect.Type) (*spec.Specification, error) {
	s, err := l.shell(t)
	if err != nil {
		return nil, err
	}
	l.claim(s)
	<-s.Done()
	return s, s.Err()
}

// LoadSpecificationFor is LoadSpecification for the dynamic type of pojo.
func (l *Loader) LoadSpecificationFor(pojo any) (*spec.Specification, error) {
	if pojo == nil {
		return nil, ErrNilType
	}
	return l.LoadSpecification(reflect.TypeOf(pojo))
}

// SpecificationFor serves re-entrant lookups from the builder: the
// specification is introspected inline when unclaimed and returned without
// waiting when another build owns it.
func (l *Loader) SpecificationFor(t reflect.Type) (*spec.Specification, error) {
	s, err := l.shell(t)
	if err != nil {
		return nil, err
	}
	l.claim(s)
	return s, s.Err()
}

// LookupBySpecID returns the specification published under id. Types only
// known to the registry are loaded on demand.
func (l *Loader) LookupBySpecID(id oid.SpecID) (*spec.Specification, error) {
	if v, ok := l.byID.Load(id); ok {
		s := v.(*spec.Specification)
		l.claim(s)
		<-s.Done()
		return s, s.Err()
	}
	if t, ok := l.reg.LookupName(string(id)); ok {
		return l.LoadSpecification(t)
	}
	return nil, errors.Wrapf(ErrUnknownSpecID, "%q", id)
}

// Register publishes shells for ts without introspecting them. Interface
// types must be registered to be linked as interfaces of their implementors.
func (l *Loader) Register(ts ...reflect.Type) error {
	for _, t := range ts {
		if _, err := l.shell(t); err != nil {
			return err
		}
	}
	return nil
}

// Specifications returns every published specification ordered by SpecID.
func (l *Loader) Specifications() []*spec.Specification {
	var out []*spec.Specification
	l.byID.Range(func(_, v any) bool {
		out = append(out, v.(*spec.Specification))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SpecID() < out[j].SpecID() })
	return out
}

// InterfaceSpecifications lists the published interface specifications.
func (l *Loader) InterfaceSpecifications() []*spec.Specification {
	var out []*spec.Specification
	l.byType.Range(func(k, v any) bool {
		if k.(reflect.Type).Kind() == reflect.Interface {
			out = append(out, v.(*spec.Specification))
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SpecID() < out[j].SpecID() })
	return out
}

// IntrospectAll completes every published specification, including those
// discovered along the way, using up to Config.IntrospectionWorkers
// goroutines. It returns the first build error.
func (l *Loader) IntrospectAll(ctx context.Context) error {
	workers := l.cfg.IntrospectionWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	for {
		var pending []*spec.Specification
		for _, s := range l.Specifications() {
			if !s.IsIntrospected() {
				pending = append(pending, s)
			}
		}
		if len(pending) == 0 {
			return nil
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, s := range pending {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, err := l.LoadSpecification(s.Type())
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}

// Len returns the number of published specifications.
func (l *Loader) Len() int {
	n := 0
	l.byID.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Reset drops every cached specification.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byType.Clear()
	l.byID.Clear()
}

// Close unregisters metrics and rejects further loads.
func (l *Loader) Close() error {
	if l.closed.CompareAndSwap(false, true) {
		l.metrics.unregister()
	}
	return nil
}

// key strips pointers: *T and T share a specification.
func key(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// shell returns the published specification of t, publishing a new shell
// in both indexes when t is unknown.
func (l *Loader) shell(t reflect.Type) (*spec.Specification, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	t = key(t)
	if t == nil {
		return nil, ErrNilType
	}
	if v, ok := l.byType.Load(t); ok {
		return v.(*spec.Specification), nil
	}

	id, explicit := l.specID(t)

	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.byType.Load(t); ok {
		return v.(*spec.Specification), nil
	}
	if v, ok := l.byID.Load(id); ok {
		other := v.(*spec.Specification).Type()
		return nil, errors.Wrapf(ErrDuplicateSpecID, "%q: %s and %s", id, other, t)
	}
	s := spec.New(t, id)
	prec := facet.Derived
	if explicit {
		prec = facet.Explicit
	}
	s.AddFacet(facets.NewObjectType(s, id, prec))
	l.byID.Store(id, s)
	l.byType.Store(t, s)
	l.metrics.shells.Inc()
	return s, nil
}

// specID resolves the SpecID of t and reports whether it was chosen
// explicitly (ObjectType() or the registry) rather than derived.
func (l *Loader) specID(t reflect.Type) (oid.SpecID, bool) {
	name := l.res.ResolveType(t, l.cfg)
	if name == "" {
		name = t.String()
	}
	_, registered := l.reg.Lookup(t)
	explicit := registered || reflect.PointerTo(t).Implements(objectTypedType)
	return oid.SpecID(name), explicit
}

// claim introspects s on the calling goroutine if nobody has yet.
func (l *Loader) claim(s *spec.Specification) {
	if !s.BeginIntrospection() {
		return
	}
	start := time.Now()
	err := l.introspect(s)
	s.FinishIntrospection(err)

	l.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.introspections.WithLabelValues("error").Inc()
		l.log.Error("specification build failed",
			zap.String("spec", string(s.SpecID())),
			zap.String("type", s.Type().String()),
			zap.Error(err))
		return
	}
	l.metrics.introspections.WithLabelValues("ok").Inc()
}

// introspect turns a panicking domain method into a build error so that
// waiters on s are always released.
func (l *Loader) introspect(s *spec.Specification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("causeway(loader): introspecting %s panicked: %v", s.Type(), r)
		}
	}()
	return l.bld.Introspect(s, l)
}
