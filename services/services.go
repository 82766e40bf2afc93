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

// Package services keeps the registered domain services and injects them
// into domain objects.
package services

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dirpx.dev/causeway/adapter"
	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/spec"
)

var (
	// ErrNotPointer is returned for services that are not non-nil pointers.
	ErrNotPointer = errors.New("causeway(services): service must be a non-nil pointer")
	// ErrDuplicateService is returned when a type is registered twice.
	ErrDuplicateService = errors.New("causeway(services): service type already registered")
	// ErrStarted is returned by Register after Init.
	ErrStarted = errors.New("causeway(services): already initialised")
)

// SpecificationLoader loads specifications for service types.
type SpecificationLoader interface {
	LoadSpecification(t reflect.Type) (*spec.Specification, error)
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Injector) {
		if l != nil {
			i.log = l
		}
	}
}

type entry struct {
	pojo any
	spec *spec.Specification
}

// Injector holds services in registration order. It is safe for
// concurrent use.
type Injector struct {
	specs SpecificationLoader
	log   *zap.Logger

	mu       sync.RWMutex
	services []entry
	started  bool
}

// Ensure Injector can serve the adapter manager.
var _ adapter.ServicesInjector = (*Injector)(nil)

// New returns an empty Injector.
func New(specs SpecificationLoader, opts ...Option) *Injector {
	i := &Injector{specs: specs, log: zap.NewNop()}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Register adds services and marks their specifications as services.
func (i *Injector) Register(svcs ...any) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.started {
		return ErrStarted
	}
	for _, svc := range svcs {
		v := reflect.ValueOf(svc)
		if v.Kind() != reflect.Ptr || v.IsNil() {
			return errors.Wrapf(ErrNotPointer, "%T", svc)
		}
		for _, e := range i.services {
			if reflect.TypeOf(e.pojo) == v.Type() {
				return errors.Wrapf(ErrDuplicateService, "%s", v.Type())
			}
		}
		s, err := i.specs.LoadSpecification(v.Type())
		if err != nil {
			return errors.Wrapf(err, "causeway(services): register %s", v.Type())
		}
		s.AddFacet(facets.NewService(s))
		i.services = append(i.services, entry{pojo: svc, spec: s})
		i.log.Debug("service registered", zap.String("spec", string(s.SpecID())))
	}
	return nil
}

// Services returns the registered services in registration order.
func (i *Injector) Services() []any {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]any, len(i.services))
	for n, e := range i.services {
		out[n] = e.pojo
	}
	return out
}

// Lookup returns the first service assignable to t.
func (i *Injector) Lookup(t reflect.Type) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lookup(t)
}

func (i *Injector) lookup(t reflect.Type) (any, bool) {
	for _, e := range i.services {
		if reflect.TypeOf(e.pojo).AssignableTo(t) {
			return e.pojo, true
		}
	}
	return nil, false
}

// InjectServicesInto sets every exported, unset field of the struct
// pojo points to whose type a registered service is assignable to.
func (i *Injector) InjectServicesInto(pojo any) {
	v := reflect.ValueOf(pojo)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	i.inject(v.Elem())
}

func (i *Injector) inject(sv reflect.Value) {
	st := sv.Type()
	for n := 0; n < st.NumField(); n++ {
		f := st.Field(n)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Ptr, reflect.Interface:
		default:
			continue
		}
		fv := sv.Field(n)
		if !fv.IsNil() {
			continue
		}
		if svc, ok := i.lookup(f.Type); ok && svc != sv.Addr().Interface() {
			fv.Set(reflect.ValueOf(svc))
		}
	}
}

// Init injects services into each other and runs their PostConstruct
// methods in registration order. props is passed to PostConstruct methods
// that accept it.
func (i *Injector) Init(props map[string]string) error {
	i.mu.Lock()
	if i.started {
		i.mu.Unlock()
		return ErrStarted
	}
	i.started = true
	svcs := append([]entry(nil), i.services...)
	i.mu.Unlock()

	i.mu.RLock()
	for _, e := range svcs {
		i.inject(reflect.ValueOf(e.pojo).Elem())
	}
	i.mu.RUnlock()

	for _, e := range svcs {
		pc, ok := facet.Lookup[*facets.PostConstruct](e.spec, facets.PostConstructType)
		if !ok {
			continue
		}
		if err := pc.Invoke(e.pojo, props); err != nil {
			return errors.Wrapf(err, "causeway(services): init %s", e.spec.SpecID())
		}
	}
	return nil
}

// Shutdown runs PreDestroy methods in reverse registration order. Every
// service is shut down; the first failure is returned.
func (i *Injector) Shutdown() error {
	i.mu.Lock()
	svcs := append([]entry(nil), i.services...)
	i.started = false
	i.mu.Unlock()

	var first error
	for n := len(svcs) - 1; n >= 0; n-- {
		e := svcs[n]
		pd, ok := facet.Lookup[*facets.PreDestroy](e.spec, facets.PreDestroyType)
		if !ok {
			continue
		}
		if err := pd.Invoke(e.pojo); err != nil {
			i.log.Warn("service shutdown failed", zap.String("spec", string(e.spec.SpecID())), zap.Error(err))
			if first == nil {
				first = errors.Wrapf(err, "causeway(services): shutdown %s", e.spec.SpecID())
			}
		}
	}
	return first
}
