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

// Package builder introspects a Go type into a spec.Specification.
//
// Introspection runs the factory pipeline over the class, then over every
// accessor-backed association and finally over every method that is left
// as an action. Related types (supertype, member types, parameter types)
// are obtained through a Lookup that never blocks on a specification in
// progress, so cyclic models introspect without deadlock.
package builder

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/factory"
	"dirpx.dev/causeway/spec"
	uref "dirpx.dev/causeway/utils/reflect"
)

// Lookup gives the builder access to related specifications.
type Lookup interface {
	// SpecificationFor returns the specification of t. The result may still
	// be in introspection when called re-entrantly.
	SpecificationFor(t reflect.Type) (*spec.Specification, error)
	// InterfaceSpecifications lists the known interface specifications.
	InterfaceSpecifications() []*spec.Specification
}

// Option configures a Builder.
type Option func(*Builder)

// WithPipeline replaces the default factory pipeline.
func WithPipeline(p *factory.Pipeline) Option {
	return func(b *Builder) {
		if p != nil {
			b.pipeline = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithMixins registers mixins.
func WithMixins(ms ...Mixin) Option {
	return func(b *Builder) {
		for _, m := range ms {
			b.mixins[m.Target] = append(b.mixins[m.Target], m)
		}
	}
}

// Builder introspects specifications. It holds no per-type state and is
// safe for concurrent use.
type Builder struct {
	cfg      apis.Config
	pipeline *factory.Pipeline
	log      *zap.Logger
	mixins   map[reflect.Type][]Mixin
}

// New returns a Builder for cfg.
func New(cfg apis.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		pipeline: factory.DefaultPipeline(),
		log:      zap.NewNop(),
		mixins:   make(map[reflect.Type][]Mixin),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// NewDefault returns a Builder for config.DefaultConfig().
func NewDefault(opts ...Option) *Builder {
	return New(config.DefaultConfig(), opts...)
}

// Config returns the builder configuration.
func (b *Builder) Config() apis.Config { return b.cfg }

// Introspect populates s. Errors are *factory.BuildError or wrap one.
func (b *Builder) Introspect(s *spec.Specification, lookup Lookup) error {
	t := s.Type()
	switch {
	case t.Kind() == reflect.Interface:
		// Abstract: members are read from the implementing types.
		return nil
	case uref.IsCollection(t):
		elem := uref.CollectionElem(t)
		s.AddFacet(facets.NewTypeOf(s, elem, facet.Default))
		if _, err := lookup.SpecificationFor(uref.Indirect(elem)); err != nil {
			return errors.Wrapf(err, "element of %s", t)
		}
		return nil
	case t.Kind() != reflect.Struct:
		return b.processClass(s, factory.NewMethodRemover(reflect.PointerTo(t)))
	}

	ptr := reflect.PointerTo(t)
	remover := factory.NewMethodRemover(ptr)
	for _, m := range b.mixins[t] {
		remover.AddMixin(m.Type, m.convert)
	}
	if err := b.processClass(s, remover); err != nil {
		return err
	}
	if s.IsValue() {
		s.SetMembers(nil, nil, nil, remover.Consumed())
		return nil
	}
	if err := b.linkHierarchy(s, lookup); err != nil {
		return err
	}

	props, colls, err := b.associations(s, remover, lookup)
	if err != nil {
		return err
	}
	actions, err := b.actions(s, remover, lookup)
	if err != nil {
		return err
	}
	if _, err := factory.DetectOrphans(t, remover, b.cfg, b.log); err != nil {
		return err
	}
	s.SetMembers(props, colls, actions, remover.Consumed())

	b.log.Debug("specification introspected",
		zap.String("spec", string(s.SpecID())),
		zap.Int("properties", len(props)),
		zap.Int("collections", len(colls)),
		zap.Int("actions", len(actions)))
	return nil
}

func (b *Builder) processClass(s *spec.Specification, remover *factory.MethodRemover) error {
	return b.pipeline.Process(&factory.ProcessContext{
		Type:    s.Type(),
		Kind:    factory.KindClass,
		Holder:  s,
		Remover: remover,
		Config:  b.cfg,
		Logger:  b.log,
	})
}

// linkHierarchy treats the first embedded struct as the supertype and links
// every known interface the type implements.
func (b *Builder) linkHierarchy(s *spec.Specification, lookup Lookup) error {
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || !f.IsExported() {
			continue
		}
		st := uref.Indirect(f.Type)
		if st.Kind() != reflect.Struct {
			continue
		}
		super, err := lookup.SpecificationFor(st)
		if err != nil {
			return errors.Wrapf(err, "supertype of %s", t)
		}
		s.SetSuperclass(super)
		break
	}
	ptr := reflect.PointerTo(t)
	for _, i := range lookup.InterfaceSpecifications() {
		if ptr.Implements(i.Type()) {
			s.AddInterface(i)
		}
	}
	return nil
}

// isAccessor reports GetFoo() T methods.
func isAccessor(m factory.Method) (string, bool) {
	id, ok := strings.CutPrefix(m.Name, "Get")
	if !ok || id == "" || !unicode.IsUpper([]rune(id)[0]) || m.Mixin != nil {
		return "", false
	}
	return id, m.Type.NumIn() == 1 && m.Type.NumOut() == 1
}

func (b *Builder) associations(s *spec.Specification, remover *factory.MethodRemover, lookup Lookup) ([]*spec.Property, []*spec.Collection, error) {
	var (
		props []*spec.Property
		colls []*spec.Collection
	)
	for _, m := range remover.Remaining() {
		id, ok := isAccessor(m)
		if !ok {
			continue
		}
		m := m
		rt := m.Type.Out(0)
		pc := &factory.ProcessContext{
			Type:     s.Type(),
			MemberID: id,
			Method:   &m,
			Remover:  remover,
			Config:   b.cfg,
			Logger:   b.log,
		}
		if uref.IsCollection(rt) {
			c := spec.NewCollection(s, id, rt)
			pc.Kind, pc.Holder = factory.KindCollection, c
			if err := b.pipeline.Process(pc); err != nil {
				return nil, nil, err
			}
			es, err := lookup.SpecificationFor(uref.Indirect(c.ElementType()))
			if err != nil {
				return nil, nil, errors.Wrapf(err, "collection %s.%s", s.SpecID(), id)
			}
			c.SetElementSpec(es)
			colls = append(colls, c)
			continue
		}
		p := spec.NewProperty(s, id, rt)
		pc.Kind, pc.Holder = factory.KindProperty, p
		if err := b.pipeline.Process(pc); err != nil {
			return nil, nil, err
		}
		ps, err := lookup.SpecificationFor(uref.Indirect(rt))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "property %s.%s", s.SpecID(), id)
		}
		p.SetSpec(ps)
		props = append(props, p)
	}
	return props, colls, nil
}

func (b *Builder) actions(s *spec.Specification, remover *factory.MethodRemover, lookup Lookup) ([]*spec.Action, error) {
	var candidates []factory.Method
	for _, m := range remover.Remaining() {
		if !factory.IsReserved(m.Name) {
			candidates = append(candidates, m)
		}
	}
	actions := make([]*spec.Action, 0, len(candidates))
	for _, m := range candidates {
		m := m
		a := spec.NewAction(s, m.Name)
		pc := &factory.ProcessContext{
			Type:     s.Type(),
			Kind:     factory.KindAction,
			MemberID: m.Name,
			Holder:   a,
			Method:   &m,
			Remover:  remover,
			Config:   b.cfg,
			Logger:   b.log,
		}
		for _, pt := range pc.ParamTypes() {
			p := a.AddParameter(pt)
			pc.Params = append(pc.Params, p)
			ps, err := lookup.SpecificationFor(uref.Indirect(pt))
			if err != nil {
				return nil, errors.Wrapf(err, "action %s.%s", s.SpecID(), m.Name)
			}
			p.SetSpec(ps)
		}
		if err := b.pipeline.Process(pc); err != nil {
			return nil, err
		}
		if rt := a.ReturnType(); rt != nil {
			rs, err := lookup.SpecificationFor(uref.Indirect(rt))
			if err != nil {
				return nil, errors.Wrapf(err, "action %s.%s", s.SpecID(), m.Name)
			}
			a.SetReturnSpec(rs)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
