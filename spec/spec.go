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

// Package spec holds the metamodel: one Specification per introspected Go
// type, with its properties, collections, actions and facets.
//
// A Specification is published as a shell before it is introspected so that
// both loader indexes can hand it out immediately; introspection fills the
// members in exactly once and then closes Done.
package spec

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/oid"
)

// State is the introspection state of a Specification.
type State int32

const (
	NotIntrospected State = iota
	Introspecting
	Introspected
)

func (s State) String() string {
	switch s {
	case NotIntrospected:
		return "not-introspected"
	case Introspecting:
		return "introspecting"
	case Introspected:
		return "introspected"
	default:
		return "unknown"
	}
}

// Specification describes one domain type.
type Specification struct {
	*facet.Registry

	typ   reflect.Type
	id    oid.SpecID
	state atomic.Int32
	done  chan struct{}
	err   error

	mu          sync.RWMutex
	superclass  *Specification
	interfaces  []*Specification
	subclasses  []*Specification
	properties  []*Property
	collections []*Collection
	actions     []*Action
	consumed    []string
}

// New returns a not yet introspected shell for t.
func New(t reflect.Type, id oid.SpecID) *Specification {
	return &Specification{
		Registry: facet.NewRegistry(string(id)),
		typ:      t,
		id:       id,
		done:     make(chan struct{}),
	}
}

func (s *Specification) Type() reflect.Type { return s.typ }
func (s *Specification) SpecID() oid.SpecID { return s.id }
func (s *Specification) State() State       { return State(s.state.Load()) }

// FullName is the import path qualified type name.
func (s *Specification) FullName() string {
	if p := s.typ.PkgPath(); p != "" {
		return p + "." + s.typ.Name()
	}
	return s.typ.String()
}

// ShortName is the unqualified type name.
func (s *Specification) ShortName() string {
	if n := s.typ.Name(); n != "" {
		return n
	}
	return s.typ.String()
}

// SingularName is the Named facet or the humanized short name.
func (s *Specification) SingularName() string {
	if n, ok := facet.Lookup[*facets.Named](s, facets.NamedType); ok {
		return n.Name
	}
	return Humanize(s.ShortName())
}

// Description is the DescribedAs facet, if any.
func (s *Specification) Description() string {
	if d, ok := facet.Lookup[*facets.DescribedAs](s, facets.DescribedAsType); ok {
		return d.Description
	}
	return ""
}

// BeginIntrospection claims the introspection of s. Exactly one caller
// ever gets true.
func (s *Specification) BeginIntrospection() bool {
	return s.state.CompareAndSwap(int32(NotIntrospected), int32(Introspecting))
}

// FinishIntrospection publishes the outcome and releases waiters. It must be
// called exactly once by the caller that won BeginIntrospection.
func (s *Specification) FinishIntrospection(err error) {
	s.err = err
	s.state.Store(int32(Introspected))
	close(s.done)
}

// Done is closed once introspection finished.
func (s *Specification) Done() <-chan struct{} { return s.done }

// Err is the introspection error. Only meaningful after Done.
func (s *Specification) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// IsIntrospected reports whether introspection completed.
func (s *Specification) IsIntrospected() bool { return s.State() == Introspected }

// SetMembers installs the introspected members.
func (s *Specification) SetMembers(props []*Property, colls []*Collection, actions []*Action, consumed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties, s.collections, s.actions, s.consumed = props, colls, actions, consumed
}

// SetSuperclass links s below super.
func (s *Specification) SetSuperclass(super *Specification) {
	s.mu.Lock()
	s.superclass = super
	s.mu.Unlock()
	if super != nil {
		super.addSubclass(s)
	}
}

// AddInterface records that s implements the interface specification i.
func (s *Specification) AddInterface(i *Specification) {
	s.mu.Lock()
	if !slices.Contains(s.interfaces, i) {
		s.interfaces = append(s.interfaces, i)
	}
	s.mu.Unlock()
	i.addSubclass(s)
}

func (s *Specification) addSubclass(sub *Specification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.subclasses, sub) {
		s.subclasses = append(s.subclasses, sub)
	}
}

func (s *Specification) Superclass() *Specification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.superclass
}

func (s *Specification) Interfaces() []*Specification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.interfaces)
}

func (s *Specification) Subclasses() []*Specification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.subclasses)
}

func (s *Specification) Properties() []*Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.properties)
}

func (s *Specification) Collections() []*Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.collections)
}

func (s *Specification) Actions() []*Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.actions)
}

// ConsumedMethods lists the methods interpreted as something other than
// actions during introspection.
func (s *Specification) ConsumedMethods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.consumed)
}

// Property returns the property called id.
func (s *Specification) Property(id string) (*Property, bool) {
	for _, p := range s.Properties() {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Collection returns the collection called id.
func (s *Specification) Collection(id string) (*Collection, bool) {
	for _, c := range s.Collections() {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Action returns the action called id.
func (s *Specification) Action(id string) (*Action, bool) {
	for _, a := range s.Actions() {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// IsValue reports value semantics.
func (s *Specification) IsValue() bool { return s.ContainsFacet(facets.ValueType) }

// IsParented reports an aggregated type.
func (s *Specification) IsParented() bool { return s.ContainsFacet(facets.ParentedType) }

// IsService reports a registered domain service.
func (s *Specification) IsService() bool { return s.ContainsFacet(facets.ServiceType) }

// IsCollection reports a slice, array or map type.
func (s *Specification) IsCollection() bool { return s.ContainsFacet(facets.TypeOfType) }

// IsAbstract reports an interface specification.
func (s *Specification) IsAbstract() bool { return s.typ.Kind() == reflect.Interface }

// ElementType is the element type of a collection specification.
func (s *Specification) ElementType() reflect.Type {
	if t, ok := facet.Lookup[*facets.TypeOf](s, facets.TypeOfType); ok {
		return t.Elem
	}
	return nil
}

// IsOfType reports whether s is other or inherits from it.
func (s *Specification) IsOfType(other *Specification) bool {
	if s == other {
		return true
	}
	for _, i := range s.Interfaces() {
		if i == other {
			return true
		}
	}
	if sup := s.Superclass(); sup != nil {
		return sup.IsOfType(other)
	}
	return false
}

// Title renders pojo through its Title facet, falling back to the
// singular name.
func (s *Specification) Title(pojo any) string {
	if t, ok := facet.Lookup[*facets.Title](s, facets.TitleType); ok {
		if v := t.Title(pojo); v != "" {
			return v
		}
	}
	return s.SingularName()
}

// Ensure Specification is a facet.Holder.
var _ facet.Holder = (*Specification)(nil)
