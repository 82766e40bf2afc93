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

// Package facet defines the atomic unit of derived metadata (Facet) and the
// holders facets are attached to.
//
// A holder keeps at most one facet per Type. Competing contributions are
// settled by Precedence: a newly added facet replaces the installed one only
// when its precedence is greater or equal, so the last of several equally
// ranked factories wins and a fallback can never displace an explicit facet.
package facet

import (
	"slices"
	"sync"
)

// Type keys a facet inside its holder.
type Type string

func (t Type) String() string { return string(t) }

// Precedence ranks competing facets of the same Type.
type Precedence int8

const (
	// Fallback facets are installed when nothing better exists.
	Fallback Precedence = iota
	// Derived facets are synthesized from another member (e.g. a clear
	// facet built on top of a setter).
	Derived
	// Default facets come from the plain naming conventions.
	Default
	// Explicit facets come from the most specific conventions
	// (e.g. ModifyFoo over SetFoo) and are never displaced by Default.
	Explicit
)

func (p Precedence) String() string {
	switch p {
	case Fallback:
		return "fallback"
	case Derived:
		return "derived"
	case Default:
		return "default"
	case Explicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Facet is one typed piece of behaviour or metadata.
type Facet interface {
	// Type is the key the facet is installed under.
	Type() Type
	// Holder is the specification or member owning the facet.
	Holder() Holder
	// Precedence decides replacement among facets of the same Type.
	Precedence() Precedence
	// DerivedFrom lists the method names the facet was built from.
	DerivedFrom() []string
}

// Holder owns a set of facets, at most one per Type.
type Holder interface {
	// Identifier names the holder in diagnostics ("crm.CUS#FirstName").
	Identifier() string
	// AddFacet installs f unless a facet of higher precedence is present.
	// It reports whether f was installed.
	AddFacet(f Facet) bool
	// Facet returns the installed facet of type t, or nil.
	Facet(t Type) Facet
	// ContainsFacet reports whether a facet of type t is installed.
	ContainsFacet(t Type) bool
	// RemoveFacet uninstalls and returns the facet of type t, if any.
	RemoveFacet(t Type) Facet
	// FacetTypes lists installed types in installation order.
	FacetTypes() []Type
	// Facets lists installed facets in installation order.
	Facets() []Facet
}

// Registry is the standard Holder implementation. Reads are safe for
// concurrent use; writes happen during introspection.
type Registry struct {
	id    string
	mu    sync.RWMutex
	m     map[Type]Facet
	order []Type
}

// Ensure Registry implements Holder.
var _ Holder = (*Registry)(nil)

// NewRegistry returns an empty holder identified by id.
func NewRegistry(id string) *Registry {
	return &Registry{id: id, m: make(map[Type]Facet)}
}

func (r *Registry) Identifier() string { return r.id }

func (r *Registry) AddFacet(f Facet) bool {
	if f == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := f.Type()
	if cur, ok := r.m[t]; ok {
		if f.Precedence() < cur.Precedence() {
			return false
		}
	} else {
		r.order = append(r.order, t)
	}
	r.m[t] = f
	return true
}

func (r *Registry) Facet(t Type) Facet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m[t]
}

func (r *Registry) ContainsFacet(t Type) bool {
	return r.Facet(t) != nil
}

func (r *Registry) RemoveFacet(t Type) Facet {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.m[t]
	if !ok {
		return nil
	}
	delete(r.m, t)
	r.order = slices.DeleteFunc(r.order, func(x Type) bool { return x == t })
	return f
}

func (r *Registry) FacetTypes() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) Facets() []Facet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Facet, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.m[t])
	}
	return out
}

// Base carries the common Facet fields and is embedded by concrete facets.
type Base struct {
	typ    Type
	holder Holder
	prec   Precedence
	from   []string
}

// NewBase builds the embedded part of a facet.
func NewBase(t Type, h Holder, p Precedence, derivedFrom ...string) Base {
	return Base{typ: t, holder: h, prec: p, from: derivedFrom}
}

func (b Base) Type() Type             { return b.typ }
func (b Base) Holder() Holder         { return b.holder }
func (b Base) Precedence() Precedence { return b.prec }
func (b Base) DerivedFrom() []string  { return slices.Clone(b.from) }

// Lookup returns the facet of type t on h asserted to F.
func Lookup[F any](h Holder, t Type) (F, bool) {
	var zero F
	if h == nil {
		return zero, false
	}
	f, ok := h.Facet(t).(F)
	if !ok {
		return zero, false
	}
	return f, true
}

// Find returns every installed facet on h implementing F, in
// installation order. Used for advisor lookups spanning several types.
func Find[F any](h Holder) []F {
	if h == nil {
		return nil
	}
	var out []F
	for _, f := range h.Facets() {
		if a, ok := f.(F); ok {
			out = append(out, a)
		}
	}
	return out
}
