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

// Package adapter binds domain objects (pojos) to their identity and
// lifecycle state and keeps the per-session identity maps.
package adapter

import (
	"fmt"
	"sync/atomic"

	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/spec"
)

// identity is never mutated once published.
type identity struct {
	pojo  any
	oid   oid.Oid
	state ResolveState
}

// ObjectAdapter wraps one pojo with its Oid and ResolveState.
type ObjectAdapter struct {
	spec *spec.Specification
	id   atomic.Pointer[identity]
}

// NewObjectAdapter returns an adapter in state New.
func NewObjectAdapter(pojo any, o oid.Oid, s *spec.Specification) *ObjectAdapter {
	a := &ObjectAdapter{spec: s}
	a.id.Store(&identity{pojo: pojo, oid: o, state: New})
	return a
}

func (a *ObjectAdapter) Pojo() any                          { return a.id.Load().pojo }
func (a *ObjectAdapter) Oid() oid.Oid                       { return a.id.Load().oid }
func (a *ObjectAdapter) State() ResolveState                { return a.id.Load().state }
func (a *ObjectAdapter) Specification() *spec.Specification { return a.spec }

// Version is the version carried by the root of the adapter's Oid.
func (a *ObjectAdapter) Version() *oid.Version {
	if o := a.Oid(); o != nil {
		return o.Root().Version()
	}
	return nil
}

// IsTransient reports whether the adapter's Oid is transient.
func (a *ObjectAdapter) IsTransient() bool {
	o := a.Oid()
	return o != nil && o.IsTransient()
}

// IsPersistent reports whether the adapter's Oid is persistent.
func (a *ObjectAdapter) IsPersistent() bool {
	o := a.Oid()
	return o != nil && o.IsPersistent()
}

// IsValue reports standalone value adapters.
func (a *ObjectAdapter) IsValue() bool { return a.State() == Value }

// IsParented reports adapters identified relative to a parent root.
func (a *ObjectAdapter) IsParented() bool {
	switch a.Oid().(type) {
	case oid.AggregatedOid, oid.CollectionOid:
		return true
	}
	return false
}

// IsCollection reports collection adapters.
func (a *ObjectAdapter) IsCollection() bool {
	_, ok := a.Oid().(oid.CollectionOid)
	return ok
}

// RootOid returns the adapter's Oid when it is a root.
func (a *ObjectAdapter) RootOid() (oid.RootOid, bool) {
	r, ok := a.Oid().(oid.RootOid)
	return r, ok
}

// Title renders the pojo through its specification.
func (a *ObjectAdapter) Title() string {
	if a.spec == nil {
		return fmt.Sprint(a.Pojo())
	}
	return a.spec.Title(a.Pojo())
}

// ChangeState moves the adapter to next. Illegal transitions panic with
// *AssertionError.
func (a *ObjectAdapter) ChangeState(next ResolveState) {
	cur := a.id.Load()
	assertf(cur.state.CanChangeTo(next), "%s: illegal state change %s -> %s", a, cur.state, next)
	a.id.Store(&identity{pojo: cur.pojo, oid: cur.oid, state: next})
}

func (a *ObjectAdapter) replaceOid(o oid.Oid) {
	cur := a.id.Load()
	a.id.Store(&identity{pojo: cur.pojo, oid: o, state: cur.state})
}

func (a *ObjectAdapter) replacePojo(pojo any) {
	cur := a.id.Load()
	a.id.Store(&identity{pojo: pojo, oid: cur.oid, state: cur.state})
}

func (a *ObjectAdapter) String() string {
	id := a.id.Load()
	if id.oid == nil {
		return fmt.Sprintf("adapter[%T %s]", id.pojo, id.state)
	}
	return fmt.Sprintf("adapter[%s %s]", id.oid, id.state)
}
