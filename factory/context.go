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

package factory

import (
	"reflect"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
)

// Kind is the kind of holder a factory processes.
type Kind uint8

const (
	KindProperty Kind = 1 << iota
	KindCollection
	KindAction
	KindClass

	// KindAssociation is either a property or a collection.
	KindAssociation = KindProperty | KindCollection
	// KindMember is any member.
	KindMember = KindAssociation | KindAction
)

// Has reports whether k includes every kind in o.
func (k Kind) Has(o Kind) bool { return k&o == o && o != 0 }

func (k Kind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindCollection:
		return "collection"
	case KindAction:
		return "action"
	case KindClass:
		return "class"
	default:
		return "mixed"
	}
}

// Method is one candidate method of the type under introspection. Mixin
// is set for methods contributed by a mixin type.
type Method struct {
	reflect.Method
	Mixin func(target reflect.Value) reflect.Value
	From  reflect.Type
}

// Ref returns the invocable reference of m.
func (m Method) Ref() facets.MethodRef {
	r := facets.NewMethodRef(m.Method)
	r.Mixin = m.Mixin
	return r
}

// MethodRemover tracks the methods of a type that are still available for
// interpretation. Factories consume the methods they use so that action
// discovery does not see them again.
type MethodRemover struct {
	mu       sync.Mutex
	methods  map[string]Method
	consumed []string
}

// NewMethodRemover indexes the exported methods of ptr.
func NewMethodRemover(ptr reflect.Type) *MethodRemover {
	r := &MethodRemover{methods: make(map[string]Method, ptr.NumMethod())}
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		r.methods[m.Name] = Method{Method: m, From: ptr}
	}
	return r
}

// AddMixin offers the methods of a mixin type. Names already present on
// the type win.
func (r *MethodRemover) AddMixin(mixin reflect.Type, conv func(reflect.Value) reflect.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < mixin.NumMethod(); i++ {
		m := mixin.Method(i)
		if _, ok := r.methods[m.Name]; ok {
			continue
		}
		r.methods[m.Name] = Method{Method: m, Mixin: conv, From: mixin}
	}
}

// Lookup returns the available method called name.
func (r *MethodRemover) Lookup(name string) (Method, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.methods[name]
	return m, ok
}

// Remove consumes the method called name. It reports whether it was available.
func (r *MethodRemover) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[name]; !ok {
		return false
	}
	delete(r.methods, name)
	r.consumed = append(r.consumed, name)
	return true
}

// Consumed lists consumed method names in consumption order.
func (r *MethodRemover) Consumed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.consumed)
}

// IsConsumed reports whether name was consumed.
func (r *MethodRemover) IsConsumed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.consumed, name)
}

// Remaining lists the available methods sorted by name.
func (r *MethodRemover) Remaining() []Method {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Method, 0, len(r.methods))
	for _, m := range r.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProcessContext is handed to every factory for one holder.
type ProcessContext struct {
	// Type is the struct type under introspection.
	Type reflect.Type
	// Kind is the kind of Holder.
	Kind Kind
	// MemberID is the member name ("FirstName"); empty for KindClass.
	MemberID string
	// Holder receives the facets.
	Holder facet.Holder
	// Method is the primary method of the member: the accessor of an
	// association or the action method itself.
	Method *Method
	// Params holds one facet holder per action parameter.
	Params []facet.Holder
	// Remover tracks available methods.
	Remover *MethodRemover
	// Config carries the build knobs.
	Config apis.Config
	// Logger receives diagnostics.
	Logger *zap.Logger
}

// ValueType is the declared type of a property, the element type of a
// collection or nil for other holders.
func (pc *ProcessContext) ValueType() reflect.Type {
	if pc.Method == nil || pc.Kind&KindAssociation == 0 {
		return nil
	}
	t := pc.Method.Type.Out(0)
	if pc.Kind == KindCollection {
		return t.Elem()
	}
	return t
}

// ParamTypes lists the action parameter types.
func (pc *ProcessContext) ParamTypes() []reflect.Type {
	if pc.Method == nil || pc.Kind != KindAction {
		return nil
	}
	ft := pc.Method.Type
	out := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		out = append(out, ft.In(i))
	}
	return out
}

// zero returns a fresh instance of the type for static companion methods.
func (pc *ProcessContext) zero() any {
	return reflect.New(pc.Type).Interface()
}

func (pc *ProcessContext) logger() *zap.Logger {
	if pc.Logger == nil {
		return zap.NewNop()
	}
	return pc.Logger
}
