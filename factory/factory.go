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

// Package factory turns the methods of a domain type into facets.
//
// A Pipeline runs Factories over one holder at a time: the class itself,
// each association (property or collection) and each action. Factories
// consume the methods they interpret through the MethodRemover, so that the
// builder's action discovery only sees what is left. Companion methods
// (HideFoo, ValidateFoo, ...) are described by the Convention table.
package factory

import (
	"reflect"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	uref "dirpx.dev/causeway/utils/reflect"
)

// Factory contributes facets to the holders of the given kinds.
type Factory interface {
	// Name identifies the factory in diagnostics.
	Name() string
	// Kinds lists the holder kinds the factory processes.
	Kinds() Kind
	// Process inspects pc and installs facets on pc.Holder.
	Process(pc *ProcessContext) error
}

// Func adapts a function to Factory.
type Func struct {
	name  string
	kinds Kind
	fn    func(pc *ProcessContext) error
}

// NewFunc returns a Factory calling fn for holders of kinds.
func NewFunc(name string, kinds Kind, fn func(pc *ProcessContext) error) Func {
	return Func{name: name, kinds: kinds, fn: fn}
}

func (f Func) Name() string                     { return f.name }
func (f Func) Kinds() Kind                      { return f.kinds }
func (f Func) Process(pc *ProcessContext) error { return f.fn(pc) }

// Pipeline is an immutable ordered list of factories.
type Pipeline struct {
	factories []Factory
}

// NewPipeline returns a pipeline running fs in order. Nil factories are ignored.
func NewPipeline(fs ...Factory) *Pipeline {
	out := make([]Factory, 0, len(fs))
	for _, f := range fs {
		if f != nil {
			out = append(out, f)
		}
	}
	return &Pipeline{factories: out}
}

// DefaultPipeline returns the standard factories in their fixed order.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		NewFunc("markers", KindClass, markers),
		NewFunc("value", KindClass, value),
		NewFunc("parented", KindClass, parented),
		NewFunc("title", KindClass, title),
		NewFunc("lifecycle", KindClass, lifecycle),
		NewFunc("callbacks", KindClass, callbacks),
		NewFunc("accessor", KindAssociation, accessor),
		NewFunc("action-invocation", KindAction, actionInvocation),
		NewFunc("conventions", KindMember, applyConventions),
		NewFunc("property-inference", KindProperty, propertyInference),
	)
}

// Factories returns the factories in order.
func (p *Pipeline) Factories() []Factory {
	out := make([]Factory, len(p.factories))
	copy(out, p.factories)
	return out
}

// Process runs every factory accepting pc.Kind. The first error aborts.
func (p *Pipeline) Process(pc *ProcessContext) error {
	for _, f := range p.factories {
		if !f.Kinds().Has(pc.Kind) {
			continue
		}
		if err := f.Process(pc); err != nil {
			return err
		}
	}
	return nil
}

// markerMethods are interface methods with no metamodel meaning of their own.
var markerMethods = []string{
	"ObjectType", "Aggregated", "MarshalText", "UnmarshalText",
	"MarshalJSON", "UnmarshalJSON", "GoString", "Format",
}

func markers(pc *ProcessContext) error {
	for _, name := range markerMethods {
		pc.Remover.Remove(name)
	}
	return nil
}

func value(pc *ProcessContext) error {
	if uref.IsValue(pc.Type) {
		pc.Holder.AddFacet(facets.NewValue(pc.Holder, pc.Type))
	}
	return nil
}

var aggregatedType = reflect.TypeOf((*apis.Aggregated)(nil)).Elem()

func parented(pc *ProcessContext) error {
	if reflect.PointerTo(pc.Type).Implements(aggregatedType) {
		pc.Holder.AddFacet(facets.NewParented(pc.Holder))
	}
	return nil
}

// title prefers Title() and falls back to String().
func title(pc *ProcessContext) error {
	for _, c := range []struct {
		name string
		prec facet.Precedence
	}{{"Title", facet.Default}, {"String", facet.Fallback}} {
		m, ok := pc.Remover.Lookup(c.name)
		if !ok {
			continue
		}
		if len(ins(m)) != 0 || !returnsString(pc, m, -1) {
			if c.name == "String" {
				continue
			}
			return NewBuildError(pc.Type, "", c.name, ErrSignature, "title must be func() string")
		}
		pc.Remover.Remove(c.name)
		pc.Holder.AddFacet(facets.NewTitle(pc.Holder, m.Ref(), c.prec))
	}
	return nil
}

func lifecycle(pc *ProcessContext) error {
	if m, ok := pc.Remover.Lookup("PostConstruct"); ok {
		p := ins(m)
		if !(len(p) == 0 || len(p) == 1 && p[0] == propsType) || !noneOrError(pc, m, -1) {
			return NewBuildError(pc.Type, "", m.Name, ErrLifecycleArity, "want PostConstruct() or PostConstruct(map[string]string), got %s", m.Type)
		}
		pc.Remover.Remove(m.Name)
		pc.Holder.AddFacet(facets.NewPostConstruct(pc.Holder, m.Ref()))
	}
	if m, ok := pc.Remover.Lookup("PreDestroy"); ok {
		if len(ins(m)) != 0 || !noneOrError(pc, m, -1) {
			return NewBuildError(pc.Type, "", m.Name, ErrLifecycleArity, "want PreDestroy(), got %s", m.Type)
		}
		pc.Remover.Remove(m.Name)
		pc.Holder.AddFacet(facets.NewPreDestroy(pc.Holder, m.Ref()))
	}
	return nil
}

func callbacks(pc *ProcessContext) error {
	for _, e := range facets.CallbackEvents {
		m, ok := pc.Remover.Lookup(string(e))
		if !ok {
			continue
		}
		if len(ins(m)) != 0 || !noneOrError(pc, m, -1) {
			return NewBuildError(pc.Type, "", m.Name, ErrLifecycleArity, "callback %s must take no arguments, got %s", e, m.Type)
		}
		pc.Remover.Remove(m.Name)
		pc.Holder.AddFacet(facets.NewCallback(pc.Holder, e, m.Ref()))
	}
	return nil
}

func accessor(pc *ProcessContext) error {
	pc.Remover.Remove(pc.Method.Name)
	pc.Holder.AddFacet(facets.NewAccessor(pc.Holder, pc.Method.Ref()))
	if pc.Kind == KindCollection {
		pc.Holder.AddFacet(facets.NewTypeOf(pc.Holder, uref.CollectionElem(pc.Method.Type.Out(0)), facet.Default))
	}
	return nil
}

func actionInvocation(pc *ProcessContext) error {
	pc.Remover.Remove(pc.Method.Name)
	inv := facets.NewActionInvocation(pc.Holder, pc.Method.Ref())
	pc.Holder.AddFacet(inv)
	if rt := inv.ReturnType(); uref.IsCollection(rt) {
		pc.Holder.AddFacet(facets.NewTypeOf(pc.Holder, uref.CollectionElem(rt), facet.Derived))
	}
	if pc.Method.Mixin != nil {
		pc.Holder.AddFacet(facets.NewMixin(pc.Holder, pc.Method.From))
	}
	return nil
}

func applyConventions(pc *ProcessContext) error {
	for _, c := range conventions {
		if err := c.Apply(pc); err != nil {
			return err
		}
	}
	return nil
}

// propertyInference completes a property after its companions:
//   - SetFoo without ClearFoo gets a clear facet that calls the setter
//     with the zero value;
//   - ModifyFoo without SetFoo is editable but not persisted;
//   - neither makes the property derived: disabled and not persisted.
func propertyInference(pc *ProcessContext) error {
	setterName := "Set" + pc.MemberID
	hasSetter := pc.Remover.IsConsumed(setterName)
	hasModify := pc.Remover.IsConsumed("Modify" + pc.MemberID)

	if hasSetter && !pc.Holder.ContainsFacet(facets.ClearType) {
		if m, ok := reflect.PointerTo(pc.Type).MethodByName(setterName); ok {
			pc.Holder.AddFacet(facets.NewClearViaSetter(pc.Holder, facets.NewMethodRef(m)))
		}
	}
	switch {
	case hasModify && !hasSetter:
		pc.Holder.AddFacet(facets.NewNotPersisted(pc.Holder, true, "Modify"+pc.MemberID))
	case !hasModify && !hasSetter:
		pc.Holder.AddFacet(facets.NewNotPersisted(pc.Holder, true, pc.Method.Name))
		pc.Holder.AddFacet(facets.NewDisabled(pc.Holder, "Derived property", pc.Method.Name))
	}
	return nil
}
