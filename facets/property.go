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

package facets

import (
	"reflect"

	"dirpx.dev/causeway/facet"
)

// Accessor reads a property or collection.
type Accessor struct {
	facet.Base
	Method MethodRef
}

// NewAccessor returns the accessor facet for a GetFoo method.
func NewAccessor(h facet.Holder, m MethodRef) *Accessor {
	return &Accessor{Base: facet.NewBase(AccessorType, h, facet.Default, m.Name), Method: m}
}

// ReturnType is the declared type of the member.
func (f *Accessor) ReturnType() reflect.Type { return f.Method.Out(0) }

// Get returns the current value on target.
func (f *Accessor) Get(target any) (any, error) {
	out, err := f.Method.Call(target)
	if err != nil {
		return nil, err
	}
	return out[0].Interface(), nil
}

// SetterKind tells a plain setter from a modify method.
type SetterKind int8

const (
	// SetterKindSetter is derived from SetFoo.
	SetterKindSetter SetterKind = iota
	// SetterKindModify is derived from ModifyFoo.
	SetterKindModify
)

func (k SetterKind) String() string {
	if k == SetterKindModify {
		return "modify"
	}
	return "setter"
}

// Setter assigns a property.
type Setter struct {
	facet.Base
	Kind   SetterKind
	Method MethodRef
}

// NewSetter returns a setter facet for SetFoo. Modify methods rank higher.
func NewSetter(h facet.Holder, m MethodRef, kind SetterKind) *Setter {
	p := facet.Default
	if kind == SetterKindModify {
		p = facet.Explicit
	}
	return &Setter{Base: facet.NewBase(SetterType, h, p, m.Name), Kind: kind, Method: m}
}

// Set assigns v on target.
func (f *Setter) Set(target, v any) error {
	out, err := f.Method.Call(target, v)
	if err != nil {
		return err
	}
	return resultError(out)
}

// ClearKind tells an explicit ClearFoo from one synthesized over the setter.
type ClearKind int8

const (
	// ClearKindExplicit is derived from ClearFoo.
	ClearKindExplicit ClearKind = iota
	// ClearKindViaSetter invokes the setter with the zero value.
	ClearKindViaSetter
)

func (k ClearKind) String() string {
	if k == ClearKindViaSetter {
		return "via-setter"
	}
	return "explicit"
}

// Clear resets a property.
type Clear struct {
	facet.Base
	Kind   ClearKind
	Method MethodRef
}

// NewClear returns the facet for an explicit ClearFoo method.
func NewClear(h facet.Holder, m MethodRef) *Clear {
	return &Clear{Base: facet.NewBase(ClearType, h, facet.Default, m.Name), Kind: ClearKindExplicit, Method: m}
}

// NewClearViaSetter synthesizes a clear facet that calls setter with nil.
func NewClearViaSetter(h facet.Holder, setter MethodRef) *Clear {
	return &Clear{Base: facet.NewBase(ClearType, h, facet.Derived, setter.Name), Kind: ClearKindViaSetter, Method: setter}
}

// Clear resets the property on target.
func (f *Clear) Clear(target any) error {
	var (
		out []reflect.Value
		err error
	)
	if f.Kind == ClearKindViaSetter {
		out, err = f.Method.Call(target, nil)
	} else {
		out, err = f.Method.Call(target)
	}
	if err != nil {
		return err
	}
	return resultError(out)
}

// NotPersisted flags a member that is not part of the persisted state.
// Inferred is set when the flag was deduced (modify method, no setter).
type NotPersisted struct {
	facet.Base
	Inferred bool
}

// NewNotPersisted returns a not-persisted facet.
func NewNotPersisted(h facet.Holder, inferred bool, from ...string) *NotPersisted {
	p := facet.Default
	if inferred {
		p = facet.Derived
	}
	return &NotPersisted{Base: facet.NewBase(NotPersistedType, h, p, from...), Inferred: inferred}
}

// Collection operations.

// AddTo adds an element to a collection.
type AddTo struct {
	facet.Base
	Method MethodRef
}

// NewAddTo returns the facet for AddToFoo.
func NewAddTo(h facet.Holder, m MethodRef) *AddTo {
	return &AddTo{Base: facet.NewBase(AddToType, h, facet.Default, m.Name), Method: m}
}

// Add adds elem on target.
func (f *AddTo) Add(target, elem any) error {
	out, err := f.Method.Call(target, elem)
	if err != nil {
		return err
	}
	return resultError(out)
}

// RemoveFrom removes an element from a collection.
type RemoveFrom struct {
	facet.Base
	Method MethodRef
}

// NewRemoveFrom returns the facet for RemoveFromFoo.
func NewRemoveFrom(h facet.Holder, m MethodRef) *RemoveFrom {
	return &RemoveFrom{Base: facet.NewBase(RemoveFromType, h, facet.Default, m.Name), Method: m}
}

// Remove removes elem on target.
func (f *RemoveFrom) Remove(target, elem any) error {
	out, err := f.Method.Call(target, elem)
	if err != nil {
		return err
	}
	return resultError(out)
}
