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
	"encoding"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/oid"
)

// Value marks a type with value semantics: instances are never mapped by
// identity and are adapted standalone.
type Value struct {
	facet.Base
	Of reflect.Type
}

// NewValue returns the value facet for t.
func NewValue(h facet.Holder, t reflect.Type) *Value {
	return &Value{Base: facet.NewBase(ValueType, h, facet.Default), Of: t}
}

// Encode renders v in its text form.
func (f *Value) Encode(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		return string(b), err
	case []byte:
		return string(x), nil
	}
	return fmt.Sprint(v), nil
}

// Decode parses s into a new value of the facet's type.
func (f *Value) Decode(s string) (any, error) {
	p := reflect.New(f.Of)
	if u, ok := p.Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return nil, errors.Wrapf(err, "decode %s", f.Of)
		}
		return p.Elem().Interface(), nil
	}
	switch f.Of.Kind() {
	case reflect.String:
		p.Elem().SetString(s)
	case reflect.Slice:
		p.Elem().SetBytes([]byte(s))
	default:
		if _, err := fmt.Sscan(s, p.Interface()); err != nil {
			return nil, errors.Wrapf(err, "decode %s", f.Of)
		}
	}
	return p.Elem().Interface(), nil
}

// Parented marks an aggregated type: its instances are owned by a root.
type Parented struct {
	facet.Base
}

// NewParented returns the parented facet.
func NewParented(h facet.Holder) *Parented {
	return &Parented{Base: facet.NewBase(ParentedType, h, facet.Default, "Aggregated")}
}

// TypeOf records the element type of a collection member or of a
// collection-returning action.
type TypeOf struct {
	facet.Base
	Elem reflect.Type
}

// NewTypeOf returns the element type facet.
func NewTypeOf(h facet.Holder, elem reflect.Type, p facet.Precedence) *TypeOf {
	return &TypeOf{Base: facet.NewBase(TypeOfType, h, p), Elem: elem}
}

// ObjectType records the logical type name of a specification.
type ObjectType struct {
	facet.Base
	SpecID oid.SpecID
}

// NewObjectType returns the object type facet. Explicit names come from
// ObjectType() or the registry, derived ones from reflection.
func NewObjectType(h facet.Holder, id oid.SpecID, p facet.Precedence) *ObjectType {
	return &ObjectType{Base: facet.NewBase(ObjectTypeType, h, p), SpecID: id}
}

// Title renders an instance through its Title() method.
type Title struct {
	facet.Base
	Method MethodRef
}

// NewTitle returns the title facet. String() backed titles use
// facet.Fallback so that Title() always wins.
func NewTitle(h facet.Holder, m MethodRef, p facet.Precedence) *Title {
	return &Title{Base: facet.NewBase(TitleType, h, p, m.Name), Method: m}
}

// Title returns the title of pojo, or "" if it cannot be rendered.
func (f *Title) Title(pojo any) string {
	out, err := f.Method.Call(pojo)
	if err != nil {
		return ""
	}
	return firstString(out)
}

// Service marks the specification of a registered domain service.
type Service struct {
	facet.Base
}

// NewService returns the service facet.
func NewService(h facet.Holder) *Service {
	return &Service{Base: facet.NewBase(ServiceType, h, facet.Explicit)}
}

// Mixin marks an action contributed by a mixin type.
type Mixin struct {
	facet.Base
	From reflect.Type
}

// NewMixin returns the mixin facet of a contributed action.
func NewMixin(h facet.Holder, from reflect.Type) *Mixin {
	return &Mixin{Base: facet.NewBase(MixinType, h, facet.Default), From: from}
}
