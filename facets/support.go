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
	"dirpx.dev/causeway/facet"
)

// Default supplies the default value of a property or action parameter.
type Default struct {
	facet.Base
	Method MethodRef
}

// NewDefault returns the facet for DefaultFoo (t is DefaultType or
// ParamDefaultType).
func NewDefault(t facet.Type, h facet.Holder, m MethodRef) *Default {
	return &Default{Base: facet.NewBase(t, h, facet.Default, m.Name), Method: m}
}

// Default returns the default value for target.
func (f *Default) Default(target any) (any, error) {
	out, err := f.Method.Call(target)
	if err != nil {
		return nil, err
	}
	return out[0].Interface(), nil
}

// Choices enumerates the allowed values of a property or parameter.
type Choices struct {
	facet.Base
	Method MethodRef
}

// NewChoices returns the facet for ChoicesFoo (t is ChoicesType or
// ParamChoicesType).
func NewChoices(t facet.Type, h facet.Holder, m MethodRef) *Choices {
	return &Choices{Base: facet.NewBase(t, h, facet.Default, m.Name), Method: m}
}

// Choices returns the candidate values for target.
func (f *Choices) Choices(target any) ([]any, error) {
	out, err := f.Method.Call(target)
	if err != nil {
		return nil, err
	}
	return toSlice(out[0]), nil
}

// AutoComplete searches candidate values.
type AutoComplete struct {
	facet.Base
	Method MethodRef
}

// NewAutoComplete returns the facet for AutoCompleteFoo (t is
// AutoCompleteType or ParamAutoCompleteType).
func NewAutoComplete(t facet.Type, h facet.Holder, m MethodRef) *AutoComplete {
	return &AutoComplete{Base: facet.NewBase(t, h, facet.Default, m.Name), Method: m}
}

// AutoComplete returns the candidates matching search on target.
func (f *AutoComplete) AutoComplete(target any, search string) ([]any, error) {
	out, err := f.Method.Call(target, search)
	if err != nil {
		return nil, err
	}
	return toSlice(out[0]), nil
}

// Validate vetoes a proposed property value or collection element through
// ValidateFoo, ValidateAddToFoo or ValidateRemoveFromFoo.
type Validate struct {
	facet.Base
	Method MethodRef
}

// NewValidate returns a validating facet of type t.
func NewValidate(t facet.Type, h facet.Holder, m MethodRef) *Validate {
	return &Validate{Base: facet.NewBase(t, h, facet.Default, m.Name), Method: m}
}

func (f *Validate) Invalidates(ic InteractionContext) string {
	out, err := f.Method.Call(ic.Target, ic.Proposed)
	if err != nil {
		return err.Error()
	}
	return firstString(out)
}

// ActionValidate vetoes action arguments through ValidateFoo(args...).
type ActionValidate struct {
	facet.Base
	Method MethodRef
}

// NewActionValidate returns the facet for an action's ValidateFoo.
func NewActionValidate(h facet.Holder, m MethodRef) *ActionValidate {
	return &ActionValidate{Base: facet.NewBase(ActionValidateType, h, facet.Default, m.Name), Method: m}
}

func (f *ActionValidate) Invalidates(ic InteractionContext) string {
	out, err := f.Method.Call(ic.Target, ic.Args...)
	if err != nil {
		return err.Error()
	}
	return firstString(out)
}

// Ensure the validating facets are advisors.
var (
	_ ValidatingAdvisor = (*Validate)(nil)
	_ ValidatingAdvisor = (*ActionValidate)(nil)
)

// Named overrides the derived member or type name.
type Named struct {
	facet.Base
	Name string
}

// NewNamed returns a name facet.
func NewNamed(h facet.Holder, name string, p facet.Precedence, from ...string) *Named {
	return &Named{Base: facet.NewBase(NamedType, h, p, from...), Name: name}
}

// DescribedAs carries a member or type description.
type DescribedAs struct {
	facet.Base
	Description string
}

// NewDescribedAs returns a description facet.
func NewDescribedAs(h facet.Holder, desc string, from ...string) *DescribedAs {
	return &DescribedAs{Base: facet.NewBase(DescribedAsType, h, facet.Default, from...), Description: desc}
}
