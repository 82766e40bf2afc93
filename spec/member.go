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

package spec

import (
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
)

// MemberKind tells properties, collections and actions apart.
type MemberKind int8

const (
	PropertyMember MemberKind = iota
	CollectionMember
	ActionMember
)

func (k MemberKind) String() string {
	switch k {
	case PropertyMember:
		return "property"
	case CollectionMember:
		return "collection"
	default:
		return "action"
	}
}

// Member is the part shared by properties, collections and actions.
type Member struct {
	*facet.Registry
	id    string
	kind  MemberKind
	owner *Specification
}

func newMember(owner *Specification, id string, kind MemberKind) Member {
	return Member{
		Registry: facet.NewRegistry(string(owner.SpecID()) + "#" + id),
		id:       id,
		kind:     kind,
		owner:    owner,
	}
}

func (m *Member) ID() string            { return m.id }
func (m *Member) Kind() MemberKind      { return m.kind }
func (m *Member) Owner() *Specification { return m.owner }

// Name is the Named facet or the humanized id.
func (m *Member) Name() string {
	if n, ok := facet.Lookup[*facets.Named](m, facets.NamedType); ok {
		return n.Name
	}
	return Humanize(m.id)
}

// Description is the DescribedAs facet, if any.
func (m *Member) Description() string {
	if d, ok := facet.Lookup[*facets.DescribedAs](m, facets.DescribedAsType); ok {
		return d.Description
	}
	return ""
}

// Hidden returns the first hiding reason, or "" when visible.
func (m *Member) Hidden(ic facets.InteractionContext) string {
	for _, a := range facet.Find[facets.HidingAdvisor](m) {
		if r := a.Hides(ic); r != "" {
			return r
		}
	}
	return ""
}

// Disabled returns the first disabling reason, or "" when usable.
func (m *Member) Disabled(ic facets.InteractionContext) string {
	for _, a := range facet.Find[facets.DisablingAdvisor](m) {
		if r := a.Disables(ic); r != "" {
			return r
		}
	}
	return ""
}

// invalid returns the first veto among validating facets of types ts.
func (m *Member) invalid(ic facets.InteractionContext, ts ...facet.Type) string {
	for _, t := range ts {
		if v, ok := facet.Lookup[facets.ValidatingAdvisor](m, t); ok {
			if r := v.Invalidates(ic); r != "" {
				return r
			}
		}
	}
	return ""
}

// usable vetoes hidden or disabled interactions.
func (m *Member) usable(ic facets.InteractionContext) error {
	if r := m.Hidden(ic); r != "" {
		return &VetoError{Member: m.Registry.Identifier(), Reason: r, Err: ErrHidden}
	}
	if r := m.Disabled(ic); r != "" {
		return &VetoError{Member: m.Registry.Identifier(), Reason: r, Err: ErrDisabled}
	}
	return nil
}

func (m *Member) unsupported(op string) error {
	return errors.Wrapf(ErrUnsupported, "%s %s", m.Registry.Identifier(), op)
}

// Property is a single-valued association.
type Property struct {
	Member
	typ  reflect.Type
	spec *Specification
}

// NewProperty returns a property of owner with value type t.
func NewProperty(owner *Specification, id string, t reflect.Type) *Property {
	return &Property{Member: newMember(owner, id, PropertyMember), typ: t}
}

func (p *Property) Type() reflect.Type { return p.typ }

// Spec is the specification of the value type, set during introspection.
func (p *Property) Spec() *Specification     { return p.spec }
func (p *Property) SetSpec(s *Specification) { p.spec = s }

// IsNotPersisted reports a property excluded from persisted state.
func (p *Property) IsNotPersisted() bool { return p.ContainsFacet(facets.NotPersistedType) }

// Get reads the property.
func (p *Property) Get(target any) (any, error) {
	a, ok := facet.Lookup[*facets.Accessor](p, facets.AccessorType)
	if !ok {
		return nil, p.unsupported("get")
	}
	return a.Get(target)
}

// Set assigns v without consulting visibility or validation.
func (p *Property) Set(target, v any) error {
	s, ok := facet.Lookup[*facets.Setter](p, facets.SetterType)
	if !ok {
		return p.unsupported("set")
	}
	return s.Set(target, v)
}

// Clear resets the property.
func (p *Property) Clear(target any) error {
	c, ok := facet.Lookup[*facets.Clear](p, facets.ClearType)
	if !ok {
		return p.unsupported("clear")
	}
	return c.Clear(target)
}

// Validate returns the veto for ic.Proposed, or "".
func (p *Property) Validate(ic facets.InteractionContext) string {
	return p.invalid(ic, facets.ValidateType)
}

// Modify is the user interaction: visibility, usability and validation are
// checked before ic.Proposed is assigned to ic.Target. A nil proposal clears.
func (p *Property) Modify(ic facets.InteractionContext) error {
	if err := p.usable(ic); err != nil {
		return err
	}
	if r := p.Validate(ic); r != "" {
		return &VetoError{Member: p.Registry.Identifier(), Reason: r, Err: ErrInvalid}
	}
	if ic.Proposed == nil && p.ContainsFacet(facets.ClearType) {
		return p.Clear(ic.Target)
	}
	return p.Set(ic.Target, ic.Proposed)
}

// Default returns the default value, or nil.
func (p *Property) Default(target any) (any, error) {
	if d, ok := facet.Lookup[*facets.Default](p, facets.DefaultType); ok {
		return d.Default(target)
	}
	return nil, nil
}

// Choices returns the allowed values, or nil.
func (p *Property) Choices(target any) ([]any, error) {
	if c, ok := facet.Lookup[*facets.Choices](p, facets.ChoicesType); ok {
		return c.Choices(target)
	}
	return nil, nil
}

// AutoComplete returns the candidates for search, or nil.
func (p *Property) AutoComplete(target any, search string) ([]any, error) {
	if c, ok := facet.Lookup[*facets.AutoComplete](p, facets.AutoCompleteType); ok {
		return c.AutoComplete(target, search)
	}
	return nil, nil
}

// Collection is a one-to-many association.
type Collection struct {
	Member
	typ  reflect.Type
	spec *Specification
}

// NewCollection returns a collection of owner with container type t.
func NewCollection(owner *Specification, id string, t reflect.Type) *Collection {
	return &Collection{Member: newMember(owner, id, CollectionMember), typ: t}
}

func (c *Collection) Type() reflect.Type { return c.typ }

// ElementType is the declared element type.
func (c *Collection) ElementType() reflect.Type {
	if t, ok := facet.Lookup[*facets.TypeOf](c, facets.TypeOfType); ok {
		return t.Elem
	}
	return c.typ.Elem()
}

// ElementSpec is the specification of the element type.
func (c *Collection) ElementSpec() *Specification     { return c.spec }
func (c *Collection) SetElementSpec(s *Specification) { c.spec = s }

// Get reads the collection container.
func (c *Collection) Get(target any) (any, error) {
	a, ok := facet.Lookup[*facets.Accessor](c, facets.AccessorType)
	if !ok {
		return nil, c.unsupported("get")
	}
	return a.Get(target)
}

// Elements reads the collection as a slice. Map collections yield values.
func (c *Collection) Elements(target any) ([]any, error) {
	v, err := c.Get(target)
	if err != nil || v == nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make([]any, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out = append(out, it.Value().Interface())
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, c.unsupported("iterate")
}

// Add validates and adds elem.
func (c *Collection) Add(ic facets.InteractionContext) error {
	if err := c.usable(ic); err != nil {
		return err
	}
	if r := c.invalid(ic, facets.ValidateAddToType); r != "" {
		return &VetoError{Member: c.Registry.Identifier(), Reason: r, Err: ErrInvalid}
	}
	f, ok := facet.Lookup[*facets.AddTo](c, facets.AddToType)
	if !ok {
		return c.unsupported("add")
	}
	return f.Add(ic.Target, ic.Proposed)
}

// Remove validates and removes elem.
func (c *Collection) Remove(ic facets.InteractionContext) error {
	if err := c.usable(ic); err != nil {
		return err
	}
	if r := c.invalid(ic, facets.ValidateRemoveFromType); r != "" {
		return &VetoError{Member: c.Registry.Identifier(), Reason: r, Err: ErrInvalid}
	}
	f, ok := facet.Lookup[*facets.RemoveFrom](c, facets.RemoveFromType)
	if !ok {
		return c.unsupported("remove")
	}
	return f.Remove(ic.Target, ic.Proposed)
}

// Action is an invocable member.
type Action struct {
	Member
	params     []*Parameter
	returnSpec *Specification
}

// NewAction returns an action of owner.
func NewAction(owner *Specification, id string) *Action {
	return &Action{Member: newMember(owner, id, ActionMember)}
}

// AddParameter appends a parameter of type t and returns it.
func (a *Action) AddParameter(t reflect.Type) *Parameter {
	p := &Parameter{
		Registry: facet.NewRegistry(a.Registry.Identifier() + "." + strconv.Itoa(len(a.params))),
		index:    len(a.params),
		typ:      t,
		action:   a,
	}
	a.params = append(a.params, p)
	return p
}

// Parameters lists the parameters in declaration order.
func (a *Action) Parameters() []*Parameter { return a.params }

// ReturnType is the declared result type, or nil.
func (a *Action) ReturnType() reflect.Type {
	if inv, ok := facet.Lookup[*facets.ActionInvocation](a, facets.ActionInvocationType); ok {
		return inv.ReturnType()
	}
	return nil
}

func (a *Action) ReturnSpec() *Specification     { return a.returnSpec }
func (a *Action) SetReturnSpec(s *Specification) { a.returnSpec = s }

// IsContributed reports an action contributed by a mixin.
func (a *Action) IsContributed() bool { return a.ContainsFacet(facets.MixinType) }

// Validate returns the veto for ic.Args, or "".
func (a *Action) Validate(ic facets.InteractionContext) string {
	return a.invalid(ic, facets.ActionValidateType)
}

// Execute is the user interaction: checks then invocation.
func (a *Action) Execute(ic facets.InteractionContext) (any, error) {
	if err := a.usable(ic); err != nil {
		return nil, err
	}
	if len(ic.Args) != len(a.params) {
		return nil, &VetoError{Member: a.Registry.Identifier(), Reason: "wrong number of arguments", Err: ErrInvalid}
	}
	if r := a.Validate(ic); r != "" {
		return nil, &VetoError{Member: a.Registry.Identifier(), Reason: r, Err: ErrInvalid}
	}
	inv, ok := facet.Lookup[*facets.ActionInvocation](a, facets.ActionInvocationType)
	if !ok {
		return nil, a.unsupported("execute")
	}
	return inv.Invoke(ic.Target, ic.Args...)
}

// Parameter is one action parameter.
type Parameter struct {
	*facet.Registry
	index  int
	typ    reflect.Type
	spec   *Specification
	action *Action
}

func (p *Parameter) Index() int               { return p.index }
func (p *Parameter) Type() reflect.Type       { return p.typ }
func (p *Parameter) Action() *Action          { return p.action }
func (p *Parameter) Spec() *Specification     { return p.spec }
func (p *Parameter) SetSpec(s *Specification) { p.spec = s }

// Name is the Named facet or the humanized type name.
func (p *Parameter) Name() string {
	if n, ok := facet.Lookup[*facets.Named](p, facets.NamedType); ok {
		return n.Name
	}
	if n := p.typ.Name(); n != "" {
		return Humanize(n)
	}
	return "Arg " + strconv.Itoa(p.index)
}

// Default returns the default argument, or nil.
func (p *Parameter) Default(target any) (any, error) {
	if d, ok := facet.Lookup[*facets.Default](p, facets.ParamDefaultType); ok {
		return d.Default(target)
	}
	return nil, nil
}

// Choices returns the allowed arguments, or nil.
func (p *Parameter) Choices(target any) ([]any, error) {
	if c, ok := facet.Lookup[*facets.Choices](p, facets.ParamChoicesType); ok {
		return c.Choices(target)
	}
	return nil, nil
}

// AutoComplete returns the candidate arguments for search, or nil.
func (p *Parameter) AutoComplete(target any, search string) ([]any, error) {
	if c, ok := facet.Lookup[*facets.AutoComplete](p, facets.ParamAutoCompleteType); ok {
		return c.AutoComplete(target, search)
	}
	return nil, nil
}
