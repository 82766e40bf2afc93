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
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
)

// Convention is one row of the companion method table: a method named
// Prefix+Member (or Prefix+N+Member for per-parameter rows) with matching
// parameters and results installs facets on the member. Rows are applied
// in ascending Priority; facet precedence settles overlapping rows.
type Convention struct {
	Name     string
	Prefix   string
	Kinds    Kind
	PerParam bool
	Params   ParamRule
	Returns  ReturnRule
	Priority int
	Install  func(pc *ProcessContext, m Method, param int) error
}

// MethodName returns the companion name for member, and parameter param
// for per-parameter rows.
func (c Convention) MethodName(member string, param int) string {
	if c.PerParam {
		return c.Prefix + strconv.Itoa(param) + member
	}
	return c.Prefix + member
}

// Apply looks up, checks, consumes and installs the companion methods of
// pc's member. A present method with an unfit signature is a BuildError.
func (c Convention) Apply(pc *ProcessContext) error {
	if pc.Kind&c.Kinds == 0 {
		return nil
	}
	indexes := []int{-1}
	if c.PerParam {
		indexes = indexes[:0]
		for i := range pc.Params {
			indexes = append(indexes, i)
		}
	}
	for _, i := range indexes {
		name := c.MethodName(pc.MemberID, i)
		m, ok := pc.Remover.Lookup(name)
		if !ok {
			continue
		}
		if !c.Params(pc, m, i) || !c.Returns(pc, m, i) {
			return NewBuildError(pc.Type, pc.MemberID, name, ErrSignature, "%s convention does not accept %s", c.Name, m.Type)
		}
		pc.Remover.Remove(name)
		if err := c.Install(pc, m, i); err != nil {
			return NewBuildError(pc.Type, pc.MemberID, name, err, "")
		}
		pc.logger().Debug("companion method applied",
			zap.String("type", pc.Type.String()),
			zap.String("member", pc.MemberID),
			zap.String("method", name),
			zap.String("convention", c.Name))
	}
	return nil
}

// holderFor returns the parameter holder for per-parameter rows.
func holderFor(pc *ProcessContext, param int) facet.Holder {
	if param >= 0 {
		return pc.Params[param]
	}
	return pc.Holder
}

// static evaluates a class-level companion on a fresh instance.
func static(pc *ProcessContext, m Method) (reflect.Value, error) {
	out, err := m.Ref().Call(pc.zero())
	if err != nil {
		return reflect.Value{}, err
	}
	return out[0], nil
}

func install(f func(pc *ProcessContext, h facet.Holder, m Method) facet.Facet) func(*ProcessContext, Method, int) error {
	return func(pc *ProcessContext, m Method, param int) error {
		h := holderFor(pc, param)
		h.AddFacet(f(pc, h, m))
		return nil
	}
}

var conventions = []Convention{
	{
		Name: "setter", Prefix: "Set", Kinds: KindProperty, Priority: 10,
		Params: subjectParam, Returns: noneOrError,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewSetter(h, m.Ref(), facets.SetterKindSetter)
		}),
	},
	{
		Name: "modify", Prefix: "Modify", Kinds: KindProperty, Priority: 20,
		Params: subjectParam, Returns: noneOrError,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewSetter(h, m.Ref(), facets.SetterKindModify)
		}),
	},
	{
		Name: "clear", Prefix: "Clear", Kinds: KindProperty, Priority: 30,
		Params: noParams, Returns: noneOrError,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewClear(h, m.Ref())
		}),
	},
	{
		Name: "add-to", Prefix: "AddTo", Kinds: KindCollection, Priority: 40,
		Params: subjectParam, Returns: noneOrError,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewAddTo(h, m.Ref())
		}),
	},
	{
		Name: "remove-from", Prefix: "RemoveFrom", Kinds: KindCollection, Priority: 41,
		Params: subjectParam, Returns: noneOrError,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewRemoveFrom(h, m.Ref())
		}),
	},
	{
		Name: "always-hide", Prefix: "AlwaysHide", Kinds: KindMember, Priority: 50,
		Params: noParams, Returns: returnsBool,
		Install: func(pc *ProcessContext, m Method, _ int) error {
			v, err := static(pc, m)
			if err != nil {
				return err
			}
			if v.Bool() {
				pc.Holder.AddFacet(facets.NewHidden(pc.Holder, "", m.Name))
			}
			return nil
		},
	},
	{
		Name: "hide", Prefix: "Hide", Kinds: KindMember, Priority: 51,
		Params: optionalUser, Returns: returnsBool,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewHideForContext(h, m.Ref())
		}),
	},
	{
		Name: "protect", Prefix: "Protect", Kinds: KindMember, Priority: 60,
		Params: noParams, Returns: returnsBool,
		Install: func(pc *ProcessContext, m Method, _ int) error {
			v, err := static(pc, m)
			if err != nil {
				return err
			}
			if v.Bool() {
				pc.Holder.AddFacet(facets.NewDisabled(pc.Holder, "", m.Name))
			}
			return nil
		},
	},
	{
		Name: "disable", Prefix: "Disable", Kinds: KindMember, Priority: 61,
		Params: optionalUser, Returns: returnsString,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewDisableForContext(h, m.Ref())
		}),
	},
	{
		Name: "default", Prefix: "Default", Kinds: KindProperty, Priority: 70,
		Params: noParams, Returns: returnsSubject,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewDefault(facets.DefaultType, h, m.Ref())
		}),
	},
	{
		Name: "choices", Prefix: "Choices", Kinds: KindProperty, Priority: 71,
		Params: noParams, Returns: returnsSubjects,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewChoices(facets.ChoicesType, h, m.Ref())
		}),
	},
	{
		Name: "auto-complete", Prefix: "AutoComplete", Kinds: KindProperty, Priority: 72,
		Params: searchParam, Returns: returnsSubjects,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewAutoComplete(facets.AutoCompleteType, h, m.Ref())
		}),
	},
	{
		Name: "validate", Prefix: "Validate", Kinds: KindProperty, Priority: 80,
		Params: subjectParam, Returns: returnsString,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewValidate(facets.ValidateType, h, m.Ref())
		}),
	},
	{
		Name: "validate-add-to", Prefix: "ValidateAddTo", Kinds: KindCollection, Priority: 81,
		Params: subjectParam, Returns: returnsString,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewValidate(facets.ValidateAddToType, h, m.Ref())
		}),
	},
	{
		Name: "validate-remove-from", Prefix: "ValidateRemoveFrom", Kinds: KindCollection, Priority: 82,
		Params: subjectParam, Returns: returnsString,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewValidate(facets.ValidateRemoveFromType, h, m.Ref())
		}),
	},
	{
		Name: "validate-action", Prefix: "Validate", Kinds: KindAction, Priority: 83,
		Params: actionParams, Returns: returnsString,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewActionValidate(h, m.Ref())
		}),
	},
	{
		Name: "name", Prefix: "Name", Kinds: KindMember, Priority: 90,
		Params: noParams, Returns: returnsString,
		Install: namedInstall,
	},
	{
		Name: "description", Prefix: "Description", Kinds: KindMember, Priority: 91,
		Params: noParams, Returns: returnsString,
		Install: describedInstall,
	},
	{
		Name: "param-default", Prefix: "Default", Kinds: KindAction, PerParam: true, Priority: 100,
		Params: noParams, Returns: returnsSubject,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewDefault(facets.ParamDefaultType, h, m.Ref())
		}),
	},
	{
		Name: "param-choices", Prefix: "Choices", Kinds: KindAction, PerParam: true, Priority: 101,
		Params: noParams, Returns: returnsSubjects,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewChoices(facets.ParamChoicesType, h, m.Ref())
		}),
	},
	{
		Name: "param-auto-complete", Prefix: "AutoComplete", Kinds: KindAction, PerParam: true, Priority: 102,
		Params: searchParam, Returns: returnsSubjects,
		Install: install(func(_ *ProcessContext, h facet.Holder, m Method) facet.Facet {
			return facets.NewAutoComplete(facets.ParamAutoCompleteType, h, m.Ref())
		}),
	},
	{
		Name: "param-name", Prefix: "Name", Kinds: KindAction, PerParam: true, Priority: 103,
		Params: noParams, Returns: returnsString,
		Install: namedInstall,
	},
	{
		Name: "param-description", Prefix: "Description", Kinds: KindAction, PerParam: true, Priority: 104,
		Params: noParams, Returns: returnsString,
		Install: describedInstall,
	},
}

func namedInstall(pc *ProcessContext, m Method, param int) error {
	v, err := static(pc, m)
	if err != nil {
		return err
	}
	h := holderFor(pc, param)
	h.AddFacet(facets.NewNamed(h, v.String(), facet.Explicit, m.Name))
	return nil
}

func describedInstall(pc *ProcessContext, m Method, param int) error {
	v, err := static(pc, m)
	if err != nil {
		return err
	}
	h := holderFor(pc, param)
	h.AddFacet(facets.NewDescribedAs(h, v.String(), m.Name))
	return nil
}

func init() {
	slices.SortStableFunc(conventions, func(a, b Convention) int { return a.Priority - b.Priority })
}

// Conventions returns the companion method table in priority order.
func Conventions() []Convention {
	return slices.Clone(conventions)
}

// reserved matches names built from a companion prefix, an optional
// parameter index and a capitalized member name.
var reserved = func() *regexp.Regexp {
	seen := map[string]bool{}
	var prefixes []string
	for _, c := range conventions {
		if !seen[c.Prefix] {
			seen[c.Prefix] = true
			prefixes = append(prefixes, regexp.QuoteMeta(c.Prefix))
		}
	}
	// Longest first so ValidateAddTo wins over Validate.
	slices.SortFunc(prefixes, func(a, b string) int { return len(b) - len(a) })
	return regexp.MustCompile(`^(` + strings.Join(prefixes, "|") + `)[0-9]*[A-Z]`)
}()

// IsReserved reports whether name has the shape of a companion method and
// therefore never denotes an action.
func IsReserved(name string) bool {
	return reserved.MatchString(name)
}
