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

// Hidden always hides its holder. Installed from AlwaysHideFoo() == true.
type Hidden struct {
	facet.Base
	Reason string
}

// NewHidden returns an always-hidden facet.
func NewHidden(h facet.Holder, reason string, from ...string) *Hidden {
	if reason == "" {
		reason = "Always hidden"
	}
	return &Hidden{Base: facet.NewBase(HiddenType, h, facet.Default, from...), Reason: reason}
}

func (f *Hidden) Hides(InteractionContext) string { return f.Reason }

// HideForContext asks HideFoo() or HideFoo(UserMemento) on every interaction.
type HideForContext struct {
	facet.Base
	Method MethodRef
}

// NewHideForContext returns the facet for a HideFoo method.
func NewHideForContext(h facet.Holder, m MethodRef) *HideForContext {
	return &HideForContext{Base: facet.NewBase(HideForContextType, h, facet.Default, m.Name), Method: m}
}

func (f *HideForContext) Hides(ic InteractionContext) string {
	out, err := callWithOptionalUser(f.Method, ic)
	if err != nil {
		return err.Error()
	}
	if len(out) > 0 && out[0].Bool() {
		return "Hidden"
	}
	return ""
}

// Disabled always disables its holder. Installed from ProtectFoo() == true.
type Disabled struct {
	facet.Base
	Reason string
}

// NewDisabled returns an always-disabled facet.
func NewDisabled(h facet.Holder, reason string, from ...string) *Disabled {
	if reason == "" {
		reason = "Always disabled"
	}
	return &Disabled{Base: facet.NewBase(DisabledType, h, facet.Default, from...), Reason: reason}
}

func (f *Disabled) Disables(InteractionContext) string { return f.Reason }

// DisableForContext asks DisableFoo() or DisableFoo(UserMemento).
type DisableForContext struct {
	facet.Base
	Method MethodRef
}

// NewDisableForContext returns the facet for a DisableFoo method.
func NewDisableForContext(h facet.Holder, m MethodRef) *DisableForContext {
	return &DisableForContext{Base: facet.NewBase(DisableForContextType, h, facet.Default, m.Name), Method: m}
}

func (f *DisableForContext) Disables(ic InteractionContext) string {
	out, err := callWithOptionalUser(f.Method, ic)
	if err != nil {
		return err.Error()
	}
	return firstString(out)
}

// Ensure the visibility facets are advisors.
var (
	_ HidingAdvisor    = (*Hidden)(nil)
	_ HidingAdvisor    = (*HideForContext)(nil)
	_ DisablingAdvisor = (*Disabled)(nil)
	_ DisablingAdvisor = (*DisableForContext)(nil)
)
