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

import "dirpx.dev/causeway/facet"

// Facet types installed by the standard factories.
const (
	AccessorType           facet.Type = "PropertyOrCollectionAccessor"
	SetterType             facet.Type = "PropertySetter"
	ClearType              facet.Type = "PropertyClear"
	AddToType              facet.Type = "CollectionAddTo"
	RemoveFromType         facet.Type = "CollectionRemoveFrom"
	HiddenType             facet.Type = "Hidden"
	HideForContextType     facet.Type = "HideForContext"
	DisabledType           facet.Type = "Disabled"
	DisableForContextType  facet.Type = "DisableForContext"
	DefaultType            facet.Type = "PropertyDefault"
	ChoicesType            facet.Type = "PropertyChoices"
	AutoCompleteType       facet.Type = "AutoComplete"
	ValidateType           facet.Type = "PropertyValidate"
	ValidateAddToType      facet.Type = "CollectionValidateAddTo"
	ValidateRemoveFromType facet.Type = "CollectionValidateRemoveFrom"
	NamedType              facet.Type = "Named"
	DescribedAsType        facet.Type = "DescribedAs"
	NotPersistedType       facet.Type = "NotPersisted"
	ValueType              facet.Type = "Value"
	ParentedType           facet.Type = "Parented"
	TypeOfType             facet.Type = "TypeOf"
	ObjectTypeType         facet.Type = "ObjectType"
	TitleType              facet.Type = "Title"
	ServiceType            facet.Type = "Service"
	ActionInvocationType   facet.Type = "ActionInvocation"
	ActionValidateType     facet.Type = "ActionValidate"
	ParamDefaultType       facet.Type = "ActionParameterDefault"
	ParamChoicesType       facet.Type = "ActionParameterChoices"
	ParamAutoCompleteType  facet.Type = "ActionParameterAutoComplete"
	PostConstructType      facet.Type = "PostConstruct"
	PreDestroyType         facet.Type = "PreDestroy"
	MixinType              facet.Type = "Mixin"
)

// CallbackEvent names a persistence lifecycle callback.
type CallbackEvent string

const (
	Created    CallbackEvent = "Created"
	Loaded     CallbackEvent = "Loaded"
	Persisting CallbackEvent = "Persisting"
	Persisted  CallbackEvent = "Persisted"
	Updating   CallbackEvent = "Updating"
	Removing   CallbackEvent = "Removing"
)

// CallbackEvents lists every callback in lifecycle order.
var CallbackEvents = []CallbackEvent{Created, Loaded, Persisting, Persisted, Updating, Removing}

// CallbackType is the facet type of the callback for e.
func CallbackType(e CallbackEvent) facet.Type {
	return facet.Type("Callback." + string(e))
}

// Ensure every facet kind implements facet.Facet.
var (
	_ facet.Facet = (*Accessor)(nil)
	_ facet.Facet = (*Setter)(nil)
	_ facet.Facet = (*Clear)(nil)
	_ facet.Facet = (*NotPersisted)(nil)
	_ facet.Facet = (*AddTo)(nil)
	_ facet.Facet = (*RemoveFrom)(nil)
	_ facet.Facet = (*Hidden)(nil)
	_ facet.Facet = (*HideForContext)(nil)
	_ facet.Facet = (*Disabled)(nil)
	_ facet.Facet = (*DisableForContext)(nil)
	_ facet.Facet = (*Default)(nil)
	_ facet.Facet = (*Choices)(nil)
	_ facet.Facet = (*AutoComplete)(nil)
	_ facet.Facet = (*Validate)(nil)
	_ facet.Facet = (*ActionValidate)(nil)
	_ facet.Facet = (*Named)(nil)
	_ facet.Facet = (*DescribedAs)(nil)
	_ facet.Facet = (*Value)(nil)
	_ facet.Facet = (*Parented)(nil)
	_ facet.Facet = (*TypeOf)(nil)
	_ facet.Facet = (*ObjectType)(nil)
	_ facet.Facet = (*Title)(nil)
	_ facet.Facet = (*Service)(nil)
	_ facet.Facet = (*Mixin)(nil)
	_ facet.Facet = (*ActionInvocation)(nil)
	_ facet.Facet = (*PostConstruct)(nil)
	_ facet.Facet = (*PreDestroy)(nil)
	_ facet.Facet = (*Callback)(nil)
)
