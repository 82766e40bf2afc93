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

package apis

import "slices"

// ObjectTyped is implemented by domain types that choose their own logical
// type name. The name must be stable for the process lifetime and unique
// across all introspected types.
type ObjectTyped interface {
	ObjectType() string
}

// Titled is implemented by domain types that render their own title.
type Titled interface {
	Title() string
}

// Aggregated marks a domain type as parented: its instances live inside
// the lifecycle of an owning root object and are identified relative to it.
type Aggregated interface {
	Aggregated()
}

// UserMemento is the session-scoped view of the interacting user passed to
// the user-aware convention methods (HideFoo(UserMemento), ...).
type UserMemento struct {
	// Name is the user name.
	Name string
	// Roles lists the roles granted to the user.
	Roles []string
}

// HasRole reports whether the user was granted role.
func (u UserMemento) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
