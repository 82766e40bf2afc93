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

package strategy

import (
	"reflect"

	"dirpx.dev/causeway/apis"
)

var objectTypedType = reflect.TypeOf((*apis.ObjectTyped)(nil)).Elem()

// NewObjectTypeStrategy creates an apis.Strategy that honours apis.ObjectTyped.
func NewObjectTypeStrategy() apis.Strategy {
	return &objectTypeStrategy{}
}

// objectTypeStrategy is the fast path: if the domain type implements
// apis.ObjectTyped, its ObjectType() wins over every other source.
type objectTypeStrategy struct{}

// Ensure objectTypeStrategy implements apis.Strategy.
var _ apis.Strategy = (*objectTypeStrategy)(nil)

// TryResolve checks if v implements apis.ObjectTyped and returns its ObjectType().
func (*objectTypeStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.ObjectTyped); ok {
		if name := n.ObjectType(); name != "" {
			return name, true
		}
	}
	return "", false
}

// TryResolveType calls ObjectType() on the zero value of t (or *t) when the
// method set allows it. Domain types are expected to return a constant.
func (s *objectTypeStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}
	switch {
	case t.Implements(objectTypedType):
		if t.Kind() == reflect.Ptr {
			return s.TryResolve(reflect.New(t.Elem()).Interface(), cfg)
		}
		return s.TryResolve(reflect.Zero(t).Interface(), cfg)
	case t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(objectTypedType):
		return s.TryResolve(reflect.New(t).Interface(), cfg)
	}
	return "", false
}
