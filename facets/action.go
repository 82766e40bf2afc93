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

// ActionInvocation executes an action method.
type ActionInvocation struct {
	facet.Base
	Method MethodRef
}

// NewActionInvocation returns the invocation facet for an action.
func NewActionInvocation(h facet.Holder, m MethodRef) *ActionInvocation {
	return &ActionInvocation{Base: facet.NewBase(ActionInvocationType, h, facet.Default, m.Name), Method: m}
}

// ReturnType is the first non-error result type, or nil for void actions.
func (f *ActionInvocation) ReturnType() reflect.Type {
	if f.Method.NumOut() == 0 || f.Method.Out(0) == errorType {
		return nil
	}
	return f.Method.Out(0)
}

// Invoke calls the action. A trailing error result is returned as the error.
func (f *ActionInvocation) Invoke(target any, args ...any) (any, error) {
	out, err := f.Method.Call(target, args...)
	if err != nil {
		return nil, err
	}
	if err := resultError(out); err != nil {
		return nil, err
	}
	if f.ReturnType() == nil {
		return nil, nil
	}
	return out[0].Interface(), nil
}
