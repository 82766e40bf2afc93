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

// PostConstruct initializes a service after registration.
type PostConstruct struct {
	facet.Base
	Method MethodRef
	// WithProps is set for PostConstruct(map[string]string).
	WithProps bool
}

// NewPostConstruct returns the post-construct facet.
func NewPostConstruct(h facet.Holder, m MethodRef) *PostConstruct {
	return &PostConstruct{
		Base:      facet.NewBase(PostConstructType, h, facet.Default, m.Name),
		Method:    m,
		WithProps: m.NumIn() == 1,
	}
}

// Invoke runs the method, passing props when the method accepts them.
func (f *PostConstruct) Invoke(target any, props map[string]string) error {
	var args []any
	if f.WithProps {
		args = []any{props}
	}
	out, err := f.Method.Call(target, args...)
	if err != nil {
		return err
	}
	return resultError(out)
}

// PreDestroy releases a service at shutdown.
type PreDestroy struct {
	facet.Base
	Method MethodRef
}

// NewPreDestroy returns the pre-destroy facet.
func NewPreDestroy(h facet.Holder, m MethodRef) *PreDestroy {
	return &PreDestroy{Base: facet.NewBase(PreDestroyType, h, facet.Default, m.Name), Method: m}
}

// Invoke runs the method.
func (f *PreDestroy) Invoke(target any) error {
	out, err := f.Method.Call(target)
	if err != nil {
		return err
	}
	return resultError(out)
}

// Callback is a persistence lifecycle callback (Created, Loaded, ...).
type Callback struct {
	facet.Base
	Event  CallbackEvent
	Method MethodRef
}

// NewCallback returns the facet for the callback method of event e.
func NewCallback(h facet.Holder, e CallbackEvent, m MethodRef) *Callback {
	return &Callback{Base: facet.NewBase(CallbackType(e), h, facet.Default, m.Name), Event: e, Method: m}
}

// Invoke runs the callback on target.
func (f *Callback) Invoke(target any) error {
	out, err := f.Method.Call(target)
	if err != nil {
		return err
	}
	return resultError(out)
}

// Fire runs the callback for e on pojo if h carries one.
func Fire(h facet.Holder, e CallbackEvent, pojo any) error {
	cb, ok := facet.Lookup[*Callback](h, CallbackType(e))
	if !ok {
		return nil
	}
	return cb.Invoke(pojo)
}
