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

package builder

import (
	"reflect"

	"github.com/pkg/errors"
)

// ErrInvalidMixin is returned for mixin constructors that are not of the
// form func(*T) *M.
var ErrInvalidMixin = errors.New("causeway(builder): mixin constructor must be func(*T) *M")

// Mixin contributes the actions of type M to every instance of T. The
// constructor is called per invocation with the target instance.
type Mixin struct {
	// Target is the struct type receiving the actions.
	Target reflect.Type
	// Type is the mixin receiver type (*M).
	Type reflect.Type
	ctor reflect.Value
}

// NewMixin validates ctor and returns the mixin it describes.
func NewMixin(ctor any) (Mixin, error) {
	v := reflect.ValueOf(ctor)
	if ctor == nil || v.Kind() != reflect.Func {
		return Mixin{}, ErrInvalidMixin
	}
	ft := v.Type()
	if ft.NumIn() != 1 || ft.NumOut() != 1 ||
		ft.In(0).Kind() != reflect.Ptr || ft.In(0).Elem().Kind() != reflect.Struct ||
		ft.Out(0).Kind() != reflect.Ptr {
		return Mixin{}, errors.Wrapf(ErrInvalidMixin, "got %s", ft)
	}
	return Mixin{Target: ft.In(0).Elem(), Type: ft.Out(0), ctor: v}, nil
}

// MustMixin is NewMixin that panics on error.
func MustMixin(ctor any) Mixin {
	m, err := NewMixin(ctor)
	if err != nil {
		panic(err)
	}
	return m
}

// convert builds the mixin receiver for target.
func (m Mixin) convert(target reflect.Value) reflect.Value {
	if target.Kind() != reflect.Ptr {
		p := reflect.New(target.Type())
		p.Elem().Set(target)
		target = p
	}
	return m.ctor.Call([]reflect.Value{target})[0]
}
