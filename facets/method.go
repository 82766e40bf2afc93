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

// Package facets holds the concrete facet kinds installed by the factory
// pipeline and consulted by specification members at interaction time.
package facets

import (
	"fmt"
	"math"
	"reflect"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/apis"
)

var (
	// ErrReceiverMismatch is returned when a method is invoked on a target
	// of the wrong type.
	ErrReceiverMismatch = errors.New("causeway(facets): target does not match method receiver")
	// ErrArgumentCount is returned when the number of arguments is wrong.
	ErrArgumentCount = errors.New("causeway(facets): wrong number of arguments")
	// ErrArgumentType is returned when an argument cannot be assigned or
	// converted to the parameter type.
	ErrArgumentType = errors.New("causeway(facets): argument type mismatch")
)

// InvocationError wraps a panic raised by a domain method.
type InvocationError struct {
	Method string
	Cause  any
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("causeway(facets): %s panicked: %v", e.Method, e.Cause)
}

// MethodRef is a reflective handle on a domain method. Func is the method
// expression (receiver first). When Mixin is set the target is first
// converted to the mixin receiver.
type MethodRef struct {
	Name  string
	Func  reflect.Value
	Mixin func(target reflect.Value) reflect.Value
}

// NewMethodRef builds a MethodRef from a method of a method set.
func NewMethodRef(m reflect.Method) MethodRef {
	return MethodRef{Name: m.Name, Func: m.Func}
}

// NumIn is the parameter count, receiver excluded.
func (m MethodRef) NumIn() int { return m.Func.Type().NumIn() - 1 }

// In is the type of parameter i, receiver excluded.
func (m MethodRef) In(i int) reflect.Type { return m.Func.Type().In(i + 1) }

// NumOut is the result count.
func (m MethodRef) NumOut() int { return m.Func.Type().NumOut() }

// Out is the type of result i.
func (m MethodRef) Out(i int) reflect.Type { return m.Func.Type().Out(i) }

// Call invokes the method on target. nil arguments become zero values.
func (m MethodRef) Call(target any, args ...any) (out []reflect.Value, err error) {
	recv, err := m.receiver(target)
	if err != nil {
		return nil, err
	}
	if len(args) != m.NumIn() {
		return nil, errors.Wrapf(ErrArgumentCount, "%s: got %d, want %d", m.Name, len(args), m.NumIn())
	}
	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, recv)
	for i, a := range args {
		v, err := coerce(a, m.In(i))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: argument %d", m.Name, i)
		}
		in = append(in, v)
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &InvocationError{Method: m.Name, Cause: r}
		}
	}()
	return m.Func.Call(in), nil
}

func (m MethodRef) receiver(target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, errors.Wrapf(ErrReceiverMismatch, "%s: nil target", m.Name)
	}
	rv := reflect.ValueOf(target)
	if m.Mixin != nil {
		rv = m.Mixin(rv)
	}
	want := m.Func.Type().In(0)
	switch {
	case rv.Type() == want:
		return rv, nil
	case rv.Kind() == reflect.Ptr && rv.Elem().Type() == want:
		return rv.Elem(), nil
	case want.Kind() == reflect.Ptr && want.Elem() == rv.Type():
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p, nil
	}
	return reflect.Value{}, errors.Wrapf(ErrReceiverMismatch, "%s: %s is not %s", m.Name, rv.Type(), want)
}

func coerce(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}
	if v, ok := a.(reflect.Value); ok {
		a = v.Interface()
	}
	v := reflect.ValueOf(a)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String:
		c := v.Convert(t)
		if numeric(v.Kind()) && numeric(t.Kind()) && !roundTrips(v, c) {
			return reflect.Value{}, errors.Wrapf(ErrArgumentType, "%v does not fit %s", a, t)
		}
		return c, nil
	case v.Kind() == reflect.String && t.Kind() == reflect.String:
		return v.Convert(t), nil
	}
	return reflect.Value{}, errors.Wrapf(ErrArgumentType, "%s is not assignable to %s", v.Type(), t)
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Complex128
}

func signed(k reflect.Kind) bool   { return k >= reflect.Int && k <= reflect.Int64 }
func unsigned(k reflect.Kind) bool { return k >= reflect.Uint && k <= reflect.Uintptr }

// roundTrips reports whether c holds the same number as v.
func roundTrips(v, c reflect.Value) bool {
	switch {
	case signed(v.Kind()) && unsigned(c.Kind()):
		if v.Int() < 0 {
			return false
		}
	case unsigned(v.Kind()) && signed(c.Kind()):
		if c.Int() < 0 {
			return false
		}
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		if math.IsNaN(v.Float()) {
			return c.CanFloat() && math.IsNaN(c.Float())
		}
	}
	return c.Convert(v.Type()).Equal(v)
}

// InteractionContext describes one user interaction with a member.
type InteractionContext struct {
	// Target is the pojo being interacted with.
	Target any
	// User is the interacting user.
	User apis.UserMemento
	// Proposed is the proposed new value for a property or the element
	// added to or removed from a collection.
	Proposed any
	// Args are the proposed action arguments.
	Args []any
}

// HidingAdvisor decides visibility. A non-empty reason hides the member.
type HidingAdvisor interface {
	Hides(ic InteractionContext) string
}

// DisablingAdvisor decides usability. A non-empty reason disables the member.
type DisablingAdvisor interface {
	Disables(ic InteractionContext) string
}

// ValidatingAdvisor vetoes a proposed value. A non-empty reason is a veto.
type ValidatingAdvisor interface {
	Invalidates(ic InteractionContext) string
}

var userMementoType = reflect.TypeOf(apis.UserMemento{})

// callWithOptionalUser invokes m with no arguments or with the user,
// depending on its signature.
func callWithOptionalUser(m MethodRef, ic InteractionContext) ([]reflect.Value, error) {
	if m.NumIn() == 1 && m.In(0) == userMementoType {
		return m.Call(ic.Target, ic.User)
	}
	return m.Call(ic.Target)
}

// firstString returns the first result as a string ("" when absent).
func firstString(out []reflect.Value) string {
	if len(out) == 0 || out[0].Kind() != reflect.String {
		return ""
	}
	return out[0].String()
}

// toSlice flattens a slice or array result to []any.
func toSlice(v reflect.Value) []any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = v.Index(i).Interface()
		}
		return out
	}
	return []any{v.Interface()}
}

// resultError returns the trailing error result, if the method has one.
func resultError(out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.Type() != errorType || last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
