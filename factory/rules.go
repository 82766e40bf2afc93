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

	"dirpx.dev/causeway/apis"
)

// ParamRule checks the parameters of a candidate companion method. param is
// the action parameter index for per-parameter conventions, otherwise -1.
type ParamRule func(pc *ProcessContext, m Method, param int) bool

// ReturnRule checks the results of a candidate companion method.
type ReturnRule func(pc *ProcessContext, m Method, param int) bool

var (
	userMementoType = reflect.TypeOf(apis.UserMemento{})
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	propsType       = reflect.TypeOf(map[string]string(nil))
)

// ins lists parameter types without the receiver.
func ins(m Method) []reflect.Type {
	out := make([]reflect.Type, 0, m.Type.NumIn())
	for i := 1; i < m.Type.NumIn(); i++ {
		out = append(out, m.Type.In(i))
	}
	return out
}

// outs lists result types.
func outs(m Method) []reflect.Type {
	out := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		out = append(out, m.Type.Out(i))
	}
	return out
}

// subject is the type a companion talks about: a parameter type for
// per-parameter conventions, otherwise the association value type.
func subject(pc *ProcessContext, param int) reflect.Type {
	if param >= 0 {
		pts := pc.ParamTypes()
		if param >= len(pts) {
			return nil
		}
		return pts[param]
	}
	return pc.ValueType()
}

func noParams(_ *ProcessContext, m Method, _ int) bool {
	return len(ins(m)) == 0
}

func optionalUser(_ *ProcessContext, m Method, _ int) bool {
	p := ins(m)
	return len(p) == 0 || len(p) == 1 && p[0] == userMementoType
}

func subjectParam(pc *ProcessContext, m Method, param int) bool {
	p, s := ins(m), subject(pc, param)
	return len(p) == 1 && s != nil && s.AssignableTo(p[0])
}

func searchParam(_ *ProcessContext, m Method, _ int) bool {
	p := ins(m)
	return len(p) == 1 && p[0].Kind() == reflect.String
}

func actionParams(pc *ProcessContext, m Method, _ int) bool {
	p, want := ins(m), pc.ParamTypes()
	if len(p) != len(want) {
		return false
	}
	for i := range p {
		if !want[i].AssignableTo(p[i]) {
			return false
		}
	}
	return true
}

func noneOrError(_ *ProcessContext, m Method, _ int) bool {
	r := outs(m)
	return len(r) == 0 || len(r) == 1 && r[0] == errorType
}

func returnsBool(_ *ProcessContext, m Method, _ int) bool {
	r := outs(m)
	return len(r) == 1 && r[0].Kind() == reflect.Bool
}

func returnsString(_ *ProcessContext, m Method, _ int) bool {
	r := outs(m)
	return len(r) == 1 && r[0].Kind() == reflect.String
}

func returnsSubject(pc *ProcessContext, m Method, param int) bool {
	r, s := outs(m), subject(pc, param)
	return len(r) == 1 && s != nil && r[0].AssignableTo(s)
}

func returnsSubjects(pc *ProcessContext, m Method, param int) bool {
	r, s := outs(m), subject(pc, param)
	return len(r) == 1 && s != nil &&
		(r[0].Kind() == reflect.Slice || r[0].Kind() == reflect.Array) &&
		r[0].Elem().AssignableTo(s)
}
