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
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrSignature is reported when a method uses a reserved companion
	// name but its parameters or results do not fit the member.
	ErrSignature = errors.New("causeway(factory): malformed companion method signature")
	// ErrLifecycleArity is reported for PostConstruct/PreDestroy/callback
	// methods with unsupported parameters.
	ErrLifecycleArity = errors.New("causeway(factory): unsupported lifecycle method arity")
	// ErrOrphanMethod is reported for supporting methods without a member.
	ErrOrphanMethod = errors.New("causeway(factory): orphaned supporting method")
)

// BuildError is a fatal specification build failure naming the offending
// type and, when known, the member and method.
type BuildError struct {
	Type   reflect.Type
	Member string
	Method string
	Err    error
}

func (e *BuildError) Error() string {
	where := e.Type.String()
	if e.Member != "" {
		where += "#" + e.Member
	}
	if e.Method != "" {
		return fmt.Sprintf("causeway(factory): %s: method %s: %v", where, e.Method, e.Err)
	}
	return fmt.Sprintf("causeway(factory): %s: %v", where, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// NewBuildError builds a BuildError, adding msg as context to err.
func NewBuildError(t reflect.Type, member, method string, err error, msg string, args ...any) *BuildError {
	if msg != "" {
		err = errors.Wrapf(err, msg, args...)
	}
	return &BuildError{Type: t, Member: member, Method: method, Err: err}
}
