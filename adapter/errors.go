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

package adapter

import (
	"fmt"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/oid"
)

var (
	// ErrNoIdentity is returned for pojos that cannot be told apart by
	// reference (non-pointer structs, nil pointers).
	ErrNoIdentity = errors.New("causeway(adapter): pojo has no reference identity")
	// ErrParentRequired is returned by AdapterFor for parented types.
	ErrParentRequired = errors.New("causeway(adapter): parented pojo needs a parent adapter")
	// ErrNotCollection is returned when the member is not a collection.
	ErrNotCollection = errors.New("causeway(adapter): not a collection member")
)

// AssertionError reports a broken identity-map invariant. It is raised
// with panic: it signals a bug, not a condition callers can handle.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string { return "causeway(adapter): assertion failed: " + e.Msg }

func assertf(ok bool, format string, args ...any) {
	if !ok {
		panic(&AssertionError{Msg: fmt.Sprintf(format, args...)})
	}
}

// ConcurrencyError reports that a persistent object changed since the
// caller read it.
type ConcurrencyError struct {
	Oid       oid.RootOid
	Current   *oid.Version
	Requested *oid.Version
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("causeway(adapter): %s has changed: version %s, requested %s",
		e.Oid.Key(), e.Current, e.Requested)
}
