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

package spec

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrHidden vetoes an interaction with a hidden member.
	ErrHidden = errors.New("causeway(spec): member is hidden")
	// ErrDisabled vetoes an interaction with a disabled member.
	ErrDisabled = errors.New("causeway(spec): member is disabled")
	// ErrInvalid vetoes a proposed value or argument list.
	ErrInvalid = errors.New("causeway(spec): proposal is invalid")
	// ErrUnsupported is returned for operations the member has no facet for.
	ErrUnsupported = errors.New("causeway(spec): operation not supported by member")
)

// VetoError reports why an interaction was refused.
type VetoError struct {
	Member string
	Reason string
	Err    error
}

func (e *VetoError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Member, e.Reason)
}

func (e *VetoError) Unwrap() error { return e.Err }
