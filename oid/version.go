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

package oid

import (
	"fmt"
	"time"
)

// Version is the optimistic concurrency stamp carried by a persistent
// RootOid. Only Sequence takes part in comparisons; User and Time are
// informational.
type Version struct {
	// Sequence increases by one on every successful save.
	Sequence int64
	// User is the name of the user that produced this version.
	User string
	// Time is when this version was produced.
	Time time.Time
}

// NewVersion returns a version stamped with the current time.
func NewVersion(seq int64, user string) *Version {
	return &Version{Sequence: seq, User: user, Time: time.Now().UTC().Truncate(time.Millisecond)}
}

// Different reports whether v and other denote different versions of the
// same object. A missing version on either side never conflicts.
func (v *Version) Different(other *Version) bool {
	if v == nil || other == nil {
		return false
	}
	return v.Sequence != other.Sequence
}

// Next returns the version following v, attributed to user.
func (v *Version) Next(user string) *Version {
	if v == nil {
		return NewVersion(1, user)
	}
	return NewVersion(v.Sequence+1, user)
}

func (v *Version) String() string {
	if v == nil {
		return "<none>"
	}
	return fmt.Sprintf("#%d %s@%s", v.Sequence, v.User, v.Time.Format(time.RFC3339))
}
