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

// ResolveState is the lifecycle state of an ObjectAdapter.
type ResolveState int32

const (
	// New is the state of an adapter that has not been initialised yet.
	New ResolveState = iota
	// Transient adapters wrap objects that were never persisted.
	Transient
	// Ghost adapters have a persistent identity but no loaded content.
	Ghost
	// Resolving adapters are being loaded.
	Resolving
	// Resolved adapters are persistent and loaded.
	Resolved
	// Updating adapters are being written back.
	Updating
	// Destroyed adapters were deleted from the store.
	Destroyed
	// Value adapters wrap value objects. They are never mapped.
	Value
)

var stateNames = [...]string{
	New:       "new",
	Transient: "transient",
	Ghost:     "ghost",
	Resolving: "resolving",
	Resolved:  "resolved",
	Updating:  "updating",
	Destroyed: "destroyed",
	Value:     "value",
}

func (s ResolveState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// transitions lists the legal successor states. There is no way back to
// New or Transient, and Destroyed and Value are terminal.
var transitions = map[ResolveState][]ResolveState{
	New:       {Transient, Ghost, Value},
	Transient: {Resolved, Destroyed},
	Ghost:     {Resolving, Resolved, Destroyed},
	Resolving: {Resolved},
	Resolved:  {Updating, Destroyed},
	Updating:  {Resolved},
}

// CanChangeTo reports whether s may move to next.
func (s ResolveState) CanChangeTo(next ResolveState) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// IsPersistent reports states of objects that exist in the store.
func (s ResolveState) IsPersistent() bool {
	switch s {
	case Ghost, Resolving, Resolved, Updating:
		return true
	}
	return false
}
