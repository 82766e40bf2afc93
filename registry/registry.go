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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/config"
	uref "dirpx.dev/causeway/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("causeway(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("causeway(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("causeway(registry): conflicting type registration")
	// ErrNameTaken indicates an attempt to register a second type under a
	// logical type name that is already in use.
	ErrNameTaken = errors.New("causeway(registry): logical type name already registered")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here (IncludeBuiltins is irrelevant).
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry keeps the type -> name and name -> type directions in two
// sync.Maps that are only ever written together under mu.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency of both directions and the counter.
	mu sync.Mutex
	// byType maps reflect.Type to registered name.
	byType sync.Map // map[reflect.Type]string
	// byName maps registered name to reflect.Type.
	byName sync.Map // map[string]reflect.Type
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the given name.
// It is idempotent for the same (type,name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if err, done := r.check(b, name); done {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if err, done := r.check(b, name); done {
		return err
	}

	r.byType.Store(b, name)
	r.byName.Store(name, b)
	r.count++
	return nil
}

// check reports whether Register can stop early, and with which result.
func (r *registry) check(b reflect.Type, name string) (error, bool) {
	if old, ok := r.byType.Load(b); ok {
		if old.(string) == name {
			return nil, true
		}
		return ErrConflictingRegistration, true
	}
	if _, ok := r.byName.Load(name); ok {
		return ErrNameTaken, true
	}
	return nil, false
}

// Lookup returns a name for a type if present.
func (r *registry) Lookup(t reflect.Type) (name string, ok bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := r.byType.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// LookupName returns the type registered under name if present.
func (r *registry) LookupName(name string) (reflect.Type, bool) {
	if v, ok := r.byName.Load(name); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.byType.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type: key.(reflect.Type),
			Name: value.(string),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType = sync.Map{}
	r.byName = sync.Map{}
	r.count = 0
}
