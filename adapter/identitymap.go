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
	"reflect"
	"sort"

	"dirpx.dev/causeway/oid"
)

// pojoKey is the reference identity of a pojo: its dynamic type and the
// address it points to. Slices are keyed by their backing array, so a
// reallocated slice is a different pojo. Zero-capacity slices and pointers
// to zero-size values have no identity since the runtime may hand out the
// same address for all of them.
type pojoKey struct {
	t reflect.Type
	p uintptr
}

func keyOf(pojo any) (pojoKey, bool) {
	if pojo == nil {
		return pojoKey{}, false
	}
	v := reflect.ValueOf(pojo)
	switch v.Kind() {
	case reflect.Slice:
		if v.Cap() == 0 || v.Type().Elem().Size() == 0 {
			return pojoKey{}, false
		}
	case reflect.Ptr:
		if v.Type().Elem().Size() == 0 {
			return pojoKey{}, false
		}
	case reflect.Map, reflect.Chan, reflect.UnsafePointer:
	default:
		return pojoKey{}, false
	}
	if v.Pointer() == 0 {
		return pojoKey{}, false
	}
	return pojoKey{t: v.Type(), p: v.Pointer()}, true
}

// identityMap is the pair of pojo and Oid maps. Every mutation keeps the
// two sides consistent for mapped adapters.
type identityMap struct {
	byPojo map[pojoKey]*ObjectAdapter
	byOid  map[string]*ObjectAdapter
}

func newIdentityMap() *identityMap {
	return &identityMap{
		byPojo: make(map[pojoKey]*ObjectAdapter),
		byOid:  make(map[string]*ObjectAdapter),
	}
}

func (m *identityMap) lookupPojo(pojo any) (*ObjectAdapter, bool) {
	k, ok := keyOf(pojo)
	if !ok {
		return nil, false
	}
	a, ok := m.byPojo[k]
	return a, ok
}

func (m *identityMap) lookupOid(o oid.Oid) (*ObjectAdapter, bool) {
	if o == nil {
		return nil, false
	}
	a, ok := m.byOid[o.Key()]
	return a, ok
}

// insert maps a under its pojo (when it has reference identity) and then
// under its Oid.
func (m *identityMap) insert(a *ObjectAdapter) {
	m.insertPojo(a)
	m.insertOid(a)
}

func (m *identityMap) insertPojo(a *ObjectAdapter) {
	k, ok := keyOf(a.Pojo())
	if !ok {
		return
	}
	other, taken := m.byPojo[k]
	assertf(!taken || other == a, "pojo %T already mapped to %s", a.Pojo(), other)
	m.byPojo[k] = a
}

func (m *identityMap) insertOid(a *ObjectAdapter) {
	key := a.Oid().Key()
	other, taken := m.byOid[key]
	assertf(!taken || other == a, "oid %s already mapped to %s", key, other)
	m.byOid[key] = a
}

// removePojo unmaps pojo. It reports false when nothing was mapped.
func (m *identityMap) removePojo(pojo any) bool {
	k, ok := keyOf(pojo)
	if !ok {
		return true
	}
	if _, ok := m.byPojo[k]; !ok {
		return false
	}
	delete(m.byPojo, k)
	return true
}

// removeOid unmaps o. It reports false when nothing was mapped.
func (m *identityMap) removeOid(o oid.Oid) bool {
	key := o.Key()
	if _, ok := m.byOid[key]; !ok {
		return false
	}
	delete(m.byOid, key)
	return true
}

// repojo rewraps a around pojo, moving its pojo-map entry.
func (m *identityMap) repojo(a *ObjectAdapter, pojo any) bool {
	found := m.removePojo(a.Pojo())
	a.replacePojo(pojo)
	m.insertPojo(a)
	return found
}

// ensureConsistent asserts that a is reachable through both maps.
func (m *identityMap) ensureConsistent(a *ObjectAdapter) {
	assertf(a.Oid() != nil, "%s has no oid", a)
	byOid, ok := m.byOid[a.Oid().Key()]
	assertf(ok, "%s not in oid map", a)
	assertf(byOid == a, "oid map holds %s for %s", byOid, a)
	if k, ok := keyOf(a.Pojo()); ok {
		byPojo, ok := m.byPojo[k]
		assertf(ok, "%s not in pojo map", a)
		assertf(byPojo == a, "pojo map holds %s for %s", byPojo, a)
	}
}

// dependents lists the collection and aggregated adapters hanging off
// root, ordered by Oid key.
func (m *identityMap) dependents(root oid.RootOid) []*ObjectAdapter {
	var out []*ObjectAdapter
	for _, a := range m.adapters() {
		if _, isRoot := a.Oid().(oid.RootOid); isRoot {
			continue
		}
		if a.Oid().Root().Key() == root.Key() {
			out = append(out, a)
		}
	}
	return out
}

func (m *identityMap) pojoCount() int { return len(m.byPojo) }
func (m *identityMap) oidCount() int  { return len(m.byOid) }

// adapters lists mapped adapters ordered by Oid key.
func (m *identityMap) adapters() []*ObjectAdapter {
	keys := make([]string, 0, len(m.byOid))
	for k := range m.byOid {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*ObjectAdapter, len(keys))
	for i, k := range keys {
		out[i] = m.byOid[k]
	}
	return out
}

func (m *identityMap) reset() {
	clear(m.byPojo)
	clear(m.byOid)
}
