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

// Package causeway builds a metamodel of Go domain types and binds
// domain objects to their identity at runtime.
//
// The metamodel is assembled by reflection. For every domain type the
// loader publishes one spec.Specification describing its members.
// Behaviour is attached as facets, which a pipeline of facet factories
// derives from method naming conventions:
//
//	func (c *Customer) GetFirstName() string   // property FirstName
//	func (c *Customer) SetFirstName(v string)  // setter facet
//	func (c *Customer) HideFirstName() bool    // hidden facet
//	func (c *Customer) PlaceOrder(p string)    // action
//	func (c *Customer) ValidatePlaceOrder(p string) string
//
// Companion methods are consumed by the member they serve and never
// show up as actions.
//
// # Logical type names
//
// Every specification is published under a SpecID. The SpecID comes
// from, in order: the type's ObjectType() method, an explicit entry in
// the registry, or the reflected "pkg.Type" name. Two types resolving to
// the same SpecID is a configuration error.
//
// # Global state
//
// The package keeps a read-mostly snapshot holding the Config, the
// Registry, the Resolver and the Loader. Readers load the snapshot
// atomically and never block:
//
//	s, err := causeway.LoadSpecification(reflect.TypeOf(Customer{}))
//	id := causeway.SpecID(&Customer{})
//
// Writers (SetConfig, SetRegistry, SetResolver, SetAll) take a build
// lock, assemble a new snapshot and swap it in. A registry or resolver
// installed explicitly is pinned and survives later SetConfig calls
// until unpinned. Any reconfiguration starts a fresh specification cache.
//
// Programs that need more than one metamodel, and tests, should create
// their own loader.Loader instead.
//
// # Runtime
//
// The adapter package wraps domain objects in ObjectAdapters and keeps
// the per-session identity maps (pojo to adapter, Oid to adapter). The
// objectstore package provides reference identity generation and
// persistence, and the services package injects domain services.
package causeway
