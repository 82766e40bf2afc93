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

//go:generate mockgen -package adapter -source collaborators.go -destination collaborators_mock.go

import (
	"context"
	"reflect"

	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/spec"
)

// OidGenerator supplies identities. The manager never invents them.
type OidGenerator interface {
	// CreateTransientOid returns a fresh transient root for pojo.
	CreateTransientOid(pojo any, s *spec.Specification) oid.RootOid
	// CreateAggregateOid returns the identity of a parented pojo.
	CreateAggregateOid(pojo any, s *spec.Specification, parent oid.RootOid) oid.AggregatedOid
	// CreatePersistentOid returns the persistent identity that replaces
	// transient once pojo is saved.
	CreatePersistentOid(ctx context.Context, pojo any, transient oid.RootOid) (oid.RootOid, error)
}

// PojoRecreator rebuilds pojos from the store.
type PojoRecreator interface {
	// RecreatePojo returns the pojo identified by o and the version
	// currently stored for it.
	RecreatePojo(ctx context.Context, o oid.RootOid, s *spec.Specification) (any, *oid.Version, error)
}

// Factory constructs adapters. Stores may supply their own.
type Factory interface {
	CreateAdapter(pojo any, o oid.Oid, s *spec.Specification) *ObjectAdapter
}

// ServicesInjector wires services into freshly mapped pojos.
type ServicesInjector interface {
	InjectServicesInto(pojo any)
}

// SpecificationLookup resolves specifications for pojos and Oids.
type SpecificationLookup interface {
	LoadSpecification(t reflect.Type) (*spec.Specification, error)
	LookupBySpecID(id oid.SpecID) (*spec.Specification, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(pojo any, o oid.Oid, s *spec.Specification) *ObjectAdapter

func (f FactoryFunc) CreateAdapter(pojo any, o oid.Oid, s *spec.Specification) *ObjectAdapter {
	return f(pojo, o, s)
}

// DefaultFactory builds plain adapters.
var DefaultFactory Factory = FactoryFunc(NewObjectAdapter)

type noServices struct{}

func (noServices) InjectServicesInto(any) {}
