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

package causeway

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/registry"
	"dirpx.dev/causeway/resolver"
	"dirpx.dev/causeway/spec"
)

// init publishes the default state.
func init() {
	s, err := buildFrom(config.DefaultConfig(), nil, nil, false, false, nil, nil)
	if err != nil {
		panic(err)
	}
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when SetRegistry is given nil.
	ErrNilRegistry = errors.New("causeway: nil registry")
	// ErrNilResolver is returned when SetResolver is given nil.
	ErrNilResolver = errors.New("causeway: nil resolver")
)

// SpecID resolves the logical type name of v.
func SpecID(v any) oid.SpecID {
	s := st.Load()
	return oid.SpecID(s.res.Resolve(v, s.cfg))
}

// SpecIDOf resolves the logical type name of t.
func SpecIDOf(t reflect.Type) oid.SpecID {
	s := st.Load()
	return oid.SpecID(s.res.ResolveType(t, s.cfg))
}

// RegisterType adds an explicit type-name mapping to the global registry.
// It must happen before the type's specification is first loaded.
func RegisterType(t reflect.Type, name string) error {
	return st.Load().reg.Register(t, name)
}

// LoadSpecification returns the specification of t from the global loader.
func LoadSpecification(t reflect.Type) (*spec.Specification, error) {
	return withLoader(func(l *loader.Loader) (*spec.Specification, error) {
		return l.LoadSpecification(t)
	})
}

// LoadSpecificationFor returns the specification of the dynamic type of v.
func LoadSpecificationFor(v any) (*spec.Specification, error) {
	return withLoader(func(l *loader.Loader) (*spec.Specification, error) {
		return l.LoadSpecificationFor(v)
	})
}

// LookupBySpecID returns the specification published under id.
func LookupBySpecID(id oid.SpecID) (*spec.Specification, error) {
	return withLoader(func(l *loader.Loader) (*spec.Specification, error) {
		return l.LookupBySpecID(id)
	})
}

// withLoader runs fn against the current loader, retrying when a
// concurrent reconfiguration closed it mid-call.
func withLoader(fn func(*loader.Loader) (*spec.Specification, error)) (*spec.Specification, error) {
	for {
		s := st.Load()
		out, err := fn(s.ld)
		if errors.Is(err, loader.ErrClosed) && st.Load() != s {
			continue
		}
		return out, err
	}
}

// Loader returns the global specification loader.
func Loader() *loader.Loader {
	return st.Load().ld
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the unpinned
// layers. The specification cache starts over.
func SetConfig(cfg apis.Config) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	return publish(old, cfg, old.reg, old.res, old.preg, old.pres, true, old.opts)
}

// SetAll replaces every global component in one step. Nil arguments get
// fresh defaults and are not pinned; non-nil ones are pinned. Tests use
// it to start from a known state.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, opts ...loader.Option) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	ncfg := config.DefaultConfig()
	if cfg != nil {
		ncfg = *cfg
	}
	return publish(st.Load(), ncfg, reg, res, reg != nil, res != nil, false, opts)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry pins reg as the global registry.
func SetRegistry(reg apis.Registry) error {
	if reg == nil {
		return ErrNilRegistry
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	return publish(old, old.cfg, reg, old.res, true, old.pres, true, old.opts)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver pins res as the global resolver.
func SetResolver(res apis.Resolver) error {
	if res == nil {
		return ErrNilResolver
	}
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	return publish(old, old.cfg, old.reg, res, old.preg, true, true, old.opts)
}

// IsRegistryPinned reports whether the registry survives rebuilds.
func IsRegistryPinned() bool { return st.Load().preg }

// IsResolverPinned reports whether the resolver survives rebuilds.
func IsResolverPinned() bool { return st.Load().pres }

// UnpinRegistry lets the next rebuild replace the registry.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	next := *old
	next.preg = false
	st.Store(&next)
}

// UnpinResolver lets the next rebuild replace the resolver.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	next := *old
	next.pres = false
	st.Store(&next)
}

// publish builds and stores a new snapshot. With inherit set, a rebuilt
// registry keeps the entries of the old one. The previous loader is closed
// first so that its metrics collectors are released; if the new snapshot
// cannot be built a fresh copy of the previous one is published instead.
// Callers hold buildMu.
func publish(old *state, cfg apis.Config, reg apis.Registry, res apis.Resolver, preg, pres, inherit bool, opts []loader.Option) error {
	if !preg {
		reg = nil
	}
	if !pres {
		res = nil
	}
	var prev apis.Registry
	if !preg && inherit {
		prev = old.reg
	}
	_ = old.ld.Close()
	s, err := buildFrom(cfg, reg, res, preg, pres, opts, prev)
	if err != nil {
		restored, rerr := buildFrom(old.cfg, old.reg, old.res, true, true, old.opts, nil)
		if rerr == nil {
			restored.preg, restored.pres = old.preg, old.pres
			st.Store(restored)
		}
		return err
	}
	st.Store(s)
	return nil
}

// buildFrom assembles a snapshot. A rebuilt registry inherits the entries
// of prev.
func buildFrom(cfg apis.Config, reg apis.Registry, res apis.Resolver, preg, pres bool, opts []loader.Option, prev apis.Registry) (*state, error) {
	if reg == nil {
		reg = registry.New(cfg)
		if prev != nil {
			for _, e := range prev.Entries() {
				if err := reg.Register(e.Type, e.Name); err != nil {
					return nil, err
				}
			}
		}
	}
	if res == nil {
		res = resolver.Default(reg)
	}
	lopts := append([]loader.Option{loader.WithRegistry(reg), loader.WithResolver(res)}, opts...)
	ld, err := loader.New(cfg, lopts...)
	if err != nil {
		return nil, err
	}
	return &state{cfg: cfg, reg: reg, res: res, ld: ld, preg: preg, pres: pres, opts: opts}, nil
}

// buildMu serializes writers so that no partially built snapshot is ever
// published.
var buildMu sync.Mutex

// st is the current snapshot.
var st atomic.Pointer[state]

// state is never mutated once published. Writers build a new one and swap
// it in.
type state struct {
	cfg  apis.Config
	reg  apis.Registry
	res  apis.Resolver
	ld   *loader.Loader
	preg bool
	pres bool
	opts []loader.Option
}
