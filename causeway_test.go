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
	"reflect"
	"runtime"
	"sync"
	"testing"
	"time"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/registry"
	"dirpx.dev/causeway/resolver"
)

type Customer struct{ name string }

func (c *Customer) GetName() string  { return c.name }
func (c *Customer) SetName(v string) { c.name = v }

type fixedResolver struct{ name string }

func (r fixedResolver) Resolve(any, apis.Config) string              { return r.name }
func (r fixedResolver) ResolveType(reflect.Type, apis.Config) string { return r.name }

func reset(tb testing.TB) {
	tb.Helper()
	if err := SetAll(nil, nil, nil); err != nil {
		tb.Fatalf("SetAll: %v", err)
	}
}

func TestDefaultState(t *testing.T) {
	reset(t)

	if got := SpecID(&Customer{}); got != "causeway.Customer" {
		t.Fatalf("SpecID = %q, want causeway.Customer", got)
	}
	s, err := LoadSpecification(reflect.TypeOf(Customer{}))
	if err != nil {
		t.Fatalf("LoadSpecification: %v", err)
	}
	if _, ok := s.Property("Name"); !ok {
		t.Fatalf("property Name not introspected")
	}
	again, err := LookupBySpecID("causeway.Customer")
	if err != nil || again != s {
		t.Fatalf("LookupBySpecID = (%v, %v), want the loaded specification", again, err)
	}
	byValue, err := LoadSpecificationFor(&Customer{})
	if err != nil || byValue != s {
		t.Fatalf("LoadSpecificationFor = (%v, %v), want the loaded specification", byValue, err)
	}
}

func TestRegisterType_SurvivesSetConfig(t *testing.T) {
	reset(t)

	if err := RegisterType(reflect.TypeOf(Customer{}), "crm.Customer"); err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	before := Registry()
	if err := SetConfig(config.NewConfig(config.WithFailOnOrphans(true))); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if Registry() == before {
		t.Fatalf("unpinned registry was not rebuilt")
	}
	if !Config().FailOnOrphans {
		t.Fatalf("config not applied")
	}
	if got := SpecIDOf(reflect.TypeOf(Customer{})); got != "crm.Customer" {
		t.Fatalf("SpecIDOf = %q, want crm.Customer", got)
	}
	s, err := LookupBySpecID("crm.Customer")
	if err != nil {
		t.Fatalf("LookupBySpecID: %v", err)
	}
	if s.SpecID() != oid.SpecID("crm.Customer") {
		t.Fatalf("SpecID = %q", s.SpecID())
	}
}

func TestSetRegistry_Pins(t *testing.T) {
	reset(t)

	reg := registry.New(config.DefaultConfig())
	if err := SetRegistry(reg); err != nil {
		t.Fatalf("SetRegistry: %v", err)
	}
	if !IsRegistryPinned() {
		t.Fatalf("registry not pinned")
	}
	res := Resolver()
	if err := SetConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if Registry() != reg {
		t.Fatalf("pinned registry was rebuilt")
	}
	if Resolver() == res {
		t.Fatalf("unpinned resolver was not rebuilt")
	}

	UnpinRegistry()
	if err := SetConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if Registry() == reg {
		t.Fatalf("registry should rebuild after UnpinRegistry")
	}
	if err := SetRegistry(nil); err != ErrNilRegistry {
		t.Fatalf("SetRegistry(nil) = %v, want ErrNilRegistry", err)
	}
}

func TestSetResolver_Pins(t *testing.T) {
	reset(t)

	if err := SetResolver(fixedResolver{name: "fixed.Name"}); err != nil {
		t.Fatalf("SetResolver: %v", err)
	}
	if err := SetConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if !IsResolverPinned() {
		t.Fatalf("resolver not pinned")
	}
	if got := SpecID(42); got != "fixed.Name" {
		t.Fatalf("SpecID = %q, want fixed.Name", got)
	}

	UnpinResolver()
	if err := SetConfig(config.DefaultConfig()); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if got := SpecID(&Customer{}); got != "causeway.Customer" {
		t.Fatalf("SpecID after unpin = %q", got)
	}
	if err := SetResolver(nil); err != ErrNilResolver {
		t.Fatalf("SetResolver(nil) = %v, want ErrNilResolver", err)
	}
}

func TestSetAll_PinsExplicitLayers(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	res := resolver.Default(reg)
	if err := SetAll(&cfg, reg, res); err != nil {
		t.Fatalf("SetAll: %v", err)
	}
	if Registry() != reg || Resolver() != res {
		t.Fatalf("SetAll did not install the given layers")
	}
	if !IsRegistryPinned() || !IsResolverPinned() {
		t.Fatalf("explicit layers should be pinned")
	}
	reset(t)
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("SetAll(nil...) should unpin")
	}
}

func TestLoad_Concurrent_With_SetConfig(t *testing.T) {
	reset(t)

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = SpecID(&Customer{})
				if _, err := LoadSpecification(reflect.TypeOf(Customer{})); err != nil {
					t.Errorf("LoadSpecification: %v", err)
					return
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			cfg := config.NewConfig(config.WithMaxUnwrap(4 + i%5))
			if err := SetConfig(cfg); err != nil {
				t.Errorf("SetConfig: %v", err)
			}
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}
