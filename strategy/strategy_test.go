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

package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/registry"
	"dirpx.dev/causeway/strategy"
)

// Local domain types.
type Customer struct{}
type Order struct{}
type Box[T any] struct{ V T }

type Invoice struct{}

func (Invoice) ObjectType() string { return "billing.INV" }

type Ledger struct{}

func (*Ledger) ObjectType() string { return "billing.LDG" }

type Unnamed struct{}

func (Unnamed) ObjectType() string { return "" }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
		MapPreferElem:   true,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestObjectTypeStrategy(t *testing.T) {
	s := strategy.NewObjectTypeStrategy()
	conf := cfg()

	cases := []struct {
		name   string
		typ    reflect.Type
		want   string
		wantOK bool
	}{
		{"value receiver", reflect.TypeOf(Invoice{}), "billing.INV", true},
		{"value receiver via ptr", reflect.TypeOf(&Invoice{}), "billing.INV", true},
		{"ptr receiver on struct", reflect.TypeOf(Ledger{}), "billing.LDG", true},
		{"ptr receiver on ptr", reflect.TypeOf(&Ledger{}), "billing.LDG", true},
		{"empty name falls through", reflect.TypeOf(Unnamed{}), "", false},
		{"not implemented", reflect.TypeOf(Customer{}), "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, conf)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("TryResolveType(%v) = (%q,%v), want (%q,%v)", tc.typ, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if got, ok := s.TryResolve(&Ledger{}, conf); !ok || got != "billing.LDG" {
		t.Fatalf("TryResolve(&Ledger{}) = (%q,%v)", got, ok)
	}
}

func TestRegistryStrategy(t *testing.T) {
	conf := cfg()
	reg := registry.New(conf)
	if err := reg.Register(reflect.TypeOf(Customer{}), "crm.CUS"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	s := strategy.NewRegistryStrategy(reg)

	cases := []struct {
		name   string
		typ    reflect.Type
		want   string
		wantOK bool
	}{
		{"plain", reflect.TypeOf(Customer{}), "crm.CUS", true},
		{"ptr", reflect.TypeOf(&Customer{}), "crm.CUS", true},
		{"slice is a collection", reflect.TypeOf([]*Customer{}), "", false},
		{"map is a collection", reflect.TypeOf(map[string]Customer{}), "", false},
		{"unknown", reflect.TypeOf(Order{}), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, conf)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("TryResolveType(%v) = (%q,%v), want (%q,%v)", tc.typ, got, ok, tc.want, tc.wantOK)
			}
		})
	}

	if _, ok := strategy.NewRegistryStrategy(nil).TryResolve(Customer{}, conf); ok {
		t.Fatal("nil registry must never resolve")
	}
}

func TestReflectStrategy(t *testing.T) {
	s := strategy.NewReflectStrategy()

	cases := []struct {
		name string
		val  any
		cfg  apis.Config
		want string
	}{
		{"plain struct", Customer{}, cfg(), "strategy_test.Customer"},
		{"ptr", &Customer{}, cfg(), "strategy_test.Customer"},
		{"slice keeps shape", []*Customer{}, cfg(), "[]strategy_test.Customer"},
		{"array keeps shape", [2]Customer{}, cfg(), "[]strategy_test.Customer"},
		{"map keeps shape", map[string]*Order{}, cfg(), "map[string]strategy_test.Order"},
		{"chan unwraps", make(chan Customer), cfg(), "strategy_test.Customer"},
		{"bytes are a value", []byte("x"), cfg(), "[]byte"},
		{"builtin visible", 42, cfg(), "int"},
		{"builtin hidden", 42, cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), ""},
		{"generic strips params", Box[int]{}, cfg(), "strategy_test.Box"},
		{"anonymous elem", []struct{ X int }{}, cfg(), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.want {
				t.Fatalf("TryResolve(%T) = %q, want %q", tc.val, got, tc.want)
			}
		})
	}

	if _, ok := s.TryResolve(nil, cfg()); ok {
		t.Fatal("nil value: expected ok=false")
	}
	if _, ok := s.TryResolveType(nil, cfg()); ok {
		t.Fatal("nil type: expected ok=false")
	}
}

// Memoization is keyed by config knobs, so flipping IncludeBuiltins must
// never return a stale answer.
func TestReflectStrategy_CacheRespectsConfig(t *testing.T) {
	s := strategy.NewReflectStrategy()
	typ := reflect.TypeOf(0)
	if got, _ := s.TryResolveType(typ, cfg()); got != "int" {
		t.Fatalf("visible: got %q", got)
	}
	if got, _ := s.TryResolveType(typ, cfg(func(c *apis.Config) { c.IncludeBuiltins = false })); got != "" {
		t.Fatalf("hidden: got %q", got)
	}
	if got, _ := s.TryResolveType(typ, cfg()); got != "int" {
		t.Fatalf("visible again: got %q", got)
	}
}

func TestStrategies_ConcurrentResolve(t *testing.T) {
	conf := cfg()
	reg := registry.New(conf)
	if err := reg.Register(reflect.TypeOf(Customer{}), "crm.CUS"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	strats := []apis.Strategy{
		strategy.NewObjectTypeStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	}
	types := []reflect.Type{
		reflect.TypeOf(Invoice{}),
		reflect.TypeOf(&Customer{}),
		reflect.TypeOf([]*Customer{}),
		reflect.TypeOf(Box[string]{}),
	}
	want := []string{"billing.INV", "crm.CUS", "[]strategy_test.Customer", "strategy_test.Box"}

	resolve := func(t reflect.Type) string {
		for _, s := range strats {
			if name, ok := s.TryResolveType(t, conf); ok {
				return name
			}
		}
		return ""
	}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan string, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				if got := resolve(types[idx]); got != want[idx] {
					errCh <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for got := range errCh {
		t.Fatalf("unexpected concurrent result %q", got)
	}
}

func BenchmarkReflectStrategy_ByType(b *testing.B) {
	s := strategy.NewReflectStrategy()
	conf := cfg()
	types := []reflect.Type{
		reflect.TypeOf(Customer{}),
		reflect.TypeOf(&Customer{}),
		reflect.TypeOf([]*Customer{}),
		reflect.TypeOf(map[string]Order{}),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.TryResolveType(types[i%len(types)], conf)
	}
}
