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

package resolver_test

import (
	"reflect"
	"testing"

	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/registry"
	"dirpx.dev/causeway/resolver"
)

type Account struct{}
type Branch struct{}

type Loan struct{}

func (Loan) ObjectType() string { return "bank.LOAN" }

type fixed struct {
	name string
	ok   bool
}

func (f fixed) TryResolve(any, apis.Config) (string, bool) { return f.name, f.ok }
func (f fixed) TryResolveType(reflect.Type, apis.Config) (string, bool) {
	return f.name, f.ok
}

func TestNew_FirstHandledWins(t *testing.T) {
	r := resolver.New(nil, fixed{"", false}, fixed{"second", true}, fixed{"third", true})
	if got := r.Resolve(Account{}, config.DefaultConfig()); got != "second" {
		t.Fatalf("Resolve = %q, want second", got)
	}
	if got := r.ResolveType(reflect.TypeOf(Account{}), config.DefaultConfig()); got != "second" {
		t.Fatalf("ResolveType = %q, want second", got)
	}
	if got := resolver.New().ResolveType(reflect.TypeOf(Account{}), config.DefaultConfig()); got != "" {
		t.Fatalf("empty chain = %q, want empty", got)
	}
}

func TestNew_Comparable(t *testing.T) {
	a := resolver.New(fixed{"a", true})
	b := resolver.New(fixed{"a", true})
	var same apis.Resolver = a
	if a != same {
		t.Fatalf("resolver is not equal to itself")
	}
	if a == b {
		t.Fatalf("distinct resolvers compare equal")
	}
}

func TestDefault_Precedence(t *testing.T) {
	conf := config.DefaultConfig()
	reg := registry.New(conf)
	if err := reg.Register(reflect.TypeOf(Branch{}), "bank.BR"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// A registration never beats ObjectType().
	if err := reg.Register(reflect.TypeOf(Loan{}), "bank.IGNORED"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	r := resolver.Default(reg)

	cases := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(Loan{}), "bank.LOAN"},
		{reflect.TypeOf(&Branch{}), "bank.BR"},
		{reflect.TypeOf(Account{}), "resolver_test.Account"},
		{reflect.TypeOf([]*Branch{}), "[]resolver_test.Branch"},
	}
	for _, tc := range cases {
		if got := r.ResolveType(tc.typ, conf); got != tc.want {
			t.Fatalf("ResolveType(%v) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}
