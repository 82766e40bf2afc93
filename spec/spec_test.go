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

package spec_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/internal/sample"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/spec"
)

type Account struct {
	code string
}

func (a *Account) GetCode() string  { return a.code }
func (a *Account) SetCode(v string) { a.code = v }
func (a *Account) HideCode() bool   { return true }

type Savings struct {
	Account
	rate int
}

func (s *Savings) GetRate() int { return s.rate }

func load(t *testing.T, v any) *spec.Specification {
	t.Helper()
	l, err := loader.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	s, err := l.LoadSpecificationFor(v)
	require.NoError(t, err)
	return s
}

func TestHumanize(t *testing.T) {
	for in, want := range map[string]string{
		"FirstName":  "First Name",
		"HTTPServer": "HTTP Server",
		"Address2":   "Address2",
		"Line2Text":  "Line2 Text",
		"x":          "x",
		"":           "",
	} {
		require.Equal(t, want, spec.Humanize(in), in)
	}
}

func TestProperty_Modify(t *testing.T) {
	s := load(t, &sample.Customer{})
	c := &sample.Customer{}

	first, ok := s.Property("FirstName")
	require.True(t, ok)
	require.Equal(t, "First Name", first.Name())

	err := first.Modify(facets.InteractionContext{Target: c, Proposed: "  "})
	require.ErrorIs(t, err, spec.ErrInvalid)
	var veto *spec.VetoError
	require.ErrorAs(t, err, &veto)
	require.Equal(t, "first name is required", veto.Reason)

	require.NoError(t, first.Modify(facets.InteractionContext{Target: c, Proposed: "Grace"}))
	got, err := first.Get(c)
	require.NoError(t, err)
	require.Equal(t, "Grace", got)

	last, ok := s.Property("LastName")
	require.True(t, ok)
	require.NoError(t, last.Set(c, "Hopper"))
	require.NoError(t, last.Modify(facets.InteractionContext{Target: c, Proposed: nil}))
	require.Empty(t, c.GetLastName())
}

func TestProperty_DisabledAndSupports(t *testing.T) {
	s := load(t, &sample.Customer{})
	c := &sample.Customer{}

	credit, ok := s.Property("Credit")
	require.True(t, ok)
	require.Equal(t, "remaining credit limit", credit.Description())
	require.Equal(t, "credit is managed by finance", credit.Disabled(facets.InteractionContext{Target: c}))
	require.ErrorIs(t, credit.Modify(facets.InteractionContext{Target: c, Proposed: sample.Money{Cents: 1}}), spec.ErrDisabled)

	d, err := credit.Default(c)
	require.NoError(t, err)
	require.Equal(t, sample.Money{Cents: 10000}, d)

	as := load(t, &sample.Address{})
	city, ok := as.Property("City")
	require.True(t, ok)
	choices, err := city.Choices(&sample.Address{})
	require.NoError(t, err)
	require.Equal(t, []any{"Amsterdam", "Berlin", "Lisbon"}, choices)
}

func TestProperty_Hidden(t *testing.T) {
	s := load(t, &Account{})
	code, ok := s.Property("Code")
	require.True(t, ok)
	err := code.Modify(facets.InteractionContext{Target: &Account{}, Proposed: "x"})
	require.ErrorIs(t, err, spec.ErrHidden)
}

func TestCollection_AddRemove(t *testing.T) {
	s := load(t, &sample.Customer{})
	c := &sample.Customer{}

	orders, ok := s.Collection("Orders")
	require.True(t, ok)
	require.Equal(t, reflect.TypeOf(&sample.Order{}), orders.ElementType())
	require.NotNil(t, orders.ElementSpec())

	o := &sample.Order{}
	require.NoError(t, orders.Add(facets.InteractionContext{Target: c, Proposed: o}))
	elems, err := orders.Elements(c)
	require.NoError(t, err)
	require.Equal(t, []any{o}, elems)

	require.NoError(t, orders.Remove(facets.InteractionContext{Target: c, Proposed: o}))
	require.Empty(t, c.GetOrders())
}

func TestAction_Execute(t *testing.T) {
	s := load(t, &sample.Customer{})
	c := &sample.Customer{}

	place, ok := s.Action("PlaceOrder")
	require.True(t, ok)
	require.Len(t, place.Parameters(), 2)
	require.Equal(t, "Product", place.Parameters()[0].Name())
	require.Equal(t, reflect.TypeOf(&sample.Order{}), place.ReturnType())
	require.False(t, place.IsContributed())

	_, err := place.Execute(facets.InteractionContext{Target: c, Args: []any{"tea"}})
	require.ErrorIs(t, err, spec.ErrInvalid)
	_, err = place.Execute(facets.InteractionContext{Target: c, Args: []any{"tea", 0}})
	require.ErrorIs(t, err, spec.ErrInvalid)

	res, err := place.Execute(facets.InteractionContext{Target: c, Args: []any{"tea", 2}})
	require.NoError(t, err)
	require.Equal(t, "2x tea", res.(*sample.Order).Title())
	require.Len(t, c.GetOrders(), 1)
}

func TestSpecification_TitleAndHierarchy(t *testing.T) {
	cs := load(t, &sample.Customer{})
	c := &sample.Customer{}
	c.SetFirstName("Ada")
	c.SetLastName("Lovelace")
	require.Equal(t, "Ada Lovelace", cs.Title(c))
	require.Equal(t, "crm.Customer", string(cs.SpecID()))
	require.True(t, cs.IsIntrospected())

	l, err := loader.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	ss, err := l.LoadSpecification(reflect.TypeOf(Savings{}))
	require.NoError(t, err)
	as, err := l.LoadSpecification(reflect.TypeOf(Account{}))
	require.NoError(t, err)

	require.Same(t, as, ss.Superclass())
	require.True(t, ss.IsOfType(as))
	require.False(t, as.IsOfType(ss))
	require.Contains(t, as.Subclasses(), ss)
}
