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

// Package sample is a small domain used by the causeway command and its
// tests. It exercises every convention the metamodel understands.
package sample

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"dirpx.dev/causeway/apis"
)

// Money is a value type stored as cents.
type Money struct {
	Cents int64
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)), nil
}

func (m *Money) UnmarshalText(b []byte) error {
	var whole, frac int64
	if _, err := fmt.Sscanf(string(b), "%d.%d", &whole, &frac); err != nil {
		return err
	}
	m.Cents = whole*100 + frac
	return nil
}

// Clock is the service the domain asks for the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock service.
type SystemClock struct {
	zone *time.Location
}

func (c *SystemClock) Now() time.Time { return time.Now().In(c.zone) }

// PostConstruct reads the "clock.zone" property, defaulting to UTC.
func (c *SystemClock) PostConstruct(props map[string]string) error {
	c.zone = time.UTC
	if name := props["clock.zone"]; name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return err
		}
		c.zone = loc
	}
	return nil
}

func (c *SystemClock) PreDestroy() {}

// Address is owned by its Customer.
type Address struct {
	street, city string
}

func (a *Address) Aggregated()           {}
func (a *Address) GetStreet() string     { return a.street }
func (a *Address) SetStreet(v string)    { a.street = v }
func (a *Address) GetCity() string       { return a.city }
func (a *Address) SetCity(v string)      { a.city = v }
func (a *Address) ChoicesCity() []string { return []string{"Amsterdam", "Berlin", "Lisbon"} }
func (a *Address) Title() string         { return a.street + ", " + a.city }

// Customer places orders.
type Customer struct {
	Clock Clock

	first, last string
	credit      Money
	address     *Address
	orders      []*Order
}

func (c *Customer) ObjectType() string { return "crm.Customer" }

func (c *Customer) GetFirstName() string  { return c.first }
func (c *Customer) SetFirstName(v string) { c.first = v }
func (c *Customer) ValidateFirstName(v string) string {
	if strings.TrimSpace(v) == "" {
		return "first name is required"
	}
	return ""
}

func (c *Customer) GetLastName() string  { return c.last }
func (c *Customer) SetLastName(v string) { c.last = v }

func (c *Customer) GetCredit() Money          { return c.credit }
func (c *Customer) SetCredit(v Money)         { c.credit = v }
func (c *Customer) DefaultCredit() Money      { return Money{Cents: 10000} }
func (c *Customer) DescriptionCredit() string { return "remaining credit limit" }
func (c *Customer) DisableCredit(apis.UserMemento) string {
	return "credit is managed by finance"
}

func (c *Customer) GetAddress() *Address  { return c.address }
func (c *Customer) SetAddress(a *Address) { c.address = a }

func (c *Customer) GetOrders() []*Order  { return c.orders }
func (c *Customer) AddToOrders(o *Order) { c.orders = append(c.orders, o) }
func (c *Customer) RemoveFromOrders(o *Order) {
	for i, x := range c.orders {
		if x == o {
			c.orders = append(c.orders[:i], c.orders[i+1:]...)
			return
		}
	}
}

// PlaceOrder adds an order for qty units of product.
func (c *Customer) PlaceOrder(product string, qty int) *Order {
	o := &Order{product: product, qty: qty}
	if c.Clock != nil {
		o.placed = c.Clock.Now()
	}
	c.AddToOrders(o)
	return o
}

func (c *Customer) Name0PlaceOrder() string      { return "Product" }
func (c *Customer) Choices0PlaceOrder() []string { return []string{"tea", "coffee", "cocoa"} }
func (c *Customer) Default1PlaceOrder() int      { return 1 }
func (c *Customer) ValidatePlaceOrder(product string, qty int) string {
	if qty <= 0 {
		return "quantity must be positive"
	}
	return ""
}

func (c *Customer) Title() string { return c.first + " " + c.last }

// Order is a single purchase.
type Order struct {
	product string
	qty     int
	placed  time.Time
}

func (o *Order) GetProduct() string   { return o.product }
func (o *Order) GetQuantity() int     { return o.qty }
func (o *Order) SetQuantity(v int)    { o.qty = v }
func (o *Order) GetPlaced() time.Time { return o.placed }
func (o *Order) Title() string        { return fmt.Sprintf("%dx %s", o.qty, o.product) }

// Team groups members.
type Team struct {
	name    string
	size    int
	members []*Member
}

func (t *Team) GetName() string           { return t.name }
func (t *Team) SetName(v string)          { t.name = v }
func (t *Team) GetSize() int              { return t.size }
func (t *Team) SetSize(v int)             { t.size = v }
func (t *Team) GetMembers() []*Member     { return t.members }
func (t *Team) AddToMembers(m *Member)    { t.members = append(t.members, m); t.size = len(t.members) }
func (t *Team) RemoveFromMembers(*Member) {}
func (t *Team) Title() string             { return t.name }

// Member belongs to a Team.
type Member struct {
	name string
}

// NewMember returns a member called name.
func NewMember(name string) *Member { return &Member{name: name} }

func (m *Member) GetName() string  { return m.name }
func (m *Member) SetName(v string) { m.name = v }
func (m *Member) Title() string    { return m.name }

// Types lists the entity types of the sample domain.
func Types() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(Customer{}),
		reflect.TypeOf(Address{}),
		reflect.TypeOf(Order{}),
		reflect.TypeOf(Team{}),
		reflect.TypeOf(Member{}),
	}
}
