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

package services_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/causeway/config"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/services"
)

type Clock interface {
	Now() string
}

type FixedClock struct {
	started bool
	order   *[]string
}

func (c *FixedClock) Now() string { return "noon" }
func (c *FixedClock) PostConstruct(props map[string]string) error {
	c.started = props["clock"] == "on"
	return nil
}
func (c *FixedClock) PreDestroy() {
	*c.order = append(*c.order, "clock")
}

type Repository struct {
	Clock  Clock
	closed bool
	order  *[]string
}

func (r *Repository) PostConstruct() {}
func (r *Repository) PreDestroy() error {
	*r.order = append(*r.order, "repository")
	return errors.New("flush failed")
}

type Order struct {
	Clock Clock
	Repo  *Repository
	note  *Repository
}

func (o *Order) GetNote() string { return "" }

func newInjector(t *testing.T) *services.Injector {
	t.Helper()
	l, err := loader.New(config.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return services.New(l)
}

func TestRegisterAndInject(t *testing.T) {
	in := newInjector(t)
	var order []string
	clock := &FixedClock{order: &order}
	repo := &Repository{order: &order}
	require.NoError(t, in.Register(clock, repo))
	require.Equal(t, []any{clock, repo}, in.Services())

	got, ok := in.Lookup(reflect.TypeOf((*Clock)(nil)).Elem())
	require.True(t, ok)
	require.Same(t, clock, got)

	o := &Order{}
	in.InjectServicesInto(o)
	require.Same(t, clock, o.Clock)
	require.Same(t, repo, o.Repo)
	require.Nil(t, o.note)

	in.InjectServicesInto(Order{})
	in.InjectServicesInto(nil)
}

func TestRegisterErrors(t *testing.T) {
	in := newInjector(t)
	require.ErrorIs(t, in.Register(FixedClock{}), services.ErrNotPointer)
	require.ErrorIs(t, in.Register((*FixedClock)(nil)), services.ErrNotPointer)
	require.NoError(t, in.Register(&FixedClock{}))
	require.ErrorIs(t, in.Register(&FixedClock{}), services.ErrDuplicateService)
}

func TestInitAndShutdown(t *testing.T) {
	in := newInjector(t)
	var order []string
	clock := &FixedClock{order: &order}
	repo := &Repository{order: &order}
	require.NoError(t, in.Register(clock, repo))

	require.NoError(t, in.Init(map[string]string{"clock": "on"}))
	require.True(t, clock.started)
	require.Same(t, clock, repo.Clock)
	require.ErrorIs(t, in.Init(nil), services.ErrStarted)
	require.ErrorIs(t, in.Register(&Order{}), services.ErrStarted)

	err := in.Shutdown()
	require.ErrorContains(t, err, "flush failed")
	require.Equal(t, []string{"repository", "clock"}, order)
}
