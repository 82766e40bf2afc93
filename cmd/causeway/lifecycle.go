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

package main

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dirpx.dev/causeway/adapter"
	"dirpx.dev/causeway/apis"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/internal/sample"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/objectstore"
	"dirpx.dev/causeway/services"
)

var lifecycleCmd = &cobra.Command{
	Use:   "lifecycle",
	Short: "Walk a team and a customer through create, persist, reload, update and delete",
	RunE:  runLifecycle,
}

func init() {
	lifecycleCmd.Flags().String("store", "memory", "object store (memory, sqlite, postgres)")
	lifecycleCmd.Flags().String("dsn", "causeway.db", "data source for the sqlite and postgres stores")
	lifecycleCmd.Flags().String("zone", "UTC", "time zone of the clock service")
	lifecycleCmd.Flags().Bool("metrics", false, "print the collected metrics when done")
	rootCmd.AddCommand(lifecycleCmd)
}

func runLifecycle(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("store")
	dsn, _ := cmd.Flags().GetString("dsn")
	zone, _ := cmd.Flags().GetString("zone")
	withMetrics, _ := cmd.Flags().GetBool("metrics")

	store, err := openStore(cmd.Context(), kind, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	l, err := loader.New(runtimeCfg, loader.WithLogger(logger), loader.WithMetrics(reg))
	if err != nil {
		return err
	}
	// Closing the loader unregisters its collectors.
	defer l.Close()

	out := cmd.OutOrStdout()
	r := &lifecycle{cfg: runtimeCfg, log: logger, store: store, metrics: reg, out: out, loader: l}
	if err := r.run(cmd.Context(), map[string]string{"clock.zone": zone}); err != nil {
		return err
	}
	if withMetrics {
		return printMetrics(out, reg)
	}
	return nil
}

func openStore(ctx context.Context, kind, dsn string) (*objectstore.Store, error) {
	opts := []objectstore.Option{objectstore.WithLogger(logger), objectstore.WithUser("causeway")}
	switch kind {
	case "memory":
		return objectstore.NewMemory(opts...), nil
	case "sqlite":
		return objectstore.OpenSQL(ctx, objectstore.DriverSQLite, dsn, opts...)
	case "postgres":
		return objectstore.OpenSQL(ctx, objectstore.DriverPostgres, dsn, opts...)
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}

// lifecycle holds the collaborators shared by the scenario steps.
type lifecycle struct {
	cfg     apis.Config
	log     *zap.Logger
	store   *objectstore.Store
	metrics prometheus.Registerer
	out     io.Writer

	loader   *loader.Loader
	services *services.Injector
}

func (r *lifecycle) run(ctx context.Context, props map[string]string) (err error) {
	r.services = services.New(r.loader, services.WithLogger(r.log))
	if err := r.services.Register(&sample.SystemClock{}); err != nil {
		return err
	}
	if err := r.services.Init(props); err != nil {
		return err
	}
	defer func() {
		if serr := r.services.Shutdown(); err == nil {
			err = serr
		}
	}()

	if err := r.team(ctx); err != nil {
		return errors.Wrap(err, "team")
	}
	return errors.Wrap(r.customer(ctx), "customer")
}

func (r *lifecycle) session(metered bool) (*adapter.Manager, error) {
	opts := []adapter.Option{adapter.WithLogger(r.log), adapter.WithServicesInjector(r.services)}
	if metered {
		opts = append(opts, adapter.WithMetrics(r.metrics))
	}
	return adapter.NewManager(r.cfg, r.loader, r.store, r.store, opts...)
}

func (r *lifecycle) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// team persists a team with three members, reloads it in a second session,
// renames it and deletes it.
func (r *lifecycle) team(ctx context.Context) error {
	ts, err := r.loader.LoadSpecification(reflect.TypeOf(sample.Team{}))
	if err != nil {
		return err
	}
	pojo, err := r.store.NewInstance(ts)
	if err != nil {
		return err
	}
	team := pojo.(*sample.Team)
	team.SetName("core")
	for _, n := range []string{"ann", "bob", "cid"} {
		team.AddToMembers(sample.NewMember(n))
	}

	s1, err := r.session(true)
	if err != nil {
		return err
	}
	a, err := s1.AdapterFor(team)
	if err != nil {
		return err
	}
	members, err := s1.AdapterForCollection(team.GetMembers(), a, "Members")
	if err != nil {
		return err
	}
	r.printf("created    %s", a.Oid())

	if err := r.store.Persist(ctx, s1, a); err != nil {
		return err
	}
	root, _ := a.RootOid()
	r.printf("persisted  %s (%s)", a.Oid(), a.State())
	r.printf("members    %s", members.Oid())

	// The key only: version checking is left to the store.
	s2, err := r.session(false)
	if err != nil {
		return err
	}
	b, err := s2.AdapterForOid(ctx, root.WithVersion(nil), r.cfg.ConcurrencyChecking)
	if err != nil {
		return err
	}
	r.printf("reloaded   %s %q size=%d", b.Oid(), b.Title(), b.Pojo().(*sample.Team).GetSize())

	b.Pojo().(*sample.Team).SetName("platform")
	if err := r.store.Persist(ctx, s2, b); err != nil {
		return err
	}
	r.printf("updated    %s %q", b.Oid(), b.Title())

	// s1 still holds the first version.
	team.SetSize(4)
	var conflict *adapter.ConcurrencyError
	if err := r.store.Persist(ctx, s1, a); errors.As(err, &conflict) {
		r.printf("conflict   %v", conflict)
	} else if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, s2, b); err != nil {
		return err
	}
	r.printf("deleted    %s (%s)", root.Key(), b.State())
	return nil
}

// customer shows service injection, an aggregated child and action
// invocation.
func (r *lifecycle) customer(ctx context.Context) error {
	cs, err := r.loader.LoadSpecification(reflect.TypeOf(sample.Customer{}))
	if err != nil {
		return err
	}
	pojo, err := r.store.NewInstance(cs)
	if err != nil {
		return err
	}
	c := pojo.(*sample.Customer)
	c.SetFirstName("Ada")
	c.SetLastName("Lovelace")
	addr := &sample.Address{}
	addr.SetStreet("12 St James's Square")
	addr.SetCity("London")
	c.SetAddress(addr)

	s, err := r.session(false)
	if err != nil {
		return err
	}
	a, err := s.AdapterFor(c)
	if err != nil {
		return err
	}
	home, err := s.AdapterForParented(addr, a)
	if err != nil {
		return err
	}
	place, ok := cs.Action("PlaceOrder")
	if !ok {
		return errors.New("PlaceOrder is not an action")
	}
	if _, err := place.Execute(facets.InteractionContext{Target: c, Args: []any{"tea", 0}}); err != nil {
		r.printf("vetoed     %v", err)
	}
	res, err := place.Execute(facets.InteractionContext{Target: c, Args: []any{"tea", 2}})
	if err != nil {
		return err
	}
	r.printf("ordered    %s for %q", res.(*sample.Order).Title(), a.Title())

	if err := r.store.Persist(ctx, s, a); err != nil {
		return err
	}
	r.printf("persisted  %s", a.Oid())
	r.printf("address    %s %q", home.Oid(), home.Title())
	return nil
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			}
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, v)
		}
	}
	return nil
}
