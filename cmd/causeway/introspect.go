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
	"fmt"
	"io"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/internal/sample"
	"dirpx.dev/causeway/loader"
	"dirpx.dev/causeway/oid"
	"dirpx.dev/causeway/spec"
)

var introspectCmd = &cobra.Command{
	Use:   "introspect [spec-id...]",
	Short: "Dump the specifications of the sample domain",
	Long: "introspect builds the metamodel of the sample domain and prints the " +
		"requested specifications, or every entity specification when none are named.",
	RunE: runIntrospect,
}

func init() {
	introspectCmd.Flags().StringP("format", "f", "text", "output format (text, toml)")
	introspectCmd.Flags().Bool("all", false, "include value and collection specifications")
	rootCmd.AddCommand(introspectCmd)
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	all, _ := cmd.Flags().GetBool("all")

	l, err := loader.New(runtimeCfg, loader.WithLogger(logger))
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Register(sample.Types()...); err != nil {
		return err
	}
	if err := l.IntrospectAll(cmd.Context()); err != nil {
		return err
	}

	specs, err := selectSpecs(l, args, all)
	if err != nil {
		return err
	}
	return writeSpecs(cmd.OutOrStdout(), specs, format)
}

// selectSpecs returns the named specifications, or every entity
// specification known to l when ids is empty.
func selectSpecs(l *loader.Loader, ids []string, all bool) ([]*spec.Specification, error) {
	if len(ids) == 0 {
		var out []*spec.Specification
		for _, s := range l.Specifications() {
			if all || !(s.IsValue() || s.IsCollection()) {
				out = append(out, s)
			}
		}
		return out, nil
	}
	out := make([]*spec.Specification, 0, len(ids))
	for _, id := range ids {
		s, err := l.LookupBySpecID(oid.SpecID(id))
		if err != nil {
			return nil, errors.Wrapf(err, "introspect %s", id)
		}
		out = append(out, s)
	}
	return out, nil
}

type dumpFile struct {
	Specifications []specDump `toml:"specification"`
}

type specDump struct {
	SpecID      string       `toml:"spec_id"`
	Type        string       `toml:"type"`
	Name        string       `toml:"name"`
	Superclass  string       `toml:"superclass,omitempty"`
	Facets      []string     `toml:"facets"`
	Properties  []memberDump `toml:"property,omitempty"`
	Collections []memberDump `toml:"collection,omitempty"`
	Actions     []memberDump `toml:"action,omitempty"`
}

type memberDump struct {
	ID     string      `toml:"id"`
	Name   string      `toml:"name"`
	Type   string      `toml:"type,omitempty"`
	Facets []string    `toml:"facets"`
	Params []paramDump `toml:"param,omitempty"`
}

type paramDump struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Facets []string `toml:"facets"`
}

func facetNames(h facet.Holder) []string {
	types := h.FacetTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.String())
	}
	slices.Sort(out)
	return out
}

func dumpSpec(s *spec.Specification) specDump {
	d := specDump{
		SpecID: string(s.SpecID()),
		Type:   s.Type().String(),
		Name:   s.SingularName(),
		Facets: facetNames(s),
	}
	if super := s.Superclass(); super != nil {
		d.Superclass = string(super.SpecID())
	}
	for _, p := range s.Properties() {
		d.Properties = append(d.Properties, memberDump{
			ID: p.ID(), Name: p.Name(), Type: p.Type().String(), Facets: facetNames(p),
		})
	}
	for _, c := range s.Collections() {
		d.Collections = append(d.Collections, memberDump{
			ID: c.ID(), Name: c.Name(), Type: c.Type().String(), Facets: facetNames(c),
		})
	}
	for _, a := range s.Actions() {
		md := memberDump{ID: a.ID(), Name: a.Name(), Facets: facetNames(a)}
		if rt := a.ReturnType(); rt != nil {
			md.Type = rt.String()
		}
		for _, p := range a.Parameters() {
			md.Params = append(md.Params, paramDump{Name: p.Name(), Type: p.Type().String(), Facets: facetNames(p)})
		}
		d.Actions = append(d.Actions, md)
	}
	return d
}

func writeSpecs(w io.Writer, specs []*spec.Specification, format string) error {
	f := dumpFile{Specifications: make([]specDump, 0, len(specs))}
	for _, s := range specs {
		f.Specifications = append(f.Specifications, dumpSpec(s))
	}

	switch format {
	case "toml":
		data, err := toml.Marshal(f)
		if err != nil {
			return errors.Wrap(err, "encode toml")
		}
		_, err = w.Write(data)
		return err
	case "text":
		return writeText(w, f)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, f dumpFile) error {
	for i, s := range f.Specifications {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n", s.SpecID, s.Type)
		if s.Superclass != "" {
			fmt.Fprintf(w, "  extends %s\n", s.Superclass)
		}
		fmt.Fprintf(w, "  facets: %v\n", s.Facets)
		for _, p := range s.Properties {
			fmt.Fprintf(w, "  property   %-12s %-14s %v\n", p.ID, p.Type, p.Facets)
		}
		for _, c := range s.Collections {
			fmt.Fprintf(w, "  collection %-12s %-14s %v\n", c.ID, c.Type, c.Facets)
		}
		for _, a := range s.Actions {
			fmt.Fprintf(w, "  action     %-12s %-14s %v\n", a.ID, a.Type, a.Facets)
			for _, p := range a.Params {
				fmt.Fprintf(w, "    param %-10s %-14s %v\n", p.Name, p.Type, p.Facets)
			}
		}
	}
	return nil
}
