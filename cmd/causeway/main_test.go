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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func findMember(ms []memberDump, id string) (memberDump, bool) {
	for _, m := range ms {
		if m.ID == id {
			return m, true
		}
	}
	return memberDump{}, false
}

func TestIntrospect_TOML(t *testing.T) {
	out, err := execute(t, "introspect", "--format", "toml", "--all=false", "crm.Customer")
	require.NoError(t, err)

	var f dumpFile
	require.NoError(t, toml.Unmarshal([]byte(out), &f))
	require.Len(t, f.Specifications, 1)

	c := f.Specifications[0]
	require.Equal(t, "crm.Customer", c.SpecID)
	require.Contains(t, c.Facets, "ObjectType")

	first, ok := findMember(c.Properties, "FirstName")
	require.True(t, ok)
	require.Equal(t, "string", first.Type)

	_, ok = findMember(c.Collections, "Orders")
	require.True(t, ok)

	place, ok := findMember(c.Actions, "PlaceOrder")
	require.True(t, ok)
	require.Len(t, place.Params, 2)
	require.Equal(t, "Product", place.Params[0].Name)

	// Companions never show up as actions.
	_, ok = findMember(c.Actions, "ValidatePlaceOrder")
	require.False(t, ok)
}

func TestIntrospect_TextListsEntities(t *testing.T) {
	out, err := execute(t, "introspect", "--format", "text", "--all=false")
	require.NoError(t, err)
	require.Contains(t, out, "crm.Customer (sample.Customer)")
	require.Contains(t, out, "sample.Team (sample.Team)")
	require.NotContains(t, out, "(string)\n")
}

func TestIntrospect_Errors(t *testing.T) {
	_, err := execute(t, "introspect", "--format", "text", "--all=false", "no.Such")
	require.Error(t, err)

	_, err = execute(t, "introspect", "--format", "yaml", "--all=false")
	require.Error(t, err)
}

func TestLifecycle_Memory(t *testing.T) {
	out, err := execute(t, "lifecycle", "--store", "memory", "--metrics", "--zone", "UTC")
	require.NoError(t, err)

	for _, want := range []string{"created", "persisted", "reloaded", `"platform"`, "conflict", "deleted", "vetoed", "ordered", "address"} {
		require.Contains(t, out, want)
	}
	require.Contains(t, out, "causeway_adapter_remaps_total")
	require.Contains(t, out, "causeway_loader_specifications_total")
	require.Contains(t, out, "causeway_loader_introspection_seconds")
}

func TestLifecycle_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "lifecycle.db")
	out, err := execute(t, "lifecycle", "--store", "sqlite", "--dsn", dsn, "--metrics=false", "--zone", "UTC")
	require.NoError(t, err)
	require.Contains(t, out, "deleted")
	require.NotContains(t, out, "causeway_adapter")
}

func TestLifecycle_UnknownStore(t *testing.T) {
	_, err := execute(t, "lifecycle", "--store", "s3", "--metrics=false")
	require.ErrorContains(t, err, "unknown store")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "causeway dev "))
}
