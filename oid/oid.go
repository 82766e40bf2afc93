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

// Package oid contains the identity value types of the adapter runtime:
// RootOid for top level objects, CollectionOid for the one-to-many
// collections of a root and AggregatedOid for objects owned by a root.
//
// All Oids are immutable values. Key() is the identity used by maps and
// deliberately excludes the version; String() is the full, parseable form.
package oid

import (
	"strconv"
	"strings"
)

// SpecID is the logical type name of an object specification.
type SpecID string

func (s SpecID) String() string { return string(s) }

// Oid identifies an object, transient or persistent.
type Oid interface {
	// SpecID is the logical type of the identified object.
	SpecID() SpecID
	// IsTransient reports whether the identity has not yet been persisted.
	IsTransient() bool
	// IsPersistent is !IsTransient.
	IsPersistent() bool
	// Key is the map identity of the Oid. Versions are not part of it.
	Key() string
	// Root returns the RootOid governing the persistence of this Oid.
	Root() RootOid
	// String is the parseable form, including the version if any.
	String() string
}

const (
	transientMarker = "!"
	idSep           = ":"
	childSep        = "~"
	versionSep      = "^"
)

// RootOid identifies a top level object.
type RootOid struct {
	spec      SpecID
	id        string
	transient bool
	version   *Version
}

// Ensure RootOid implements Oid.
var _ Oid = RootOid{}

// NewTransient returns a transient root identity.
func NewTransient(spec SpecID, id string) RootOid {
	return RootOid{spec: spec, id: id, transient: true}
}

// NewPersistent returns a persistent root identity without a version.
func NewPersistent(spec SpecID, id string) RootOid {
	return RootOid{spec: spec, id: id}
}

func (o RootOid) SpecID() SpecID       { return o.spec }
func (o RootOid) Identifier() string   { return o.id }
func (o RootOid) IsTransient() bool    { return o.transient }
func (o RootOid) IsPersistent() bool   { return !o.transient }
func (o RootOid) Version() *Version    { return o.version }
func (o RootOid) Root() RootOid        { return o }
func (o RootOid) IsZero() bool         { return o.spec == "" && o.id == "" }
func (o RootOid) Equal(p RootOid) bool { return o.Key() == p.Key() }

// WithVersion returns a copy of o carrying v.
func (o RootOid) WithVersion(v *Version) RootOid {
	o.version = v
	return o
}

// AsPersistent returns the persistent counterpart of o under id.
// The version is dropped; persistence assigns a new one.
func (o RootOid) AsPersistent(id string) RootOid {
	return RootOid{spec: o.spec, id: id}
}

func (o RootOid) Key() string {
	var b strings.Builder
	if o.transient {
		b.WriteString(transientMarker)
	}
	b.WriteString(string(o.spec))
	b.WriteString(idSep)
	b.WriteString(o.id)
	return b.String()
}

func (o RootOid) String() string {
	return o.Key() + encodeVersion(o.version)
}

// CollectionOid identifies one collection of a parent root. Its
// persistence state is always the parent's.
type CollectionOid struct {
	parent RootOid
	name   string
}

// Ensure CollectionOid implements Oid.
var _ Oid = CollectionOid{}

// NewCollection returns the identity of collection name owned by parent.
func NewCollection(parent RootOid, name string) CollectionOid {
	return CollectionOid{parent: parent, name: name}
}

func (o CollectionOid) SpecID() SpecID     { return o.parent.spec }
func (o CollectionOid) Parent() RootOid    { return o.parent }
func (o CollectionOid) Name() string       { return o.name }
func (o CollectionOid) IsTransient() bool  { return o.parent.transient }
func (o CollectionOid) IsPersistent() bool { return !o.parent.transient }
func (o CollectionOid) Root() RootOid      { return o.parent }
func (o CollectionOid) Key() string        { return o.parent.Key() + childSep + o.name }
func (o CollectionOid) String() string     { return o.Key() + encodeVersion(o.parent.version) }

// WithParent rebinds the collection to root, keeping its name.
func (o CollectionOid) WithParent(root RootOid) CollectionOid {
	return CollectionOid{parent: root, name: o.name}
}

// AggregatedOid identifies an object whose lifecycle is owned by a parent
// root. local is unique among the parent's aggregated children.
type AggregatedOid struct {
	parent RootOid
	spec   SpecID
	local  string
}

// Ensure AggregatedOid implements Oid.
var _ Oid = AggregatedOid{}

// NewAggregated returns the identity of an aggregated child of parent.
func NewAggregated(parent RootOid, spec SpecID, local string) AggregatedOid {
	return AggregatedOid{parent: parent, spec: spec, local: local}
}

func (o AggregatedOid) SpecID() SpecID     { return o.spec }
func (o AggregatedOid) Parent() RootOid    { return o.parent }
func (o AggregatedOid) LocalID() string    { return o.local }
func (o AggregatedOid) IsTransient() bool  { return o.parent.transient }
func (o AggregatedOid) IsPersistent() bool { return !o.parent.transient }
func (o AggregatedOid) Root() RootOid      { return o.parent }
func (o AggregatedOid) String() string     { return o.Key() + encodeVersion(o.parent.version) }

func (o AggregatedOid) Key() string {
	return o.parent.Key() + childSep + string(o.spec) + idSep + o.local
}

// WithParent rebinds the aggregated child to root.
func (o AggregatedOid) WithParent(root RootOid) AggregatedOid {
	return AggregatedOid{parent: root, spec: o.spec, local: o.local}
}

func encodeVersion(v *Version) string {
	if v == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(versionSep)
	b.WriteString(strconv.FormatInt(v.Sequence, 10))
	b.WriteString(idSep)
	b.WriteString(v.User)
	b.WriteString(idSep)
	if !v.Time.IsZero() {
		b.WriteString(strconv.FormatInt(v.Time.UnixMilli(), 10))
	}
	return b.String()
}
