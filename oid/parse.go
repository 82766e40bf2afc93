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

package oid

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformedOid is returned by Parse for strings not produced by String().
var ErrMalformedOid = errors.New("causeway(oid): malformed oid")

// Parse reads the String() form of any Oid:
//
//	[!]spec:id[~collection|~spec:local][^seq:user:millis]
func Parse(s string) (Oid, error) {
	body, ver, err := splitVersion(s)
	if err != nil {
		return nil, err
	}
	rootPart, child, hasChild := strings.Cut(body, childSep)
	root, err := parseRoot(rootPart)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}
	root.version = ver
	if !hasChild {
		return root, nil
	}
	if child == "" || strings.Contains(child, childSep) {
		return nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad child segment", s)
	}
	if spec, local, ok := strings.Cut(child, idSep); ok {
		if spec == "" || local == "" {
			return nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad aggregated segment", s)
		}
		return NewAggregated(root, SpecID(spec), local), nil
	}
	return NewCollection(root, child), nil
}

// ParseRoot is Parse restricted to RootOids.
func ParseRoot(s string) (RootOid, error) {
	o, err := Parse(s)
	if err != nil {
		return RootOid{}, err
	}
	r, ok := o.(RootOid)
	if !ok {
		return RootOid{}, errors.Wrapf(ErrMalformedOid, "parse %q: not a root oid", s)
	}
	return r, nil
}

func parseRoot(s string) (RootOid, error) {
	transient := strings.HasPrefix(s, transientMarker)
	s = strings.TrimPrefix(s, transientMarker)
	spec, id, ok := strings.Cut(s, idSep)
	if !ok || spec == "" || id == "" {
		return RootOid{}, ErrMalformedOid
	}
	return RootOid{spec: SpecID(spec), id: id, transient: transient}, nil
}

func splitVersion(s string) (string, *Version, error) {
	i := strings.LastIndex(s, versionSep)
	if i < 0 {
		return s, nil, nil
	}
	body, enc := s[:i], s[i+1:]
	seqStr, rest, ok := strings.Cut(enc, idSep)
	if !ok {
		return "", nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad version", s)
	}
	j := strings.LastIndex(rest, idSep)
	if j < 0 {
		return "", nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad version", s)
	}
	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil {
		return "", nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad sequence", s)
	}
	v := &Version{Sequence: seq, User: rest[:j]}
	if ms := rest[j+1:]; ms != "" {
		n, err := strconv.ParseInt(ms, 10, 64)
		if err != nil {
			return "", nil, errors.Wrapf(ErrMalformedOid, "parse %q: bad timestamp", s)
		}
		v.Time = time.UnixMilli(n).UTC()
	}
	return body, v, nil
}
