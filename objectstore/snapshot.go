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

package objectstore

import (
	"encoding/json"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/facet"
	"dirpx.dev/causeway/facets"
	"dirpx.dev/causeway/spec"
)

// persistedProperties lists the value properties of s that are written to
// the store: settable, persisted and of a value type.
func persistedProperties(s *spec.Specification) []*spec.Property {
	var out []*spec.Property
	for _, p := range s.Properties() {
		if p.IsNotPersisted() || !p.ContainsFacet(facets.SetterType) {
			continue
		}
		if ps := p.Spec(); ps == nil || !ps.IsValue() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func valueFacet(p *spec.Property) (*facets.Value, bool) {
	return facet.Lookup[*facets.Value](p.Spec(), facets.ValueType)
}

// encodeState renders the persisted properties of pojo as a JSON object.
func encodeState(s *spec.Specification, pojo any) ([]byte, error) {
	state := make(map[string]string)
	for _, p := range persistedProperties(s) {
		vf, ok := valueFacet(p)
		if !ok {
			continue
		}
		v, err := p.Get(pojo)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s.%s", s.SpecID(), p.ID())
		}
		text, err := vf.Encode(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s.%s", s.SpecID(), p.ID())
		}
		state[p.ID()] = text
	}
	return json.Marshal(state)
}

// decodeState assigns the stored properties to pojo. Unknown keys are
// ignored so that removed properties do not break loading.
func decodeState(s *spec.Specification, pojo any, payload []byte) error {
	var state map[string]string
	if err := json.Unmarshal(payload, &state); err != nil {
		return errors.Wrapf(err, "decode %s payload", s.SpecID())
	}
	for _, p := range persistedProperties(s) {
		text, ok := state[p.ID()]
		if !ok {
			continue
		}
		vf, ok := valueFacet(p)
		if !ok {
			continue
		}
		v, err := vf.Decode(text)
		if err != nil {
			return errors.Wrapf(err, "decode %s.%s", s.SpecID(), p.ID())
		}
		if err := p.Set(pojo, v); err != nil {
			return errors.Wrapf(err, "set %s.%s", s.SpecID(), p.ID())
		}
	}
	return nil
}
