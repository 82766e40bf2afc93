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
	"context"
	"sync"

	"github.com/pkg/errors"

	"dirpx.dev/causeway/oid"
)

type memoryBackend struct {
	mu        sync.RWMutex
	objects   map[string]record
	sequences map[oid.SpecID]int64
}

// NewMemory returns a Store that keeps objects in process memory.
func NewMemory(opts ...Option) *Store {
	return newStore(&memoryBackend{
		objects:   make(map[string]record),
		sequences: make(map[oid.SpecID]int64),
	}, opts...)
}

func (b *memoryBackend) nextSequence(_ context.Context, spec oid.SpecID) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sequences[spec]++
	return b.sequences[spec], nil
}

func (b *memoryBackend) insert(_ context.Context, r record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[r.Key]; ok {
		return errors.Errorf("causeway(objectstore): %s already stored", r.Key)
	}
	b.objects[r.Key] = cloneRecord(r)
	return nil
}

func (b *memoryBackend) update(_ context.Context, r record, prev int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.objects[r.Key]
	if !ok {
		return false, errors.Wrap(ErrNotFound, r.Key)
	}
	if cur.Version != prev {
		return false, nil
	}
	b.objects[r.Key] = cloneRecord(r)
	return true, nil
}

func (b *memoryBackend) load(_ context.Context, key string) (record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.objects[key]
	if !ok {
		return record{}, errors.Wrap(ErrNotFound, key)
	}
	return cloneRecord(r), nil
}

func (b *memoryBackend) delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return errors.Wrap(ErrNotFound, key)
	}
	delete(b.objects, key)
	return nil
}

func (b *memoryBackend) close() error { return nil }

func cloneRecord(r record) record {
	r.Payload = append([]byte(nil), r.Payload...)
	return r
}
