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

package apis

// Config carries read-only knobs for naming, introspection and the adapter
// runtime. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// IncludeBuiltins controls whether builtin/no-package named types
	// (e.g., "int", "string") receive a logical type name. If false, such
	// cases yield "".
	IncludeBuiltins bool

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when deriving logical type names.
	MaxUnwrap int

	// MapPreferElem controls which side of map[K]V is considered "primary"
	// when searching for a nearest named inner type. If true, prefer V.
	MapPreferElem bool

	// FailOnOrphans turns orphaned supporting methods (for example a
	// HideFoo without any Foo member) into specification build errors.
	// When false they are only logged.
	FailOnOrphans bool

	// IntrospectionWorkers bounds the parallelism of the full
	// introspection pass. Values <= 0 mean runtime.GOMAXPROCS(0).
	IntrospectionWorkers int

	// ConcurrencyChecking is the default for version checks when objects
	// are fetched by a versioned Oid.
	ConcurrencyChecking bool

	// StrictRemap turns best-effort removal misses during the
	// transient-to-persistent remap into assertion failures.
	StrictRemap bool

	// LogLevel is the minimum zap level ("debug", "info", "warn", "error").
	LogLevel string

	// LogFormat selects the zap encoder ("json" or "console").
	LogFormat string
}
