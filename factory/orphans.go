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

package factory

import (
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/causeway/apis"
)

// DetectOrphans consumes every remaining method shaped like a companion
// (see IsReserved) and returns their names. Each orphan is logged; with
// cfg.FailOnOrphans the first one is returned as a BuildError instead.
func DetectOrphans(t reflect.Type, r *MethodRemover, cfg apis.Config, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var orphans []string
	for _, m := range r.Remaining() {
		if !IsReserved(m.Name) {
			continue
		}
		if cfg.FailOnOrphans {
			return nil, NewBuildError(t, "", m.Name, ErrOrphanMethod, "no member matches")
		}
		r.Remove(m.Name)
		orphans = append(orphans, m.Name)
		log.Warn("orphaned supporting method",
			zap.String("type", t.String()),
			zap.String("method", m.Name))
	}
	return orphans, nil
}
