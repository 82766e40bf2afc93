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

package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	mapped  prometheus.Gauge
	remaps  prometheus.Counter
	misses  prometheus.Counter
	created *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		mapped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "causeway",
			Subsystem: "adapter",
			Name:      "mapped",
			Help:      "Adapters currently present in the oid map.",
		}),
		remaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "causeway",
			Subsystem: "adapter",
			Name:      "remaps_total",
			Help:      "Transient adapters remapped as persistent.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "causeway",
			Subsystem: "adapter",
			Name:      "remap_misses_total",
			Help:      "Identity map entries missing while remapping.",
		}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "causeway",
			Subsystem: "adapter",
			Name:      "created_total",
			Help:      "Adapters created by kind.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.mapped, m.remaps, m.misses, m.created} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
