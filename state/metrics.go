// Copyright 2026 Vaultforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

type stateMetrics struct {
	operations       *prometheus.CounterVec
	operationErrors  *prometheus.CounterVec
	claimsNormalized prometheus.Counter
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	m.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultd_state_operations_total",
			Help: "lifecycle operations committed, per operation",
		},
		[]string{"operation"},
	)
	m.operationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultd_state_operation_errors_total",
			Help: "lifecycle operations rejected or failed, per operation",
		},
		[]string{"operation"},
	)
	m.claimsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vaultd_claims_normalized_total",
			Help: "claims whose embedded amount was folded into lovelace",
		},
	)
	if promRegistry != nil {
		promRegistry.MustRegister(
			m.operations,
			m.operationErrors,
			m.claimsNormalized,
		)
	}
}

func (m *stateMetrics) observe(operation string, err error) {
	if err != nil {
		m.operationErrors.WithLabelValues(operation).Inc()
		return
	}
	m.operations.WithLabelValues(operation).Inc()
}
