// Copyright 2025 Vaultforge Labs
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

package badger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// registerJournalMetrics exposes badger size gauges on the configured
// prometheus registry
func (d *BlobStoreBadger) registerJournalMetrics() {
	d.promRegistry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "journal_lsm_size_bytes",
				Help: "size of the journal LSM tree in bytes",
			},
			func() float64 {
				lsm, _ := d.db.Size()
				return float64(lsm)
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "journal_vlog_size_bytes",
				Help: "size of the journal value log in bytes",
			},
			func() float64 {
				_, vlog := d.db.Size()
				return float64(vlog)
			},
		),
	)
}
