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

// Package state implements the vault lifecycle core: asset status
// transitions, vault stage advances, proposal validation and resolution,
// vote recording, claim normalization, and the system settings document.
// Every operation runs inside a single database transaction and rolls back
// entirely on error.
package state

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/event"
)

type VaultStateConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Database     *database.Database
}

type VaultState struct {
	config  VaultStateConfig
	db      *database.Database
	metrics stateMetrics
}

func NewVaultState(cfg VaultStateConfig) (*VaultState, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	vs := &VaultState{
		config: cfg,
		db:     cfg.Database,
	}
	vs.metrics.init(cfg.PromRegistry)
	// Seed the settings singleton on first start
	if err := vs.seedDefaultSettings(); err != nil {
		return nil, err
	}
	return vs, nil
}

// Database returns the underlying database instance
func (vs *VaultState) Database() *database.Database {
	return vs.db
}

func (vs *VaultState) logger() *slog.Logger {
	return vs.config.Logger
}

func (vs *VaultState) publish(eventType event.EventType, data any) {
	if vs.config.EventBus == nil {
		return
	}
	vs.config.EventBus.Publish(eventType, event.NewEvent(eventType, data))
}
