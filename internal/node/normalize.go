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

package node

import (
	"fmt"
	"log/slog"

	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/internal/config"
	"github.com/vaultforge/vaultd/state"
)

// NormalizeClaims runs a one-shot batch normalization pass over all claims
// and reports how many were changed. It opens the database exclusively, so
// the service must not be running at the same time.
func NormalizeClaims(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.New(&database.Config{
		DataDir:        cfg.DatabasePath,
		Logger:         logger,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	vaultState, err := state.NewVaultState(state.VaultStateConfig{
		Logger:   logger,
		Database: db,
	})
	if err != nil {
		return fmt.Errorf("initializing lifecycle state: %w", err)
	}

	normalized, err := vaultState.NormalizeAllClaims(cfg.NormalizeBatchSize)
	if err != nil {
		return fmt.Errorf("normalizing claims: %w", err)
	}
	logger.Info(
		fmt.Sprintf("normalized %d claims", normalized),
		"component", "node",
	)
	return nil
}
