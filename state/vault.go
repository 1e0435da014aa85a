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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/event"
	"gorm.io/datatypes"
)

// VaultParams carries the nullable config fields applied to a vault once
// the corresponding on-chain action completes. Nil fields are left alone.
type VaultParams struct {
	AcquireMultiplier       *decimal.Decimal
	AdaDistribution         *string
	ApplyParamsResult       datatypes.JSON
	DispatchPreloadedScript *string
}

// CreateVault records a new vault in the draft stage. Later stages are
// reached through AdvanceVaultStage.
func (vs *VaultState) CreateVault(vault *models.Vault) error {
	err := vs.createVault(vault)
	vs.metrics.observe("vault_create", err)
	return err
}

func (vs *VaultState) createVault(vault *models.Vault) error {
	if vault.ID == uuid.Nil {
		vault.ID = uuid.New()
	}
	if vault.Stage != "" && vault.Stage != models.VaultStageDraft {
		return fmt.Errorf(
			"%w: vault %s: vaults are created in stage %s, not %q",
			ErrInvalidTransition,
			vault.ID,
			models.VaultStageDraft,
			vault.Stage,
		)
	}
	vault.Stage = models.VaultStageDraft
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		return translateStoreError(
			vs.db.Metadata().SetVault(vault, txn.Metadata()),
		)
	})
}

// GetVault retrieves a vault by id
func (vs *VaultState) GetVault(vaultID uuid.UUID) (*models.Vault, error) {
	vault, err := vs.db.Metadata().GetVault(vaultID, nil)
	if err != nil {
		return nil, err
	}
	if vault == nil {
		return nil, models.ErrVaultNotFound
	}
	return vault, nil
}

// GetVaults retrieves all vaults
func (vs *VaultState) GetVaults() ([]*models.Vault, error) {
	return vs.db.Metadata().GetVaults(nil)
}

// AdvanceVaultStage moves a vault forward to the target stage. Stages are
// monotonic: forward skips are allowed, any regression fails with
// ErrInvalidTransition. Arrival at the locked stage locks all pending
// assets of the vault in the same transaction; termination leaves asset
// rows alone since payout is owned by the claims flow.
func (vs *VaultState) AdvanceVaultStage(
	vaultID uuid.UUID,
	target models.VaultStage,
) error {
	err := vs.advanceVaultStage(vaultID, target)
	vs.metrics.observe("vault_stage", err)
	return err
}

func (vs *VaultState) advanceVaultStage(
	vaultID uuid.UUID,
	target models.VaultStage,
) error {
	if !target.Valid() {
		return fmt.Errorf(
			"%w: vault %s: unknown stage %q",
			ErrInvalidTransition,
			vaultID,
			target,
		)
	}
	var prior models.VaultStage
	var lockedAssets int64
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		vault, err := vs.db.Metadata().GetVault(vaultID, txn.Metadata())
		if err != nil {
			return err
		}
		if vault == nil {
			return models.ErrVaultNotFound
		}
		prior = vault.Stage
		if !prior.CanAdvanceTo(target) {
			return fmt.Errorf(
				"%w: vault %s: %s -> %s",
				ErrInvalidTransition,
				vaultID,
				prior,
				target,
			)
		}
		rows, err := vs.db.Metadata().UpdateVaultStage(
			vaultID,
			prior,
			target,
			txn.Metadata(),
		)
		if err != nil {
			return translateStoreError(err)
		}
		if rows == 0 {
			// A concurrent advance won the race
			return fmt.Errorf(
				"%w: vault %s: no longer in stage %s",
				ErrInvalidTransition,
				vaultID,
				prior,
			)
		}
		// The contribution window closes on arrival at locked
		if target == models.VaultStageLocked {
			lockedAssets, err = vs.db.Metadata().LockPendingAssets(
				vaultID,
				txn.Metadata(),
			)
			if err != nil {
				return translateStoreError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	vs.logger().Info(
		"vault stage advanced",
		"vault_id", vaultID,
		"from", prior,
		"to", target,
		"locked_assets", lockedAssets,
		"component", "state",
	)
	vs.publish(event.VaultStageEventType, event.VaultStageEvent{
		VaultID:      vaultID,
		PriorStage:   string(prior),
		Stage:        string(target),
		LockedAssets: lockedAssets,
		Timestamp:    time.Now(),
	})
	return nil
}

// ApplyVaultParams sets the nullable vault config fields. Only the non-nil
// fields of params are applied.
func (vs *VaultState) ApplyVaultParams(
	vaultID uuid.UUID,
	params VaultParams,
) error {
	err := vs.applyVaultParams(vaultID, params)
	vs.metrics.observe("vault_params", err)
	return err
}

func (vs *VaultState) applyVaultParams(
	vaultID uuid.UUID,
	params VaultParams,
) error {
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		vault, err := vs.db.Metadata().GetVault(vaultID, txn.Metadata())
		if err != nil {
			return err
		}
		if vault == nil {
			return models.ErrVaultNotFound
		}
		if params.AcquireMultiplier != nil {
			vault.AcquireMultiplier = params.AcquireMultiplier
		}
		if params.AdaDistribution != nil {
			vault.AdaDistribution = params.AdaDistribution
		}
		if params.ApplyParamsResult != nil {
			vault.ApplyParamsResult = params.ApplyParamsResult
		}
		if params.DispatchPreloadedScript != nil {
			vault.DispatchPreloadedScript = params.DispatchPreloadedScript
		}
		return translateStoreError(
			vs.db.Metadata().SetVault(vault, txn.Metadata()),
		)
	})
}
