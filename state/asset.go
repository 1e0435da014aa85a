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
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/event"
)

// CreateAsset records a new asset in pending status. Assets enter the
// lifecycle at pending only; later statuses are reached through
// TransitionAsset. The origin type, when given, is fixed for the life of
// the asset.
func (vs *VaultState) CreateAsset(asset *models.Asset) error {
	err := vs.createAsset(asset)
	vs.metrics.observe("asset_create", err)
	return err
}

func (vs *VaultState) createAsset(asset *models.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if asset.Status != "" && asset.Status != models.AssetStatusPending {
		return fmt.Errorf(
			"%w: asset %s: assets are created in status %s, not %q",
			ErrInvalidTransition,
			asset.ID,
			models.AssetStatusPending,
			asset.Status,
		)
	}
	asset.Status = models.AssetStatusPending
	if asset.OriginType != nil && !asset.OriginType.Valid() {
		return fmt.Errorf(
			"%w: asset %s: unknown origin type %q",
			ErrImmutableField,
			asset.ID,
			*asset.OriginType,
		)
	}
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		return translateStoreError(
			vs.db.Metadata().SetAsset(asset, txn.Metadata()),
		)
	})
}

// GetAsset retrieves an asset by id
func (vs *VaultState) GetAsset(assetID uuid.UUID) (*models.Asset, error) {
	asset, err := vs.db.Metadata().GetAsset(assetID, nil)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, models.ErrAssetNotFound
	}
	return asset, nil
}

// GetAssetsByVault retrieves all assets of a vault
func (vs *VaultState) GetAssetsByVault(
	vaultID uuid.UUID,
) ([]*models.Asset, error) {
	return vs.db.Metadata().GetAssetsByVault(vaultID, nil)
}

// TransitionAsset moves an asset to the target status along the legal
// edges only. The store-level UPDATE is guarded on the prior status, so two
// concurrent transitions from the same state cannot both succeed.
func (vs *VaultState) TransitionAsset(
	assetID uuid.UUID,
	target models.AssetStatus,
) error {
	err := vs.transitionAsset(assetID, target)
	vs.metrics.observe("asset_transition", err)
	return err
}

func (vs *VaultState) transitionAsset(
	assetID uuid.UUID,
	target models.AssetStatus,
) error {
	if !target.Valid() {
		return fmt.Errorf(
			"%w: asset %s: unknown status %q",
			ErrInvalidTransition,
			assetID,
			target,
		)
	}
	var prior models.AssetStatus
	var vaultID uuid.UUID
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		asset, err := vs.db.Metadata().GetAsset(assetID, txn.Metadata())
		if err != nil {
			return err
		}
		if asset == nil {
			return models.ErrAssetNotFound
		}
		prior = asset.Status
		vaultID = asset.VaultID
		if !prior.CanTransitionTo(target) {
			return fmt.Errorf(
				"%w: asset %s: %s -> %s",
				ErrInvalidTransition,
				assetID,
				prior,
				target,
			)
		}
		rows, err := vs.db.Metadata().UpdateAssetStatus(
			assetID,
			prior,
			target,
			txn.Metadata(),
		)
		if err != nil {
			return translateStoreError(err)
		}
		if rows == 0 {
			// A concurrent transition won the race
			return fmt.Errorf(
				"%w: asset %s: no longer in status %s",
				ErrInvalidTransition,
				assetID,
				prior,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}
	vs.publish(event.AssetStatusEventType, event.AssetStatusEvent{
		AssetID:     assetID,
		VaultID:     vaultID,
		PriorStatus: string(prior),
		Status:      string(target),
		Timestamp:   time.Now(),
	})
	return nil
}

// SetAssetOrigin stamps the origin type on an asset that was created without
// one. The origin is write-once: any attempt to change an existing origin
// fails with ErrImmutableField.
func (vs *VaultState) SetAssetOrigin(
	assetID uuid.UUID,
	origin models.AssetOriginType,
) error {
	err := vs.setAssetOrigin(assetID, origin)
	vs.metrics.observe("asset_origin", err)
	return err
}

func (vs *VaultState) setAssetOrigin(
	assetID uuid.UUID,
	origin models.AssetOriginType,
) error {
	if !origin.Valid() {
		return fmt.Errorf(
			"%w: asset %s: unknown origin type %q",
			ErrImmutableField,
			assetID,
			origin,
		)
	}
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		asset, err := vs.db.Metadata().GetAsset(assetID, txn.Metadata())
		if err != nil {
			return err
		}
		if asset == nil {
			return models.ErrAssetNotFound
		}
		if asset.OriginType != nil {
			if *asset.OriginType == origin {
				// Same value, nothing to do
				return nil
			}
			return fmt.Errorf(
				"%w: asset %s: origin_type already %q",
				ErrImmutableField,
				assetID,
				*asset.OriginType,
			)
		}
		rows, err := vs.db.Metadata().SetAssetOrigin(
			assetID,
			origin,
			txn.Metadata(),
		)
		if err != nil {
			return translateStoreError(err)
		}
		if rows == 0 {
			// A concurrent write stamped the origin first
			return fmt.Errorf(
				"%w: asset %s: origin_type already set",
				ErrImmutableField,
				assetID,
			)
		}
		return nil
	})
}
