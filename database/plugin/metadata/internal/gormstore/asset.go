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

package gormstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetAsset retrieves an asset by ID. Returns nil if not found.
func (s *Store) GetAsset(
	assetID uuid.UUID,
	txn types.Txn,
) (*models.Asset, error) {
	var asset models.Asset
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"id = ?",
		assetID,
	).First(&asset); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &asset, nil
}

// GetAssetsByVault retrieves all assets owned by a vault
func (s *Store) GetAssetsByVault(
	vaultID uuid.UUID,
	txn types.Txn,
) ([]*models.Asset, error) {
	var assets []*models.Asset
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"vault_id = ?",
		vaultID,
	).Order("created_at").Find(&assets); result.Error != nil {
		return nil, result.Error
	}
	return assets, nil
}

// SetAsset creates or updates an asset. status and origin_type are
// deliberately absent from the update column list: creation fixes the
// initial status and UpdateAssetStatus owns it thereafter, while
// origin_type is write-once.
func (s *Store) SetAsset(asset *models.Asset, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity",
			"updated_at",
		}),
	}
	if result := db.Clauses(onConflict).Create(asset); result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateAssetStatus moves an asset between statuses with a guard on the
// prior status, so two concurrent transitions cannot both succeed from the
// same state. Returns the number of rows updated.
func (s *Store) UpdateAssetStatus(
	assetID uuid.UUID,
	fromStatus models.AssetStatus,
	toStatus models.AssetStatus,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Asset{}).
		Where("id = ? AND status = ?", assetID, fromStatus).
		Updates(map[string]any{
			"status":     toStatus,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// LockPendingAssets moves all pending assets of a vault to locked. Used when
// the vault's contribution window closes.
func (s *Store) LockPendingAssets(
	vaultID uuid.UUID,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Asset{}).
		Where(
			"vault_id = ? AND status = ?",
			vaultID,
			models.AssetStatusPending,
		).
		Updates(map[string]any{
			"status":     models.AssetStatusLocked,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DistributeLockedAssets marks the given assets distributed, guarded on
// locked status. Returns the number of rows updated so the caller can detect
// assets that were not locked.
func (s *Store) DistributeLockedAssets(
	assetIDs []uuid.UUID,
	txn types.Txn,
) (int64, error) {
	if len(assetIDs) == 0 {
		return 0, nil
	}
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Asset{}).
		Where(
			"id IN ? AND status = ?",
			assetIDs,
			models.AssetStatusLocked,
		).
		Updates(map[string]any{
			"status":     models.AssetStatusDistributed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetAssetOrigin stamps the origin type on an asset whose origin is still
// unset. The WHERE on a NULL origin makes the column write-once at the
// store level. Returns the number of rows updated.
func (s *Store) SetAssetOrigin(
	assetID uuid.UUID,
	origin models.AssetOriginType,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Asset{}).
		Where("id = ? AND origin_type IS NULL", assetID).
		Updates(map[string]any{
			"origin_type": origin,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
