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

// GetVault retrieves a vault by ID. Returns nil if not found.
func (s *Store) GetVault(
	vaultID uuid.UUID,
	txn types.Txn,
) (*models.Vault, error) {
	var vault models.Vault
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"id = ?",
		vaultID,
	).First(&vault); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &vault, nil
}

// GetVaults retrieves all vaults ordered by creation time
func (s *Store) GetVaults(txn types.Txn) ([]*models.Vault, error) {
	var vaults []*models.Vault
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Order("created_at").Find(&vaults); result.Error != nil {
		return nil, result.Error
	}
	return vaults, nil
}

// SetVault creates or updates a vault
func (s *Store) SetVault(vault *models.Vault, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"stage",
			"acquire_multiplier",
			"ada_distribution",
			"apply_params_result",
			"dispatch_preloaded_script",
			"updated_at",
		}),
	}
	if result := db.Clauses(onConflict).Create(vault); result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateVaultStage moves a vault from one stage to another with a guard on
// the prior stage. Returns the number of rows updated; zero means the vault
// was not in the expected stage when the update ran.
func (s *Store) UpdateVaultStage(
	vaultID uuid.UUID,
	fromStage models.VaultStage,
	toStage models.VaultStage,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Vault{}).
		Where("id = ? AND stage = ?", vaultID, fromStage).
		Updates(map[string]any{
			"stage":      toStage,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
