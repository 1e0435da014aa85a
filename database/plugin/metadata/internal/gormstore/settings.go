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

	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSystemSettings retrieves the singleton settings row. Returns nil if it
// hasn't been created yet.
func (s *Store) GetSystemSettings(
	txn types.Txn,
) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"id = ?",
		models.SystemSettingsRowID,
	).First(&settings); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &settings, nil
}

// SetSystemSettings writes the singleton settings row. Callers are expected
// to have merged keys into the existing document; this only enforces the
// single-row constraint.
func (s *Store) SetSystemSettings(
	settings *models.SystemSettings,
	txn types.Txn,
) error {
	settings.ID = models.SystemSettingsRowID
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"data",
			"updated_at",
		}),
	}
	if result := db.Clauses(onConflict).Create(settings); result.Error != nil {
		return result.Error
	}
	return nil
}
