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

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetClaim retrieves a claim by ID. Returns nil if not found.
func (s *Store) GetClaim(
	claimID uuid.UUID,
	txn types.Txn,
) (*models.Claim, error) {
	var claim models.Claim
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"id = ?",
		claimID,
	).First(&claim); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &claim, nil
}

// GetClaims retrieves a page of claims ordered by creation time. Used by
// the batch normalizer.
func (s *Store) GetClaims(
	limit int,
	offset int,
	txn types.Txn,
) ([]*models.Claim, error) {
	var claims []*models.Claim
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	query := db.Order("created_at").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&claims); result.Error != nil {
		return nil, result.Error
	}
	return claims, nil
}

// SetClaim creates or updates a claim
func (s *Store) SetClaim(claim *models.Claim, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lovelace_amount",
			"multiplier",
			"metadata",
			"updated_at",
		}),
	}
	if result := db.Clauses(onConflict).Create(claim); result.Error != nil {
		return result.Error
	}
	return nil
}
