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

package gormstore

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"
)

// GetProposal retrieves a proposal by ID. Returns nil if not found.
func (s *Store) GetProposal(
	proposalID uuid.UUID,
	txn types.Txn,
) (*models.Proposal, error) {
	var proposal models.Proposal
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"id = ?",
		proposalID,
	).First(&proposal); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &proposal, nil
}

// GetProposalsByVault retrieves all proposals for a vault
func (s *Store) GetProposalsByVault(
	vaultID uuid.UUID,
	txn types.Txn,
) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"vault_id = ?",
		vaultID,
	).Order("created_at").Find(&proposals); result.Error != nil {
		return nil, result.Error
	}
	return proposals, nil
}

// SetProposal creates a proposal. Payload fields are immutable after
// creation, so there is no upsert here: a second create with the same ID is
// a duplicate-key error.
func (s *Store) SetProposal(
	proposal *models.Proposal,
	txn types.Txn,
) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(proposal); result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateProposalStatus resolves a proposal with a guard on the prior status.
// Returns the number of rows updated; zero means the proposal was not in the
// expected status.
func (s *Store) UpdateProposalStatus(
	proposalID uuid.UUID,
	fromStatus models.ProposalStatus,
	toStatus models.ProposalStatus,
	txn types.Txn,
) (int64, error) {
	db, err := s.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", proposalID, fromStatus).
		Updates(map[string]any{
			"status":     toStatus,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AddVoteOptions persists a custom ballot. Options are only ever created
// together with their proposal.
func (s *Store) AddVoteOptions(
	options []models.VoteOption,
	txn types.Txn,
) error {
	if len(options) == 0 {
		return nil
	}
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(&options); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetVoteOptions retrieves the custom ballot for a proposal in tally order
func (s *Store) GetVoteOptions(
	proposalID uuid.UUID,
	txn types.Txn,
) ([]*models.VoteOption, error) {
	var options []*models.VoteOption
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"proposal_id = ?",
		proposalID,
	).Order(`"order"`).Find(&options); result.Error != nil {
		return nil, result.Error
	}
	return options, nil
}
