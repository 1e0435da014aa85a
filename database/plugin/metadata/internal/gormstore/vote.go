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
	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
)

// AddVote records a ballot. The unique index on (proposal_id, voter_id)
// arbitrates concurrent duplicate casts; the resulting duplicated-key error
// passes through untranslated for the caller to classify.
func (s *Store) AddVote(vote *models.Vote, txn types.Txn) error {
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	if result := db.Create(vote); result.Error != nil {
		return result.Error
	}
	return nil
}

// GetVotesByProposal retrieves all votes cast on a proposal
func (s *Store) GetVotesByProposal(
	proposalID uuid.UUID,
	txn types.Txn,
) ([]*models.Vote, error) {
	var votes []*models.Vote
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	if result := db.Where(
		"proposal_id = ?",
		proposalID,
	).Order("created_at").Find(&votes); result.Error != nil {
		return nil, result.Error
	}
	return votes, nil
}

// TallyVotes counts votes grouped by vote option. Ordering across options is
// applied by the caller, which knows whether the ballot is fixed or custom.
func (s *Store) TallyVotes(
	proposalID uuid.UUID,
	txn types.Txn,
) ([]models.VoteTally, error) {
	var tallies []models.VoteTally
	db, err := s.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	result := db.Model(&models.Vote{}).
		Select("vote_option_id, COUNT(*) as count").
		Where("proposal_id = ?", proposalID).
		Group("vote_option_id").
		Scan(&tallies)
	if result.Error != nil {
		return nil, result.Error
	}
	return tallies, nil
}
