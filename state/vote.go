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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/event"
	"gorm.io/gorm"
)

// CastVote records one ballot per (voter, proposal). For proposals with a
// custom ballot, optionRef must equal an existing vote option id; for the
// fixed ballot it must be one of the fixed literals. The store's unique
// index is the arbiter of concurrent duplicate casts.
func (vs *VaultState) CastVote(
	proposalID uuid.UUID,
	voterID string,
	optionRef string,
) error {
	err := vs.castVote(proposalID, voterID, optionRef)
	vs.metrics.observe("vote_cast", err)
	return err
}

func (vs *VaultState) castVote(
	proposalID uuid.UUID,
	voterID string,
	optionRef string,
) error {
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		proposal, err := vs.db.Metadata().GetProposal(
			proposalID,
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		if proposal == nil {
			return models.ErrProposalNotFound
		}
		if proposal.Status != models.ProposalStatusActive {
			return fmt.Errorf(
				"%w: proposal %s is %s",
				ErrProposalResolved,
				proposalID,
				proposal.Status,
			)
		}
		if proposal.HasCustomVoteOptions {
			options, err := vs.db.Metadata().GetVoteOptions(
				proposalID,
				txn.Metadata(),
			)
			if err != nil {
				return err
			}
			var known bool
			for _, option := range options {
				if option.ID.String() == optionRef {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf(
					"%w: proposal %s: option %q",
					ErrUnknownVoteOption,
					proposalID,
					optionRef,
				)
			}
		} else if !models.ValidFixedVoteValue(optionRef) {
			return fmt.Errorf(
				"%w: proposal %s: value %q",
				ErrInvalidVoteValue,
				proposalID,
				optionRef,
			)
		}
		if err := vs.db.Metadata().AddVote(&models.Vote{
			ProposalID:   proposalID,
			VoterID:      voterID,
			VoteOptionID: optionRef,
		}, txn.Metadata()); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf(
					"%w: proposal %s: voter %q",
					ErrDuplicateVote,
					proposalID,
					voterID,
				)
			}
			return translateStoreError(err)
		}
		return vs.db.RecordVoteReceipt(&database.VoteReceipt{
			ProposalID:   proposalID,
			VoterID:      voterID,
			VoteOptionID: optionRef,
			CastAt:       time.Now(),
		}, txn)
	})
	if err != nil {
		return err
	}
	vs.publish(event.VoteCastEventType, event.VoteCastEvent{
		ProposalID:   proposalID,
		VoterID:      voterID,
		VoteOptionID: optionRef,
		Timestamp:    time.Now(),
	})
	return nil
}

// Tally counts votes grouped by vote option. Custom ballots are ordered by
// the option order column; the fixed ballot uses the canonical
// yes/no/abstain order. Options nobody voted for appear with a zero count;
// ties stay as equal counts with no implicit tie-break. The reads share one
// metadata transaction so the counts and the ballot are one snapshot.
func (vs *VaultState) Tally(
	proposalID uuid.UUID,
) ([]models.VoteTally, error) {
	txn := database.NewMetadataOnlyTxn(vs.db, false)
	defer txn.Release()
	proposal, err := vs.db.Metadata().GetProposal(proposalID, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, models.ErrProposalNotFound
	}
	counts, err := vs.db.Metadata().TallyVotes(proposalID, txn.Metadata())
	if err != nil {
		return nil, err
	}
	countByOption := make(map[string]int64, len(counts))
	for _, tally := range counts {
		countByOption[tally.VoteOptionID] = tally.Count
	}
	var ordered []models.VoteTally
	if proposal.HasCustomVoteOptions {
		options, err := vs.db.Metadata().GetVoteOptions(
			proposalID,
			txn.Metadata(),
		)
		if err != nil {
			return nil, err
		}
		for _, option := range options {
			ordered = append(ordered, models.VoteTally{
				VoteOptionID: option.ID.String(),
				Count:        countByOption[option.ID.String()],
			})
		}
	} else {
		for _, option := range models.FixedVoteOptions {
			ordered = append(ordered, models.VoteTally{
				VoteOptionID: option,
				Count:        countByOption[option],
			})
		}
	}
	return ordered, nil
}

// GetVotesByProposal retrieves all votes cast on a proposal
func (vs *VaultState) GetVotesByProposal(
	proposalID uuid.UUID,
) ([]*models.Vote, error) {
	return vs.db.Metadata().GetVotesByProposal(proposalID, nil)
}
