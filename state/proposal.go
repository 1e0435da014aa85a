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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/event"
)

// Payload field names as they appear on the wire and in the schema
const (
	payloadFieldFungibleTokens    = "fungible_tokens"
	payloadFieldNonFungibleTokens = "non_fungible_tokens"
	payloadFieldDistributionAsset = "distribution_assets"
	payloadFieldBurnAssets        = "burn_assets"
	payloadFieldTerminationReason = "termination_reason"
	payloadFieldTerminationDate   = "termination_date"
)

// validateProposalPayload checks that the populated payload fields match
// exactly the fields required for the proposal type. Runs at creation only;
// payloads are immutable afterward.
func validateProposalPayload(proposal *models.Proposal) error {
	populated := map[string]bool{
		payloadFieldFungibleTokens:    len(proposal.FungibleTokens) > 0,
		payloadFieldNonFungibleTokens: len(proposal.NonFungibleTokens) > 0,
		payloadFieldDistributionAsset: len(proposal.DistributionAssets) > 0,
		payloadFieldBurnAssets:        len(proposal.BurnAssets) > 0,
		payloadFieldTerminationReason: proposal.TerminationReason != nil,
		payloadFieldTerminationDate:   proposal.TerminationDate != nil,
	}
	var required, anyOf, forbidden []string
	switch proposal.Type {
	case models.ProposalTypeStaking:
		anyOf = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
		}
		forbidden = []string{
			payloadFieldDistributionAsset,
			payloadFieldBurnAssets,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	case models.ProposalTypeDistribution:
		required = []string{payloadFieldDistributionAsset}
		forbidden = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
			payloadFieldBurnAssets,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	case models.ProposalTypeTermination:
		required = []string{
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
		forbidden = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
			payloadFieldDistributionAsset,
			payloadFieldBurnAssets,
		}
	case models.ProposalTypeBurning:
		required = []string{payloadFieldBurnAssets}
		forbidden = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
			payloadFieldDistributionAsset,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	case models.ProposalTypeMarketplaceAction:
		anyOf = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
		}
		forbidden = []string{
			payloadFieldDistributionAsset,
			payloadFieldBurnAssets,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	case models.ProposalTypeExpansion:
		required = []string{payloadFieldFungibleTokens}
		forbidden = []string{
			payloadFieldNonFungibleTokens,
			payloadFieldDistributionAsset,
			payloadFieldBurnAssets,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	case models.ProposalTypeVoting:
		// Plain poll, no payload at all
		forbidden = []string{
			payloadFieldFungibleTokens,
			payloadFieldNonFungibleTokens,
			payloadFieldDistributionAsset,
			payloadFieldBurnAssets,
			payloadFieldTerminationReason,
			payloadFieldTerminationDate,
		}
	default:
		return fmt.Errorf(
			"%w: unknown proposal type %q",
			ErrInvalidPayloadForType,
			proposal.Type,
		)
	}
	payloadErr := &PayloadError{ProposalType: proposal.Type}
	for _, field := range required {
		if !populated[field] {
			payloadErr.Missing = append(payloadErr.Missing, field)
		}
	}
	if len(anyOf) > 0 {
		var present bool
		for _, field := range anyOf {
			if populated[field] {
				present = true
				break
			}
		}
		if !present {
			payloadErr.Missing = append(payloadErr.Missing, anyOf...)
		}
	}
	for _, field := range forbidden {
		if populated[field] {
			payloadErr.Forbidden = append(payloadErr.Forbidden, field)
		}
	}
	if len(payloadErr.Missing) > 0 || len(payloadErr.Forbidden) > 0 {
		return payloadErr
	}
	return nil
}

// CreateProposal validates the payload against the proposal type, persists
// the proposal with its custom ballot (if any), and journals the payload as
// accepted, all in one transaction. Payload fields are immutable after
// creation.
func (vs *VaultState) CreateProposal(
	proposal *models.Proposal,
	customOptions []string,
) error {
	err := vs.createProposal(proposal, customOptions)
	vs.metrics.observe("proposal_create", err)
	return err
}

func (vs *VaultState) createProposal(
	proposal *models.Proposal,
	customOptions []string,
) error {
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	if proposal.Status == "" {
		proposal.Status = models.ProposalStatusActive
	}
	if err := validateProposalPayload(proposal); err != nil {
		return err
	}
	proposal.HasCustomVoteOptions = len(customOptions) > 0
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		vault, err := vs.db.Metadata().GetVault(
			proposal.VaultID,
			txn.Metadata(),
		)
		if err != nil {
			return err
		}
		if vault == nil {
			return models.ErrVaultNotFound
		}
		if err := vs.db.Metadata().SetProposal(
			proposal,
			txn.Metadata(),
		); err != nil {
			return translateStoreError(err)
		}
		if len(customOptions) > 0 {
			options := make([]models.VoteOption, 0, len(customOptions))
			for idx, label := range customOptions {
				options = append(options, models.VoteOption{
					ID:         uuid.New(),
					ProposalID: proposal.ID,
					Label:      label,
					Order:      idx,
				})
			}
			if err := vs.db.Metadata().AddVoteOptions(
				options,
				txn.Metadata(),
			); err != nil {
				return translateStoreError(err)
			}
		}
		return vs.db.SnapshotProposal(proposal, txn)
	})
	if err != nil {
		return err
	}
	vs.publish(event.ProposalCreatedEventType, event.ProposalCreatedEvent{
		ProposalID:   proposal.ID,
		VaultID:      proposal.VaultID,
		ProposalType: string(proposal.Type),
		Timestamp:    time.Now(),
	})
	return nil
}

// GetProposal retrieves a proposal by id
func (vs *VaultState) GetProposal(
	proposalID uuid.UUID,
) (*models.Proposal, error) {
	proposal, err := vs.db.Metadata().GetProposal(proposalID, nil)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, models.ErrProposalNotFound
	}
	return proposal, nil
}

// GetProposalsByVault retrieves all proposals for a vault
func (vs *VaultState) GetProposalsByVault(
	vaultID uuid.UUID,
) ([]*models.Proposal, error) {
	return vs.db.Metadata().GetProposalsByVault(vaultID, nil)
}

// GetVoteOptions retrieves the custom ballot for a proposal in tally order
func (vs *VaultState) GetVoteOptions(
	proposalID uuid.UUID,
) ([]*models.VoteOption, error) {
	return vs.db.Metadata().GetVoteOptions(proposalID, nil)
}

// ResolveProposal ends a proposal's active lifecycle. Resolving an already
// resolved proposal fails with ErrProposalResolved. Executing a
// distribution proposal marks its distribution assets distributed in the
// same transaction, which is only legal while they are locked.
func (vs *VaultState) ResolveProposal(
	proposalID uuid.UUID,
	executed bool,
) error {
	err := vs.resolveProposal(proposalID, executed)
	vs.metrics.observe("proposal_resolve", err)
	return err
}

func (vs *VaultState) resolveProposal(
	proposalID uuid.UUID,
	executed bool,
) error {
	target := models.ProposalStatusRejected
	if executed {
		target = models.ProposalStatusExecuted
	}
	var proposal *models.Proposal
	var distributedAssets int64
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		var err error
		proposal, err = vs.db.Metadata().GetProposal(
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
		rows, err := vs.db.Metadata().UpdateProposalStatus(
			proposalID,
			models.ProposalStatusActive,
			target,
			txn.Metadata(),
		)
		if err != nil {
			return translateStoreError(err)
		}
		if rows == 0 {
			// A concurrent resolution won the race
			return fmt.Errorf(
				"%w: proposal %s",
				ErrProposalResolved,
				proposalID,
			)
		}
		if executed && proposal.Type == models.ProposalTypeDistribution {
			distributedAssets, err = vs.distributeProposalAssets(
				proposal,
				txn,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	vs.logger().Info(
		"proposal resolved",
		"proposal_id", proposalID,
		"status", target,
		"distributed_assets", distributedAssets,
		"component", "state",
	)
	vs.publish(event.ProposalResolvedEventType, event.ProposalResolvedEvent{
		ProposalID:        proposalID,
		VaultID:           proposal.VaultID,
		ProposalType:      string(proposal.Type),
		Status:            string(target),
		DistributedAssets: distributedAssets,
		Timestamp:         time.Now(),
	})
	return nil
}

// distributeProposalAssets marks the assets named by a distribution payload
// as distributed. The payload is a JSON array of asset ids. Every named
// asset must still be locked or the whole resolution rolls back.
func (vs *VaultState) distributeProposalAssets(
	proposal *models.Proposal,
	txn *database.Txn,
) (int64, error) {
	var assetIDs []uuid.UUID
	if err := json.Unmarshal(
		proposal.DistributionAssets,
		&assetIDs,
	); err != nil {
		return 0, fmt.Errorf(
			"proposal %s: malformed distribution_assets: %w",
			proposal.ID,
			err,
		)
	}
	rows, err := vs.db.Metadata().DistributeLockedAssets(
		assetIDs,
		txn.Metadata(),
	)
	if err != nil {
		return 0, translateStoreError(err)
	}
	if rows != int64(len(assetIDs)) {
		return 0, fmt.Errorf(
			"%w: proposal %s: %d of %d distribution assets not locked",
			ErrInvalidTransition,
			proposal.ID,
			int64(len(assetIDs))-rows,
			len(assetIDs),
		)
	}
	return rows, nil
}
