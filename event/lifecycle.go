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

package event

import (
	"time"

	"github.com/google/uuid"
)

// VaultStageEventType is the event type for vault stage advances
const VaultStageEventType = EventType("vault.stage")

// VaultStageEvent is emitted after a vault stage advance commits
type VaultStageEvent struct {
	// VaultID is the vault that advanced
	VaultID uuid.UUID
	// PriorStage is the stage the vault advanced from
	PriorStage string
	// Stage is the stage the vault advanced to
	Stage string
	// LockedAssets is the number of pending assets locked by the advance
	LockedAssets int64
	// Timestamp is when the advance committed
	Timestamp time.Time
}

// AssetStatusEventType is the event type for asset status transitions
const AssetStatusEventType = EventType("asset.status")

// AssetStatusEvent is emitted after an asset status transition commits
type AssetStatusEvent struct {
	AssetID     uuid.UUID
	VaultID     uuid.UUID
	PriorStatus string
	Status      string
	Timestamp   time.Time
}

// ProposalCreatedEventType is the event type for new proposals
const ProposalCreatedEventType = EventType("proposal.created")

// ProposalCreatedEvent is emitted after a proposal and its payload snapshot
// commit
type ProposalCreatedEvent struct {
	ProposalID   uuid.UUID
	VaultID      uuid.UUID
	ProposalType string
	Timestamp    time.Time
}

// ProposalResolvedEventType is the event type for proposal resolution
const ProposalResolvedEventType = EventType("proposal.resolved")

// ProposalResolvedEvent is emitted after a proposal resolves. For executed
// distribution proposals, DistributedAssets carries the number of assets
// marked distributed in the same transaction.
type ProposalResolvedEvent struct {
	ProposalID        uuid.UUID
	VaultID           uuid.UUID
	ProposalType      string
	Status            string
	DistributedAssets int64
	Timestamp         time.Time
}

// VoteCastEventType is the event type for accepted votes
const VoteCastEventType = EventType("vote.cast")

// VoteCastEvent is emitted after a vote and its receipt commit
type VoteCastEvent struct {
	ProposalID   uuid.UUID
	VoterID      string
	VoteOptionID string
	Timestamp    time.Time
}

// ClaimNormalizedEventType is the event type for claim amount normalization
const ClaimNormalizedEventType = EventType("claim.normalized")

// ClaimNormalizedEvent is emitted when a claim's embedded amount is folded
// into its lovelace column
type ClaimNormalizedEvent struct {
	ClaimID   uuid.UUID
	VaultID   uuid.UUID
	Lovelace  int64
	Timestamp time.Time
}
