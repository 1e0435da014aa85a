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

package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalType identifies the governance intent of a proposal. The type
// determines which payload fields must be populated.
type ProposalType string

const (
	ProposalTypeStaking           ProposalType = "staking"
	ProposalTypeDistribution      ProposalType = "distribution"
	ProposalTypeTermination       ProposalType = "termination"
	ProposalTypeBurning           ProposalType = "burning"
	ProposalTypeMarketplaceAction ProposalType = "marketplace_action"
	ProposalTypeExpansion         ProposalType = "expansion"
	ProposalTypeVoting            ProposalType = "voting"
)

// Valid returns true if the proposal type is known
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypeStaking, ProposalTypeDistribution,
		ProposalTypeTermination, ProposalTypeBurning,
		ProposalTypeMarketplaceAction, ProposalTypeExpansion,
		ProposalTypeVoting:
		return true
	default:
		return false
	}
}

// ProposalStatus tracks proposal resolution. A resolved proposal ends its
// active lifecycle; payload fields are immutable after creation regardless.
type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusExecuted ProposalStatus = "executed"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal represents a governance action subject to voting. Exactly one of
// the type-specific payload groups is populated per proposal type.
type Proposal struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	VaultID              uuid.UUID      `gorm:"type:uuid;not null;index"`
	Type                 ProposalType   `gorm:"size:32;not null;index"`
	Status               ProposalStatus `gorm:"size:16;not null;default:'active';index"`
	FungibleTokens       datatypes.JSON
	NonFungibleTokens    datatypes.JSON
	DistributionAssets   datatypes.JSON
	BurnAssets           datatypes.JSON
	TerminationReason    *string `gorm:"type:text"`
	TerminationDate      *time.Time
	HasCustomVoteOptions bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName returns the table name
func (Proposal) TableName() string {
	return "proposal"
}
