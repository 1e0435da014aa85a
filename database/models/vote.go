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
	"time"

	"github.com/google/uuid"
)

// Fixed ballot literals used when a proposal does not define custom vote
// options. FixedVoteOptions is the canonical tally order.
const (
	VoteValueYes     = "yes"
	VoteValueNo      = "no"
	VoteValueAbstain = "abstain"
)

var FixedVoteOptions = []string{VoteValueYes, VoteValueNo, VoteValueAbstain}

// ValidFixedVoteValue returns true if v is one of the fixed ballot literals
func ValidFixedVoteValue(v string) bool {
	for _, opt := range FixedVoteOptions {
		if v == opt {
			return true
		}
	}
	return false
}

// Vote represents a ballot cast by a voter on a proposal. VoteOptionID is a
// free-form identifier: either a fixed ballot literal or a vote_options.id.
// The unique index on (proposal_id, voter_id) is the arbiter of concurrent
// duplicate casts.
type Vote struct {
	ID           uint      `gorm:"primarykey"`
	ProposalID   uuid.UUID `gorm:"type:uuid;index:idx_vote_proposal;uniqueIndex:idx_vote_unique,priority:1;not null"`
	VoterID      string    `gorm:"size:128;uniqueIndex:idx_vote_unique,priority:2;not null"`
	VoteOptionID string    `gorm:"size:64;not null"`
	CreatedAt    time.Time
}

// TableName returns the table name
func (Vote) TableName() string {
	return "vote"
}

// VoteTally is one row of a per-proposal tally, grouped by vote option
type VoteTally struct {
	VoteOptionID string
	Count        int64
}
