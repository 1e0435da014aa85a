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

// VoteOption is a per-proposal ballot choice. The set is created together
// with the proposal and is immutable once voting opens. Order defines the
// stable display and tally ordering.
type VoteOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProposalID uuid.UUID `gorm:"type:uuid;not null;index:idx_vote_option_proposal"`
	Label      string    `gorm:"size:128;not null"`
	Order      int       `gorm:"column:order;not null;default:0"`
	CreatedAt  time.Time
}

// TableName returns the table name
func (VoteOption) TableName() string {
	return "vote_options"
}
