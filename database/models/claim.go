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

package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ErrClaimNotFound = errors.New("claim not found")

// ClaimMetadataAdaAmountKey is the legacy metadata key holding the claim
// value before it was promoted to the lovelace_amount column. The key must
// not coexist with a populated column after normalization.
const ClaimMetadataAdaAmountKey = "adaAmount"

// Claim represents a payable reward entitlement tied to a vault participant.
// LovelaceAmount is always expressed in lovelace, never fractional ADA.
type Claim struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	VaultID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Claimant       string    `gorm:"size:128;not null;index"`
	LovelaceAmount *int64    `gorm:"type:bigint"`
	Multiplier     *decimal.Decimal `gorm:"type:numeric"`
	Metadata       datatypes.JSONMap
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name
func (Claim) TableName() string {
	return "claims"
}
