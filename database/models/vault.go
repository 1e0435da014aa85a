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

var ErrVaultNotFound = errors.New("vault not found")

// VaultStage represents the lifecycle stage of a vault. Stages only ever
// move forward; a vault is never hard-deleted.
type VaultStage string

const (
	VaultStageDraft        VaultStage = "draft"
	VaultStageContribution VaultStage = "contribution"
	VaultStageAcquire      VaultStage = "acquire"
	VaultStageLocked       VaultStage = "locked"
	VaultStageTerminated   VaultStage = "terminated"
)

// vaultStageRank orders stages for monotonicity checks. Forward skips are
// allowed (a failed vault can go straight to terminated), regression is not.
var vaultStageRank = map[VaultStage]int{
	VaultStageDraft:        0,
	VaultStageContribution: 1,
	VaultStageAcquire:      2,
	VaultStageLocked:       3,
	VaultStageTerminated:   4,
}

// Valid returns true if the stage is a known stage
func (s VaultStage) Valid() bool {
	_, ok := vaultStageRank[s]
	return ok
}

// CanAdvanceTo returns true if target is a legal next stage from s
func (s VaultStage) CanAdvanceTo(target VaultStage) bool {
	srcRank, ok := vaultStageRank[s]
	if !ok {
		return false
	}
	dstRank, ok := vaultStageRank[target]
	if !ok {
		return false
	}
	return dstRank > srcRank
}

// Vault represents a pooled-asset container progressing through stages.
// The nullable config fields stay unset until the corresponding on-chain
// action completes.
type Vault struct {
	ID                      uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name                    string           `gorm:"size:128;not null"`
	Stage                   VaultStage       `gorm:"size:16;not null;default:'draft';index"`
	AcquireMultiplier       *decimal.Decimal `gorm:"type:numeric"`
	AdaDistribution         *string          `gorm:"size:64"`
	ApplyParamsResult       datatypes.JSON
	DispatchPreloadedScript *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName returns the table name
func (Vault) TableName() string {
	return "vault"
}
