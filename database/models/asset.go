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
)

var ErrAssetNotFound = errors.New("asset not found")

// AssetStatus represents the ledger status of a vault asset
type AssetStatus string

const (
	AssetStatusPending     AssetStatus = "pending"
	AssetStatusLocked      AssetStatus = "locked"
	AssetStatusReleased    AssetStatus = "released"
	AssetStatusDistributed AssetStatus = "distributed"
)

// AssetOriginType records how an asset entered the vault. It is set once at
// creation and never changes.
type AssetOriginType string

const (
	AssetOriginInvested    AssetOriginType = "invested"
	AssetOriginContributed AssetOriginType = "contributed"
)

// assetStatusEdges is the full set of legal status transitions.
// distributed is only reachable from locked, via distribution execution.
var assetStatusEdges = map[AssetStatus][]AssetStatus{
	AssetStatusPending: {AssetStatusLocked},
	AssetStatusLocked:  {AssetStatusReleased, AssetStatusDistributed},
}

// Valid returns true if the status is a known status
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusPending, AssetStatusLocked,
		AssetStatusReleased, AssetStatusDistributed:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns true if target is reachable from s in one step
func (s AssetStatus) CanTransitionTo(target AssetStatus) bool {
	for _, next := range assetStatusEdges[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Valid returns true if the origin type is a known origin
func (o AssetOriginType) Valid() bool {
	switch o {
	case AssetOriginInvested, AssetOriginContributed:
		return true
	default:
		return false
	}
}

// Asset represents a native asset held by a vault
type Asset struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	VaultID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	PolicyID   string           `gorm:"size:64;not null"`
	AssetName  string           `gorm:"size:64"`
	Quantity   uint64           `gorm:"not null;default:0"`
	Status     AssetStatus      `gorm:"size:16;not null;default:'pending';index"`
	OriginType *AssetOriginType `gorm:"size:16"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name
func (Asset) TableName() string {
	return "assets"
}
