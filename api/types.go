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

package api

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RootResponse is returned by GET /.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the common error envelope.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// CreateVaultRequest is the body for POST /vaults.
type CreateVaultRequest struct {
	Name  string `json:"name"`
	Stage string `json:"stage,omitempty"`
}

// VaultStageRequest is the body for POST /vaults/{id}/stage.
type VaultStageRequest struct {
	Stage string `json:"stage"`
}

// VaultParamsRequest is the body for POST /vaults/{id}/params. Absent
// fields are left untouched.
type VaultParamsRequest struct {
	AcquireMultiplier       *decimal.Decimal `json:"acquire_multiplier,omitempty"`
	AdaDistribution         *string          `json:"ada_distribution,omitempty"`
	ApplyParamsResult       datatypes.JSON   `json:"apply_params_result,omitempty"`
	DispatchPreloadedScript *string          `json:"dispatch_preloaded_script,omitempty"`
}

// VaultResponse represents a vault.
type VaultResponse struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Stage                   string           `json:"stage"`
	AcquireMultiplier       *decimal.Decimal `json:"acquire_multiplier,omitempty"`
	AdaDistribution         *string          `json:"ada_distribution,omitempty"`
	ApplyParamsResult       datatypes.JSON   `json:"apply_params_result,omitempty"`
	DispatchPreloadedScript *string          `json:"dispatch_preloaded_script,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// CreateAssetRequest is the body for POST /assets.
type CreateAssetRequest struct {
	VaultID    string  `json:"vault_id"`
	PolicyID   string  `json:"policy_id"`
	AssetName  string  `json:"asset_name,omitempty"`
	Quantity   uint64  `json:"quantity"`
	Status     string  `json:"status,omitempty"`
	OriginType *string `json:"origin_type,omitempty"`
}

// AssetStatusRequest is the body for POST /assets/{id}/status.
type AssetStatusRequest struct {
	Status string `json:"status"`
}

// AssetOriginRequest is the body for POST /assets/{id}/origin.
type AssetOriginRequest struct {
	OriginType string `json:"origin_type"`
}

// AssetResponse represents an asset.
type AssetResponse struct {
	ID         string    `json:"id"`
	VaultID    string    `json:"vault_id"`
	PolicyID   string    `json:"policy_id"`
	AssetName  string    `json:"asset_name,omitempty"`
	Quantity   uint64    `json:"quantity"`
	Status     string    `json:"status"`
	OriginType *string   `json:"origin_type,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateProposalRequest is the body for POST /proposals. VoteOptions, when
// present, defines a custom ballot in tally order.
type CreateProposalRequest struct {
	VaultID            string         `json:"vault_id"`
	Type               string         `json:"type"`
	FungibleTokens     datatypes.JSON `json:"fungible_tokens,omitempty"`
	NonFungibleTokens  datatypes.JSON `json:"non_fungible_tokens,omitempty"`
	DistributionAssets datatypes.JSON `json:"distribution_assets,omitempty"`
	BurnAssets         datatypes.JSON `json:"burn_assets,omitempty"`
	TerminationReason  *string        `json:"termination_reason,omitempty"`
	TerminationDate    *time.Time     `json:"termination_date,omitempty"`
	VoteOptions        []string       `json:"vote_options,omitempty"`
}

// ResolveProposalRequest is the body for POST /proposals/{id}/resolve.
type ResolveProposalRequest struct {
	Executed bool `json:"executed"`
}

// ProposalResponse represents a proposal.
type ProposalResponse struct {
	ID                   string         `json:"id"`
	VaultID              string         `json:"vault_id"`
	Type                 string         `json:"type"`
	Status               string         `json:"status"`
	FungibleTokens       datatypes.JSON `json:"fungible_tokens,omitempty"`
	NonFungibleTokens    datatypes.JSON `json:"non_fungible_tokens,omitempty"`
	DistributionAssets   datatypes.JSON `json:"distribution_assets,omitempty"`
	BurnAssets           datatypes.JSON `json:"burn_assets,omitempty"`
	TerminationReason    *string        `json:"termination_reason,omitempty"`
	TerminationDate      *time.Time     `json:"termination_date,omitempty"`
	HasCustomVoteOptions bool           `json:"has_custom_vote_options"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// CastVoteRequest is the body for POST /proposals/{id}/votes. Value is a
// fixed ballot literal or a custom vote option id.
type CastVoteRequest struct {
	VoterID string `json:"voter_id"`
	Value   string `json:"value"`
}

// TallyEntry is one row of a tally response.
type TallyEntry struct {
	VoteOptionID string `json:"vote_option_id"`
	Count        int64  `json:"count"`
}

// CreateClaimRequest is the body for POST /claims.
type CreateClaimRequest struct {
	VaultID        string            `json:"vault_id"`
	Claimant       string            `json:"claimant"`
	LovelaceAmount *int64            `json:"lovelace_amount,omitempty"`
	Multiplier     *decimal.Decimal  `json:"multiplier,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
}

// ClaimResponse represents a claim.
type ClaimResponse struct {
	ID             string            `json:"id"`
	VaultID        string            `json:"vault_id"`
	Claimant       string            `json:"claimant"`
	LovelaceAmount *int64            `json:"lovelace_amount,omitempty"`
	Multiplier     *decimal.Decimal  `json:"multiplier,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NormalizeClaimResponse is returned by POST /claims/{id}/normalize.
type NormalizeClaimResponse struct {
	Changed bool `json:"changed"`
}

// SettingResponse is returned by GET /settings/{key}.
type SettingResponse struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PutSettingRequest is the body for PUT /settings/{key}.
type PutSettingRequest struct {
	Value any `json:"value"`
}
