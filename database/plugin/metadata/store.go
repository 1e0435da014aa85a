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

package metadata

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/plugin"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"

	// Register plugins
	_ "github.com/vaultforge/vaultd/database/plugin/metadata/postgres"
	_ "github.com/vaultforge/vaultd/database/plugin/metadata/sqlite"
)

// MetadataStore is the relational store behind the vault lifecycle core. All
// mutating operations accept an optional types.Txn so the database layer can
// group them into one transaction; a nil txn operates directly on the store.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Vaults
	GetVault(uuid.UUID, types.Txn) (*models.Vault, error)
	GetVaults(types.Txn) ([]*models.Vault, error)
	SetVault(*models.Vault, types.Txn) error
	UpdateVaultStage(
		uuid.UUID,
		models.VaultStage, // from
		models.VaultStage, // to
		types.Txn,
	) (int64, error)

	// Assets
	GetAsset(uuid.UUID, types.Txn) (*models.Asset, error)
	GetAssetsByVault(uuid.UUID, types.Txn) ([]*models.Asset, error)
	SetAsset(*models.Asset, types.Txn) error
	UpdateAssetStatus(
		uuid.UUID,
		models.AssetStatus, // from
		models.AssetStatus, // to
		types.Txn,
	) (int64, error)
	SetAssetOrigin(
		uuid.UUID,
		models.AssetOriginType,
		types.Txn,
	) (int64, error)
	LockPendingAssets(uuid.UUID, types.Txn) (int64, error)
	DistributeLockedAssets([]uuid.UUID, types.Txn) (int64, error)

	// Proposals
	GetProposal(uuid.UUID, types.Txn) (*models.Proposal, error)
	GetProposalsByVault(uuid.UUID, types.Txn) ([]*models.Proposal, error)
	SetProposal(*models.Proposal, types.Txn) error
	UpdateProposalStatus(
		uuid.UUID,
		models.ProposalStatus, // from
		models.ProposalStatus, // to
		types.Txn,
	) (int64, error)
	AddVoteOptions([]models.VoteOption, types.Txn) error
	GetVoteOptions(uuid.UUID, types.Txn) ([]*models.VoteOption, error)

	// Votes
	AddVote(*models.Vote, types.Txn) error
	GetVotesByProposal(uuid.UUID, types.Txn) ([]*models.Vote, error)
	TallyVotes(uuid.UUID, types.Txn) ([]models.VoteTally, error)

	// Claims
	GetClaim(uuid.UUID, types.Txn) (*models.Claim, error)
	GetClaims(int, int, types.Txn) ([]*models.Claim, error)
	SetClaim(*models.Claim, types.Txn) error

	// System settings
	GetSystemSettings(types.Txn) (*models.SystemSettings, error)
	SetSystemSettings(*models.SystemSettings, types.Txn) error
}

// New returns the started metadata plugin selected by name
func New(pluginName string) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
	if err != nil {
		return nil, err
	}

	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}

	return metadataStore, nil
}