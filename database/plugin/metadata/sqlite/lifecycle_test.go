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

package sqlite

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultforge/vaultd/database/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestVaultStageGuard(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	// Guarded update succeeds from the actual prior stage
	rows, err := store.UpdateVaultStage(
		vault.ID,
		models.VaultStageDraft,
		models.VaultStageContribution,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// A second transition from the stale prior stage touches no rows
	rows, err = store.UpdateVaultStage(
		vault.ID,
		models.VaultStageDraft,
		models.VaultStageContribution,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)

	fetched, err := store.GetVault(vault.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.VaultStageContribution, fetched.Stage)
}

func TestVaultUpsert(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	mult := decimal.NewFromFloat(1.5)
	vault.Name = "renamed"
	vault.AcquireMultiplier = &mult
	require.NoError(t, store.SetVault(vault, nil))

	vaults, err := store.GetVaults(nil)
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	assert.Equal(t, "renamed", vaults[0].Name)
	require.NotNil(t, vaults[0].AcquireMultiplier)
	assert.True(t, mult.Equal(*vaults[0].AcquireMultiplier))
}

func TestAssetStatusGuard(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	asset := &models.Asset{
		ID:        uuid.New(),
		VaultID:   vault.ID,
		PolicyID:  "policy0",
		AssetName: "token0",
		Quantity:  10,
		Status:    models.AssetStatusPending,
	}
	require.NoError(t, store.SetAsset(asset, nil))

	rows, err := store.UpdateAssetStatus(
		asset.ID,
		models.AssetStatusPending,
		models.AssetStatusLocked,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// Stale guard matches nothing
	rows, err = store.UpdateAssetStatus(
		asset.ID,
		models.AssetStatusPending,
		models.AssetStatusReleased,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)
}

func TestAssetUpsertKeepsStatus(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	asset := &models.Asset{
		ID:       uuid.New(),
		VaultID:  vault.ID,
		PolicyID: "policy0",
		Quantity: 10,
		Status:   models.AssetStatusPending,
	}
	require.NoError(t, store.SetAsset(asset, nil))

	rows, err := store.UpdateAssetStatus(
		asset.ID,
		models.AssetStatusPending,
		models.AssetStatusLocked,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// A duplicate-ID create updates the quantity but cannot rewrite the
	// status behind the guarded transition path
	asset.Quantity = 20
	asset.Status = models.AssetStatusDistributed
	require.NoError(t, store.SetAsset(asset, nil))

	fetched, err := store.GetAsset(asset.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.AssetStatusLocked, fetched.Status)
	assert.Equal(t, uint64(20), fetched.Quantity)
}

func TestLockPendingAssets(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	var lockedID uuid.UUID
	for i := range 3 {
		asset := &models.Asset{
			ID:        uuid.New(),
			VaultID:   vault.ID,
			PolicyID:  "policy0",
			AssetName: "token" + string(rune('a'+i)),
			Quantity:  1,
			Status:    models.AssetStatusPending,
		}
		require.NoError(t, store.SetAsset(asset, nil))
		lockedID = asset.ID
	}
	// One asset is already locked and must not be counted
	rows, err := store.UpdateAssetStatus(
		lockedID,
		models.AssetStatusPending,
		models.AssetStatusLocked,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	rows, err = store.LockPendingAssets(vault.ID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), rows)

	assets, err := store.GetAssetsByVault(vault.ID, nil)
	require.NoError(t, err)
	require.Len(t, assets, 3)
	for _, asset := range assets {
		assert.Equal(t, models.AssetStatusLocked, asset.Status)
	}
}

func TestDistributeLockedAssets(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	locked := &models.Asset{
		ID:       uuid.New(),
		VaultID:  vault.ID,
		PolicyID: "policy0",
		Quantity: 1,
		Status:   models.AssetStatusLocked,
	}
	pending := &models.Asset{
		ID:       uuid.New(),
		VaultID:  vault.ID,
		PolicyID: "policy0",
		Quantity: 1,
		Status:   models.AssetStatusPending,
	}
	require.NoError(t, store.SetAsset(locked, nil))
	require.NoError(t, store.SetAsset(pending, nil))

	rows, err := store.DistributeLockedAssets(
		[]uuid.UUID{locked.ID, pending.ID},
		nil,
	)
	require.NoError(t, err)
	// Only the locked asset qualifies
	require.Equal(t, int64(1), rows)

	fetched, err := store.GetAsset(pending.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, models.AssetStatusPending, fetched.Status)
}

func TestProposalStatusGuard(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	proposal := &models.Proposal{
		ID:      uuid.New(),
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
		Status:  models.ProposalStatusActive,
	}
	require.NoError(t, store.SetProposal(proposal, nil))

	rows, err := store.UpdateProposalStatus(
		proposal.ID,
		models.ProposalStatusActive,
		models.ProposalStatusExecuted,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	// Already resolved
	rows, err = store.UpdateProposalStatus(
		proposal.ID,
		models.ProposalStatusActive,
		models.ProposalStatusRejected,
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, int64(0), rows)
}

func TestVoteOptionsOrdered(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	proposal := &models.Proposal{
		ID:                   uuid.New(),
		VaultID:              vault.ID,
		Type:                 models.ProposalTypeVoting,
		Status:               models.ProposalStatusActive,
		HasCustomVoteOptions: true,
	}
	require.NoError(t, store.SetProposal(proposal, nil))

	options := []models.VoteOption{
		{ID: uuid.New(), ProposalID: proposal.ID, Label: "last", Order: 2},
		{ID: uuid.New(), ProposalID: proposal.ID, Label: "first", Order: 0},
		{ID: uuid.New(), ProposalID: proposal.ID, Label: "middle", Order: 1},
	}
	require.NoError(t, store.AddVoteOptions(options, nil))

	fetched, err := store.GetVoteOptions(proposal.ID, nil)
	require.NoError(t, err)
	require.Len(t, fetched, 3)
	assert.Equal(t, "first", fetched[0].Label)
	assert.Equal(t, "middle", fetched[1].Label)
	assert.Equal(t, "last", fetched[2].Label)
}

func TestDuplicateVoteRejected(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	proposal := &models.Proposal{
		ID:      uuid.New(),
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
		Status:  models.ProposalStatusActive,
	}
	require.NoError(t, store.SetProposal(proposal, nil))

	require.NoError(t, store.AddVote(&models.Vote{
		ProposalID:   proposal.ID,
		VoterID:      "voter-1",
		VoteOptionID: models.VoteValueYes,
	}, nil))

	// Same voter again, even with a different value
	err := store.AddVote(&models.Vote{
		ProposalID:   proposal.ID,
		VoterID:      "voter-1",
		VoteOptionID: models.VoteValueNo,
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// Same voter on a different proposal is fine
	other := &models.Proposal{
		ID:      uuid.New(),
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
		Status:  models.ProposalStatusActive,
	}
	require.NoError(t, store.SetProposal(other, nil))
	require.NoError(t, store.AddVote(&models.Vote{
		ProposalID:   other.ID,
		VoterID:      "voter-1",
		VoteOptionID: models.VoteValueYes,
	}, nil))
}

func TestTallyVotes(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	proposal := &models.Proposal{
		ID:      uuid.New(),
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
		Status:  models.ProposalStatusActive,
	}
	require.NoError(t, store.SetProposal(proposal, nil))

	for i, value := range []string{
		models.VoteValueYes,
		models.VoteValueYes,
		models.VoteValueNo,
	} {
		require.NoError(t, store.AddVote(&models.Vote{
			ProposalID:   proposal.ID,
			VoterID:      "voter-" + string(rune('a'+i)),
			VoteOptionID: value,
		}, nil))
	}

	tallies, err := store.TallyVotes(proposal.ID, nil)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, tally := range tallies {
		counts[tally.VoteOptionID] = tally.Count
	}
	assert.Equal(t, int64(2), counts[models.VoteValueYes])
	assert.Equal(t, int64(1), counts[models.VoteValueNo])
	// Unvoted options don't appear in the tally rows
	assert.NotContains(t, counts, models.VoteValueAbstain)
}

func TestClaimPaging(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	for range 5 {
		claim := &models.Claim{
			ID:       uuid.New(),
			VaultID:  vault.ID,
			Claimant: "addr1",
			Metadata: datatypes.JSONMap{"adaAmount": 2.5},
		}
		require.NoError(t, store.SetClaim(claim, nil))
	}

	page, err := store.GetClaims(2, 0, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)

	page, err = store.GetClaims(2, 4, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)

	all, err := store.GetClaims(0, 0, nil)
	require.NoError(t, err)
	require.Len(t, all, 5)
}

func TestClaimMetadataRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	vault := testVault(t, store)

	amount := int64(2500000)
	claim := &models.Claim{
		ID:             uuid.New(),
		VaultID:        vault.ID,
		Claimant:       "addr1",
		LovelaceAmount: &amount,
		Metadata:       datatypes.JSONMap{"note": "seed round"},
	}
	require.NoError(t, store.SetClaim(claim, nil))

	fetched, err := store.GetClaim(claim.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.NotNil(t, fetched.LovelaceAmount)
	assert.Equal(t, amount, *fetched.LovelaceAmount)
	assert.Equal(t, "seed round", fetched.Metadata["note"])
}

func TestSystemSettingsSingleton(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSystemSettings(nil)
	require.NoError(t, err)
	require.Nil(t, settings)

	require.NoError(t, store.SetSystemSettings(&models.SystemSettings{
		Data: datatypes.JSONMap{"staking_fee": float64(5000000)},
	}, nil))
	// A second write lands on the same row
	require.NoError(t, store.SetSystemSettings(&models.SystemSettings{
		Data: datatypes.JSONMap{
			"staking_fee": float64(7000000),
			"voting_fee":  float64(0),
		},
	}, nil))

	settings, err = store.GetSystemSettings(nil)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, uint(models.SystemSettingsRowID), settings.ID)
	assert.Equal(t, float64(7000000), settings.Data["staking_fee"])
}
