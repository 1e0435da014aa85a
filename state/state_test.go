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

package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	badgerplugin "github.com/vaultforge/vaultd/database/plugin/blob/badger"
	"github.com/vaultforge/vaultd/database/plugin/metadata/sqlite"
	"github.com/vaultforge/vaultd/state"
	"gorm.io/datatypes"
)

func setupTestState(t *testing.T) *state.VaultState {
	t.Helper()
	metadataStore, err := sqlite.New("", nil, nil)
	require.NoError(t, err)
	blobStore, err := badgerplugin.New(badgerplugin.WithGc(false))
	require.NoError(t, err)
	db, err := database.New(&database.Config{
		MetadataStore: metadataStore,
		BlobStore:     blobStore,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	vs, err := state.NewVaultState(state.VaultStateConfig{
		Database: db,
	})
	require.NoError(t, err)
	return vs
}

func createTestVault(
	t *testing.T,
	vs *state.VaultState,
	stage models.VaultStage,
) *models.Vault {
	t.Helper()
	vault := &models.Vault{
		Name: "vault-" + t.Name(),
	}
	require.NoError(t, vs.CreateVault(vault))
	if stage != models.VaultStageDraft {
		require.NoError(t, vs.AdvanceVaultStage(vault.ID, stage))
		vault.Stage = stage
	}
	return vault
}

func createTestAsset(
	t *testing.T,
	vs *state.VaultState,
	vaultID uuid.UUID,
	status models.AssetStatus,
) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		VaultID:  vaultID,
		PolicyID: "policy0",
		Quantity: 1,
	}
	require.NoError(t, vs.CreateAsset(asset))
	if status != models.AssetStatusPending {
		require.NoError(t, vs.TransitionAsset(asset.ID, status))
		asset.Status = status
	}
	return asset
}

func TestAssetTransitions(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageDraft)

	asset := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)
	require.NoError(
		t,
		vs.TransitionAsset(asset.ID, models.AssetStatusDistributed),
	)
	fetched, err := vs.GetAsset(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusDistributed, fetched.Status)

	// pending cannot jump straight to distributed
	asset2 := createTestAsset(t, vs, vault.ID, models.AssetStatusPending)
	err = vs.TransitionAsset(asset2.ID, models.AssetStatusDistributed)
	require.ErrorIs(t, err, state.ErrInvalidTransition)

	// Released is terminal
	asset3 := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)
	require.NoError(
		t,
		vs.TransitionAsset(asset3.ID, models.AssetStatusReleased),
	)
	err = vs.TransitionAsset(asset3.ID, models.AssetStatusLocked)
	require.ErrorIs(t, err, state.ErrInvalidTransition)

	// Unknown asset
	err = vs.TransitionAsset(uuid.New(), models.AssetStatusLocked)
	require.ErrorIs(t, err, models.ErrAssetNotFound)
}

func TestAssetCreationStartsPending(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageDraft)

	// Status left empty defaults to pending
	asset := &models.Asset{
		VaultID:  vault.ID,
		PolicyID: "policy0",
		Quantity: 1,
	}
	require.NoError(t, vs.CreateAsset(asset))
	assert.Equal(t, models.AssetStatusPending, asset.Status)

	// Later statuses are only reachable through transitions
	for _, status := range []models.AssetStatus{
		models.AssetStatusLocked,
		models.AssetStatusDistributed,
		models.AssetStatusReleased,
	} {
		err := vs.CreateAsset(&models.Asset{
			VaultID:  vault.ID,
			PolicyID: "policy0",
			Quantity: 1,
			Status:   status,
		})
		require.ErrorIs(t, err, state.ErrInvalidTransition)
	}
}

func TestVaultCreationStartsDraft(t *testing.T) {
	vs := setupTestState(t)

	vault := &models.Vault{Name: "vault-" + t.Name()}
	require.NoError(t, vs.CreateVault(vault))
	assert.Equal(t, models.VaultStageDraft, vault.Stage)

	err := vs.CreateVault(&models.Vault{
		Name:  "vault-late",
		Stage: models.VaultStageLocked,
	})
	require.ErrorIs(t, err, state.ErrInvalidTransition)
}

func TestAssetOriginImmutable(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageDraft)
	asset := createTestAsset(t, vs, vault.ID, models.AssetStatusPending)

	require.NoError(
		t,
		vs.SetAssetOrigin(asset.ID, models.AssetOriginInvested),
	)
	// Re-stamping the same value is a no-op
	require.NoError(
		t,
		vs.SetAssetOrigin(asset.ID, models.AssetOriginInvested),
	)
	// Changing it is not
	err := vs.SetAssetOrigin(asset.ID, models.AssetOriginContributed)
	require.ErrorIs(t, err, state.ErrImmutableField)

	fetched, err := vs.GetAsset(asset.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.OriginType)
	assert.Equal(t, models.AssetOriginInvested, *fetched.OriginType)
}

func TestVaultStageAdvance(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageDraft)

	// Forward skip is allowed
	require.NoError(
		t,
		vs.AdvanceVaultStage(vault.ID, models.VaultStageAcquire),
	)
	// Regression is not
	err := vs.AdvanceVaultStage(vault.ID, models.VaultStageContribution)
	require.ErrorIs(t, err, state.ErrInvalidTransition)
	// Neither is standing still
	err = vs.AdvanceVaultStage(vault.ID, models.VaultStageAcquire)
	require.ErrorIs(t, err, state.ErrInvalidTransition)
}

func TestVaultStageLockedLocksPendingAssets(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageContribution)
	pending := createTestAsset(t, vs, vault.ID, models.AssetStatusPending)
	released := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)
	require.NoError(
		t,
		vs.TransitionAsset(released.ID, models.AssetStatusReleased),
	)

	require.NoError(
		t,
		vs.AdvanceVaultStage(vault.ID, models.VaultStageLocked),
	)

	fetched, err := vs.GetAsset(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusLocked, fetched.Status)
	// The released asset is untouched
	fetched, err = vs.GetAsset(released.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusReleased, fetched.Status)
}

func TestVaultTerminationLeavesAssetsAlone(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	pending := createTestAsset(t, vs, vault.ID, models.AssetStatusPending)

	require.NoError(
		t,
		vs.AdvanceVaultStage(vault.ID, models.VaultStageTerminated),
	)
	fetched, err := vs.GetAsset(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusPending, fetched.Status)
}

func TestApplyVaultParams(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageAcquire)

	dist := "pro_rata"
	require.NoError(t, vs.ApplyVaultParams(vault.ID, state.VaultParams{
		AdaDistribution:   &dist,
		ApplyParamsResult: datatypes.JSON(`{"tx":"abc123"}`),
	}))

	fetched, err := vs.GetVault(vault.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.AdaDistribution)
	assert.Equal(t, dist, *fetched.AdaDistribution)
	assert.NotEmpty(t, fetched.ApplyParamsResult)
	// Fields not named stay unset
	assert.Nil(t, fetched.AcquireMultiplier)
}

func terminationProposal(vaultID uuid.UUID) *models.Proposal {
	reason := "runway exhausted"
	date := time.Now().Add(30 * 24 * time.Hour)
	return &models.Proposal{
		VaultID:           vaultID,
		Type:              models.ProposalTypeTermination,
		TerminationReason: &reason,
		TerminationDate:   &date,
	}
}

func TestProposalPayloadValidation(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	// Valid termination payload
	require.NoError(t, vs.CreateProposal(terminationProposal(vault.ID), nil))

	// Missing termination_date
	reason := "sunset"
	err := vs.CreateProposal(&models.Proposal{
		VaultID:           vault.ID,
		Type:              models.ProposalTypeTermination,
		TerminationReason: &reason,
	}, nil)
	require.ErrorIs(t, err, state.ErrInvalidPayloadForType)
	var payloadErr *state.PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Contains(t, payloadErr.Missing, "termination_date")

	// Termination forbids token sets
	proposal := terminationProposal(vault.ID)
	proposal.FungibleTokens = datatypes.JSON(`[{"policy":"p0"}]`)
	err = vs.CreateProposal(proposal, nil)
	require.ErrorAs(t, err, &payloadErr)
	assert.Contains(t, payloadErr.Forbidden, "fungible_tokens")

	// Staking needs at least one token set
	err = vs.CreateProposal(&models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeStaking,
	}, nil)
	require.ErrorIs(t, err, state.ErrInvalidPayloadForType)
	require.NoError(t, vs.CreateProposal(&models.Proposal{
		VaultID:        vault.ID,
		Type:           models.ProposalTypeStaking,
		FungibleTokens: datatypes.JSON(`[{"policy":"p0"}]`),
	}, nil))

	// Plain poll forbids everything
	err = vs.CreateProposal(&models.Proposal{
		VaultID:    vault.ID,
		Type:       models.ProposalTypeVoting,
		BurnAssets: datatypes.JSON(`["x"]`),
	}, nil)
	require.ErrorIs(t, err, state.ErrInvalidPayloadForType)
	require.NoError(t, vs.CreateProposal(&models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}, nil))

	// Unknown vault
	err = vs.CreateProposal(terminationProposal(uuid.New()), nil)
	require.ErrorIs(t, err, models.ErrVaultNotFound)
}

func TestProposalSnapshotJournaled(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := terminationProposal(vault.ID)
	require.NoError(t, vs.CreateProposal(proposal, nil))

	snapshot, err := vs.Database().GetProposalSnapshot(proposal.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, models.ProposalTypeTermination, snapshot.Type)
}

func TestCreateProposalDuplicateID(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))

	// Reusing the id trips the primary key and surfaces as a constraint
	// violation
	err := vs.CreateProposal(&models.Proposal{
		ID:      proposal.ID,
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}, nil)
	require.ErrorIs(t, err, state.ErrConstraintViolation)

	// The losing create left nothing behind
	proposals, err := vs.GetProposalsByVault(vault.ID)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
}

func TestCastVoteFixedBallot(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))

	require.NoError(t, vs.CastVote(proposal.ID, "voter-1", models.VoteValueYes))

	// Off-ballot value
	err := vs.CastVote(proposal.ID, "voter-2", "maybe")
	require.ErrorIs(t, err, state.ErrInvalidVoteValue)

	// One vote per voter per proposal
	err = vs.CastVote(proposal.ID, "voter-1", models.VoteValueNo)
	require.ErrorIs(t, err, state.ErrDuplicateVote)

	// Unknown proposal
	err = vs.CastVote(uuid.New(), "voter-1", models.VoteValueYes)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestCastVoteCustomBallot(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(
		t,
		vs.CreateProposal(proposal, []string{"red", "green", "blue"}),
	)

	options, err := vs.GetVoteOptions(proposal.ID)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "red", options[0].Label)

	require.NoError(
		t,
		vs.CastVote(proposal.ID, "voter-1", options[0].ID.String()),
	)

	// Fixed literals are off-ballot when custom options exist
	err = vs.CastVote(proposal.ID, "voter-2", models.VoteValueYes)
	require.ErrorIs(t, err, state.ErrUnknownVoteOption)
}

func TestCastVoteOnResolvedProposal(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))
	require.NoError(t, vs.ResolveProposal(proposal.ID, false))

	err := vs.CastVote(proposal.ID, "voter-1", models.VoteValueYes)
	require.ErrorIs(t, err, state.ErrProposalResolved)
}

func TestTallyCustomBallot(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vs.CreateProposal(proposal, []string{"A", "B", "C"}))
	options, err := vs.GetVoteOptions(proposal.ID)
	require.NoError(t, err)

	require.NoError(
		t,
		vs.CastVote(proposal.ID, "voter-1", options[0].ID.String()),
	)
	require.NoError(
		t,
		vs.CastVote(proposal.ID, "voter-2", options[0].ID.String()),
	)
	require.NoError(
		t,
		vs.CastVote(proposal.ID, "voter-3", options[1].ID.String()),
	)

	tallies, err := vs.Tally(proposal.ID)
	require.NoError(t, err)
	require.Len(t, tallies, 3)
	assert.Equal(t, options[0].ID.String(), tallies[0].VoteOptionID)
	assert.Equal(t, int64(2), tallies[0].Count)
	assert.Equal(t, options[1].ID.String(), tallies[1].VoteOptionID)
	assert.Equal(t, int64(1), tallies[1].Count)
	assert.Equal(t, int64(0), tallies[2].Count)
}

func TestTallyFixedBallot(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))
	require.NoError(t, vs.CastVote(proposal.ID, "voter-1", models.VoteValueNo))

	tallies, err := vs.Tally(proposal.ID)
	require.NoError(t, err)
	require.Len(t, tallies, 3)
	// Canonical order with zero counts preserved
	assert.Equal(t, models.VoteValueYes, tallies[0].VoteOptionID)
	assert.Equal(t, int64(0), tallies[0].Count)
	assert.Equal(t, models.VoteValueNo, tallies[1].VoteOptionID)
	assert.Equal(t, int64(1), tallies[1].Count)
	assert.Equal(t, models.VoteValueAbstain, tallies[2].VoteOptionID)
	assert.Equal(t, int64(0), tallies[2].Count)
}

func TestResolveDistributionProposal(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	asset1 := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)
	asset2 := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)

	payload, err := json.Marshal([]uuid.UUID{asset1.ID, asset2.ID})
	require.NoError(t, err)
	proposal := &models.Proposal{
		VaultID:            vault.ID,
		Type:               models.ProposalTypeDistribution,
		DistributionAssets: datatypes.JSON(payload),
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))
	require.NoError(t, vs.ResolveProposal(proposal.ID, true))

	for _, assetID := range []uuid.UUID{asset1.ID, asset2.ID} {
		fetched, err := vs.GetAsset(assetID)
		require.NoError(t, err)
		assert.Equal(t, models.AssetStatusDistributed, fetched.Status)
	}

	// Already resolved
	err = vs.ResolveProposal(proposal.ID, false)
	require.ErrorIs(t, err, state.ErrProposalResolved)
}

func TestResolveDistributionProposalUnlockedAsset(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)
	locked := createTestAsset(t, vs, vault.ID, models.AssetStatusLocked)
	pending := createTestAsset(t, vs, vault.ID, models.AssetStatusPending)

	payload, err := json.Marshal([]uuid.UUID{locked.ID, pending.ID})
	require.NoError(t, err)
	proposal := &models.Proposal{
		VaultID:            vault.ID,
		Type:               models.ProposalTypeDistribution,
		DistributionAssets: datatypes.JSON(payload),
	}
	require.NoError(t, vs.CreateProposal(proposal, nil))

	err = vs.ResolveProposal(proposal.ID, true)
	require.ErrorIs(t, err, state.ErrInvalidTransition)

	// The whole resolution rolled back
	fetchedProposal, err := vs.GetProposal(proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusActive, fetchedProposal.Status)
	fetchedAsset, err := vs.GetAsset(locked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusLocked, fetchedAsset.Status)
}

func TestNormalizeClaimAdaAmount(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	claim := &models.Claim{
		VaultID:  vault.ID,
		Claimant: "addr1",
		Metadata: datatypes.JSONMap{"adaAmount": "2.5", "note": "seed"},
	}
	require.NoError(t, vs.CreateClaim(claim))

	changed, err := vs.NormalizeClaim(claim.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	fetched, err := vs.GetClaim(claim.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LovelaceAmount)
	assert.Equal(t, int64(2_500_000), *fetched.LovelaceAmount)
	assert.NotContains(t, fetched.Metadata, "adaAmount")
	// Unrelated metadata survives
	assert.Equal(t, "seed", fetched.Metadata["note"])
}

func TestNormalizeClaimAlreadyLovelace(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	claim := &models.Claim{
		VaultID:  vault.ID,
		Claimant: "addr1",
		Metadata: datatypes.JSONMap{"adaAmount": "3000000"},
	}
	require.NoError(t, vs.CreateClaim(claim))

	changed, err := vs.NormalizeClaim(claim.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	fetched, err := vs.GetClaim(claim.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LovelaceAmount)
	// At or above one million is already lovelace
	assert.Equal(t, int64(3_000_000), *fetched.LovelaceAmount)
}

func TestNormalizeClaimIdempotent(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	claim := &models.Claim{
		VaultID:  vault.ID,
		Claimant: "addr1",
		Metadata: datatypes.JSONMap{"adaAmount": 0.5},
	}
	require.NoError(t, vs.CreateClaim(claim))

	changed, err := vs.NormalizeClaim(claim.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	first, err := vs.GetClaim(claim.ID)
	require.NoError(t, err)
	require.NotNil(t, first.LovelaceAmount)
	assert.Equal(t, int64(500_000), *first.LovelaceAmount)

	// Second run is a no-op even though the value is below the threshold
	changed, err = vs.NormalizeClaim(claim.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	second, err := vs.GetClaim(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, *first.LovelaceAmount, *second.LovelaceAmount)
}

func TestNormalizeAllClaims(t *testing.T) {
	vs := setupTestState(t)
	vault := createTestVault(t, vs, models.VaultStageLocked)

	for _, amount := range []any{"1.5", "2000000", 3.25} {
		require.NoError(t, vs.CreateClaim(&models.Claim{
			VaultID:  vault.ID,
			Claimant: "addr1",
			Metadata: datatypes.JSONMap{"adaAmount": amount},
		}))
	}
	// One already-normalized claim
	lovelace := int64(7_000_000)
	require.NoError(t, vs.CreateClaim(&models.Claim{
		VaultID:        vault.ID,
		Claimant:       "addr2",
		LovelaceAmount: &lovelace,
		Metadata:       datatypes.JSONMap{},
	}))

	normalized, err := vs.NormalizeAllClaims(2)
	require.NoError(t, err)
	assert.Equal(t, 3, normalized)

	// Second sweep finds nothing to do
	normalized, err = vs.NormalizeAllClaims(2)
	require.NoError(t, err)
	assert.Equal(t, 0, normalized)
}

func TestSettingsMergeSemantics(t *testing.T) {
	vs := setupTestState(t)

	// Defaults are seeded at bootstrap
	fee, err := vs.GetSettingInt64(state.SettingGovernanceFeeStaking, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), fee)

	require.NoError(t, vs.SetSetting("custom_key", "custom_value"))
	require.NoError(t, vs.SetSetting(state.SettingGovernanceFeeVoting, 0))

	fee, err = vs.GetSettingInt64(state.SettingGovernanceFeeVoting, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)

	// Unrelated previously-set key is unaffected
	value, err := vs.GetSetting("custom_key", nil)
	require.NoError(t, err)
	assert.Equal(t, "custom_value", value)

	// Unknown keys read back as the caller default
	value, err = vs.GetSetting("missing_key", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)
}

func TestSettingsDelete(t *testing.T) {
	vs := setupTestState(t)

	require.NoError(t, vs.SetSetting("ephemeral", 42))
	require.NoError(t, vs.DeleteSetting("ephemeral"))
	value, err := vs.GetSetting("ephemeral", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", value)

	// Deleting an absent key is a no-op
	require.NoError(t, vs.DeleteSetting("never_set"))
}
