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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	badgerplugin "github.com/vaultforge/vaultd/database/plugin/blob/badger"
	"github.com/vaultforge/vaultd/database/plugin/metadata/sqlite"
	"github.com/vaultforge/vaultd/state"
)

func newTestApi(t *testing.T) (*Api, *state.VaultState) {
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
	vaultState, err := state.NewVaultState(state.VaultStateConfig{
		Database: db,
	})
	require.NoError(t, err)
	return New(
		ApiConfig{
			ListenAddress: ":0",
		},
		vaultState,
		nil,
	), vaultState
}

func createLockedVault(
	t *testing.T,
	vaultState *state.VaultState,
) *models.Vault {
	t.Helper()
	vault := &models.Vault{Name: "treasury"}
	require.NoError(t, vaultState.CreateVault(vault))
	require.NoError(
		t,
		vaultState.AdvanceVaultStage(vault.ID, models.VaultStageLocked),
	)
	return vault
}

func TestStartStop(t *testing.T) {
	a, _ := newTestApi(t)

	err := a.Start(t.Context())
	require.NoError(t, err)

	// Verify server is running
	a.mu.Lock()
	assert.NotNil(t, a.httpServer)
	a.mu.Unlock()

	stopCtx, stopCancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer stopCancel()
	err = a.Stop(stopCtx)
	require.NoError(t, err)

	// Verify server is stopped
	a.mu.Lock()
	assert.Nil(t, a.httpServer)
	a.mu.Unlock()
}

func TestStartAlreadyStarted(t *testing.T) {
	a, _ := newTestApi(t)

	ctx := t.Context()
	err := a.Start(ctx)
	require.NoError(t, err)
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer stopCancel()
		_ = a.Stop(stopCtx)
	}()

	err = a.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestHandleHealth(t *testing.T) {
	a, _ := newTestApi(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(
		t,
		"application/json",
		w.Header().Get("Content-Type"),
	)

	var resp HealthResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.IsHealthy)
}

func TestHandleCreateVault(t *testing.T) {
	a, _ := newTestApi(t)

	req := httptest.NewRequest(
		http.MethodPost,
		"/vaults",
		strings.NewReader(`{"name":"treasury"}`),
	)
	w := httptest.NewRecorder()
	a.handleCreateVault(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp VaultResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "treasury", resp.Name)
	assert.Equal(t, string(models.VaultStageDraft), resp.Stage)
	assert.NotEmpty(t, resp.ID)
}

func TestHandleCreateVaultBadStage(t *testing.T) {
	a, _ := newTestApi(t)

	req := httptest.NewRequest(
		http.MethodPost,
		"/vaults",
		strings.NewReader(`{"name":"treasury","stage":"bogus"}`),
	)
	w := httptest.NewRecorder()
	a.handleCreateVault(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateVaultNonDraftStage(t *testing.T) {
	a, _ := newTestApi(t)

	req := httptest.NewRequest(
		http.MethodPost,
		"/vaults",
		strings.NewReader(`{"name":"treasury","stage":"locked"}`),
	)
	w := httptest.NewRecorder()
	a.handleCreateVault(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateAssetNonPendingStatus(t *testing.T) {
	a, vaultState := newTestApi(t)

	vault := createLockedVault(t, vaultState)

	req := httptest.NewRequest(
		http.MethodPost,
		"/assets",
		strings.NewReader(
			`{"vault_id":"`+vault.ID.String()+
				`","policy_id":"policy0","status":"distributed"}`,
		),
	)
	w := httptest.NewRecorder()
	a.handleCreateAsset(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleVaultStageConflict(t *testing.T) {
	a, vaultState := newTestApi(t)

	vault := createLockedVault(t, vaultState)

	req := httptest.NewRequest(
		http.MethodPost,
		"/vaults/"+vault.ID.String()+"/stage",
		strings.NewReader(`{"stage":"draft"}`),
	)
	req.SetPathValue("id", vault.ID.String())
	w := httptest.NewRecorder()
	a.handleVaultStage(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleGetVaultNotFound(t *testing.T) {
	a, _ := newTestApi(t)

	missing := "2f8a2b7e-55c3-4b8e-9a65-0d4d1f6f9f11"
	req := httptest.NewRequest(
		http.MethodGet,
		"/vaults/"+missing,
		nil,
	)
	req.SetPathValue("id", missing)
	w := httptest.NewRecorder()
	a.handleGetVault(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCreateProposalBadPayload(t *testing.T) {
	a, vaultState := newTestApi(t)

	vault := createLockedVault(t, vaultState)

	// Termination without reason or date
	req := httptest.NewRequest(
		http.MethodPost,
		"/proposals",
		strings.NewReader(
			`{"vault_id":"`+vault.ID.String()+`","type":"termination"}`,
		),
	)
	w := httptest.NewRecorder()
	a.handleCreateProposal(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "termination")
}

func TestHandleVoteLifecycle(t *testing.T) {
	a, vaultState := newTestApi(t)

	vault := createLockedVault(t, vaultState)
	proposal := &models.Proposal{
		VaultID: vault.ID,
		Type:    models.ProposalTypeVoting,
	}
	require.NoError(t, vaultState.CreateProposal(proposal, nil))

	castVote := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(
			http.MethodPost,
			"/proposals/"+proposal.ID.String()+"/votes",
			strings.NewReader(body),
		)
		req.SetPathValue("id", proposal.ID.String())
		w := httptest.NewRecorder()
		a.handleCastVote(w, req)
		return w
	}

	w := castVote(`{"voter_id":"voter-1","value":"yes"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Duplicate vote conflicts
	w = castVote(`{"voter_id":"voter-1","value":"no"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Off-ballot value is a validation failure
	w = castVote(`{"voter_id":"voter-2","value":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tally reflects the single vote
	req := httptest.NewRequest(
		http.MethodGet,
		"/proposals/"+proposal.ID.String()+"/tally",
		nil,
	)
	req.SetPathValue("id", proposal.ID.String())
	tallyRec := httptest.NewRecorder()
	a.handleTally(tallyRec, req)

	require.Equal(t, http.StatusOK, tallyRec.Code)
	var tally []TallyEntry
	err := json.NewDecoder(tallyRec.Body).Decode(&tally)
	require.NoError(t, err)
	require.Len(t, tally, 3)
	assert.Equal(t, models.VoteValueYes, tally[0].VoteOptionID)
	assert.Equal(t, int64(1), tally[0].Count)
}

func TestHandleNormalizeClaim(t *testing.T) {
	a, vaultState := newTestApi(t)

	vault := createLockedVault(t, vaultState)

	createReq := httptest.NewRequest(
		http.MethodPost,
		"/claims",
		strings.NewReader(
			`{"vault_id":"`+vault.ID.String()+
				`","claimant":"addr1","metadata":{"adaAmount":"2.5"}}`,
		),
	)
	createRec := httptest.NewRecorder()
	a.handleCreateClaim(createRec, createReq)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var created ClaimResponse
	err := json.NewDecoder(createRec.Body).Decode(&created)
	require.NoError(t, err)

	normReq := httptest.NewRequest(
		http.MethodPost,
		"/claims/"+created.ID+"/normalize",
		nil,
	)
	normReq.SetPathValue("id", created.ID)
	normRec := httptest.NewRecorder()
	a.handleNormalizeClaim(normRec, normReq)

	require.Equal(t, http.StatusOK, normRec.Code)
	var norm NormalizeClaimResponse
	err = json.NewDecoder(normRec.Body).Decode(&norm)
	require.NoError(t, err)
	assert.True(t, norm.Changed)

	getReq := httptest.NewRequest(
		http.MethodGet,
		"/claims/"+created.ID,
		nil,
	)
	getReq.SetPathValue("id", created.ID)
	getRec := httptest.NewRecorder()
	a.handleGetClaim(getRec, getReq)

	require.Equal(t, http.StatusOK, getRec.Code)
	var claim ClaimResponse
	err = json.NewDecoder(getRec.Body).Decode(&claim)
	require.NoError(t, err)
	require.NotNil(t, claim.LovelaceAmount)
	assert.Equal(t, int64(2_500_000), *claim.LovelaceAmount)
	assert.NotContains(t, claim.Metadata, "adaAmount")
}

func TestHandleSettings(t *testing.T) {
	a, _ := newTestApi(t)

	putReq := httptest.NewRequest(
		http.MethodPut,
		"/settings/governance_fee_voting",
		strings.NewReader(`{"value":0}`),
	)
	putReq.SetPathValue("key", "governance_fee_voting")
	putRec := httptest.NewRecorder()
	a.handlePutSetting(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)

	getReq := httptest.NewRequest(
		http.MethodGet,
		"/settings/governance_fee_voting",
		nil,
	)
	getReq.SetPathValue("key", "governance_fee_voting")
	getRec := httptest.NewRecorder()
	a.handleGetSetting(getRec, getReq)

	require.Equal(t, http.StatusOK, getRec.Code)
	var resp SettingResponse
	err := json.NewDecoder(getRec.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.Value)

	delReq := httptest.NewRequest(
		http.MethodDelete,
		"/settings/governance_fee_voting",
		nil,
	)
	delReq.SetPathValue("key", "governance_fee_voting")
	delRec := httptest.NewRecorder()
	a.handleDeleteSetting(delRec, delReq)
	assert.Equal(t, http.StatusNoContent, delRec.Code)

	getRec = httptest.NewRecorder()
	a.handleGetSetting(getRec, getReq)
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}
